// Package render turns a board snapshot into a drawable scene and writes it
// out as SVG. It also maps pointer positions back to tasks.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
)

// Input is everything one render pass depends on. Tasks are drawn in the
// given order, one row each.
type Input struct {
	Window   timeline.Window
	Tasks    []models.Task
	Projects []models.Project
	Holidays []models.Holiday
	Numbers  map[string]string
	// Today defaults to the current day when zero.
	Today timeline.Day
	// ContainerWidth is the measured width in px; 0 means not measured yet.
	ContainerWidth float64
	Density        timeline.Density
	// Highlight is the id of the task to emphasise, if any.
	Highlight string
}

// MonthLabel marks the first visible day of a month.
type MonthLabel struct {
	X    float64 `json:"x"`
	Text string  `json:"text"`
}

// DayLabel is the header text above one column. X is the column center.
type DayLabel struct {
	X       float64 `json:"x"`
	Text    string  `json:"text"`
	Initial string  `json:"initial,omitempty"`
	Holiday bool    `json:"holiday"`
	Sunday  bool    `json:"sunday"`
}

// Header is the timeline header row.
type Header struct {
	Months []MonthLabel `json:"months"`
	Days   []DayLabel   `json:"days"`
}

// TodayMarker is the dashed vertical line through the current day.
type TodayMarker struct {
	X float64 `json:"x"`
}

// BarView is a bar ready to draw.
type BarView struct {
	timeline.Bar
	Color string `json:"color"`
	// Title is empty when the bar is too narrow to hold it.
	Title       string `json:"title,omitempty"`
	Highlighted bool   `json:"highlighted"`
}

// LabelRow is one row of the fixed label column.
type LabelRow struct {
	TaskID   string  `json:"task_id"`
	Row      int     `json:"row"`
	Y        float64 `json:"y"`
	Number   string  `json:"number"`
	Title    string  `json:"title"`
	SubLabel string  `json:"sub_label"`
}

// Scene is a fully laid out board. Coordinates of bars and the today marker
// are relative to the chart origin; the chart sits at
// (Metrics.LabelColumnWidth, Metrics.HeaderHeight) in scene space.
type Scene struct {
	Metrics  timeline.Metrics  `json:"metrics"`
	Geometry timeline.Geometry `json:"geometry"`
	Header   Header            `json:"header"`
	Today    *TodayMarker      `json:"today,omitempty"`
	Bars     []BarView         `json:"bars"`
	Labels   []LabelRow        `json:"labels"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Skipped  []timeline.Skip   `json:"skipped,omitempty"`
	tasks    map[string]*models.Task
}

// Empty reports whether there is no day to draw.
func (s *Scene) Empty() bool {
	return len(s.Geometry.Columns) == 0
}

// Task returns the task with the given id.
func (s *Scene) Task(id string) (*models.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Renderer builds scenes. Widths, if set, supplies the container width when
// an Input leaves it at 0.
type Renderer struct {
	Widths *timeline.WidthCache
	Now    func() time.Time
}

// NewRenderer returns a Renderer reading container widths from widths.
func NewRenderer(widths *timeline.WidthCache) *Renderer {
	return &Renderer{Widths: widths, Now: time.Now}
}

// Scene lays out in. It never fails: tasks with unusable dates keep their
// label row and are listed in Skipped.
func (r *Renderer) Scene(in Input) *Scene {
	width := in.ContainerWidth
	if width <= 0 && r.Widths != nil {
		width = r.Widths.Width()
	}
	today := in.Today
	if !today.Valid() {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		today = timeline.DayOf(now())
	}

	narrow := timeline.IsNarrow(width)
	m := timeline.ComputeLayout(width, in.Window.Len(), in.Density, narrow)
	g := timeline.BuildGeometry(in.Window, in.Tasks, in.Holidays, m)

	s := &Scene{
		Metrics:  m,
		Geometry: g,
		Skipped:  g.Skipped,
		tasks:    make(map[string]*models.Task, len(in.Tasks)),
	}
	for i := range in.Tasks {
		s.tasks[in.Tasks[i].ID] = &in.Tasks[i]
	}
	if s.Empty() {
		return s
	}

	s.Width = m.LabelColumnWidth + g.ChartWidth()
	s.Height = m.HeaderHeight + g.ChartHeight() + 40
	s.Header = buildHeader(g, narrow)

	if in.Window.Contains(today) {
		s.Today = &TodayMarker{X: m.DayOffsetX(in.Window, today) + m.ColumnWidth/2}
	}

	for _, b := range g.Bars {
		t := s.tasks[b.TaskID]
		v := BarView{
			Bar:         b,
			Color:       timeline.HexFor(t, today),
			Highlighted: in.Highlight != "" && in.Highlight == b.TaskID,
		}
		if b.Width > timeline.TitleMinBarWidth {
			v.Title = t.Title
		}
		s.Bars = append(s.Bars, v)
	}

	projects := make(map[string]*models.Project, len(in.Projects))
	for i := range in.Projects {
		projects[in.Projects[i].ID] = &in.Projects[i]
	}
	for i := range in.Tasks {
		t := &in.Tasks[i]
		title := t.Title
		if title == "" {
			title = "Untitled"
		}
		s.Labels = append(s.Labels, LabelRow{
			TaskID:   t.ID,
			Row:      i,
			Y:        float64(i) * m.RowHeight,
			Number:   in.Numbers[t.ID],
			Title:    title,
			SubLabel: SubLabel(t, projects[t.ProjectID]),
		})
	}
	return s
}

// SubLabel is the upper-cased "PROJECT | DIVISION" line under a task title,
// or just the division when the task has no known project.
func SubLabel(t *models.Task, p *models.Project) string {
	div := string(t.Division.OrGeneral())
	if p == nil {
		return strings.ToUpper(div)
	}
	return strings.ToUpper(p.Name + " | " + div)
}

func buildHeader(g timeline.Geometry, narrow bool) Header {
	var h Header
	m := g.Metrics
	for i, c := range g.Columns {
		if c.Day.Dom == 1 || i == 0 {
			layout := "January 2006"
			if narrow {
				layout = "Jan"
			}
			h.Months = append(h.Months, MonthLabel{
				X:    c.X + 6,
				Text: strings.ToUpper(c.Day.Time().Format(layout)),
			})
		}
		if !m.Compact && c.Day.Dom%5 != 0 && c.Day.Dom != 1 {
			continue
		}
		l := DayLabel{
			X:       c.X + m.ColumnWidth/2,
			Text:    strconv.Itoa(c.Day.Dom),
			Holiday: c.Holiday != nil,
			Sunday:  c.Day.Weekday() == time.Sunday,
		}
		if m.Compact {
			l.Initial = c.Day.Weekday().String()[:1]
		}
		h.Days = append(h.Days, l)
	}
	return h
}
