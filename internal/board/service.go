// Package board assembles snapshots from the store and turns them into
// rendered Gantt boards.
package board

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/render"
	"github.com/daniswara/board/internal/timeline"
)

// Source supplies the raw board data.
type Source interface {
	ListTasks() ([]models.Task, error)
	ListProjects() ([]models.Project, error)
	ListHolidays() ([]models.Holiday, error)
}

// Snapshot is the full board state at one moment.
type Snapshot struct {
	Tasks    []models.Task    `json:"tasks" yaml:"tasks"`
	Projects []models.Project `json:"projects" yaml:"projects"`
	Holidays []models.Holiday `json:"holidays" yaml:"holidays"`
}

// Query selects what part of the board to draw.
type Query struct {
	// Anchor is any day of the first visible month; zero means today.
	Anchor  timeline.Day
	Density timeline.Density
	// Width is the container width in px; 0 lets the renderer use its cache.
	Width     float64
	Filter    Filter
	Highlight string
	// Today overrides the current day, mainly for tests.
	Today timeline.Day
}

// View is a rendered board plus the data behind it.
type View struct {
	Window  timeline.Window   `json:"window"`
	Numbers map[string]string `json:"numbers"`
	Scene   *render.Scene     `json:"scene"`
	Tasks   []models.Task     `json:"tasks"`
	Stats   Stats             `json:"stats"`
}

// Stats are the dashboard counters.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	// Efficiency is the completed share in whole percent.
	Efficiency int `json:"efficiency"`
}

// ClickResult describes what a click on the board hit.
type ClickResult struct {
	Hit  render.Hit   `json:"hit"`
	Task *models.Task `json:"task"`
	// ScrollX is set for label clicks: where the chart should scroll to,
	// measured in the window anchored at Anchor.
	ScrollX   float64 `json:"scroll_x,omitempty"`
	Highlight string  `json:"highlight,omitempty"`
	// Anchor and Shifted are set for label clicks on tasks starting outside
	// the shown window: the client re-anchors before scrolling.
	Anchor  timeline.Day `json:"anchor,omitempty"`
	Shifted bool         `json:"shifted,omitempty"`
}

// JumpResult tells a client how to bring a task into view.
type JumpResult struct {
	TaskID string       `json:"task_id"`
	Number string       `json:"number"`
	Anchor timeline.Day `json:"anchor"`
	// Shifted is true when the window had to move to the task's month.
	Shifted bool    `json:"shifted"`
	ScrollX float64 `json:"scroll_x"`
	// HighlightFor is how long clients keep the task highlighted.
	HighlightFor time.Duration `json:"highlight_for"`
}

// Service builds boards from a Source.
type Service struct {
	src      Source
	renderer *render.Renderer
	rec      *audit.Recorder
	now      func() time.Time
}

// NewService creates a board service. widths may be nil.
func NewService(src Source, rec *audit.Recorder, widths *timeline.WidthCache) *Service {
	return &Service{
		src:      src,
		renderer: render.NewRenderer(widths),
		rec:      rec,
		now:      time.Now,
	}
}

// SetClock replaces the service clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.renderer.Now = now
}

// ObserveWidth records the latest container width for queries that do not
// carry one.
func (s *Service) ObserveWidth(width float64) {
	if s.renderer.Widths != nil {
		s.renderer.Widths.Observe(width)
	}
}

// Snapshot loads every task, project and holiday.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tasks, err := s.src.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	projects, err := s.src.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	holidays, err := s.src.ListHolidays()
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return &Snapshot{Tasks: tasks, Projects: projects, Holidays: holidays}, nil
}

func (s *Service) today(q Query) timeline.Day {
	if q.Today.Valid() {
		return q.Today
	}
	return timeline.DayOf(s.now())
}

// Board renders the board for q.
func (s *Service) Board(ctx context.Context, q Query) (*View, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	v := BuildView(s.renderer, snap, q, s.today(q))
	s.rec.Record(audit.ActionRender, q, "", fmt.Sprintf("%s, %d rows", v.Window, len(v.Tasks)))
	return v, nil
}

// BuildView lays out snap without touching any store. Numbers cover every
// task; only the filtered tasks get rows.
func BuildView(r *render.Renderer, snap *Snapshot, q Query, today timeline.Day) *View {
	anchor := q.Anchor
	if !anchor.Valid() {
		anchor = today
	}
	w := timeline.WindowFor(anchor, q.Density)
	numbers := timeline.AssignNumbers(snap.Tasks, snap.Projects)
	shown := q.Filter.Apply(snap.Tasks)

	scene := r.Scene(render.Input{
		Window:         w,
		Tasks:          shown,
		Projects:       snap.Projects,
		Holidays:       snap.Holidays,
		Numbers:        numbers,
		Today:          today,
		ContainerWidth: q.Width,
		Density:        q.Density,
		Highlight:      q.Highlight,
	})
	return &View{
		Window:  w,
		Numbers: numbers,
		Scene:   scene,
		Tasks:   shown,
		Stats:   ComputeStats(snap.Tasks),
	}
}

// RenderSVG writes the board for q as SVG.
func (s *Service) RenderSVG(ctx context.Context, q Query, w io.Writer) error {
	v, err := s.Board(ctx, q)
	if err != nil {
		return err
	}
	return render.WriteSVG(w, v.Scene)
}

// Click resolves a click at (x, y) in scene space. It returns nil when
// nothing was hit. Label clicks carry the window anchor, scroll position
// and highlight that bring the task's bar into view, as Jump does.
func (s *Service) Click(ctx context.Context, q Query, x, y float64) (*ClickResult, error) {
	v, err := s.Board(ctx, q)
	if err != nil {
		return nil, err
	}

	var res *ClickResult
	hit, ok := render.Dispatch(v.Scene, x, y, render.Callbacks{
		OnTaskClick: func(t models.Task) {
			res = &ClickResult{Task: &t}
			s.rec.Record(audit.ActionClickBar, map[string]float64{"x": x, "y": y}, t.ID, "")
		},
		OnLabelClick: func(t models.Task) {
			res = &ClickResult{Task: &t, Highlight: t.ID, Anchor: v.Window.Start}
			plan, ok := timeline.PlanJump(&t, v.Window)
			if !ok {
				return
			}
			w, m := v.Window, v.Scene.Metrics
			if plan.Shift {
				res.Anchor = plan.Anchor
				res.Shifted = true
				w = timeline.WindowFor(plan.Anchor, q.Density)
				m = s.metrics(q, w)
			}
			res.ScrollX, _ = timeline.ScrollOffset(&t, w, m)
			s.rec.Record(audit.ActionClickLabel, map[string]float64{"x": x, "y": y}, t.ID, "")
		},
	})
	if !ok || res == nil {
		return nil, nil
	}
	res.Hit = hit
	return res, nil
}

// Jump finds a task by id or by its board number ("1.2") and plans how to
// bring it into view from the window anchored at q.Anchor.
func (s *Service) Jump(ctx context.Context, q Query, ref string) (*JumpResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	numbers := timeline.AssignNumbers(snap.Tasks, snap.Projects)
	id := strings.TrimSpace(ref)
	if byNumber, ok := timeline.FindByNumber(numbers, ref); ok {
		id = byNumber
	}

	var task *models.Task
	for i := range snap.Tasks {
		if snap.Tasks[i].ID == id {
			task = &snap.Tasks[i]
			break
		}
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	anchor := q.Anchor
	if !anchor.Valid() {
		anchor = s.today(q)
	}
	w := timeline.WindowFor(anchor, q.Density)
	plan, ok := timeline.PlanJump(task, w)
	if !ok {
		return nil, ErrNoStartDate
	}
	res := &JumpResult{
		TaskID:       task.ID,
		Number:       numbers[task.ID],
		Anchor:       w.Start,
		Shifted:      plan.Shift,
		HighlightFor: timeline.HighlightDuration,
	}
	if plan.Shift {
		res.Anchor = plan.Anchor
		w = timeline.WindowFor(plan.Anchor, q.Density)
	}

	res.ScrollX, _ = timeline.ScrollOffset(task, w, s.metrics(q, w))
	return res, nil
}

// metrics lays out w at the query width, falling back to the width cache.
func (s *Service) metrics(q Query, w timeline.Window) timeline.Metrics {
	width := q.Width
	if width <= 0 && s.renderer.Widths != nil {
		width = s.renderer.Widths.Width()
	}
	return timeline.ComputeLayout(width, w.Len(), q.Density, timeline.IsNarrow(width))
}

// Stats counts every task.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	tasks, err := s.src.ListTasks()
	if err != nil {
		return Stats{}, fmt.Errorf("list tasks: %w", err)
	}
	return ComputeStats(tasks), nil
}

// ComputeStats counts tasks by their completed flag.
func ComputeStats(tasks []models.Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	if st.Total > 0 {
		st.Efficiency = (st.Completed*100 + st.Total/2) / st.Total
	}
	return st
}
