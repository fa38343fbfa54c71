package timeline

import (
	"math"

	"github.com/daniswara/board/internal/models"
)

// SkipReason explains why a task got no bar.
type SkipReason string

const (
	SkipMissingDate SkipReason = "missing date"
	SkipInvalidDate SkipReason = "invalid date"
	SkipInverted    SkipReason = "start after end"
)

// Bar is the pixel rectangle of one task, relative to the chart origin
// (first day column, first row).
type Bar struct {
	TaskID string  `json:"task_id"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Start  Day     `json:"-"`
	End    Day     `json:"-"`
}

// Column is one day of the grid.
type Column struct {
	Day     Day             `json:"day"`
	X       float64         `json:"x"`
	Weekend bool            `json:"weekend"`
	Holiday *models.Holiday `json:"holiday,omitempty"`
}

// NonWorking reports whether the column is shaded.
func (c Column) NonWorking() bool {
	return c.Weekend || c.Holiday != nil
}

// Skip records a task left out of the layout.
type Skip struct {
	TaskID string     `json:"task_id"`
	Reason SkipReason `json:"reason"`
}

// Geometry is the full layout of one render pass.
type Geometry struct {
	Window  Window   `json:"window"`
	Metrics Metrics  `json:"metrics"`
	Columns []Column `json:"columns"`
	Bars    []Bar    `json:"bars"`
	Skipped []Skip   `json:"skipped,omitempty"`
	Rows    int      `json:"rows"`
}

// ChartWidth is the width of the day grid.
func (g *Geometry) ChartWidth() float64 {
	return g.Metrics.ChartWidth(len(g.Columns))
}

// ChartHeight is the height of the row area.
func (g *Geometry) ChartHeight() float64 {
	return g.Metrics.ChartHeight(g.Rows)
}

// BarFor returns the bar of the task with the given id.
func (g *Geometry) BarFor(taskID string) (Bar, bool) {
	for _, b := range g.Bars {
		if b.TaskID == taskID {
			return b, true
		}
	}
	return Bar{}, false
}

// HolidayIndex maps each parseable holiday to its calendar day. When two
// entries share a day the first wins.
func HolidayIndex(holidays []models.Holiday) map[Day]*models.Holiday {
	idx := make(map[Day]*models.Holiday, len(holidays))
	for i := range holidays {
		d, ok := ParseDay(holidays[i].Date)
		if !ok {
			continue
		}
		if _, dup := idx[d]; !dup {
			idx[d] = &holidays[i]
		}
	}
	return idx
}

// TaskSpan parses a task's date range. It fails for missing, malformed or
// inverted dates.
func TaskSpan(t *models.Task) (start, end Day, reason SkipReason, ok bool) {
	if t.StartDate == "" || t.EndDate == "" {
		return Day{}, Day{}, SkipMissingDate, false
	}
	start, okStart := ParseDay(t.StartDate)
	end, okEnd := ParseDay(t.EndDate)
	if !okStart || !okEnd {
		return Day{}, Day{}, SkipInvalidDate, false
	}
	if start.After(end) {
		return Day{}, Day{}, SkipInverted, false
	}
	return start, end, "", true
}

// DurationDays is the inclusive length of a task in days, at least 1.
func DurationDays(start, end Day) int {
	n := end.Sub(start) + 1
	if n < 1 {
		return 1
	}
	return n
}

// BuildGeometry lays out the window's columns and one bar per task. Row i
// belongs to tasks[i] whether or not it got a bar, so labels stay aligned.
// An empty window yields no columns and no bars.
func BuildGeometry(w Window, tasks []models.Task, holidays []models.Holiday, m Metrics) Geometry {
	g := Geometry{Window: w, Metrics: m, Rows: len(tasks)}

	days := w.Days()
	if len(days) == 0 {
		return g
	}
	hidx := HolidayIndex(holidays)
	g.Columns = make([]Column, len(days))
	for i, d := range days {
		g.Columns[i] = Column{Day: d, X: m.DayX(i), Weekend: d.IsWeekend(), Holiday: hidx[d]}
	}

	for i := range tasks {
		t := &tasks[i]
		start, end, reason, ok := TaskSpan(t)
		if !ok {
			g.Skipped = append(g.Skipped, Skip{TaskID: t.ID, Reason: reason})
			continue
		}
		x := m.DayOffsetX(w, start)
		width := math.Max(float64(DurationDays(start, end))*m.ColumnWidth, MinBarWidth)
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(width) || math.IsInf(width, 0) {
			g.Skipped = append(g.Skipped, Skip{TaskID: t.ID, Reason: SkipInvalidDate})
			continue
		}
		g.Bars = append(g.Bars, Bar{
			TaskID: t.ID,
			Row:    i,
			X:      x,
			Y:      float64(i)*m.RowHeight + m.BarPadding,
			Width:  width,
			Height: m.BarHeight(),
			Start:  start,
			End:    end,
		})
	}
	return g
}
