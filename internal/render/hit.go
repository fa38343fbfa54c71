package render

import (
	"math"

	"github.com/daniswara/board/internal/models"
)

// HitKind says what part of the board a point landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitBar
	HitLabel
)

func (k HitKind) String() string {
	switch k {
	case HitBar:
		return "bar"
	case HitLabel:
		return "label"
	default:
		return "none"
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Kind   HitKind `json:"kind"`
	TaskID string  `json:"task_id"`
	Row    int     `json:"row"`
}

// HitTest finds the bar or label row under (x, y), given in scene space with
// the chart unscrolled. Points in the chart area outside the clip are ignored,
// as is the header. Later bars win over earlier ones, matching draw order.
func (s *Scene) HitTest(x, y float64) (Hit, bool) {
	if s.Empty() || math.IsNaN(x) || math.IsNaN(y) {
		return Hit{}, false
	}
	m := s.Metrics
	cy := y - m.HeaderHeight
	if cy < 0 {
		return Hit{}, false
	}

	if x >= 0 && x < m.LabelColumnWidth {
		row := int(cy / m.RowHeight)
		if row >= len(s.Labels) {
			return Hit{}, false
		}
		l := s.Labels[row]
		return Hit{Kind: HitLabel, TaskID: l.TaskID, Row: l.Row}, true
	}

	cx := x - m.LabelColumnWidth
	if cx < 0 || cx >= s.Geometry.ChartWidth() {
		return Hit{}, false
	}
	for i := len(s.Bars) - 1; i >= 0; i-- {
		b := s.Bars[i]
		if cx >= b.X && cx < b.X+b.Width && cy >= b.Y && cy < b.Y+b.Height {
			return Hit{Kind: HitBar, TaskID: b.TaskID, Row: b.Row}, true
		}
	}
	return Hit{}, false
}

// Callbacks receive clicks on the board. Either may be nil.
type Callbacks struct {
	OnTaskClick  func(t models.Task)
	OnLabelClick func(t models.Task)
}

// Dispatch hit-tests (x, y) and calls the matching callback. It returns the
// hit, or false when nothing was clicked.
func Dispatch(s *Scene, x, y float64, cb Callbacks) (Hit, bool) {
	h, ok := s.HitTest(x, y)
	if !ok {
		return h, false
	}
	t, found := s.Task(h.TaskID)
	if !found {
		return h, false
	}
	switch h.Kind {
	case HitBar:
		if cb.OnTaskClick != nil {
			cb.OnTaskClick(*t)
		}
	case HitLabel:
		if cb.OnLabelClick != nil {
			cb.OnLabelClick(*t)
		}
	}
	return h, true
}
