package timeline

import (
	"math"

	"github.com/daniswara/board/internal/models"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette of schedule-health colors.
var (
	DoneColor    = mustHex("#10b981")
	HealthyColor = mustHex("#10b981")
	AtRiskColor  = mustHex("#f43f5e")
	OverdueColor = mustHex("#f43f5e")
	// NeutralColor fills bars whose dates cannot be read.
	NeutralColor = mustHex("#6366f1")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Health is the schedule state a bar color encodes.
type Health int

const (
	HealthUnknown Health = iota
	HealthDone
	HealthOnSchedule
	HealthOverdue
)

func (h Health) String() string {
	switch h {
	case HealthDone:
		return "done"
	case HealthOnSchedule:
		return "on schedule"
	case HealthOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

// Classify returns the health of t as of today. A task is overdue only when
// today is strictly after its end date; on the end date itself it is still
// on schedule, at elapsed fraction 1.
func Classify(t *models.Task, today Day) Health {
	if t.IsDone() {
		return HealthDone
	}
	_, end, _, ok := TaskSpan(t)
	if !ok {
		return HealthUnknown
	}
	if today.After(end) {
		return HealthOverdue
	}
	return HealthOnSchedule
}

// ElapsedFraction is how far today has progressed from start toward end,
// clamped to [0, 1]. Zero-length ranges use a one-day denominator.
func ElapsedFraction(start, end, today Day) float64 {
	total := end.Sub(start)
	if total < 1 {
		total = 1
	}
	f := float64(today.Sub(start)) / float64(total)
	return math.Min(math.Max(f, 0), 1)
}

// ColorFor returns the bar fill for t as of today.
func ColorFor(t *models.Task, today Day) colorful.Color {
	switch Classify(t, today) {
	case HealthDone:
		return DoneColor
	case HealthOverdue:
		return OverdueColor
	case HealthOnSchedule:
		start, end, _, _ := TaskSpan(t)
		return HealthyColor.BlendRgb(AtRiskColor, ElapsedFraction(start, end, today)).Clamped()
	default:
		return NeutralColor
	}
}

// HexFor is ColorFor rendered as "#rrggbb".
func HexFor(t *models.Task, today Day) string {
	return ColorFor(t, today).Hex()
}
