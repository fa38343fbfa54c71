package timeline

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/daniswara/board/internal/models"
)

// HighlightDuration is how long a jumped-to task stays highlighted.
const HighlightDuration = time.Second

// Viewport is the horizontally scrollable surface the chart is drawn in.
type Viewport interface {
	ScrollTo(x float64, smooth bool)
}

// ScrollOffset returns the horizontal scroll position that brings t's start
// into view with ScrollLead pixels of context, clamped at 0.
func ScrollOffset(t *models.Task, w Window, m Metrics) (float64, bool) {
	start, ok := ParseDay(t.StartDate)
	if !ok || w.Len() == 0 {
		return 0, false
	}
	return math.Max(0, m.DayOffsetX(w, start)-ScrollLead), true
}

// ScrollController moves a Viewport to a task's bar.
type ScrollController struct {
	Viewport Viewport
	Smooth   bool
}

// NewScrollController returns a controller that scrolls v smoothly.
func NewScrollController(v Viewport) *ScrollController {
	return &ScrollController{Viewport: v, Smooth: true}
}

// ScrollToTask scrolls to t's start. It does nothing and returns false when
// the start date is unreadable or outside w; the caller then re-anchors the
// window with PlanJump, recomputes the layout, and calls again.
func (c *ScrollController) ScrollToTask(t *models.Task, w Window, m Metrics) bool {
	start, ok := ParseDay(t.StartDate)
	if !ok || !w.Contains(start) || c.Viewport == nil {
		return false
	}
	x, _ := ScrollOffset(t, w, m)
	c.Viewport.ScrollTo(x, c.Smooth)
	return true
}

// Jump is the plan for bringing a task into view.
type Jump struct {
	TaskID string
	// Anchor is the day to anchor the window on; only set when Shift is true.
	Anchor Day
	Shift  bool
}

// PlanJump decides whether w must move before scrolling to t. It returns
// false when t has no readable start date.
func PlanJump(t *models.Task, w Window) (Jump, bool) {
	start, ok := ParseDay(t.StartDate)
	if !ok {
		return Jump{}, false
	}
	j := Jump{TaskID: t.ID}
	if !w.Contains(start) {
		j.Anchor = start.StartOfMonth()
		j.Shift = true
	}
	return j, true
}

// Timer is the part of *time.Timer the Highlighter needs.
type Timer interface {
	Stop() bool
}

// Highlighter holds the id of the task to emphasise and clears it after a
// fixed delay. A new Set supersedes any pending clear.
type Highlighter struct {
	Duration time.Duration
	// AfterFunc schedules f; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer
	// OnChange, if set, is called with the new id ("" when cleared).
	OnChange func(id string)

	mu    sync.Mutex
	id    string
	gen   uint64
	timer Timer
}

// NewHighlighter returns a Highlighter with the default duration.
func NewHighlighter(onChange func(id string)) *Highlighter {
	return &Highlighter{Duration: HighlightDuration, OnChange: onChange}
}

// Set highlights id and schedules the clear.
func (h *Highlighter) Set(id string) {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.id = id

	after := h.AfterFunc
	if after == nil {
		after = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	d := h.Duration
	if d <= 0 {
		d = HighlightDuration
	}
	h.timer = after(d, func() { h.expire(gen) })
	onChange := h.OnChange
	h.mu.Unlock()

	if onChange != nil {
		onChange(id)
	}
}

// Current returns the highlighted id, or "".
func (h *Highlighter) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id
}

// Cancel clears the highlight immediately.
func (h *Highlighter) Cancel() {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
	changed := h.id != ""
	h.id = ""
	onChange := h.OnChange
	h.mu.Unlock()

	if changed && onChange != nil {
		onChange("")
	}
}

func (h *Highlighter) expire(gen uint64) {
	h.mu.Lock()
	if gen != h.gen {
		h.mu.Unlock()
		return
	}
	h.id = ""
	h.timer = nil
	onChange := h.OnChange
	h.mu.Unlock()

	if onChange != nil {
		onChange("")
	}
}

// WidthCache holds the last measured container width. It is written by the
// resize observer and read during layout, possibly from another goroutine.
type WidthCache struct {
	bits atomic.Uint64
}

// Observe records a new measurement. Negative or NaN widths store 0.
func (c *WidthCache) Observe(width float64) {
	if math.IsNaN(width) || width < 0 {
		width = 0
	}
	c.bits.Store(math.Float64bits(width))
}

// Width returns the last measurement, 0 if none.
func (c *WidthCache) Width() float64 {
	return math.Float64frombits(c.bits.Load())
}
