package timeline

import (
	"sync"
	"testing"
	"time"

	"github.com/daniswara/board/internal/models"
)

type fakeViewport struct {
	calls []float64
}

func (v *fakeViewport) ScrollTo(x float64, smooth bool) {
	v.calls = append(v.calls, x)
}

func TestScrollOffset(t *testing.T) {
	w := WindowFor(MustParseDay("2025-03-01"), Compact)
	m := ComputeLayout(0, w.Len(), Compact, false)
	m.ColumnWidth = 40

	tests := []struct {
		start string
		want  float64
	}{
		{"2025-03-01", 0},
		{"2025-03-03", 0},
		{"2025-03-04", 20},
		{"2025-03-21", 700},
	}
	for _, tt := range tests {
		got, ok := ScrollOffset(&models.Task{StartDate: tt.start}, w, m)
		if !ok || got != tt.want {
			t.Errorf("start %s: expected %v, got %v (%v)", tt.start, tt.want, got, ok)
		}
	}
	if _, ok := ScrollOffset(&models.Task{StartDate: "??"}, w, m); ok {
		t.Error("Expected no offset for unreadable start date")
	}
}

func TestScrollToTask(t *testing.T) {
	w := WindowFor(MustParseDay("2025-03-01"), Compact)
	m := ComputeLayout(0, w.Len(), Compact, false)
	vp := &fakeViewport{}
	c := NewScrollController(vp)

	if !c.ScrollToTask(&models.Task{StartDate: "2025-03-11"}, w, m) {
		t.Fatal("Expected scroll for in-window task")
	}
	if len(vp.calls) != 1 || vp.calls[0] != 10*40-ScrollLead {
		t.Errorf("Expected scroll to %v, got %v", 10*40-ScrollLead, vp.calls)
	}

	if c.ScrollToTask(&models.Task{StartDate: "2025-05-02"}, w, m) {
		t.Error("Expected no scroll for a task outside the window")
	}
	if len(vp.calls) != 1 {
		t.Errorf("Expected viewport untouched, got %v", vp.calls)
	}
}

func TestPlanJump(t *testing.T) {
	w := WindowFor(MustParseDay("2025-03-01"), Compact)

	j, ok := PlanJump(&models.Task{ID: "a", StartDate: "2025-03-15"}, w)
	if !ok || j.Shift {
		t.Errorf("Expected in-window jump without shift, got %+v", j)
	}

	j, ok = PlanJump(&models.Task{ID: "b", StartDate: "2025-07-19"}, w)
	if !ok || !j.Shift || j.Anchor.String() != "2025-07-01" {
		t.Errorf("Expected shift to 2025-07-01, got %+v", j)
	}

	// After re-anchoring, the scroll lands inside the new window.
	nw := WindowFor(j.Anchor, Compact)
	vp := &fakeViewport{}
	if !NewScrollController(vp).ScrollToTask(&models.Task{StartDate: "2025-07-19"}, nw, ComputeLayout(0, nw.Len(), Compact, false)) {
		t.Error("Expected scroll after re-anchoring")
	}

	if _, ok := PlanJump(&models.Task{StartDate: ""}, w); ok {
		t.Error("Expected no plan for a task without start date")
	}
}

type fakeTimer struct {
	stopped bool
	fire    func()
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

func TestHighlighterSupersedes(t *testing.T) {
	var timers []*fakeTimer
	var changes []string
	h := NewHighlighter(func(id string) { changes = append(changes, id) })
	h.AfterFunc = func(d time.Duration, f func()) Timer {
		if d != time.Second {
			t.Errorf("Expected 1s highlight, got %v", d)
		}
		ft := &fakeTimer{fire: f}
		timers = append(timers, ft)
		return ft
	}

	h.Set("a")
	h.Set("b")
	if !timers[0].stopped {
		t.Error("Expected first clear to be cancelled")
	}

	// A stale timer firing must not clear the newer highlight.
	timers[0].fire()
	if h.Current() != "b" {
		t.Errorf("Expected b to stay highlighted, got %q", h.Current())
	}

	timers[1].fire()
	if h.Current() != "" {
		t.Errorf("Expected highlight cleared, got %q", h.Current())
	}
	want := []string{"a", "b", ""}
	if len(changes) != len(want) {
		t.Fatalf("Expected changes %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Expected changes %v, got %v", want, changes)
		}
	}
}

func TestHighlighterRealTimer(t *testing.T) {
	cleared := make(chan struct{})
	var once sync.Once
	h := NewHighlighter(func(id string) {
		if id == "" {
			once.Do(func() { close(cleared) })
		}
	})
	h.Duration = 10 * time.Millisecond
	h.Set("x")

	select {
	case <-cleared:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected highlight to clear")
	}
	if h.Current() != "" {
		t.Errorf("Expected empty highlight, got %q", h.Current())
	}
}

func TestHighlighterCancel(t *testing.T) {
	h := NewHighlighter(nil)
	h.Duration = time.Hour
	h.Set("x")
	h.Cancel()
	if h.Current() != "" {
		t.Errorf("Expected cancel to clear, got %q", h.Current())
	}
}

func TestWidthCache(t *testing.T) {
	var c WidthCache
	if c.Width() != 0 {
		t.Errorf("Expected 0 before measuring, got %v", c.Width())
	}

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(w float64) {
			defer wg.Done()
			c.Observe(w)
			_ = c.Width()
		}(float64(i * 100))
	}
	wg.Wait()
	if c.Width() < 100 || c.Width() > 800 {
		t.Errorf("Expected one of the observed widths, got %v", c.Width())
	}

	c.Observe(-3)
	if c.Width() != 0 {
		t.Errorf("Expected negative width stored as 0, got %v", c.Width())
	}
}
