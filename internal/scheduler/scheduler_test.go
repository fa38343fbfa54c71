package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/config"
	"github.com/daniswara/board/internal/holidays"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/store"
	"github.com/daniswara/board/internal/timeline"
)

var march11 = func() time.Time { return time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC) }

// fakeSource returns a fixed list and counts overlapping fetches.
type fakeSource struct {
	list     []models.Holiday
	err      error
	delay    time.Duration
	inFlight atomic.Int32
	overlaps atomic.Int32
	calls    atomic.Int32
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context, from, to timeline.Day) ([]models.Holiday, error) {
	f.calls.Add(1)
	if f.inFlight.Add(1) > 1 {
		f.overlaps.Add(1)
	}
	defer f.inFlight.Add(-1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.list, f.err
}

// memStore captures the last replaced calendar.
type memStore struct {
	mu     sync.Mutex
	source string
	list   []models.Holiday
	done   chan struct{}
}

func (m *memStore) ReplaceHolidays(source string, list []models.Holiday) error {
	m.mu.Lock()
	m.source, m.list = source, list
	m.mu.Unlock()
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	return nil
}

func TestRange(t *testing.T) {
	cfg := &Config{LookbackMonths: 2, LookaheadMonths: 1}
	from, to := cfg.Range(timeline.MustParseDay("2025-01-15"))
	if from.String() != "2024-11-01" || to.String() != "2025-02-28" {
		t.Errorf("Expected 2024-11-01..2025-02-28, got %s..%s", from, to)
	}

	cfg = &Config{}
	from, to = cfg.Range(timeline.MustParseDay("2025-03-11"))
	if from.String() != "2025-03-01" || to.String() != "2025-03-31" {
		t.Errorf("Expected current month only, got %s..%s", from, to)
	}
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(config.SchedulerConfig{LookbackMonths: 3, LookaheadMonths: 6})
	if cfg.Schedule != "0 3 * * *" {
		t.Errorf("Expected default schedule, got %q", cfg.Schedule)
	}
	if cfg.LookbackMonths != 3 || cfg.LookaheadMonths != 6 {
		t.Errorf("Unexpected months: %+v", cfg)
	}
	cfg = FromSettings(config.SchedulerConfig{HolidayRefresh: "*/5 * * * *"})
	if cfg.Schedule != "*/5 * * * *" {
		t.Errorf("Expected custom schedule, got %q", cfg.Schedule)
	}
}

func TestRunOnceBuiltin(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	sch := New(s, holidays.Builtin{}, audit.NewRecorder(s), &Config{Schedule: "@daily"})
	sch.now = march11

	n, err := sch.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 March holidays, got %d", n)
	}

	list, err := s.ListHolidays()
	if err != nil {
		t.Fatalf("ListHolidays failed: %v", err)
	}
	if len(list) != 2 || list[0].Date != "2025-03-29" {
		t.Errorf("Unexpected stored holidays: %+v", list)
	}

	events, _ := s.ListViewEvents(10)
	if len(events) != 1 || events[0].Action != audit.ActionHolidaySync {
		t.Errorf("Expected one sync event, got %+v", events)
	}
}

func TestRunOnceFiltersAndReportsErrors(t *testing.T) {
	src := &fakeSource{list: []models.Holiday{
		{Date: "2025-03-30", Name: "B"},
		{Date: "2025-03-29", Name: "A"},
		{Date: "2025-05-01", Name: "outside"},
		{Date: "garbage", Name: "bad"},
	}}
	st := &memStore{}
	sch := New(st, src, nil, &Config{Schedule: "@daily"})
	sch.now = march11

	n, err := sch.RunOnce(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("Expected 2 holidays, got %d (%v)", n, err)
	}
	if st.source != "fake" || st.list[0].Name != "A" {
		t.Errorf("Expected sorted list from fake, got %s %+v", st.source, st.list)
	}

	src.err = errors.New("calendar unavailable")
	if _, err := sch.RunOnce(context.Background()); err == nil {
		t.Fatal("Expected error from source")
	}
	if len(st.list) != 2 {
		t.Error("Expected stored calendar to survive a failed sync")
	}

	status := sch.GetStatus()
	if status.Runs != 2 || status.LastCount != 2 || status.LastError == "" {
		t.Errorf("Unexpected status: %+v", status)
	}
}

func TestRunOnceSerializes(t *testing.T) {
	src := &fakeSource{delay: 10 * time.Millisecond}
	sch := New(&memStore{}, src, nil, &Config{Schedule: "@daily"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sch.RunOnce(context.Background())
		}()
	}
	wg.Wait()

	if src.calls.Load() != 8 {
		t.Errorf("Expected 8 fetches, got %d", src.calls.Load())
	}
	if src.overlaps.Load() != 0 {
		t.Errorf("Expected no overlapping fetches, got %d", src.overlaps.Load())
	}
}

func TestStartRunsOnStart(t *testing.T) {
	done := make(chan struct{})
	st := &memStore{done: done}
	src := &fakeSource{list: []models.Holiday{{Date: "2025-03-29", Name: "A"}}}
	sch := New(st, src, nil, &Config{Schedule: "0 3 * * *", RunOnStart: true})
	sch.now = march11

	if err := sch.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sch.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a sync on start")
	}
	if sch.GetStatus().Next.IsZero() {
		t.Error("Expected next run to be scheduled")
	}
}

func TestStartInvalidSchedule(t *testing.T) {
	sch := New(&memStore{}, &fakeSource{}, nil, &Config{Schedule: "every tuesday"})
	if err := sch.Start(); err == nil {
		t.Error("Expected error for invalid schedule")
	}
	sch.Stop()
}

func newTestStore(t *testing.T) *store.Store {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}
