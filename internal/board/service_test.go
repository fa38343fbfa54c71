package board

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/render"
	"github.com/daniswara/board/internal/timeline"
)

type memSource struct {
	snap Snapshot
	err  error
}

func (m *memSource) ListTasks() ([]models.Task, error)       { return m.snap.Tasks, m.err }
func (m *memSource) ListProjects() ([]models.Project, error) { return m.snap.Projects, m.err }
func (m *memSource) ListHolidays() ([]models.Holiday, error) { return m.snap.Holidays, m.err }

type memSink struct {
	actions []string
}

func (m *memSink) WriteViewEvent(action, inputsHash, taskID, details string) (*models.ViewEvent, error) {
	m.actions = append(m.actions, action)
	return &models.ViewEvent{Action: action}, nil
}

var base = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func fixture() *memSource {
	return &memSource{snap: Snapshot{
		Projects: []models.Project{{ID: "p1", Name: "Alpha", Division: models.DivisionBusdev, CreatedAt: base}},
		Tasks: []models.Task{
			{ID: "g1", Title: "Payroll", Division: models.DivisionKeuangan, StartDate: "2025-03-03", EndDate: "2025-03-07", CreatedAt: base.Add(time.Minute)},
			{ID: "a1", ProjectID: "p1", Title: "Pitch", Division: models.DivisionBusdev, StartDate: "2025-03-10", EndDate: "2025-03-12", CreatedAt: base.Add(2 * time.Minute)},
			{ID: "done", Title: "Closed", Division: models.DivisionBusdev, StartDate: "2025-03-01", EndDate: "2025-03-02", Completed: true, CreatedAt: base.Add(3 * time.Minute)},
			{ID: "june", Title: "Audit", Division: models.DivisionKeuangan, StartDate: "2025-06-16", EndDate: "2025-06-20", CreatedAt: base.Add(4 * time.Minute)},
		},
		Holidays: []models.Holiday{{Date: "2025-03-29", Name: "Nyepi"}},
	}}
}

func newTestService(src Source) (*Service, *memSink) {
	sink := &memSink{}
	s := NewService(src, audit.NewRecorder(sink), nil)
	s.SetClock(func() time.Time { return time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC) })
	return s, sink
}

func TestFilterApply(t *testing.T) {
	tasks := fixture().snap.Tasks
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default hides completed", Filter{}, []string{"g1", "a1", "june"}},
		{"show completed", Filter{ShowCompleted: true}, []string{"g1", "a1", "done", "june"}},
		{"division trimmed and case-insensitive", Filter{Division: "  busDEV "}, []string{"a1"}},
		{"all", Filter{Division: "All", ShowCompleted: true}, []string{"g1", "a1", "done", "june"}},
		{"division only", Filter{Division: "keuangan"}, []string{"g1", "june"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(tasks)
			var ids []string
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, ids)
			}
		})
	}

	final := []models.Task{{ID: "f", Status: models.TaskStatusFinalized}}
	if len((Filter{}).Apply(final)) != 0 {
		t.Error("Expected finalized task to be hidden")
	}
}

func TestBoard(t *testing.T) {
	s, sink := newTestService(fixture())
	v, err := s.Board(context.Background(), Query{Density: timeline.Compact, Width: 1465})
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}

	if v.Window.String() != "2025-03-01..2025-03-31" {
		t.Errorf("Expected March window from the clock, got %s", v.Window)
	}
	// Numbering covers filtered-out tasks too.
	if v.Numbers["done"] != "0.2" || v.Numbers["june"] != "0.3" || v.Numbers["a1"] != "1.1" {
		t.Errorf("Unexpected numbers: %v", v.Numbers)
	}
	if len(v.Scene.Labels) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(v.Scene.Labels))
	}
	// The June bar is laid out past the chart edge and clipped.
	if len(v.Scene.Bars) != 3 {
		t.Fatalf("Expected 3 bars, got %d", len(v.Scene.Bars))
	}
	if june := v.Scene.Bars[2]; june.TaskID != "june" || june.X < v.Scene.Geometry.ChartWidth() {
		t.Errorf("Expected june bar beyond the chart, got %+v", june)
	}
	if v.Stats.Total != 4 || v.Stats.Completed != 1 || v.Stats.Active != 3 || v.Stats.Efficiency != 25 {
		t.Errorf("Unexpected stats: %+v", v.Stats)
	}
	if len(sink.actions) != 1 || sink.actions[0] != audit.ActionRender {
		t.Errorf("Expected one render event, got %v", sink.actions)
	}
}

func TestBoardSourceError(t *testing.T) {
	src := fixture()
	src.err = errors.New("disk on fire")
	s, _ := newTestService(src)
	if _, err := s.Board(context.Background(), Query{}); err == nil {
		t.Error("Expected error from source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ = newTestService(fixture())
	if _, err := s.Board(ctx, Query{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	s, _ := newTestService(fixture())
	var buf bytes.Buffer
	if err := s.RenderSVG(context.Background(), Query{Width: 1465}, &buf); err != nil {
		t.Fatalf("RenderSVG failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<clipPath") || !strings.Contains(buf.String(), "Pitch") {
		t.Errorf("Unexpected svg: %.200s", buf.String())
	}
}

func TestClick(t *testing.T) {
	s, sink := newTestService(fixture())
	q := Query{Width: 1465}

	// Row 1 (a1) label column.
	res, err := s.Click(context.Background(), q, 40, 75+50+10)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if res == nil || res.Hit.Kind != render.HitLabel || res.Task.ID != "a1" {
		t.Fatalf("Expected label hit on a1, got %+v", res)
	}
	// a1 starts on day 9: 9*40 - 100.
	if res.ScrollX != 260 || res.Highlight != "a1" {
		t.Errorf("Expected scroll 260 and highlight, got %+v", res)
	}
	if res.Shifted || res.Anchor.String() != "2025-03-01" {
		t.Errorf("Expected the March window to stay, got %+v", res)
	}

	// Bar of g1: days 2..6, row 0.
	res, err = s.Click(context.Background(), q, 225+100, 75+25)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if res == nil || res.Hit.Kind != render.HitBar || res.Task.ID != "g1" {
		t.Fatalf("Expected bar hit on g1, got %+v", res)
	}

	res, err = s.Click(context.Background(), q, 225+100, 10)
	if err != nil || res != nil {
		t.Errorf("Expected header click to miss, got %+v (%v)", res, err)
	}

	want := []string{audit.ActionRender, audit.ActionClickLabel, audit.ActionRender, audit.ActionClickBar, audit.ActionRender}
	if strings.Join(sink.actions, ",") != strings.Join(want, ",") {
		t.Errorf("Expected events %v, got %v", want, sink.actions)
	}
}

func TestClickLabelOutsideWindow(t *testing.T) {
	s, _ := newTestService(fixture())
	q := Query{Width: 1465}

	// Row 2 is the June task, labelled while March is shown.
	res, err := s.Click(context.Background(), q, 40, 75+2*50+10)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if res == nil || res.Hit.Kind != render.HitLabel || res.Task.ID != "june" {
		t.Fatalf("Expected label hit on june, got %+v", res)
	}
	if !res.Shifted || res.Anchor.String() != "2025-06-01" {
		t.Errorf("Expected shift to June, got %+v", res)
	}
	// Measured in the June window, not against March's chart.
	if res.ScrollX < 519.9 || res.ScrollX > 520.1 {
		t.Errorf("Expected scroll ~520, got %v", res.ScrollX)
	}
	if res.Highlight != "june" {
		t.Errorf("Expected june highlighted, got %q", res.Highlight)
	}
}

func TestJump(t *testing.T) {
	s, _ := newTestService(fixture())
	q := Query{Width: 1465}

	res, err := s.Jump(context.Background(), q, "0.3")
	if err != nil {
		t.Fatalf("Jump failed: %v", err)
	}
	if res.TaskID != "june" || !res.Shifted || res.Anchor.String() != "2025-06-01" {
		t.Errorf("Expected shift to June, got %+v", res)
	}
	// June has 30 days: (1465-225)/30 = 41.33; day 15 -> 15*41.33 - 100 = 520.
	if res.ScrollX < 519.9 || res.ScrollX > 520.1 {
		t.Errorf("Expected scroll ~520, got %v", res.ScrollX)
	}
	if res.HighlightFor != time.Second {
		t.Errorf("Expected 1s highlight, got %v", res.HighlightFor)
	}

	res, err = s.Jump(context.Background(), q, "a1")
	if err != nil || res.Shifted || res.Number != "1.1" {
		t.Errorf("Expected in-window jump to 1.1, got %+v (%v)", res, err)
	}

	if _, err := s.Jump(context.Background(), q, "9.9"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}

	src := fixture()
	src.snap.Tasks = append(src.snap.Tasks, models.Task{ID: "nodate", CreatedAt: base.Add(time.Hour)})
	s, _ = newTestService(src)
	if _, err := s.Jump(context.Background(), q, "nodate"); !errors.Is(err, ErrNoStartDate) {
		t.Errorf("Expected ErrNoStartDate, got %v", err)
	}
}

func TestComputeStats(t *testing.T) {
	if st := ComputeStats(nil); st.Efficiency != 0 || st.Total != 0 {
		t.Errorf("Expected zero stats, got %+v", st)
	}
	tasks := []models.Task{{Completed: true}, {Completed: true}, {}}
	if st := ComputeStats(tasks); st.Efficiency != 67 || st.Active != 1 {
		t.Errorf("Expected 67%% with 1 active, got %+v", st)
	}
}
