package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
)

var base = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func fixture() *board.Snapshot {
	return &board.Snapshot{
		Projects: []models.Project{{ID: "p1", Name: "Alpha", Division: models.DivisionBusdev, CreatedAt: base}},
		Tasks: []models.Task{
			{ID: "g1", Title: "Payroll", Division: models.DivisionKeuangan, StartDate: "2025-03-03", EndDate: "2025-03-07", CreatedAt: base.Add(time.Minute)},
			{ID: "a1", ProjectID: "p1", Title: "Pitch", Division: models.DivisionBusdev, StartDate: "2025-03-10", EndDate: "2025-03-12", CreatedAt: base.Add(2 * time.Minute)},
			{ID: "done", Title: "Closed", Division: models.DivisionBusdev, StartDate: "2025-03-01", EndDate: "2025-03-02", Completed: true, CreatedAt: base.Add(3 * time.Minute)},
			{ID: "june", Title: "Audit", Division: models.DivisionKeuangan, StartDate: "2025-06-16", EndDate: "2025-06-20", CreatedAt: base.Add(4 * time.Minute)},
		},
		Holidays: []models.Holiday{{Date: "2025-03-29", Name: "Nyepi"}},
	}
}

// newTestApp returns an app on a 160x30 terminal showing March 2025.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a := New("http://127.0.0.1:0", Options{})
	a.now = func() time.Time { return time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC) }
	a.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	a.Update(snapshotLoadedMsg{snap: fixture()})
	if a.view == nil {
		t.Fatal("Expected a view after loading")
	}
	return a
}

func TestAppLoadsBoard(t *testing.T) {
	a := newTestApp(t)

	if a.view.Window.String() != "2025-03-01..2025-03-31" {
		t.Errorf("Expected March window, got %s", a.view.Window)
	}
	if len(a.view.Scene.Labels) != 3 {
		t.Errorf("Expected completed task hidden, got %d rows", len(a.view.Scene.Labels))
	}
	// 160 columns is 1280px; (1280-225)/31 is below the 40px compact floor.
	if a.view.Scene.Metrics.ColumnWidth != 40 {
		t.Errorf("Expected 40px columns, got %v", a.view.Scene.Metrics.ColumnWidth)
	}
	if a.widths.Width() != 1280 {
		t.Errorf("Expected width cache to hold 1280, got %v", a.widths.Width())
	}
	// Project tasks first, then General.
	if items := a.list.Items(); len(items) != 3 || items[0].Number != "1.1" || items[1].Number != "0.1" {
		t.Errorf("Expected projects before General tasks, got %+v", items)
	}
	if !strings.Contains(a.list.Items()[0].Description(), "due 12 Mar 25") {
		t.Errorf("Expected due date, got %q", a.list.Items()[0].Description())
	}

	out := a.View()
	for _, want := range []string{"Board", "MARCH 2025", "Payroll", "1.1 Pitch", "[1/4 done, 25%]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestAppJumpShiftsWindow(t *testing.T) {
	a := newTestApp(t)

	cmd := a.jump("0.3")
	if cmd == nil {
		t.Fatal("Expected a highlight timer")
	}
	if a.view.Window.Start.String() != "2025-06-01" {
		t.Errorf("Expected June window, got %s", a.view.Window)
	}
	if a.query.Highlight != "june" {
		t.Errorf("Expected june highlighted, got %q", a.query.Highlight)
	}
	// 15*40-100 = 500 exceeds the scroll range, so the chart stops at its end.
	if a.gantt.ScrollX != a.gantt.MaxScroll() || a.gantt.ScrollX <= 0 {
		t.Errorf("Expected scroll clamped to %v, got %v", a.gantt.MaxScroll(), a.gantt.ScrollX)
	}

	a.Update(a.lastClear)
	if a.query.Highlight != "" {
		t.Error("Expected highlight to clear")
	}

	if a.jump("9.9") != nil || !strings.HasPrefix(a.message, "Error") {
		t.Errorf("Expected error for unknown task, got %q", a.message)
	}
}

func TestAppHighlightSupersedes(t *testing.T) {
	a := newTestApp(t)

	if a.highlight("g1") == nil {
		t.Fatal("Expected a clear tick")
	}
	first := a.lastClear
	a.highlight("a1")
	if !first.timer.stopped {
		t.Error("Expected the first clear to be stopped")
	}

	a.Update(first)
	if a.query.Highlight != "a1" {
		t.Errorf("Expected stale timer to be ignored, got %q", a.query.Highlight)
	}
	if a.highlighter.Current() != "a1" {
		t.Errorf("Expected highlighter to hold a1, got %q", a.highlighter.Current())
	}
	a.Update(a.lastClear)
	if a.query.Highlight != "" {
		t.Errorf("Expected highlight cleared, got %q", a.query.Highlight)
	}
}

func TestAppMouse(t *testing.T) {
	a := newTestApp(t)

	// Label of row 0.
	_, cmd := a.Update(tea.MouseMsg{X: 3, Y: chromeTop + ganttHeaderLines, Type: tea.MouseLeft})
	if cmd == nil || a.query.Highlight != "g1" {
		t.Errorf("Expected label click to highlight g1, got %q", a.query.Highlight)
	}

	// Bar of a1 spans chart px 360..480, cells 45..59.
	a.Update(tea.MouseMsg{X: 28 + 50, Y: chromeTop + ganttHeaderLines + 1, Type: tea.MouseLeft})
	if a.mode != modeDetail || a.detail.Task() == nil || a.detail.Task().ID != "a1" {
		t.Errorf("Expected detail of a1, got mode %s", a.mode)
	}
	if !strings.Contains(a.View(), "ALPHA") && !strings.Contains(a.View(), "Alpha") {
		t.Error("Expected project name in detail")
	}

	a.mode = modeGantt
	a.Update(tea.MouseMsg{X: 3, Y: 0, Type: tea.MouseLeft})
	if a.mode != modeGantt {
		t.Error("Expected header click to do nothing")
	}
}

func TestAppLabelClickShiftsWindow(t *testing.T) {
	a := newTestApp(t)

	// Row 2 is the June task, listed while March is shown.
	_, cmd := a.Update(tea.MouseMsg{X: 3, Y: chromeTop + ganttHeaderLines + 2, Type: tea.MouseLeft})
	if cmd == nil || a.query.Highlight != "june" {
		t.Errorf("Expected june highlighted, got %q", a.query.Highlight)
	}
	if a.view.Window.Start.String() != "2025-06-01" {
		t.Errorf("Expected window moved to June, got %s", a.view.Window)
	}
	if a.gantt.ScrollX <= 0 {
		t.Errorf("Expected chart scrolled toward the bar, got %v", a.gantt.ScrollX)
	}

	a.Update(a.lastClear)
	if a.query.Highlight != "" {
		t.Errorf("Expected highlight cleared, got %q", a.query.Highlight)
	}
}

func TestAppCommands(t *testing.T) {
	a := newTestApp(t)

	run := func(line string) tea.Cmd {
		c, err := ParseCommand(line)
		if err != nil {
			t.Fatalf("ParseCommand(%q) failed: %v", line, err)
		}
		return a.execute(c)
	}

	run("filter keuangan")
	if len(a.view.Scene.Labels) != 2 {
		t.Errorf("Expected 2 Keuangan rows, got %d", len(a.view.Scene.Labels))
	}
	run("filter Legal")
	if !strings.HasPrefix(a.message, "Error") || a.query.Filter.Division != "keuangan" {
		t.Errorf("Expected unknown division to be rejected, got %q", a.message)
	}
	run("f all")
	run("completed")
	if len(a.view.Scene.Labels) != 4 {
		t.Errorf("Expected every task, got %d", len(a.view.Scene.Labels))
	}

	run("goto 2025-06")
	if a.view.Window.Start.String() != "2025-06-01" {
		t.Errorf("Expected June, got %s", a.view.Window)
	}
	run("prev")
	if a.view.Window.Start.String() != "2025-05-01" {
		t.Errorf("Expected May, got %s", a.view.Window)
	}
	run("density wide")
	if a.view.Window.String() != "2025-05-01..2025-07-31" {
		t.Errorf("Expected three months, got %s", a.view.Window)
	}
	run("today")
	if a.view.Window.Start.String() != "2025-03-01" {
		t.Errorf("Expected current month, got %s", a.view.Window)
	}

	if cmd := run("done 7.7"); cmd != nil || !strings.HasPrefix(a.message, "Error") {
		t.Errorf("Expected unknown task error, got %q", a.message)
	}
	if cmd := run("done 1.1"); cmd == nil {
		t.Error("Expected a remote command for a known task")
	}
}

func TestAppKeys(t *testing.T) {
	a := newTestApp(t)

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	if a.view.Window.Start.String() != "2025-04-01" {
		t.Errorf("Expected April after ], got %s", a.view.Window)
	}
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if a.query.Density != timeline.Wide {
		t.Error("Expected d to toggle density")
	}
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.mode != modeList {
		t.Errorf("Expected list mode, got %s", a.mode)
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.mode != modeGantt {
		t.Errorf("Expected gantt mode, got %s", a.mode)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	if !a.cmdbar.Focused() {
		t.Fatal("Expected command bar focus")
	}
	for _, r := range "goto 2025-01" {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.cmdbar.Focused() || a.view.Window.Start.String() != "2025-01-01" {
		t.Errorf("Expected command to run, got window %s", a.view.Window)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		wantErr bool
	}{
		{"goto 2025-03", "goto", false},
		{"j 1.2", "jump", false},
		{"  Q ", "quit", false},
		{"status 1.2", "", true},
		{"add 2025-03-01 2025-03-02", "", true},
		{"add 2025-03-01 2025-03-02 Kickoff meeting", "add", false},
		{"launch", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		c, err := ParseCommand(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: expected error %v, got %v", tt.input, tt.wantErr, err)
			continue
		}
		if c.Name != tt.name {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.name, c.Name)
		}
	}
}
