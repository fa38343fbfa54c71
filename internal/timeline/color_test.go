package timeline

import (
	"testing"

	"github.com/daniswara/board/internal/models"
)

func task(start, end string) *models.Task {
	return &models.Task{ID: "t", StartDate: start, EndDate: end, Status: models.TaskStatusExecution}
}

func TestColorForDone(t *testing.T) {
	today := MustParseDay("2025-06-01")

	done := task("2025-03-01", "2025-03-05")
	done.Completed = true
	if got := HexFor(done, today); got != "#10b981" {
		t.Errorf("Expected completed task to be green, got %s", got)
	}

	final := task("2025-03-01", "2025-03-05")
	final.Status = models.TaskStatusFinalized
	if got := HexFor(final, today); got != "#10b981" {
		t.Errorf("Expected finalized task to be green, got %s", got)
	}
}

func TestColorForOverdue(t *testing.T) {
	tk := task("2025-03-01", "2025-03-05")
	if got := Classify(tk, MustParseDay("2025-03-06")); got != HealthOverdue {
		t.Errorf("Expected overdue, got %s", got)
	}
	if got := HexFor(tk, MustParseDay("2025-03-06")); got != "#f43f5e" {
		t.Errorf("Expected overdue red, got %s", got)
	}
}

// today == end is not overdue; it sits at elapsed fraction 1,
// which renders the same red as overdue.
func TestColorForEndDateBoundary(t *testing.T) {
	tk := task("2025-03-01", "2025-03-05")
	today := MustParseDay("2025-03-05")

	if got := Classify(tk, today); got != HealthOnSchedule {
		t.Errorf("Expected on schedule at end date, got %s", got)
	}
	if f := ElapsedFraction(MustParseDay("2025-03-01"), MustParseDay("2025-03-05"), today); f != 1 {
		t.Errorf("Expected elapsed fraction 1, got %v", f)
	}
	if got, want := HexFor(tk, today), OverdueColor.Hex(); got != want {
		t.Errorf("Expected continuity with overdue color %s, got %s", want, got)
	}
}

func TestColorForInterpolation(t *testing.T) {
	tk := task("2025-03-01", "2025-03-11")

	if got := HexFor(tk, MustParseDay("2025-02-20")); got != HealthyColor.Hex() {
		t.Errorf("Expected healthy color before start, got %s", got)
	}
	if got := HexFor(tk, MustParseDay("2025-03-01")); got != HealthyColor.Hex() {
		t.Errorf("Expected healthy color on start, got %s", got)
	}

	// Red channel rises and green falls monotonically toward the deadline.
	prevR, prevG := -1.0, 2.0
	for d := 0; d <= 10; d++ {
		c := ColorFor(tk, MustParseDay("2025-03-01").AddDays(d))
		if c.R < prevR || c.G > prevG {
			t.Fatalf("Expected monotonic interpolation at day %d, got %v", d, c)
		}
		prevR, prevG = c.R, c.G
	}

	mid := ColorFor(tk, MustParseDay("2025-03-06"))
	want := HealthyColor.BlendRgb(AtRiskColor, 0.5)
	if mid.Hex() != want.Hex() {
		t.Errorf("Expected midpoint %s, got %s", want.Hex(), mid.Hex())
	}
}

func TestColorForZeroDuration(t *testing.T) {
	tk := task("2025-03-05", "2025-03-05")
	if f := ElapsedFraction(MustParseDay("2025-03-05"), MustParseDay("2025-03-05"), MustParseDay("2025-03-05")); f != 0 {
		t.Errorf("Expected fraction 0 on the only day, got %v", f)
	}
	if got := HexFor(tk, MustParseDay("2025-03-05")); got != HealthyColor.Hex() {
		t.Errorf("Expected healthy color, got %s", got)
	}
}

func TestColorForUnreadableDates(t *testing.T) {
	tk := task("tomorrow", "2025-03-05")
	if got := Classify(tk, MustParseDay("2025-03-01")); got != HealthUnknown {
		t.Errorf("Expected unknown health, got %s", got)
	}
	if got := HexFor(tk, MustParseDay("2025-03-01")); got != NeutralColor.Hex() {
		t.Errorf("Expected neutral color, got %s", got)
	}
}
