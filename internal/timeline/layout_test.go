package timeline

import (
	"math"
	"testing"

	"github.com/daniswara/board/internal/models"
)

func TestComputeLayoutMetrics(t *testing.T) {
	narrow := ComputeLayout(600, 31, Compact, true)
	if narrow.LabelColumnWidth != 135 || narrow.RowHeight != 48 || narrow.HeaderHeight != 65 || narrow.BarPadding != 8 {
		t.Errorf("Unexpected narrow metrics: %+v", narrow)
	}
	wide := ComputeLayout(1400, 31, Compact, false)
	if wide.LabelColumnWidth != 225 || wide.RowHeight != 50 || wide.HeaderHeight != 75 || wide.BarPadding != 10 {
		t.Errorf("Unexpected wide-viewport metrics: %+v", wide)
	}
	if wide.BarHeight() != 30 {
		t.Errorf("Expected bar height 30, got %v", wide.BarHeight())
	}
}

func TestComputeLayoutDynamicWidth(t *testing.T) {
	m := ComputeLayout(1465, 31, Compact, false)
	// (1465 - 225) / 31 = 40
	if m.ColumnWidth != 40 {
		t.Errorf("Expected 40, got %v", m.ColumnWidth)
	}
	m = ComputeLayout(2085, 31, Compact, false)
	if m.ColumnWidth != 60 {
		t.Errorf("Expected 60, got %v", m.ColumnWidth)
	}
	m = ComputeLayout(1605, 92, Wide, false)
	if m.ColumnWidth != 15 {
		t.Errorf("Expected wide floor 15, got %v", m.ColumnWidth)
	}
}

// An unmeasured container still yields the density floor.
func TestComputeLayoutUnmeasured(t *testing.T) {
	tests := []struct {
		days    int
		density Density
		narrow  bool
		want    float64
	}{
		{31, Compact, true, 35},
		{31, Compact, false, 40},
		{92, Wide, true, 18},
		{92, Wide, false, 20},
		{0, Wide, false, 20},
		{0, Compact, true, 35},
	}
	for _, tt := range tests {
		for _, width := range []float64{0, -50, math.NaN()} {
			m := ComputeLayout(width, tt.days, tt.density, tt.narrow)
			if m.ColumnWidth != tt.want {
				t.Errorf("days=%d narrow=%v width=%v: expected %v, got %v", tt.days, tt.narrow, width, tt.want, m.ColumnWidth)
			}
		}
	}
}

func TestComputeLayoutFloorProperty(t *testing.T) {
	for width := 0.0; width <= 4000; width += 37 {
		for days := 1; days <= 100; days++ {
			for _, narrow := range []bool{true, false} {
				m := ComputeLayout(width, days, Compact, narrow)
				floor := 15.0
				if days <= CompactMaxDays {
					floor = densityFloor(true, narrow)
				}
				if m.ColumnWidth < floor || m.ColumnWidth <= 0 {
					t.Fatalf("width=%v days=%d narrow=%v: column %v below floor %v", width, days, narrow, m.ColumnWidth, floor)
				}
			}
		}
	}
}

func TestBuildGeometryFiveDayBar(t *testing.T) {
	w := Window{Start: MustParseDay("2025-03-01"), End: MustParseDay("2025-03-31")}
	m := ComputeLayout(0, w.Len(), Compact, false)
	m.ColumnWidth = 20

	tasks := []models.Task{{ID: "t1", StartDate: "2025-03-01", EndDate: "2025-03-05"}}
	g := BuildGeometry(w, tasks, nil, m)
	if len(g.Bars) != 1 {
		t.Fatalf("Expected 1 bar, got %d", len(g.Bars))
	}
	b := g.Bars[0]
	if b.X != 0 || b.Width != 100 {
		t.Errorf("Expected x=0 width=100, got x=%v width=%v", b.X, b.Width)
	}
	if b.Y != 10 || b.Height != 30 {
		t.Errorf("Expected y=10 height=30, got y=%v height=%v", b.Y, b.Height)
	}
}

func TestBuildGeometryBars(t *testing.T) {
	w := WindowFor(MustParseDay("2025-03-01"), Compact)
	m := ComputeLayout(0, w.Len(), Compact, true)
	m.ColumnWidth = 4

	tasks := []models.Task{
		{ID: "one-day", StartDate: "2025-03-10", EndDate: "2025-03-10"},
		{ID: "inverted", StartDate: "2025-03-10", EndDate: "2025-03-01"},
		{ID: "bad", StartDate: "soon", EndDate: "2025-03-01"},
		{ID: "missing", StartDate: "2025-03-01"},
		{ID: "before", StartDate: "2025-02-20", EndDate: "2025-03-02"},
	}
	g := BuildGeometry(w, tasks, nil, m)

	if len(g.Bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(g.Bars))
	}
	oneDay := g.Bars[0]
	if oneDay.Width != MinBarWidth {
		t.Errorf("Expected minimum width %d, got %v", MinBarWidth, oneDay.Width)
	}
	if oneDay.X != 36 {
		t.Errorf("Expected x=36, got %v", oneDay.X)
	}
	before, ok := g.BarFor("before")
	if !ok {
		t.Fatal("Expected bar for task starting before the window")
	}
	if before.Row != 4 || before.X != -36 || before.Width != 44 {
		t.Errorf("Expected row 4 x=-36 width=44, got row %d x=%v width=%v", before.Row, before.X, before.Width)
	}
	if before.Y != 4*48+8 {
		t.Errorf("Expected y=%v, got %v", 4*48+8, before.Y)
	}

	reasons := map[string]SkipReason{}
	for _, s := range g.Skipped {
		reasons[s.TaskID] = s.Reason
	}
	if reasons["inverted"] != SkipInverted || reasons["bad"] != SkipInvalidDate || reasons["missing"] != SkipMissingDate {
		t.Errorf("Unexpected skip reasons: %v", reasons)
	}
	if g.Rows != 5 {
		t.Errorf("Expected 5 rows, got %d", g.Rows)
	}
}

func TestBuildGeometryColumns(t *testing.T) {
	w := WindowFor(MustParseDay("2025-03-01"), Compact)
	m := ComputeLayout(0, w.Len(), Compact, false)
	holidays := []models.Holiday{
		{Date: "2025-03-29", Name: "Idul Fitri"},
		{Date: "2025-03-31T00:00:00+07:00", Name: "Cuti bersama"},
		{Date: "garbage", Name: "Ignored"},
	}
	g := BuildGeometry(w, nil, holidays, m)

	if len(g.Columns) != 31 {
		t.Fatalf("Expected 31 columns, got %d", len(g.Columns))
	}
	if g.Columns[5].X != 5*m.ColumnWidth {
		t.Errorf("Expected column 5 at %v, got %v", 5*m.ColumnWidth, g.Columns[5].X)
	}
	// 2025-03-01 is a Saturday.
	if !g.Columns[0].Weekend || !g.Columns[0].NonWorking() {
		t.Error("Expected 2025-03-01 to be shaded as weekend")
	}
	if g.Columns[2].NonWorking() {
		t.Error("Expected 2025-03-03 to be a working day")
	}
	if g.Columns[30].Holiday == nil || g.Columns[30].Holiday.Name != "Cuti bersama" {
		t.Error("Expected 2025-03-31 to match its holiday ignoring time of day")
	}
	if g.Columns[28].Holiday == nil {
		t.Error("Expected 2025-03-29 to be a holiday")
	}
	if g.ChartHeight() != MinChartHeight {
		t.Errorf("Expected minimum chart height, got %v", g.ChartHeight())
	}
}

func TestBuildGeometryEmptyWindow(t *testing.T) {
	w := Window{Start: MustParseDay("2025-04-01"), End: MustParseDay("2025-03-01")}
	m := ComputeLayout(1200, w.Len(), Compact, false)
	tasks := []models.Task{{ID: "t", StartDate: "2025-03-02", EndDate: "2025-03-03"}}
	g := BuildGeometry(w, tasks, nil, m)
	if len(g.Columns) != 0 || len(g.Bars) != 0 {
		t.Errorf("Expected nothing to draw, got %d columns and %d bars", len(g.Columns), len(g.Bars))
	}
	if m.ColumnWidth <= 0 {
		t.Errorf("Expected positive column width, got %v", m.ColumnWidth)
	}
}
