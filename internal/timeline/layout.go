package timeline

import "math"

// NarrowBreakpoint is the container width (px) below which the narrow
// viewport metrics apply.
const NarrowBreakpoint = 768

// Fixed geometry of the board, in pixels.
const (
	MinBarWidth  = 10
	WideMinWidth = 15
	ScrollLead   = 100
	// TitleMinBarWidth is the bar width above which the title is drawn inside the bar.
	TitleMinBarWidth = 40
	MinChartHeight   = 300
)

// Metrics is the responsive pixel grid for one render pass.
type Metrics struct {
	Narrow  bool `json:"narrow"`
	Compact bool `json:"compact"`

	ColumnWidth      float64 `json:"column_width"`
	ColumnFloor      float64 `json:"column_floor"`
	RowHeight        float64 `json:"row_height"`
	HeaderHeight     float64 `json:"header_height"`
	IndexColumnWidth float64 `json:"index_column_width"`
	NameColumnWidth  float64 `json:"name_column_width"`
	LabelColumnWidth float64 `json:"label_column_width"`
	BarPadding       float64 `json:"bar_padding"`
}

// IsNarrow reports whether a container of the given width uses narrow metrics.
// An unmeasured (zero) container counts as narrow.
func IsNarrow(containerWidthPx float64) bool {
	return containerWidthPx < NarrowBreakpoint
}

// ComputeLayout derives the grid for dayCount columns in a container of the
// given width. The compact floor applies while at most CompactMaxDays days
// are visible; density only decides when dayCount is unknown (< 1).
// A container that has not been measured yet (width <= 0) gets the floor.
func ComputeLayout(containerWidthPx float64, dayCount int, density Density, narrow bool) Metrics {
	m := Metrics{Narrow: narrow}
	if narrow {
		m.IndexColumnWidth, m.NameColumnWidth = 35, 100
		m.RowHeight, m.HeaderHeight = 48, 65
		m.BarPadding = 8
	} else {
		m.IndexColumnWidth, m.NameColumnWidth = 45, 180
		m.RowHeight, m.HeaderHeight = 50, 75
		m.BarPadding = 10
	}
	m.LabelColumnWidth = m.IndexColumnWidth + m.NameColumnWidth

	m.Compact = density == Compact
	if dayCount >= 1 {
		m.Compact = dayCount <= CompactMaxDays
	}

	minWidth := densityFloor(m.Compact, narrow)
	if containerWidthPx <= 0 || dayCount < 1 || math.IsNaN(containerWidthPx) || math.IsInf(containerWidthPx, 0) {
		m.ColumnWidth = minWidth
		m.ColumnFloor = minWidth
		return m
	}

	dynamic := (containerWidthPx - m.LabelColumnWidth) / float64(dayCount)
	if m.Compact {
		m.ColumnFloor = minWidth
	} else {
		m.ColumnFloor = WideMinWidth
	}
	m.ColumnWidth = math.Max(dynamic, m.ColumnFloor)
	return m
}

func densityFloor(compact, narrow bool) float64 {
	switch {
	case compact && narrow:
		return 35
	case compact:
		return 40
	case narrow:
		return 18
	default:
		return 20
	}
}

// BarHeight is the height of a task bar inside one row.
func (m Metrics) BarHeight() float64 {
	return m.RowHeight - 2*m.BarPadding
}

// DayX returns the x offset of the column dayIndex days after the window start.
func (m Metrics) DayX(dayIndex int) float64 {
	return float64(dayIndex) * m.ColumnWidth
}

// DayOffsetX returns the x offset of d relative to w's first column. Days
// before the window give negative offsets.
func (m Metrics) DayOffsetX(w Window, d Day) float64 {
	return m.DayX(d.Sub(w.Start))
}

// ChartWidth is the width of the scrollable day grid.
func (m Metrics) ChartWidth(dayCount int) float64 {
	return float64(dayCount) * m.ColumnWidth
}

// ChartHeight is the height of the row area for rows task rows.
func (m Metrics) ChartHeight(rows int) float64 {
	return math.Max(float64(rows)*m.RowHeight, MinChartHeight)
}
