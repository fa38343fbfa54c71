package timeline

import (
	"fmt"
	"strings"
)

// Density selects how many months a window spans and how the grid is drawn.
type Density int

const (
	// Compact shows one month with a label and weekday glyph per day.
	Compact Density = iota
	// Wide shows three months with every fifth day labelled.
	Wide
)

// CompactMaxDays is the largest day count still laid out with the compact
// column floor.
const CompactMaxDays = 32

func (d Density) String() string {
	if d == Wide {
		return "wide"
	}
	return "compact"
}

// Months returns the number of calendar months a window of density d spans.
func (d Density) Months() int {
	if d == Wide {
		return 3
	}
	return 1
}

// Toggle returns the other density.
func (d Density) Toggle() Density {
	if d == Wide {
		return Compact
	}
	return Wide
}

// ParseDensity accepts "compact", "wide", "1m"/"1 month" and "3m"/"3 months".
func ParseDensity(s string) (Density, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compact", "1m", "1 month", "month":
		return Compact, nil
	case "wide", "3m", "3 months", "quarter":
		return Wide, nil
	}
	return Compact, fmt.Errorf("unknown density %q", s)
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// WindowFor returns the window anchored on the month containing anchor:
// from the first day of that month to the last day of the month
// Density.Months()-1 months later.
func WindowFor(anchor Day, d Density) Window {
	start := anchor.StartOfMonth()
	end := anchor.AddMonths(d.Months() - 1).EndOfMonth()
	return Window{Start: start, End: end}
}

// Days returns the window's days in order; empty for an inverted or invalid window.
func (w Window) Days() []Day {
	return DaysBetween(w.Start, w.End)
}

// Len returns the number of days in the window, 0 if it is empty.
func (w Window) Len() int {
	if !w.Start.Valid() || !w.End.Valid() || w.Start.After(w.End) {
		return 0
	}
	return w.End.Sub(w.Start) + 1
}

// Contains reports whether d lies within the window.
func (w Window) Contains(d Day) bool {
	if w.Len() == 0 || !d.Valid() {
		return false
	}
	return !d.Before(w.Start) && !d.After(w.End)
}

// Shift moves the window's anchor by n months, keeping its density.
func (w Window) Shift(n int, d Density) Window {
	return WindowFor(w.Start.AddMonths(n), d)
}

func (w Window) String() string {
	return w.Start.String() + ".." + w.End.String()
}
