// Package timeline is the Gantt layout engine: calendar windows, task
// numbering, pixel geometry, schedule-health colors and scroll control.
//
// Every function here is a pure derivation of its arguments. Callers pass
// the full task/project snapshot, the container width and "today" on each
// call; nothing is cached between calls except the container width held by
// WidthCache.
package timeline

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date without time of day or location.
// The zero Day is invalid.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

// ParseDay parses YYYY-MM-DD, optionally followed by a time part
// ("2025-03-01T09:00:00Z"); only the calendar part is kept.
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(dayLayout) {
		return Day{}, false
	}
	if len(s) > len(dayLayout) {
		if c := s[len(dayLayout)]; c != 'T' && c != ' ' {
			return Day{}, false
		}
	}
	t, err := time.Parse(dayLayout, s[:len(dayLayout)])
	if err != nil {
		return Day{}, false
	}
	return DayOf(t), true
}

// MustParseDay is ParseDay for literals; it panics on bad input.
func MustParseDay(s string) Day {
	d, ok := ParseDay(s)
	if !ok {
		panic(fmt.Sprintf("timeline: invalid day %q", s))
	}
	return d
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Dom: d}
}

// Today returns the current calendar date in the local zone.
func Today() Day {
	return DayOf(time.Now())
}

// Valid reports whether d names a real calendar date.
func (d Day) Valid() bool {
	if d.Year == 0 && d.Month == 0 && d.Dom == 0 {
		return false
	}
	return DayOf(d.Time()) == d
}

// Time returns midnight UTC on d.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	if d == (Day{}) {
		return ""
	}
	return d.Time().Format(dayLayout)
}

// Weekday returns the day of the week of d.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddDays returns d shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Sub returns the number of calendar days from o to d.
func (d Day) Sub(o Day) int {
	return int(d.Time().Sub(o.Time()).Hours() / 24)
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.Sub(o) < 0 }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d.Sub(o) > 0 }

// StartOfMonth returns the first day of d's month.
func (d Day) StartOfMonth() Day {
	return Day{Year: d.Year, Month: d.Month, Dom: 1}
}

// EndOfMonth returns the last day of d's month.
func (d Day) EndOfMonth() Day {
	return DayOf(time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC))
}

// AddMonths returns the first day of the month n months after d's month.
func (d Day) AddMonths(n int) Day {
	return DayOf(time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// DaysBetween returns every day from start to end inclusive. The result is
// empty when either day is invalid or start is after end.
func DaysBetween(start, end Day) []Day {
	if !start.Valid() || !end.Valid() || start.After(end) {
		return nil
	}
	n := end.Sub(start) + 1
	days := make([]Day, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDays(i)
	}
	return days
}

// MarshalText encodes d as YYYY-MM-DD; the zero Day encodes as "".
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes YYYY-MM-DD; "" decodes to the zero Day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	v, ok := ParseDay(string(b))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, b)
	}
	*d = v
	return nil
}
