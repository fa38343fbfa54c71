// Package scheduler keeps the stored holiday calendar fresh on a cron
// schedule.
package scheduler

import (
	"github.com/daniswara/board/internal/config"
	"github.com/daniswara/board/internal/timeline"
)

// Config defines the scheduler configuration.
type Config struct {
	// Schedule is a five-field cron expression.
	Schedule string
	// LookbackMonths and LookaheadMonths bound the synced range around the
	// current month.
	LookbackMonths  int
	LookaheadMonths int
	// RunOnStart triggers one sync as soon as the scheduler starts.
	RunOnStart bool
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		Schedule:        "0 3 * * *",
		LookbackMonths:  12,
		LookaheadMonths: 12,
		RunOnStart:      true,
	}
}

// FromSettings converts the file configuration.
func FromSettings(s config.SchedulerConfig) *Config {
	cfg := DefaultConfig()
	if s.HolidayRefresh != "" {
		cfg.Schedule = s.HolidayRefresh
	}
	cfg.LookbackMonths = s.LookbackMonths
	cfg.LookaheadMonths = s.LookaheadMonths
	return cfg
}

// Range returns the days to sync: from the first day of the month
// LookbackMonths before today to the last day of the month LookaheadMonths
// after it.
func (c *Config) Range(today timeline.Day) (from, to timeline.Day) {
	from = today.AddMonths(-c.LookbackMonths)
	to = today.AddMonths(c.LookaheadMonths).EndOfMonth()
	return from, to
}
