package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/holidays"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	rcron "github.com/robfig/cron/v3"
)

// HolidayStore receives synced calendars.
type HolidayStore interface {
	ReplaceHolidays(source string, list []models.Holiday) error
}

// Status reports the outcome of the last sync.
type Status struct {
	LastRun   time.Time `json:"last_run"`
	LastCount int       `json:"last_count"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
	Next      time.Time `json:"next,omitempty"`
}

// Scheduler refreshes holidays from a source into the store.
type Scheduler struct {
	store  HolidayStore
	source holidays.Source
	rec    *audit.Recorder
	config *Config
	now    func() time.Time

	// syncMu serializes syncs; mu guards status.
	syncMu sync.Mutex
	mu     sync.Mutex
	status Status

	cron    *rcron.Cron
	entryID rcron.EntryID

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new scheduler.
func New(st HolidayStore, src holidays.Source, rec *audit.Recorder, cfg *Config) *Scheduler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:  st,
		source: src,
		rec:    rec,
		config: cfg,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the cron job and, if configured, runs a first sync in the
// background.
func (sch *Scheduler) Start() error {
	c := rcron.New(rcron.WithChain(rcron.SkipIfStillRunning(rcron.DiscardLogger)))
	id, err := c.AddFunc(sch.config.Schedule, sch.runScheduled)
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", sch.config.Schedule, err)
	}
	sch.cron = c
	sch.entryID = id
	c.Start()

	if sch.config.RunOnStart {
		sch.wg.Add(1)
		go func() {
			defer sch.wg.Done()
			sch.runScheduled()
		}()
	}

	log.Printf("[scheduler] started, holidays from %s on %q", sch.source.Name(), sch.config.Schedule)
	return nil
}

// Stop cancels in-flight syncs and waits for them to finish.
func (sch *Scheduler) Stop() {
	sch.cancel()
	if sch.cron != nil {
		stopCtx := sch.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
			log.Printf("[scheduler] stop timeout waiting for running sync")
		}
	}
	sch.wg.Wait()
	log.Println("[scheduler] stopped")
}

func (sch *Scheduler) runScheduled() {
	if sch.ctx.Err() != nil {
		return
	}
	if _, err := sch.RunOnce(sch.ctx); err != nil {
		log.Printf("[scheduler] holiday sync failed: %v", err)
	}
}

// RunOnce fetches the configured range and replaces the stored calendar.
// It returns the number of holidays stored. Concurrent calls run one after
// another.
func (sch *Scheduler) RunOnce(ctx context.Context) (int, error) {
	sch.syncMu.Lock()
	defer sch.syncMu.Unlock()

	from, to := sch.config.Range(timeline.DayOf(sch.now()))
	list, err := sch.source.Fetch(ctx, from, to)
	if err == nil {
		list = holidays.Between(list, from, to)
		err = sch.store.ReplaceHolidays(sch.source.Name(), list)
	}

	sch.mu.Lock()
	sch.status.LastRun = sch.now()
	sch.status.Runs++
	if err != nil {
		sch.status.LastError = err.Error()
	} else {
		sch.status.LastError = ""
		sch.status.LastCount = len(list)
	}
	sch.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("sync holidays from %s: %w", sch.source.Name(), err)
	}

	sch.rec.Record(audit.ActionHolidaySync, map[string]string{
		"source": sch.source.Name(),
		"from":   from.String(),
		"to":     to.String(),
	}, "", fmt.Sprintf("%d holidays", len(list)))
	log.Printf("[scheduler] synced %d holidays from %s (%s..%s)", len(list), sch.source.Name(), from, to)
	return len(list), nil
}

// GetStatus returns the last sync outcome and the next scheduled run.
func (sch *Scheduler) GetStatus() Status {
	sch.mu.Lock()
	st := sch.status
	sch.mu.Unlock()

	if sch.cron != nil {
		st.Next = sch.cron.Entry(sch.entryID).Next
	}
	return st
}
