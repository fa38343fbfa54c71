package holidays

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/daniswara/board/internal/config"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Google reads all-day events of a public holiday calendar.
type Google struct {
	srv        *calendar.Service
	calendarID string
}

// NewGoogle authenticates with the API key or the service account file in
// cfg and returns a calendar-backed source.
func NewGoogle(ctx context.Context, cfg config.HolidaysConfig) (*Google, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, calendar.CalendarReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parsing credentials file: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("google holiday source needs an api key or credentials file")
	}

	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return NewGoogleService(srv, cfg.CalendarID), nil
}

// NewGoogleService wraps an existing calendar service.
func NewGoogleService(srv *calendar.Service, calendarID string) *Google {
	return &Google{srv: srv, calendarID: calendarID}
}

func (g *Google) Name() string { return "google" }

// Fetch lists the calendar's events in [from, to]. Multi-day all-day events
// yield one holiday per day; the end date of an all-day event is exclusive.
func (g *Google) Fetch(ctx context.Context, from, to timeline.Day) ([]models.Holiday, error) {
	call := g.srv.Events.List(g.calendarID).SingleEvents(true).OrderBy("startTime")
	if from.Valid() {
		call = call.TimeMin(from.Time().Format(time.RFC3339))
	}
	if to.Valid() {
		call = call.TimeMax(to.AddDays(1).Time().Format(time.RFC3339))
	}

	var list []models.Holiday
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			list = append(list, eventDays(ev)...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	return Between(list, from, to), nil
}

func eventDays(ev *calendar.Event) []models.Holiday {
	if ev == nil || ev.Start == nil {
		return nil
	}
	raw := ev.Start.Date
	if raw == "" {
		raw = ev.Start.DateTime
	}
	start, ok := timeline.ParseDay(raw)
	if !ok {
		return nil
	}
	days := []timeline.Day{start}
	if ev.End != nil && ev.End.Date != "" {
		if end, ok := timeline.ParseDay(ev.End.Date); ok && end.After(start) {
			days = timeline.DaysBetween(start, end.AddDays(-1))
		}
	}
	out := make([]models.Holiday, 0, len(days))
	for _, d := range days {
		out = append(out, models.Holiday{Date: d.String(), Name: ev.Summary})
	}
	return out
}
