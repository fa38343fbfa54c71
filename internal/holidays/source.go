// Package holidays supplies the non-working days shaded on the board.
package holidays

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/daniswara/board/internal/config"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
)

// ErrNoSource is returned for an unknown source kind.
var ErrNoSource = errors.New("no such holiday source")

// Source fetches holidays falling within [from, to]. A zero from or to
// leaves that side open.
type Source interface {
	Name() string
	Fetch(ctx context.Context, from, to timeline.Day) ([]models.Holiday, error)
}

// New builds the source selected by cfg.
func New(ctx context.Context, cfg config.HolidaysConfig) (Source, error) {
	switch cfg.Source {
	case "", config.SourceBuiltin:
		return Builtin{}, nil
	case config.SourceFile:
		return &File{Path: cfg.File}, nil
	case config.SourceGoogle:
		return NewGoogle(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoSource, cfg.Source)
	}
}

// Between keeps the holidays whose date lies in [from, to], sorted by date
// with unparseable entries dropped. Duplicate dates keep the first name.
func Between(list []models.Holiday, from, to timeline.Day) []models.Holiday {
	seen := make(map[timeline.Day]bool)
	var out []models.Holiday
	for _, h := range list {
		d, ok := timeline.ParseDay(h.Date)
		if !ok || seen[d] {
			continue
		}
		if from.Valid() && d.Before(from) {
			continue
		}
		if to.Valid() && d.After(to) {
			continue
		}
		seen[d] = true
		out = append(out, models.Holiday{Date: d.String(), Name: h.Name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
