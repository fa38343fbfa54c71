// Package audit records board interactions: renders, clicks and task edits.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/daniswara/board/internal/models"
)

// Actions recorded by the board.
const (
	ActionRender       = "board.render"
	ActionClickBar     = "board.click.bar"
	ActionClickLabel   = "board.click.label"
	ActionTaskCreate   = "task.create"
	ActionTaskStatus   = "task.status"
	ActionTaskComplete = "task.complete"
	ActionTaskDelete   = "task.delete"
	ActionHolidaySync  = "holiday.sync"
)

// Sink persists view events.
type Sink interface {
	WriteViewEvent(action, inputsHash, taskID, details string) (*models.ViewEvent, error)
}

// Recorder writes view events with a digest of their inputs, so two events
// produced from identical inputs can be recognised.
type Recorder struct {
	sink Sink
}

// NewRecorder creates a recorder writing to sink. A nil sink discards.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Record writes one event.
func (r *Recorder) Record(action string, inputs any, taskID, details string) (*models.ViewEvent, error) {
	if r == nil || r.sink == nil {
		return nil, nil
	}
	return r.sink.WriteViewEvent(action, HashInputs(inputs), taskID, details)
}

// HashInputs returns the hex SHA-256 of the JSON encoding of inputs.
func HashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
