package audit

import (
	"testing"

	"github.com/daniswara/board/internal/models"
)

type memSink struct {
	events []models.ViewEvent
}

func (m *memSink) WriteViewEvent(action, inputsHash, taskID, details string) (*models.ViewEvent, error) {
	ev := models.ViewEvent{Action: action, InputsHash: inputsHash, TaskID: taskID, Details: details}
	m.events = append(m.events, ev)
	return &ev, nil
}

func TestRecorder(t *testing.T) {
	sink := &memSink{}
	r := NewRecorder(sink)

	in := map[string]string{"anchor": "2025-03-01", "density": "compact"}
	if _, err := r.Record(ActionRender, in, "", "31 columns"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := r.Record(ActionRender, in, "", ""); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := r.Record(ActionClickBar, map[string]float64{"x": 1}, "t1", ""); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(sink.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(sink.events))
	}
	if sink.events[0].InputsHash != sink.events[1].InputsHash {
		t.Error("Expected identical inputs to hash the same")
	}
	if sink.events[0].InputsHash == sink.events[2].InputsHash {
		t.Error("Expected different inputs to hash differently")
	}
	if len(sink.events[0].InputsHash) != 64 {
		t.Errorf("Expected hex sha256, got %q", sink.events[0].InputsHash)
	}
}

func TestRecorderWithoutSink(t *testing.T) {
	var r *Recorder
	if ev, err := r.Record(ActionRender, nil, "", ""); ev != nil || err != nil {
		t.Errorf("Expected nil recorder to discard, got %v %v", ev, err)
	}
	if ev, err := NewRecorder(nil).Record(ActionRender, nil, "", ""); ev != nil || err != nil {
		t.Errorf("Expected nil sink to discard, got %v %v", ev, err)
	}
}

func TestHashInputsError(t *testing.T) {
	if got := HashInputs(make(chan int)); got != "hash_error" {
		t.Errorf("Expected hash_error, got %s", got)
	}
}
