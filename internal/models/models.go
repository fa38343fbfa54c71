// Package models defines the core domain types for the scheduling board.
package models

import (
	"strings"
	"time"
)

// TaskStatus represents a task's position in the workflow.
type TaskStatus string

const (
	TaskStatusDraft     TaskStatus = "Draft"
	TaskStatusExecution TaskStatus = "Eksekusi"
	TaskStatusReview    TaskStatus = "Review"
	TaskStatusFinalized TaskStatus = "Finalisasi"
)

// TaskStatuses lists the workflow states in order.
var TaskStatuses = []TaskStatus{
	TaskStatusDraft,
	TaskStatusExecution,
	TaskStatusReview,
	TaskStatusFinalized,
}

// Rank returns the position of s in the workflow, or -1 if s is unknown.
// An empty status ranks as Draft.
func (s TaskStatus) Rank() int {
	if s == "" {
		return 0
	}
	for i, st := range TaskStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether s is the final workflow state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusFinalized
}

// ParseTaskStatus matches s case-insensitively against the known states.
// "execution" and "finalized" are accepted as aliases.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "execution":
		return TaskStatusExecution, true
	case "finalized", "final":
		return TaskStatusFinalized, true
	}
	for _, st := range TaskStatuses {
		if strings.ToLower(string(st)) == v {
			return st, true
		}
	}
	return "", false
}

// Division is the organisational unit owning a task or project.
type Division string

const (
	DivisionGeneral  Division = "General"
	DivisionBusdev   Division = "Busdev"
	DivisionOperasi  Division = "Operasi"
	DivisionKeuangan Division = "Keuangan"
)

// Divisions lists the known divisions in display order.
var Divisions = []Division{DivisionGeneral, DivisionBusdev, DivisionOperasi, DivisionKeuangan}

// ParseDivision matches s case-insensitively against the known divisions.
func ParseDivision(s string) (Division, bool) {
	v := strings.TrimSpace(s)
	for _, d := range Divisions {
		if strings.EqualFold(string(d), v) {
			return d, true
		}
	}
	return "", false
}

// OrGeneral returns d, or General when d is empty.
func (d Division) OrGeneral() Division {
	if strings.TrimSpace(string(d)) == "" {
		return DivisionGeneral
	}
	return d
}

// Task is a scheduled unit of work. Dates are calendar dates (YYYY-MM-DD)
// kept as strings: they come from user input and may be malformed.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	ProjectID   string     `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Division    Division   `json:"division" yaml:"division"`
	Assignees   []string   `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	StartDate   string     `json:"start_date" yaml:"start_date"`
	EndDate     string     `json:"end_date" yaml:"end_date"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Status      TaskStatus `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`

	// Milestone dates recorded as the task moves through the workflow.
	StartedAt   string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	ReviewedAt  string `json:"reviewed_at,omitempty" yaml:"reviewed_at,omitempty"`
	FinalizedAt string `json:"finalized_at,omitempty" yaml:"finalized_at,omitempty"`
}

// IsDone reports whether the task is completed or finalized.
func (t *Task) IsDone() bool {
	return t.Completed || t.Status.IsTerminal()
}

// Project groups tasks under a name and owning division.
type Project struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Division  Division  `json:"division" yaml:"division"`
	StartDate string    `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Holiday flags a non-working calendar date.
type Holiday struct {
	Date string `json:"date" yaml:"date"`
	Name string `json:"name" yaml:"name"`
}

// ViewEvent records a board interaction for audit.
type ViewEvent struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	TaskID     string    `json:"task_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
