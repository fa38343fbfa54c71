// Package controlplane provides the HTTP API and the write-side service of
// the board.
package controlplane

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/store"
	"github.com/daniswara/board/internal/timeline"
)

// Service validates and applies changes to tasks and projects.
type Service struct {
	store *store.Store
	rec   *audit.Recorder
	now   func() time.Time
}

// NewService creates a new control plane service.
func NewService(s *store.Store, rec *audit.Recorder) *Service {
	return &Service{
		store: s,
		rec:   rec,
		now:   time.Now,
	}
}

func (s *Service) today() string {
	return timeline.DayOf(s.now()).String()
}

// --- Project Operations ---

// CreateProjectInput is the payload for a new project.
type CreateProjectInput struct {
	Name      string `json:"name"`
	Division  string `json:"division"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CreateProject validates in and stores a project.
func (s *Service) CreateProject(in CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	div, err := parseDivision(in.Division)
	if err != nil {
		return nil, err
	}
	start, end, err := normalizeRange(in.StartDate, in.EndDate, false)
	if err != nil {
		return nil, err
	}
	return s.store.CreateProject(name, div, start, end)
}

// ListProjects returns all projects, oldest first.
func (s *Service) ListProjects() ([]models.Project, error) {
	return s.store.ListProjects()
}

// --- Task Operations ---

// CreateTaskInput is the payload for a new task. Missing dates default to
// today.
type CreateTaskInput struct {
	ProjectID   string   `json:"project_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Division    string   `json:"division"`
	Assignees   []string `json:"assignees,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Status      string   `json:"status,omitempty"`
	Completed   bool     `json:"completed,omitempty"`
	FinalizedAt string   `json:"finalized_at,omitempty"`
}

// CreateTask validates in and stores a task. A task created as finalized,
// or with a finalization date, is marked completed.
func (s *Service) CreateTask(in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	div, err := parseDivision(in.Division)
	if err != nil {
		return nil, err
	}
	startIn, endIn := in.StartDate, in.EndDate
	if startIn == "" {
		startIn = s.today()
	}
	if endIn == "" {
		endIn = startIn
	}
	start, end, err := normalizeRange(startIn, endIn, true)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatusDraft
	if in.Status != "" {
		st, ok := models.ParseTaskStatus(in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
		}
		status = st
	}
	finalizedAt := ""
	if in.FinalizedAt != "" {
		d, ok := timeline.ParseDay(in.FinalizedAt)
		if !ok {
			return nil, fmt.Errorf("%w: finalized_at %q", ErrInvalidDate, in.FinalizedAt)
		}
		finalizedAt = d.String()
	}

	if in.ProjectID != "" {
		p, err := s.store.GetProject(in.ProjectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProjectNotFound
		}
	}

	task, err := s.store.CreateTask(models.Task{
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: in.Description,
		Division:    div,
		Assignees:   in.Assignees,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Completed:   in.Completed || status.IsTerminal() || finalizedAt != "",
		FinalizedAt: finalizedAt,
	})
	if err != nil {
		return nil, err
	}

	s.rec.Record(audit.ActionTaskCreate, in, task.ID, "")
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id string) (*models.Task, error) {
	task, err := s.store.GetTask(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns all tasks, oldest first.
func (s *Service) ListTasks() ([]models.Task, error) {
	return s.store.ListTasks()
}

// SetCompleted toggles the completed flag.
func (s *Service) SetCompleted(id string, completed bool) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	task.Completed = completed
	if err := s.update(task); err != nil {
		return nil, err
	}
	s.rec.Record(audit.ActionTaskComplete, map[string]any{"id": id, "completed": completed}, id, "")
	return task, nil
}

// SetStatus moves a task through the workflow, stamping the milestone date
// of the new state the first time it is reached. Finalizing completes the
// task.
func (s *Service) SetStatus(id, status string) (*models.Task, error) {
	st, ok := models.ParseTaskStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	today := s.today()
	task.Status = st
	switch st {
	case models.TaskStatusExecution:
		if task.StartedAt == "" {
			task.StartedAt = today
		}
	case models.TaskStatusReview:
		if task.ReviewedAt == "" {
			task.ReviewedAt = today
		}
	case models.TaskStatusFinalized:
		if task.FinalizedAt == "" {
			task.FinalizedAt = today
		}
		task.Completed = true
	}
	if err := s.update(task); err != nil {
		return nil, err
	}
	s.rec.Record(audit.ActionTaskStatus, map[string]string{"id": id, "status": string(st)}, id, "")
	return task, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(id string) error {
	if err := s.store.DeleteTask(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	s.rec.Record(audit.ActionTaskDelete, map[string]string{"id": id}, id, "")
	return nil
}

func (s *Service) update(task *models.Task) error {
	if err := s.store.UpdateTask(task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

// --- Holiday Operations ---

// ListHolidays returns the stored holiday calendar.
func (s *Service) ListHolidays() ([]models.Holiday, error) {
	return s.store.ListHolidays()
}

func parseDivision(s string) (models.Division, error) {
	if strings.TrimSpace(s) == "" {
		return models.DivisionGeneral, nil
	}
	d, ok := models.ParseDivision(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDivision, s)
	}
	return d, nil
}

// normalizeRange parses and reformats a date range. Empty dates are allowed
// unless required; a range ending before it starts is rejected.
func normalizeRange(startIn, endIn string, required bool) (string, string, error) {
	var start, end timeline.Day
	var ok bool
	if startIn != "" || required {
		if start, ok = timeline.ParseDay(startIn); !ok {
			return "", "", fmt.Errorf("%w: start %q", ErrInvalidDate, startIn)
		}
	}
	if endIn != "" || required {
		if end, ok = timeline.ParseDay(endIn); !ok {
			return "", "", fmt.Errorf("%w: end %q", ErrInvalidDate, endIn)
		}
	}
	if start.Valid() && end.Valid() && end.Before(start) {
		return "", "", fmt.Errorf("%w: end %s is before start %s", ErrInvalidDate, end, start)
	}
	var startOut, endOut string
	if start.Valid() {
		startOut = start.String()
	}
	if end.Valid() {
		endOut = end.String()
	}
	return startOut, endOut, nil
}
