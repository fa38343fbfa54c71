// Package store provides SQLite-backed persistence for the board.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daniswara/board/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("not found")

// Store provides access to the board SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		division TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT,
		title TEXT NOT NULL,
		description TEXT,
		division TEXT NOT NULL,
		assignees TEXT,
		start_date TEXT,
		end_date TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Draft',
		started_at TEXT,
		reviewed_at TEXT,
		finalized_at TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS view_events (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		task_id TEXT,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
	CREATE INDEX IF NOT EXISTS idx_view_events_task_id ON view_events(task_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- Project Operations ---

// CreateProject inserts a new project. An empty division becomes General.
func (s *Store) CreateProject(name string, division models.Division, startDate, endDate string) (*models.Project, error) {
	p := &models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Division:  division.OrGeneral(),
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, division, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Division, p.StartDate, p.EndDate, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetProject retrieves a project by ID. It returns nil if there is none.
func (s *Store) GetProject(id string) (*models.Project, error) {
	p := &models.Project{}
	var start, end sql.NullString
	err := s.db.QueryRow(
		`SELECT id, name, division, start_date, end_date, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Division, &start, &end, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}
	p.StartDate, p.EndDate = start.String, end.String
	return p, nil
}

// ListProjects returns all projects, oldest first.
func (s *Store) ListProjects() ([]models.Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, division, start_date, end_date, created_at FROM projects ORDER BY created_at ASC, rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var start, end sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Division, &start, &end, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.StartDate, p.EndDate = start.String, end.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// --- Task Operations ---

const taskColumns = `id, project_id, title, description, division, assignees, start_date, end_date,
	completed, status, started_at, reviewed_at, finalized_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (*models.Task, error) {
	var t models.Task
	var projectID, desc, assignees, start, end, startedAt, reviewedAt, finalizedAt sql.NullString
	err := sc.Scan(&t.ID, &projectID, &t.Title, &desc, &t.Division, &assignees, &start, &end,
		&t.Completed, &t.Status, &startedAt, &reviewedAt, &finalizedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.ProjectID = projectID.String
	t.Description = desc.String
	t.StartDate, t.EndDate = start.String, end.String
	t.StartedAt, t.ReviewedAt, t.FinalizedAt = startedAt.String, reviewedAt.String, finalizedAt.String
	if assignees.Valid && assignees.String != "" {
		if err := json.Unmarshal([]byte(assignees.String), &t.Assignees); err != nil {
			return nil, fmt.Errorf("decode assignees: %w", err)
		}
	}
	return &t, nil
}

func encodeAssignees(a []string) (string, error) {
	if len(a) == 0 {
		return "", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode assignees: %w", err)
	}
	return string(b), nil
}

// CreateTask inserts t with a fresh ID. CreatedAt is kept when set so
// imported tasks retain their numbering order.
func (s *Store) CreateTask(t models.Task) (*models.Task, error) {
	t.ID = uuid.New().String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Division = t.Division.OrGeneral()
	if t.Status == "" {
		t.Status = models.TaskStatusDraft
	}
	assignees, err := encodeAssignees(t.Assignees)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Division, assignees, t.StartDate, t.EndDate,
		t.Completed, t.Status, t.StartedAt, t.ReviewedAt, t.FinalizedAt, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

// GetTask retrieves a task by ID. It returns nil if there is none.
func (s *Store) GetTask(id string) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

// ListTasks returns all tasks, oldest first.
func (s *Store) ListTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask writes every mutable field of t.
func (s *Store) UpdateTask(t *models.Task) error {
	assignees, err := encodeAssignees(t.Assignees)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET project_id = ?, title = ?, description = ?, division = ?, assignees = ?,
			start_date = ?, end_date = ?, completed = ?, status = ?, started_at = ?, reviewed_at = ?, finalized_at = ?
		 WHERE id = ?`,
		t.ProjectID, t.Title, t.Description, t.Division.OrGeneral(), assignees,
		t.StartDate, t.EndDate, t.Completed, t.Status, t.StartedAt, t.ReviewedAt, t.FinalizedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOne(res)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Holiday Operations ---

// ReplaceHolidays swaps the stored calendar for list in one transaction.
func (s *Store) ReplaceHolidays(source string, list []models.Holiday) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM holidays`); err != nil {
		return fmt.Errorf("clear holidays: %w", err)
	}
	for _, h := range list {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO holidays (date, name, source) VALUES (?, ?, ?)`,
			h.Date, h.Name, source,
		); err != nil {
			return fmt.Errorf("insert holiday: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListHolidays returns the stored calendar sorted by date.
func (s *Store) ListHolidays() ([]models.Holiday, error) {
	rows, err := s.db.Query(`SELECT date, name FROM holidays ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var list []models.Holiday
	for rows.Next() {
		var h models.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// --- View Event Operations ---

// WriteViewEvent records a board interaction.
func (s *Store) WriteViewEvent(action, inputsHash, taskID, details string) (*models.ViewEvent, error) {
	ev := &models.ViewEvent{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		TaskID:     taskID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO view_events (id, action, inputs_hash, task_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Action, ev.InputsHash, ev.TaskID, ev.Details, ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert view event: %w", err)
	}
	return ev, nil
}

// ListViewEvents returns the most recent events first, at most limit.
func (s *Store) ListViewEvents(limit int) ([]models.ViewEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, action, inputs_hash, task_id, details, timestamp FROM view_events ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query view events: %w", err)
	}
	defer rows.Close()

	var events []models.ViewEvent
	for rows.Next() {
		var ev models.ViewEvent
		var taskID, details sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.InputsHash, &taskID, &details, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		ev.TaskID, ev.Details = taskID.String, details.String
		events = append(events, ev)
	}
	return events, rows.Err()
}
