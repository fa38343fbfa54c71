package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daniswara/board/internal/controlplane"
	"github.com/daniswara/board/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// Client wraps HTTP calls to the board API. It satisfies board.Source, so a
// board.Service can run on top of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// ListTasks fetches every task, completed ones included.
func (c *Client) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListProjects fetches every project.
func (c *Client) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListHolidays fetches the stored holiday calendar.
func (c *Client) ListHolidays() ([]models.Holiday, error) {
	var list []models.Holiday
	if err := c.do(http.MethodGet, "/holidays", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetTask fetches a single task
func (c *Client) GetTask(id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodGet, "/tasks/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task
func (c *Client) CreateTask(in controlplane.CreateTaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompleted marks a task done or reopens it.
func (c *Client) SetCompleted(id string, completed bool) (*models.Task, error) {
	var task models.Task
	body := map[string]bool{"completed": completed}
	if err := c.do(http.MethodPost, "/tasks/"+id+"/complete", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetStatus moves a task to another workflow state.
func (c *Client) SetStatus(id, status string) (*models.Task, error) {
	var task models.Task
	body := map[string]string{"status": status}
	if err := c.do(http.MethodPost, "/tasks/"+id+"/status", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(id string) error {
	return c.do(http.MethodDelete, "/tasks/"+id, nil, nil)
}

// SyncHolidays asks the daemon to refresh its holiday calendar.
func (c *Client) SyncHolidays() (int, error) {
	var res struct {
		Synced int `json:"synced"`
	}
	if err := c.do(http.MethodPost, "/holidays/sync", nil, &res); err != nil {
		return 0, err
	}
	return res.Synced, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
