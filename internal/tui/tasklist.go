package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/render"
	"github.com/daniswara/board/internal/timeline"
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusDraft     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusExecution = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // Blue
	statusReview    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	statusFinalized = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
)

// TaskItem implements list.Item for the task list
type TaskItem struct {
	Task     models.Task
	Number   string
	SubLabel string
}

func (i TaskItem) FilterValue() string { return i.Task.Title }
func (i TaskItem) Title() string {
	title := i.Task.Title
	if title == "" {
		title = "Untitled"
	}
	if i.Completed() {
		title += " ✓"
	}
	return i.Number + "  " + title
}
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s • %s • due %s", i.SubLabel, formatStatus(i.Task.Status), dueLabel(i.Task.EndDate))
}

// dueLabel formats an end date as "07 Mar 25", or returns it unchanged when
// it does not parse.
func dueLabel(end string) string {
	d, ok := timeline.ParseDay(end)
	if !ok {
		return end
	}
	return d.Time().Format("02 Jan 06")
}

// Completed reports whether the task counts as done.
func (i TaskItem) Completed() bool {
	return i.Task.IsDone()
}

func formatStatus(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusExecution:
		return statusExecution.Render("● " + string(status))
	case models.TaskStatusReview:
		return statusReview.Render("● " + string(status))
	case models.TaskStatusFinalized:
		return statusFinalized.Render("● " + string(status))
	default:
		return statusDraft.Render("○ " + string(models.TaskStatusDraft))
	}
}

// TaskListModel lists the visible tasks grouped by project number.
type TaskListModel struct {
	list   list.Model
	items  []TaskItem
	width  int
	height int
}

// NewTaskListModel creates a new task list model
func NewTaskListModel() *TaskListModel {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = listTitleStyle

	return &TaskListModel{
		list: l,
	}
}

// SetSize sets the list dimensions
func (m *TaskListModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// SetTasks replaces the items, ordered by board number so that tasks of
// one project sit together. General tasks come after every project.
func (m *TaskListModel) SetTasks(tasks []models.Task, numbers map[string]string, projects []models.Project) {
	byID := make(map[string]*models.Project, len(projects))
	for i := range projects {
		byID[projects[i].ID] = &projects[i]
	}

	m.items = make([]TaskItem, len(tasks))
	for i := range tasks {
		t := tasks[i]
		m.items[i] = TaskItem{
			Task:     t,
			Number:   numbers[t.ID],
			SubLabel: render.SubLabel(&t, byID[t.ProjectID]),
		}
	}
	sort.SliceStable(m.items, func(i, j int) bool {
		gi, gj := isGeneral(m.items[i].Number), isGeneral(m.items[j].Number)
		if gi != gj {
			return gj
		}
		return timeline.CompareNumbers(m.items[i].Number, m.items[j].Number) < 0
	})

	items := make([]list.Item, len(m.items))
	for i, it := range m.items {
		items[i] = it
	}
	m.list.SetItems(items)
}

// SetTitle sets the list heading.
func (m *TaskListModel) SetTitle(title string) {
	m.list.Title = title
}

// SelectedTask returns the currently selected task
func (m *TaskListModel) SelectedTask() *TaskItem {
	if item := m.list.SelectedItem(); item != nil {
		task := item.(TaskItem)
		return &task
	}
	return nil
}

// Items returns the listed tasks in display order.
func (m *TaskListModel) Items() []TaskItem {
	return m.items
}

// Update handles messages
func (m *TaskListModel) Update(msg tea.Msg) (*TaskListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task list
func (m *TaskListModel) View() string {
	if len(m.items) == 0 {
		return "\n  No tasks in view. Type : then add <start> <end> <title> to create one.\n"
	}
	return m.list.View()
}

func isGeneral(number string) bool {
	return strings.HasPrefix(number, "0.")
}
