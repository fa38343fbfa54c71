package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginTop(1)
)

// TaskDetailModel shows one task in a scrollable pane.
type TaskDetailModel struct {
	viewport viewport.Model
	task     *models.Task
	number   string
	project  *models.Project
	today    timeline.Day
}

// NewTaskDetailModel creates a new task detail model
func NewTaskDetailModel() *TaskDetailModel {
	return &TaskDetailModel{
		viewport: viewport.New(80, 20),
	}
}

// SetSize sets the pane dimensions.
func (m *TaskDetailModel) SetSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h
}

// SetTask shows t.
func (m *TaskDetailModel) SetTask(t *models.Task, number string, p *models.Project, today timeline.Day) {
	m.task = t
	m.number = number
	m.project = p
	m.today = today
	m.viewport.SetContent(m.content())
	m.viewport.GotoTop()
}

// Task returns the shown task, or nil.
func (m *TaskDetailModel) Task() *models.Task {
	return m.task
}

// Update handles messages
func (m *TaskDetailModel) Update(msg tea.Msg) (*TaskDetailModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the task detail
func (m *TaskDetailModel) View() string {
	if m.task == nil {
		return "\n  No task selected.\n"
	}
	return m.viewport.View()
}

func (m *TaskDetailModel) content() string {
	t := m.task
	var b strings.Builder

	title := t.Title
	if title == "" {
		title = "Untitled"
	}
	b.WriteString(headerStyle.Render(strings.TrimSpace(m.number+" "+title)) + "\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	project := "-"
	if m.project != nil {
		project = m.project.Name
	}
	field("Project", project)
	field("Division", string(t.Division.OrGeneral()))
	field("Assignees", strings.Join(t.Assignees, ", "))
	field("Status", formatStatus(t.Status))

	b.WriteString(sectionStyle.Render("Schedule") + "\n")
	field("Start", t.StartDate)
	field("End", t.EndDate)
	if start, end, _, ok := timeline.TaskSpan(t); ok {
		field("Duration", fmt.Sprintf("%d days", timeline.DurationDays(start, end)))
	} else {
		field("Duration", "no valid dates")
	}
	health := timeline.Classify(t, m.today)
	field("Health", lipgloss.NewStyle().Foreground(lipgloss.Color(timeline.HexFor(t, m.today))).Render("■ "+health.String()))

	if t.StartedAt != "" || t.ReviewedAt != "" || t.FinalizedAt != "" {
		b.WriteString(sectionStyle.Render("Milestones") + "\n")
		field("Started", t.StartedAt)
		field("Reviewed", t.ReviewedAt)
		field("Finalized", t.FinalizedAt)
	}

	if t.Description != "" {
		b.WriteString(sectionStyle.Render("Description") + "\n")
		b.WriteString(valueStyle.Render(t.Description) + "\n")
	}
	return b.String()
}
