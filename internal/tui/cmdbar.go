package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cmdBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// Command is one parsed command bar line.
type Command struct {
	Name string
	Args []string
}

// commandArity is the minimum number of arguments of each command.
var commandArity = map[string]int{
	"goto":      1,
	"jump":      1,
	"next":      0,
	"prev":      0,
	"today":     0,
	"filter":    1,
	"completed": 0,
	"density":   0,
	"add":       3,
	"done":      1,
	"undone":    1,
	"status":    2,
	"rm":        1,
	"sync":      0,
	"quit":      0,
}

var commandAliases = map[string]string{
	"g": "goto",
	"j": "jump",
	"n": "next",
	"p": "prev",
	"f": "filter",
	"q": "quit",
}

var commandUsage = map[string]string{
	"goto":   "goto <YYYY-MM>",
	"jump":   "jump <number|id>",
	"filter": "filter <division|all>",
	"add":    "add <start> <end> <title>",
	"done":   "done <number>",
	"undone": "undone <number>",
	"status": "status <number> <draft|eksekusi|review|finalisasi>",
	"rm":     "rm <number>",
}

// ParseCommand splits input into a command and its arguments.
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name := strings.ToLower(parts[0])
	if full, ok := commandAliases[name]; ok {
		name = full
	}
	arity, ok := commandArity[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown command: %s (try: goto, jump, filter, add, done, status)", parts[0])
	}
	args := parts[1:]
	if len(args) < arity {
		return Command{}, fmt.Errorf("usage: %s", commandUsage[name])
	}
	return Command{Name: name, Args: args}, nil
}

// CmdBarModel manages the command input bar
type CmdBarModel struct {
	input   textinput.Model
	focused bool
	message string
}

// NewCmdBarModel creates a new command bar
func NewCmdBarModel() *CmdBarModel {
	ti := textinput.New()
	ti.Placeholder = "goto 2025-03 | jump 1.2 | filter busdev | done 1.2"
	ti.CharLimit = 256
	return &CmdBarModel{
		input: ti,
	}
}

// Focused reports whether the bar takes key input.
func (m *CmdBarModel) Focused() bool {
	return m.focused
}

// Focus focuses the command bar
func (m *CmdBarModel) Focus() tea.Cmd {
	m.focused = true
	m.message = ""
	return m.input.Focus()
}

// Blur unfocuses the command bar
func (m *CmdBarModel) Blur() {
	m.focused = false
	m.input.Blur()
	m.input.SetValue("")
}

// Submit returns the current input and blurs
func (m *CmdBarModel) Submit() string {
	val := m.input.Value()
	m.Blur()
	return val
}

// SetMessage shows msg until the bar is focused again.
func (m *CmdBarModel) SetMessage(msg string) {
	m.message = msg
}

// SetWidth sets the input width.
func (m *CmdBarModel) SetWidth(w int) {
	m.input.Width = w
}

// Update handles messages
func (m *CmdBarModel) Update(msg tea.Msg) (*CmdBarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command bar
func (m *CmdBarModel) View() string {
	if m.focused {
		prompt := promptStyle.Render(": ")
		return cmdBarStyle.Render(prompt + m.input.View())
	}
	if m.message != "" {
		return cmdBarStyle.Render(m.message)
	}
	return cmdBarStyle.Render("Press : to enter a command (goto, jump, filter, add, done, status)")
}
