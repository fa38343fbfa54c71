// Package tui provides the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/controlplane"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/render"
	"github.com/daniswara/board/internal/timeline"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

const (
	modeGantt  = "gantt"
	modeList   = "list"
	modeDetail = "detail"
)

// Lines above the body: title and rule. Lines below: message, command bar
// and status bar.
const (
	chromeTop    = 2
	chromeBottom = 3
)

// Options configures a new App.
type Options struct {
	Density       timeline.Density
	Division      string
	ShowCompleted bool
	// Anchor is the first month shown; zero means the current month.
	Anchor timeline.Day
}

// App is the main TUI application model.
type App struct {
	client   *Client
	boards   *board.Service
	renderer *render.Renderer
	widths   *timeline.WidthCache
	scroller *timeline.ScrollController

	snap  *board.Snapshot
	view  *board.View
	query board.Query

	gantt  *Gantt
	list   *TaskListModel
	detail *TaskDetailModel
	cmdbar *CmdBarModel

	width        int
	height       int
	mode         string
	message      string
	online       bool
	loading      bool
	highlighter  *timeline.Highlighter
	pendingClear tea.Cmd
	// lastClear is the most recently scheduled highlight expiry.
	lastClear highlightExpiredMsg
	now       func() time.Time
}

// New creates a new TUI application.
func New(apiAddr string, opts Options) *App {
	client := NewClient(apiAddr)
	widths := &timeline.WidthCache{}
	gantt := NewGantt()

	a := &App{
		client:   client,
		boards:   board.NewService(client, nil, widths),
		renderer: render.NewRenderer(widths),
		widths:   widths,
		scroller: timeline.NewScrollController(gantt),
		gantt:    gantt,
		list:     NewTaskListModel(),
		detail:   NewTaskDetailModel(),
		cmdbar:   NewCmdBarModel(),
		mode:     modeGantt,
		now:      time.Now,
		query: board.Query{
			Anchor:  opts.Anchor,
			Density: opts.Density,
			Filter: board.Filter{
				Division:      opts.Division,
				ShowCompleted: opts.ShowCompleted,
			},
		},
	}
	a.highlighter = timeline.NewHighlighter(func(id string) {
		a.query.Highlight = id
		a.rebuild()
	})
	a.highlighter.AfterFunc = a.scheduleClear
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.fetchSnapshot()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		a.rebuild()

	case snapshotLoadedMsg:
		a.loading = false
		a.online = true
		a.snap = msg.snap
		a.rebuild()

	case highlightExpiredMsg:
		if msg.timer != nil && !msg.timer.stopped {
			msg.fire()
		}

	case commandResultMsg:
		a.message = msg.message
		if msg.refresh {
			return a, a.fetchSnapshot()
		}

	case errMsg:
		a.loading = false
		if msg.offline {
			a.online = false
		}
		a.message = "Error: " + msg.err.Error()
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.cmdbar.Focused() {
		if msg.String() == "enter" {
			input := strings.TrimSpace(a.cmdbar.Submit())
			if input == "" {
				return a, nil
			}
			c, err := ParseCommand(input)
			if err != nil {
				a.message = "Error: " + err.Error()
				return a, nil
			}
			return a, a.execute(c)
		}
		var cmd tea.Cmd
		a.cmdbar, cmd = a.cmdbar.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case ":":
		a.message = ""
		return a, a.cmdbar.Focus()
	case "esc":
		if a.mode != modeGantt {
			a.mode = modeGantt
		}
		return a, nil
	case "tab":
		if a.mode == modeGantt {
			a.mode = modeList
		} else {
			a.mode = modeGantt
		}
		return a, nil
	case "r":
		return a, a.fetchSnapshot()
	case "[":
		a.shiftWindow(-1)
		return a, nil
	case "]":
		a.shiftWindow(1)
		return a, nil
	case "t":
		a.query.Anchor = timeline.Day{}
		a.rebuild()
		return a, nil
	case "d":
		a.query.Density = a.query.Density.Toggle()
		a.rebuild()
		return a, nil
	case "c":
		a.query.Filter.ShowCompleted = !a.query.Filter.ShowCompleted
		a.rebuild()
		return a, nil
	}

	switch a.mode {
	case modeGantt:
		switch msg.String() {
		case "left", "h":
			a.gantt.ScrollBy(-5)
		case "right", "l":
			a.gantt.ScrollBy(5)
		case "up", "k":
			a.gantt.ScrollRows(-1)
		case "down", "j":
			a.gantt.ScrollRows(1)
		}
	case modeList:
		if msg.String() == "enter" {
			if item := a.list.SelectedTask(); item != nil {
				a.showDetail(item.Task.ID)
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	case modeDetail:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleMouse hit-tests clicks on the chart. A bar click opens the task; a
// label click jumps to the bar, moving the window when it starts elsewhere.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.mode != modeGantt || a.view == nil {
		return nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		a.gantt.ScrollRows(-1)
		return nil
	case tea.MouseWheelDown:
		a.gantt.ScrollRows(1)
		return nil
	case tea.MouseLeft:
	default:
		return nil
	}

	x, y, ok := a.gantt.SceneAt(msg.X, msg.Y-chromeTop)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	render.Dispatch(a.view.Scene, x, y, render.Callbacks{
		OnTaskClick: func(t models.Task) {
			a.showDetail(t.ID)
		},
		OnLabelClick: func(t models.Task) {
			cmd = a.jump(t.ID)
		},
	})
	return cmd
}

func (a *App) resize() {
	body := a.height - chromeTop - chromeBottom
	if body < 3 {
		body = 3
	}
	a.gantt.SetSize(a.width, body-ganttHeaderLines)
	a.list.SetSize(a.width, body)
	a.detail.SetSize(a.width, body)
	a.cmdbar.SetWidth(a.width - 6)
	a.widths.Observe(ContainerWidth(a.width))
}

// rebuild lays out the board again from the cached snapshot.
func (a *App) rebuild() {
	if a.snap == nil {
		return
	}
	today := timeline.DayOf(a.now())
	a.view = board.BuildView(a.renderer, a.snap, a.query, today)
	a.gantt.SetScene(a.view.Scene)
	a.list.SetTasks(a.view.Tasks, a.view.Numbers, a.snap.Projects)
	a.list.SetTitle(fmt.Sprintf("Tasks [%s]", a.filterLabel()))
	if t := a.detail.Task(); t != nil {
		if fresh := a.findTask(t.ID); fresh != nil {
			a.detail.SetTask(fresh, a.view.Numbers[fresh.ID], a.findProject(fresh.ProjectID), today)
		}
	}
}

func (a *App) shiftWindow(n int) {
	if a.view == nil {
		return
	}
	a.query.Anchor = a.view.Window.Shift(n, a.query.Density).Start
	a.gantt.ScrollTo(0, false)
	a.rebuild()
}

// highlight emphasises id and returns the tick that clears it. A newer
// highlight supersedes the pending clear.
func (a *App) highlight(id string) tea.Cmd {
	a.highlighter.Set(id)
	cmd := a.pendingClear
	a.pendingClear = nil
	return cmd
}

// tickTimer is a Highlighter timer driven by a tea.Tick. Stopping it only
// marks the expiry message as stale.
type tickTimer struct {
	stopped bool
}

func (t *tickTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// scheduleClear is the Highlighter's AfterFunc: f runs inside Update when
// the tick arrives, so the highlight state is only touched by the event loop.
func (a *App) scheduleClear(d time.Duration, f func()) timeline.Timer {
	t := &tickTimer{}
	msg := highlightExpiredMsg{timer: t, fire: f}
	a.lastClear = msg
	a.pendingClear = tea.Tick(d, func(time.Time) tea.Msg { return msg })
	return t
}

// jump brings the task named by ref into view, moving the window to the
// task's month first when needed.
func (a *App) jump(ref string) tea.Cmd {
	id, ok := a.resolve(ref)
	if !ok {
		a.message = fmt.Sprintf("Error: no task %s", ref)
		return nil
	}
	task := a.findTask(id)
	plan, ok := timeline.PlanJump(task, a.view.Window)
	if !ok {
		a.message = fmt.Sprintf("Error: task %s has no start date", ref)
		return nil
	}
	if plan.Shift {
		a.query.Anchor = plan.Anchor
		a.rebuild()
	}
	a.scroller.ScrollToTask(task, a.view.Window, a.view.Scene.Metrics)

	row := -1
	for _, l := range a.view.Scene.Labels {
		if l.TaskID == id {
			row = l.Row
		}
	}
	if row < 0 {
		a.message = fmt.Sprintf("Task %s is hidden by the current filter", ref)
	} else {
		a.gantt.RevealRow(row)
		a.message = fmt.Sprintf("→ %s %s", a.view.Numbers[id], task.Title)
	}
	a.mode = modeGantt
	return a.highlight(id)
}

func (a *App) showDetail(id string) {
	t := a.findTask(id)
	if t == nil {
		return
	}
	a.detail.SetTask(t, a.view.Numbers[id], a.findProject(t.ProjectID), timeline.DayOf(a.now()))
	a.mode = modeDetail
}

// resolve maps a board number or a task id to an id.
func (a *App) resolve(ref string) (string, bool) {
	if a.view == nil {
		return "", false
	}
	if id, ok := timeline.FindByNumber(a.view.Numbers, ref); ok {
		return id, true
	}
	if a.findTask(strings.TrimSpace(ref)) != nil {
		return strings.TrimSpace(ref), true
	}
	return "", false
}

func (a *App) findTask(id string) *models.Task {
	if a.snap == nil {
		return nil
	}
	for i := range a.snap.Tasks {
		if a.snap.Tasks[i].ID == id {
			t := a.snap.Tasks[i]
			return &t
		}
	}
	return nil
}

func (a *App) findProject(id string) *models.Project {
	if a.snap == nil || id == "" {
		return nil
	}
	for i := range a.snap.Projects {
		if a.snap.Projects[i].ID == id {
			return &a.snap.Projects[i]
		}
	}
	return nil
}

func (a *App) filterLabel() string {
	div := strings.TrimSpace(a.query.Filter.Division)
	if div == "" {
		div = board.AllDivisions
	}
	if a.query.Filter.ShowCompleted {
		return div + " +done"
	}
	return div
}

// execute runs a parsed command. View commands apply at once; edits go to
// the daemon and refresh the snapshot.
func (a *App) execute(c Command) tea.Cmd {
	switch c.Name {
	case "quit":
		return tea.Quit
	case "goto":
		s := c.Args[0]
		if len(s) == len("2006-01") {
			s += "-01"
		}
		d, ok := timeline.ParseDay(s)
		if !ok {
			a.message = "Error: usage: " + commandUsage["goto"]
			return nil
		}
		a.query.Anchor = d
		a.gantt.ScrollTo(0, false)
		a.rebuild()
		return nil
	case "next":
		a.shiftWindow(1)
		return nil
	case "prev":
		a.shiftWindow(-1)
		return nil
	case "today":
		a.query.Anchor = timeline.Day{}
		a.rebuild()
		return nil
	case "jump":
		return a.jump(c.Args[0])
	case "filter":
		div := strings.Join(c.Args, " ")
		if !strings.EqualFold(div, board.AllDivisions) {
			if _, ok := models.ParseDivision(div); !ok {
				a.message = fmt.Sprintf("Error: unknown division %q", div)
				return nil
			}
		}
		a.query.Filter.Division = div
		a.rebuild()
		return nil
	case "completed":
		a.query.Filter.ShowCompleted = !a.query.Filter.ShowCompleted
		a.rebuild()
		return nil
	case "density":
		if len(c.Args) > 0 {
			d, err := timeline.ParseDensity(c.Args[0])
			if err != nil {
				a.message = "Error: " + err.Error()
				return nil
			}
			a.query.Density = d
		} else {
			a.query.Density = a.query.Density.Toggle()
		}
		a.rebuild()
		return nil
	}

	return a.remote(c)
}

// remote runs the commands that change data on the daemon.
func (a *App) remote(c Command) tea.Cmd {
	var id string
	if c.Name != "add" && c.Name != "sync" {
		var ok bool
		if id, ok = a.resolve(c.Args[0]); !ok {
			a.message = fmt.Sprintf("Error: no task %s", c.Args[0])
			return nil
		}
	}
	client := a.client

	return func() tea.Msg {
		switch c.Name {
		case "add":
			task, err := client.CreateTask(controlplane.CreateTaskInput{
				StartDate: c.Args[0],
				EndDate:   c.Args[1],
				Title:     strings.Join(c.Args[2:], " "),
			})
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Created %s", task.Title), refresh: true}

		case "done", "undone":
			if _, err := client.SetCompleted(id, c.Name == "done"); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: "✓ Updated " + c.Args[0], refresh: true}

		case "status":
			task, err := client.SetStatus(id, c.Args[1])
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ %s is %s", c.Args[0], task.Status), refresh: true}

		case "rm":
			if err := client.DeleteTask(id); err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: "✓ Deleted " + c.Args[0], refresh: true}

		case "sync":
			n, err := client.SyncHolidays()
			if err != nil {
				return commandResultMsg{message: "Error: " + err.Error()}
			}
			return commandResultMsg{message: fmt.Sprintf("✓ Synced %d holidays", n), refresh: true}
		}
		return commandResultMsg{message: "Unknown command: " + c.Name}
	}
}

func (a *App) fetchSnapshot() tea.Cmd {
	a.loading = true
	boards := a.boards
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultClientTimeout)
		defer cancel()
		snap, err := boards.Snapshot(ctx)
		if err != nil {
			return errMsg{err: err, offline: true}
		}
		return snapshotLoadedMsg{snap: snap}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	status := onlineStyle.Render("● DAEMON")
	if !a.online {
		status = offlineStyle.Render("○ DAEMON")
	}
	header := titleStyle.Render("📅 Board")
	if a.view != nil {
		header += "  " + lipgloss.NewStyle().Bold(true).Render(a.view.Window.Start.Time().Format("January 2006"))
		if a.query.Density == timeline.Wide {
			header += " – " + lipgloss.NewStyle().Bold(true).Render(a.view.Window.End.Time().Format("January 2006"))
		}
		st := a.view.Stats
		header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(
			fmt.Sprintf("[%d/%d done, %d%%]", st.Completed, st.Total, st.Efficiency))
		header += "  " + helpStyle.Render(a.filterLabel())
	}
	header += "  " + status
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 0)) + "\n")

	switch {
	case a.snap == nil && a.loading:
		b.WriteString("\n  Loading board...\n")
	case a.snap == nil:
		b.WriteString("\n  Board unavailable. Is the daemon running? Press r to retry.\n")
	default:
		switch a.mode {
		case modeGantt:
			b.WriteString(a.gantt.View())
		case modeList:
			b.WriteString(a.list.View())
		case modeDetail:
			b.WriteString(a.detail.View())
		}
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n" + a.cmdbar.View() + "\n")

	var keys string
	switch a.mode {
	case modeGantt:
		keys = " ←→:scroll | ↑↓:rows | [ ]:month | t:today | d:density | c:done | Tab:list | click label:jump | q:quit"
	case modeList:
		keys = " ↑↓:nav | Enter:open | Tab:chart | c:done | q:quit"
	default:
		keys = " ↑↓:scroll | Esc:back | q:quit"
	}
	b.WriteString(statusBarStyle.Width(max(a.width, 0)).Render(keys))

	return b.String()
}

type commandResultMsg struct {
	message string
	refresh bool
}

type errMsg struct {
	err     error
	offline bool
}

type snapshotLoadedMsg struct {
	snap *board.Snapshot
}

type highlightExpiredMsg struct {
	timer *tickTimer
	fire  func()
}
