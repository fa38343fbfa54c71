package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/daniswara/board/internal/render"
)

// PxPerCell is how many scene pixels one terminal column stands for.
const PxPerCell = 8

// ganttHeaderLines is the month line plus the day line.
const ganttHeaderLines = 2

var (
	weekendColor  = lipgloss.Color("#334155")
	holidayColor  = lipgloss.Color("#9F1239")
	todayColor    = lipgloss.Color("#F43F5E")
	highlightFg   = lipgloss.Color("#F59E0B")
	barTextColor  = lipgloss.Color("#FFFFFF")
	gridTextColor = lipgloss.Color("#94A3B8")
)

// ContainerWidth converts a terminal width in columns to scene pixels.
func ContainerWidth(cols int) float64 {
	if cols <= 0 {
		return 0
	}
	return float64(cols * PxPerCell)
}

type cell struct {
	ch   rune
	fg   lipgloss.Color
	bg   lipgloss.Color
	bold bool
}

// Gantt draws a render.Scene on a character grid. It implements
// timeline.Viewport so a ScrollController can move it.
type Gantt struct {
	Scene *render.Scene
	// Width is the total width in columns, label column included.
	Width int
	// Height is the number of task rows shown.
	Height    int
	ScrollX   float64
	RowOffset int
}

// NewGantt returns an empty grid.
func NewGantt() *Gantt {
	return &Gantt{Width: 80, Height: 10}
}

// SetScene swaps the scene, keeping the scroll position where it still fits.
func (g *Gantt) SetScene(s *render.Scene) {
	g.Scene = s
	g.ScrollTo(g.ScrollX, false)
	g.clampRows()
}

// SetSize sets the grid size in columns and task rows.
func (g *Gantt) SetSize(width, rows int) {
	g.Width = width
	g.Height = rows
	g.ScrollTo(g.ScrollX, false)
	g.clampRows()
}

func (g *Gantt) labelCells() int {
	if g.Scene == nil {
		return 0
	}
	return int(g.Scene.Metrics.LabelColumnWidth / PxPerCell)
}

func (g *Gantt) chartCells() int {
	n := g.Width - g.labelCells()
	if n < 0 {
		return 0
	}
	return n
}

// MaxScroll is the largest useful ScrollX.
func (g *Gantt) MaxScroll() float64 {
	if g.Scene == nil {
		return 0
	}
	return math.Max(0, g.Scene.Geometry.ChartWidth()-float64(g.chartCells()*PxPerCell))
}

// ScrollTo moves the chart so that x is its left edge. The terminal has no
// animation, so smooth is ignored.
func (g *Gantt) ScrollTo(x float64, smooth bool) {
	g.ScrollX = math.Min(math.Max(0, x), g.MaxScroll())
}

// ScrollBy moves the chart by whole columns.
func (g *Gantt) ScrollBy(cols int) {
	g.ScrollTo(g.ScrollX+float64(cols*PxPerCell), false)
}

// RevealRow scrolls vertically so that row is visible.
func (g *Gantt) RevealRow(row int) {
	if row < g.RowOffset {
		g.RowOffset = row
	} else if g.Height > 0 && row >= g.RowOffset+g.Height {
		g.RowOffset = row - g.Height + 1
	}
	g.clampRows()
}

// ScrollRows moves the visible rows by n.
func (g *Gantt) ScrollRows(n int) {
	g.RowOffset += n
	g.clampRows()
}

func (g *Gantt) clampRows() {
	rows := 0
	if g.Scene != nil {
		rows = len(g.Scene.Labels)
	}
	if g.RowOffset > rows-g.Height {
		g.RowOffset = rows - g.Height
	}
	if g.RowOffset < 0 {
		g.RowOffset = 0
	}
}

func (g *Gantt) firstCell() int {
	return int(g.ScrollX / PxPerCell)
}

// SceneAt converts a position on the grid (line 0 is the month line) to
// scene coordinates for hit testing.
func (g *Gantt) SceneAt(col, line int) (x, y float64, ok bool) {
	if g.Scene == nil || g.Scene.Empty() || col < 0 || line < 0 || col >= g.Width {
		return 0, 0, false
	}
	m := g.Scene.Metrics
	lc := g.labelCells()
	if col < lc {
		x = float64(col*PxPerCell) + PxPerCell/2
	} else {
		x = m.LabelColumnWidth + float64((g.firstCell()+col-lc)*PxPerCell) + PxPerCell/2
	}
	if line < ganttHeaderLines {
		y = m.HeaderHeight / 2
	} else {
		row := g.RowOffset + line - ganttHeaderLines
		y = m.HeaderHeight + float64(row)*m.RowHeight + m.RowHeight/2
	}
	return x, y, true
}

// dayAt returns the column index under chart cell a, or -1.
func (g *Gantt) dayAt(a int) int {
	cw := g.Scene.Metrics.ColumnWidth
	if cw <= 0 {
		return -1
	}
	i := int((float64(a*PxPerCell) + PxPerCell/2) / cw)
	if i < 0 || i >= len(g.Scene.Geometry.Columns) {
		return -1
	}
	return i
}

// View renders the header lines followed by Height task rows.
func (g *Gantt) View() string {
	if g.Scene == nil {
		return ""
	}
	if g.Scene.Empty() {
		return helpStyle.Render("  Nothing to draw for this window.")
	}

	lc := g.labelCells()
	cc := g.chartCells()
	first := g.firstCell()
	lines := make([]string, 0, ganttHeaderLines+g.Height)

	months := g.blankLine(first, cc)
	days := g.blankLine(first, cc)
	for _, ml := range g.Scene.Header.Months {
		g.place(months, int(ml.X/PxPerCell)-first, ml.Text, cell{fg: primaryColor, bold: true})
	}
	for _, dl := range g.Scene.Header.Days {
		text := dl.Text
		if dl.Initial != "" && g.Scene.Metrics.ColumnWidth >= 3*PxPerCell {
			text = dl.Initial + dl.Text
		}
		st := cell{fg: gridTextColor}
		if dl.Holiday || dl.Sunday {
			st.fg = todayColor
		}
		start := int(dl.X/PxPerCell) - len(text)/2 - first
		g.place(days, start, text, st)
	}
	pad := strings.Repeat(" ", lc)
	lines = append(lines, pad+renderCells(months), pad+renderCells(days))

	end := g.RowOffset + g.Height
	if end > len(g.Scene.Labels) {
		end = len(g.Scene.Labels)
	}
	for r := g.RowOffset; r < end; r++ {
		lines = append(lines, g.label(r, lc)+renderCells(g.row(r, first, cc)))
	}
	return strings.Join(lines, "\n")
}

func (g *Gantt) blankLine(first, cc int) []cell {
	line := make([]cell, cc)
	for i := range line {
		line[i] = cell{ch: ' '}
	}
	return line
}

// place writes text at column start, skipping if it would overwrite text.
func (g *Gantt) place(line []cell, start int, text string, st cell) {
	runes := []rune(text)
	if start < 0 || start+len(runes) > len(line) {
		return
	}
	for i := range runes {
		if line[start+i].ch != ' ' {
			return
		}
	}
	for i, r := range runes {
		c := st
		c.ch = r
		line[start+i] = c
	}
}

func (g *Gantt) label(r, lc int) string {
	l := g.Scene.Labels[r]
	text := l.Number + " " + l.Title
	if l.Number == "" {
		text = l.Title
	}
	text = truncate(text, lc-1)
	style := lipgloss.NewStyle().Width(lc)
	if g.highlighted(l.TaskID) {
		style = style.Foreground(highlightFg).Bold(true)
	}
	return style.Render(text)
}

func (g *Gantt) highlighted(id string) bool {
	for _, b := range g.Scene.Bars {
		if b.TaskID == id {
			return b.Highlighted
		}
	}
	return false
}

func (g *Gantt) row(r, first, cc int) []cell {
	line := g.blankLine(first, cc)
	for i := range line {
		d := g.dayAt(first + i)
		if d < 0 {
			continue
		}
		col := g.Scene.Geometry.Columns[d]
		switch {
		case col.Holiday != nil:
			line[i] = cell{ch: '·', fg: holidayColor}
		case col.Weekend:
			line[i] = cell{ch: '·', fg: weekendColor}
		}
	}
	if t := g.Scene.Today; t != nil {
		if i := int(t.X/PxPerCell) - first; i >= 0 && i < cc {
			line[i] = cell{ch: '│', fg: todayColor}
		}
	}

	for _, b := range g.Scene.Bars {
		if b.Row != r {
			continue
		}
		from := int(math.Floor(b.X/PxPerCell)) - first
		to := int(math.Ceil((b.X+b.Width)/PxPerCell)) - first
		bg := lipgloss.Color(b.Color)
		for i := max(from, 0); i < min(to, cc); i++ {
			line[i] = cell{ch: ' ', fg: barTextColor, bg: bg}
			if b.Highlighted {
				line[i].ch = '░'
				line[i].fg = highlightFg
			}
		}
		if b.Title != "" {
			title := []rune(truncate(b.Title, to-from-1))
			for j, ch := range title {
				if i := from + 1 + j; i >= 0 && i < cc {
					line[i] = cell{ch: ch, fg: barTextColor, bg: bg, bold: b.Highlighted}
				}
			}
		}
	}
	return line
}

// renderCells styles runs of equal cells together.
func renderCells(line []cell) string {
	var b strings.Builder
	for i := 0; i < len(line); {
		j := i
		var run []rune
		for j < len(line) && sameStyle(line[i], line[j]) {
			run = append(run, line[j].ch)
			j++
		}
		c := line[i]
		if c.fg == "" && c.bg == "" && !c.bold {
			b.WriteString(string(run))
		} else {
			st := lipgloss.NewStyle().Bold(c.bold)
			if c.fg != "" {
				st = st.Foreground(c.fg)
			}
			if c.bg != "" {
				st = st.Background(c.bg)
			}
			b.WriteString(st.Render(string(run)))
		}
		i = j
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
