package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element ids referenced from the drawing.
const (
	ClipID   = "gantt-chart-boundary"
	ShadowID = "task-shadow"
)

// Palette of the static parts of the board.
const (
	gridStroke     = "#f1f5f9"
	weekendFill    = "#f8fafc"
	holidayFill    = "#fff1f2"
	headerMuted    = "#94a3b8"
	dayText        = "#334155"
	holidayText    = "#ef4444"
	initialMuted   = "#cbd5e1"
	initialAlert   = "#f43f5e"
	todayStroke    = "#f43f5e"
	highlightRing  = "#f59e0b"
	labelHeadText  = "#64748b"
	labelTitleText = "#1e293b"
	subLabelText   = "#6366f1"
	rowAltFill     = "#fcfdfe"
)

// WriteSVG draws s as a standalone SVG document. The grid and bars are
// clipped to the chart area; the label column is drawn last so it stays on
// top. An empty scene yields an empty frame.
func WriteSVG(w io.Writer, s *Scene) error {
	var b strings.Builder
	if s.Empty() {
		b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0"></svg>`)
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	m := s.Metrics
	g := s.Geometry
	chartW := g.ChartWidth()
	chartH := g.ChartHeight()

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" font-family="Inter, sans-serif">`,
		num(s.Width), num(s.Height))
	b.WriteString("\n<defs>")
	fmt.Fprintf(&b, `<filter id="%s" height="150%%"><feGaussianBlur in="SourceAlpha" stdDeviation="1" result="blur"/>`, ShadowID)
	b.WriteString(`<feOffset dx="0" dy="1" result="offsetBlur"/><feMerge><feMergeNode in="offsetBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>`)
	fmt.Fprintf(&b, `<clipPath id="%s"><rect x="0" y="%s" width="%s" height="%s"/></clipPath>`,
		ClipID, num(-m.HeaderHeight), num(chartW), num(chartH+m.HeaderHeight+200))
	b.WriteString("</defs>\n")

	// Grid.
	fmt.Fprintf(&b, `<g class="grid" transform="translate(%s,%s)" clip-path="url(#%s)">`,
		num(m.LabelColumnWidth), num(m.HeaderHeight), ClipID)
	for _, c := range g.Columns {
		if c.NonWorking() {
			fill := weekendFill
			if c.Holiday != nil {
				fill = holidayFill
			}
			fmt.Fprintf(&b, `<rect x="%s" y="0" width="%s" height="%s" fill="%s"/>`,
				num(c.X), num(m.ColumnWidth), num(chartH), fill)
		}
		fmt.Fprintf(&b, `<line x1="%s" x2="%s" y1="0" y2="%s" stroke="%s" stroke-width="1"/>`,
			num(c.X), num(c.X), num(chartH), gridStroke)
	}
	for i := 0; i <= g.Rows; i++ {
		y := float64(i) * m.RowHeight
		fmt.Fprintf(&b, `<line x1="0" x2="%s" y1="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
			num(chartW), num(y), num(y), gridStroke)
	}
	if s.Today != nil {
		fmt.Fprintf(&b, `<line class="today" x1="%s" x2="%s" y1="0" y2="%s" stroke="%s" stroke-width="1.5" stroke-dasharray="4,2" opacity="0.7"/>`,
			num(s.Today.X), num(s.Today.X), num(chartH), todayStroke)
	}
	b.WriteString("</g>\n")

	// Header.
	fmt.Fprintf(&b, `<g class="header" transform="translate(%s,0)">`, num(m.LabelColumnWidth))
	for _, ml := range s.Header.Months {
		fmt.Fprintf(&b, `<text x="%s" y="20" font-size="8px" font-weight="900" fill="%s">%s</text>`,
			num(ml.X), headerMuted, escape(ml.Text))
	}
	daySize := "11px"
	if m.Narrow {
		daySize = "9px"
	}
	for _, dl := range s.Header.Days {
		fill, weight := dayText, "800"
		if dl.Holiday {
			fill, weight = holidayText, "900"
		}
		fmt.Fprintf(&b, `<text x="%s" y="40" text-anchor="middle" font-size="%s" font-weight="%s" fill="%s">%s</text>`,
			num(dl.X), daySize, weight, fill, dl.Text)
		if dl.Initial != "" {
			fill := initialMuted
			if dl.Holiday || dl.Sunday {
				fill = initialAlert
			}
			fmt.Fprintf(&b, `<text x="%s" y="54" text-anchor="middle" font-size="7px" font-weight="900" fill="%s">%s</text>`,
				num(dl.X), fill, dl.Initial)
		}
	}
	b.WriteString("</g>\n")

	// Bars.
	fmt.Fprintf(&b, `<g class="bars" transform="translate(%s,%s)" clip-path="url(#%s)">`,
		num(m.LabelColumnWidth), num(m.HeaderHeight), ClipID)
	for _, bar := range s.Bars {
		stroke, strokeW := "white", "1"
		if bar.Highlighted {
			stroke, strokeW = highlightRing, "3"
		}
		fmt.Fprintf(&b, `<g class="bar" data-task-id="%s"><rect x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s" stroke-width="%s" filter="url(#%s)"/>`,
			escape(bar.TaskID), num(bar.X+1), num(bar.Y), num(max(bar.Width-2, 8)), num(bar.Height),
			bar.Color, stroke, strokeW, ShadowID)
		if bar.Title != "" {
			fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="8px" font-weight="800" fill="white" pointer-events="none">%s</text>`,
				num(bar.X+8), num(bar.Y+bar.Height/2+3), escape(bar.Title))
		}
		b.WriteString("</g>")
	}
	b.WriteString("</g>\n")

	// Label column header.
	fmt.Fprintf(&b, `<g class="label-header"><rect x="0" y="0" width="%s" height="%s" fill="white" stroke="%s"/>`,
		num(m.LabelColumnWidth), num(m.HeaderHeight), gridStroke)
	fmt.Fprintf(&b, `<text x="8" y="%s" font-size="8px" font-weight="900" fill="%s" letter-spacing="0.05em">NO</text>`,
		num(m.HeaderHeight-30), labelHeadText)
	fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="8px" font-weight="900" fill="%s" letter-spacing="0.05em">TASK NAME</text>`,
		num(m.IndexColumnWidth+8), num(m.HeaderHeight-30), labelHeadText)
	fmt.Fprintf(&b, `<line x1="%s" x2="%s" y1="%s" y2="%s" stroke="%s"/></g>`+"\n",
		num(m.IndexColumnWidth), num(m.IndexColumnWidth), num(m.HeaderHeight-45), num(m.HeaderHeight), gridStroke)

	// Label rows.
	numSize, titleSize := "9px", "10px"
	if m.Narrow {
		numSize, titleSize = "8px", "9px"
	}
	fmt.Fprintf(&b, `<g class="labels" transform="translate(0,%s)">`, num(m.HeaderHeight))
	for _, l := range s.Labels {
		fill := "white"
		if l.Row%2 == 1 {
			fill = rowAltFill
		}
		mid := l.Y + m.RowHeight/2
		fmt.Fprintf(&b, `<g class="label" data-task-id="%s"><rect x="0" y="%s" width="%s" height="%s" fill="%s" stroke="%s"/>`,
			escape(l.TaskID), num(l.Y), num(m.LabelColumnWidth), num(m.RowHeight), fill, gridStroke)
		fmt.Fprintf(&b, `<line x1="%s" x2="%s" y1="%s" y2="%s" stroke="%s"/>`,
			num(m.IndexColumnWidth), num(m.IndexColumnWidth), num(l.Y), num(l.Y+m.RowHeight), gridStroke)
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="%s" font-weight="900" fill="%s">%s</text>`,
			num(m.IndexColumnWidth/2), num(mid+3), numSize, labelHeadText, escape(l.Number))
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="%s" font-weight="900" fill="%s">%s</text>`,
			num(m.IndexColumnWidth+12), num(mid-2), titleSize, labelTitleText, escape(l.Title))
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="6.5px" font-weight="900" fill="%s" letter-spacing="0.01em">%s</text></g>`,
			num(m.IndexColumnWidth+12), num(mid+10), subLabelText, escape(l.SubLabel))
	}
	b.WriteString("</g>\n</svg>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
