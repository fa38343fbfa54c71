package main

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"

	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/render"
	"github.com/daniswara/board/internal/timeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the Gantt chart as SVG",
	Long: `Renders the board as an SVG image. By default the chart is fetched from the
running daemon; with --snapshot it is laid out locally from a YAML file holding
tasks, projects and holidays.`,
	RunE: runRender,
}

var (
	renderOut       string
	renderSnapshot  string
	renderMonth     string
	renderDensity   string
	renderWidth     float64
	renderDivision  string
	renderCompleted bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "gantt.svg", "Output file, - for stdout")
	renderCmd.Flags().StringVar(&renderSnapshot, "snapshot", "", "Render offline from a YAML snapshot")
	renderCmd.Flags().StringVar(&renderMonth, "month", "", "First month, YYYY-MM (default current)")
	renderCmd.Flags().StringVar(&renderDensity, "density", "", "compact or wide (default from config)")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Container width in px (default from config)")
	renderCmd.Flags().StringVar(&renderDivision, "division", "", "Only show one division")
	renderCmd.Flags().BoolVar(&renderCompleted, "completed", false, "Show completed tasks")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	q := board.Query{
		Width:  renderWidth,
		Filter: board.Filter{Division: renderDivision, ShowCompleted: renderCompleted || cfg.View.ShowCompleted},
	}
	density := renderDensity
	if density == "" {
		density = cfg.View.Density
	}
	d, err := timeline.ParseDensity(density)
	if err != nil {
		return err
	}
	q.Density = d
	if renderMonth != "" {
		if q.Anchor, err = parseAnchor(renderMonth); err != nil {
			return err
		}
	}
	if q.Width == 0 {
		q.Width = cfg.View.ContainerWidth
	}

	var buf bytes.Buffer
	if renderSnapshot != "" {
		err = renderLocal(&buf, renderSnapshot, q)
	} else {
		err = renderRemote(&buf, q)
	}
	if err != nil {
		return err
	}

	if renderOut == "-" {
		_, err = io.Copy(os.Stdout, &buf)
		return err
	}
	if err := os.WriteFile(renderOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", renderOut, err)
	}
	fmt.Printf("Wrote %s\n", renderOut)
	return nil
}

func renderLocal(w io.Writer, path string, q board.Query) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	var snap board.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}
	v := board.BuildView(render.NewRenderer(nil), &snap, q, timeline.Today())
	return render.WriteSVG(w, v.Scene)
}

func renderRemote(w io.Writer, q board.Query) error {
	v := url.Values{}
	v.Set("density", q.Density.String())
	v.Set("width", strconv.FormatFloat(q.Width, 'f', -1, 64))
	if q.Anchor.Valid() {
		v.Set("anchor", q.Anchor.String())
	}
	if q.Filter.Division != "" {
		v.Set("division", q.Filter.Division)
	}
	if q.Filter.ShowCompleted {
		v.Set("completed", "true")
	}

	body, err := apiGet("/board/gantt.svg?" + v.Encode())
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// parseAnchor accepts YYYY-MM or YYYY-MM-DD.
func parseAnchor(s string) (timeline.Day, error) {
	a := s
	if len(a) == len("2006-01") {
		a += "-01"
	}
	d, ok := timeline.ParseDay(a)
	if !ok {
		return timeline.Day{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return d, nil
}
