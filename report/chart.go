// Package report turns solver statistics into artefacts: an HTML
// convergence chart and a parquet file of episode scores.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/CodeStranger-Fred/gridworld-pi/policyiter"
)

var ErrNoIterations = errors.New("no policy iterations to chart")

// WriteConvergenceChart renders one line of value deltas per policy
// iteration and, when episodes are given, a line of episode returns.
func WriteConvergenceChart(w io.Writer, iterations []policyiter.IterationStats, episodes []policyiter.EpisodeResult) error {
	if len(iterations) == 0 {
		return ErrNoIterations
	}

	page := components.NewPage()
	page.AddCharts(deltaChart(iterations))
	if len(episodes) > 0 {
		page.AddCharts(returnChart(episodes))
	}
	return page.Render(w)
}

// WriteConvergenceChartFile is WriteConvergenceChart into path, creating
// parent directories.
func WriteConvergenceChartFile(path string, iterations []policyiter.IterationStats, episodes []policyiter.EpisodeResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := WriteConvergenceChart(f, iterations, episodes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func deltaChart(iterations []policyiter.IterationStats) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "value sweep deltas",
			Subtitle: "L1 change of V per sweep, one line per policy iteration",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "log",
		}),
	)

	numSweeps := 0
	for _, it := range iterations {
		numSweeps = max(numSweeps, len(it.Deltas))
	}
	line.SetXAxis(axis(numSweeps))
	for _, it := range iterations {
		items := make([]opts.LineData, 0, len(it.Deltas))
		for _, d := range it.Deltas {
			items = append(items, opts.LineData{Value: d})
		}
		line.AddSeries(fmt.Sprintf("iteration %d", it.Iteration), items)
	}
	return line
}

func returnChart(episodes []policyiter.EpisodeResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "episode returns",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	line.SetXAxis(axis(len(episodes)))
	items := make([]opts.LineData, 0, len(episodes))
	for _, e := range episodes {
		items = append(items, opts.LineData{Value: e.Return})
	}
	line.AddSeries("return", items)
	return line
}

func axis(n int) []string {
	steps := make([]string, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, fmt.Sprintf("%d", i))
	}
	return steps
}
