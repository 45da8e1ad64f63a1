package main

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mgutz/ansi"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/optim"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	noSave    bool
	tuneGains []string
	tuneMin   float64
	tuneMax   float64
	tuneSteps int
	tuneBy    string
	tuneTop   int
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the controller headless and store the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addControlFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print metrics without storing the run")
	return runCmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default(cfg) {
		s.AddMetric(m)
	}

	ui.Info("running %s for %d ticks (gains %s)", name, cfg.Ticks, cfg.Gains)
	start := time.Now()

	result, err := s.Run(cmd.Context(), cfg.Ticks)
	if err != nil {
		return err
	}
	ui.Debug("completed in %v", time.Since(start))

	if result.Undelivered > 0 {
		ui.Warning("%d scenario events were scheduled after the last tick", result.Undelivered)
	}
	if result.MissedPresses > 0 {
		ui.Warning("%d scripted pointer presses missed the controlled point", result.MissedPresses)
	}

	final := result.Final
	ui.Printfln("final position: %s, error %.3f", final.Position, final.Error().Norm())
	if final.Skipped > 0 {
		ui.Printfln("ticks skipped while dragging: %d", final.Skipped)
	}
	printMetrics(result.Metrics)

	if noSave {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}
	ui.Success("run id: %s", runID)
	return nil
}

func printMetrics(values map[string]float64) {
	ui.Printfln("\nmetrics:")
	for _, name := range metrics.Names {
		if v, ok := values[name]; ok {
			ui.Printfln("  %-16s %s", name, formatMetric(name, v))
		}
	}
}

func formatMetric(name string, v float64) string {
	switch {
	case math.IsInf(v, 0):
		return "-"
	case name == metrics.NameSettlingTick && v < 0:
		return "never"
	case name == metrics.NameSettlingTick:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

func newCompareCmd() *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run several presets concurrently and compare their metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  comparePresets,
	}
	compareCmd.Flags().IntVar(&ticks, "ticks", 0, "override the tick count of every preset")
	return compareCmd
}

func comparePresets(cmd *cobra.Command, args []string) error {
	ensemble := sim.NewEnsemble()
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
		if cmd.Flags().Changed("ticks") {
			cfg.Ticks = ticks
		}
		s, err := sim.FromConfig(cfg)
		if err != nil {
			return err
		}
		ensemble.Add(sim.Job{
			Name:      name,
			Simulator: s,
			Ticks:     cfg.Ticks,
			Metrics:   func() []sim.Metric { return metrics.Default(cfg) },
		})
	}

	results, err := ensemble.Run(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, len(args))
	for i, name := range args {
		res := results[i]
		row := []string{name, res.Final.Gains().String()}
		for _, m := range metrics.Names {
			row = append(row, formatMetric(m, res.Metrics[m]))
		}
		rows[i] = row
	}
	return printTable(append([]string{"Preset", "Gains"}, metrics.Names...), rows)
}

func newTuneCmd() *cobra.Command {
	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search gains for the lowest metric value",
		Args:  cobra.NoArgs,
		RunE:  tuneGainsCmd,
	}
	addControlFlags(tuneCmd)
	tuneCmd.Flags().StringSliceVar(&tuneGains, "gains", []string{"kp", "kd"}, "gains to search")
	tuneCmd.Flags().Float64Var(&tuneMin, "min", 0, "lowest gain value")
	tuneCmd.Flags().Float64Var(&tuneMax, "max", 1, "highest gain value")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 6, "values per gain")
	tuneCmd.Flags().StringVar(&tuneBy, "by", metrics.NameIAE, "metric to minimize")
	tuneCmd.Flags().IntVar(&tuneTop, "top", 5, "number of results to show")
	return tuneCmd
}

func tuneGainsCmd(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ranges := make([][]float64, len(tuneGains))
	for i := range tuneGains {
		ranges[i] = optim.Linspace(tuneMin, tuneMax, tuneSteps)
	}
	search := optim.NewGridSearch(tuneGains, ranges)
	ui.Info("evaluating %d gain combinations by %s", len(search.Points()), tuneBy)

	candidates, err := search.Search(cmd.Context(), cfg, tuneBy)
	if err != nil {
		return err
	}

	if tuneTop > 0 && len(candidates) > tuneTop {
		candidates = candidates[:tuneTop]
	}
	rows := make([][]string, len(candidates))
	for i, c := range candidates {
		g, err := candidateGains(cfg.Gains, c.Params)
		if err != nil {
			return err
		}
		rows[i] = []string{fmt.Sprintf("%d", i+1), g.String(), formatMetric(tuneBy, c.Metrics[tuneBy])}
	}
	return printTable([]string{"Rank", "Gains", tuneBy}, rows)
}

// candidateGains applies a search candidate's parameters on top of base.
func candidateGains(base control.Gains, params map[string]float64) (control.Gains, error) {
	g := base
	for name, v := range params {
		if err := g.SetParam(name, v); err != nil {
			return base, err
		}
	}
	return g, nil
}

func printTable(headers []string, rows [][]string) error {
	tab := table.Table{
		Headers: headers,
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !noColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", buf.String())
	return nil
}
