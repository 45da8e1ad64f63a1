package main

import (
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/ui"
	"github.com/san-kum/pidlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	theme  string
	record bool
)

func newLiveCmd() *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the controller in the terminal with mouse drag and live gain editing",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addControlFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeClassic.Name, "color theme")
	liveCmd.Flags().BoolVar(&record, "record", false, "save the session as a run when quitting")
	return liveCmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	state, err := sim.NewState(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(state, cfg.TickPeriod(), 80, 30, viz.GetTheme(theme))
	if record {
		m = m.WithRecording()
	}

	final, err := viz.Run(m)
	if err != nil {
		return err
	}
	if !record {
		return nil
	}

	result := &sim.Result{
		Samples: final.Samples(),
		Final:   final.State(),
		Metrics: make(map[string]float64),
	}
	for _, metric := range metrics.Default(cfg) {
		for _, s := range result.Samples[1:] {
			metric.Observe(s)
		}
		result.Metrics[metric.Name()] = metric.Value()
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	runID, err := st.Save("live-"+name, cfg, result)
	if err != nil {
		return err
	}
	ui.Success("session saved as %s (%d ticks)", runID, len(result.Samples)-1)
	return nil
}
