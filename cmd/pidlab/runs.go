package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/export"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/ui"
	"github.com/spf13/cobra"
)

var force bool

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := storage.New(dataDir)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ui.Info("no runs found in %s", st.Dir())
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.Ticks),
			run.Gains.String(),
			run.Rounding,
			formatMetric("iae", run.Metrics["iae"]),
		})
	}
	return printTable([]string{"ID", "Time", "Ticks", "Gains", "Rounding", "IAE"}, rows)
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st, err := storage.New(dataDir)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and error of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	ui.Printfln("run: %s", meta.ID)
	ui.Printfln("gains: %s", meta.Gains)
	ui.Printfln("samples: %d\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"x vs tick", func(s sim.Sample) float64 { return s.Position.X }},
		{"y vs tick", func(s sim.Sample) float64 { return s.Position.Y }},
		{"|error| vs tick", func(s sim.Sample) float64 { return s.Error.Norm() }},
	}
	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		ui.Printfln("%s\n", graph)
	}
	return nil
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's trajectory to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(os.Stdout, samples)
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run's metadata and trajectory to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteJSON(os.Stdout, meta, samples)
		},
	}
}

var svgOut string

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's path as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			cfg := meta.Config
			if cfg == nil {
				cfg = config.DefaultConfig()
			}
			scene := export.Scene{
				Width:        cfg.Width,
				Height:       cfg.Height,
				EntityRadius: cfg.EntityRadius,
				TargetRadius: cfg.TargetRadius,
			}
			if svgOut == "" {
				return export.WriteSVG(os.Stdout, samples, scene)
			}
			svg := export.TrajectoryToSVG(samples, scene)
			if err := atomic.WriteFile(svgOut, strings.NewReader(svg)); err != nil {
				return err
			}
			ui.Success("wrote %s", svgOut)
			return nil
		},
	}
	cmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p := config.GetPreset(name)
				rows = append(rows, []string{
					name,
					p.Gains.String(),
					p.Rounding,
					fmt.Sprintf("%g", p.DerivativeAlpha),
					fmt.Sprintf("%d", len(p.Scenario)),
				})
			}
			return printTable([]string{"Preset", "Gains", "Rounding", "Alpha", "Scripted"}, rows)
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration file commands",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) > 0 {
				path = args[0]
			}
			if !force {
				expanded, err := homedir.Expand(path)
				if err != nil {
					return err
				}
				if _, err := os.Stat(expanded); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			ui.Success("wrote %s", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			ui.Printfln("# %s", name)
			ui.Printfln("%s", cfg.String())
			return nil
		},
	}
	addControlFlags(showCmd)

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
