package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/ui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	noColor    bool

	preset   string
	kp       float64
	ki       float64
	kd       float64
	rate     int
	alpha    float64
	rounding string
	ticks    int
	targetX  float64
	targetY  float64
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	liveCmd := newLiveCmd()

	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "two-axis PID controller lab",
		Long: `pidlab steers a point toward a target with a PID controller every tick.
Gains can be tuned live in the terminal, over HTTP, or swept headless.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupUi()
		},
		// default to the live view when no command is given
		RunE: liveCmd.RunE,
	}
	addControlFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", storage.DefaultDir, "data directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "more verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable terminal output coloration")

	rootCmd.AddCommand(
		liveCmd,
		newRunCmd(),
		newCompareCmd(),
		newTuneCmd(),
		newServeCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

func setupUi() {
	ui.SetVerbose(verbose)
	if noColor {
		pterm.DisableColor()
	}
}

// addControlFlags registers the flags that override config values.
func addControlFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&preset, "preset", "p", "", "start from a preset (see 'pidlab presets')")
	f.Float64Var(&kp, "kp", 0, "proportional gain")
	f.Float64Var(&ki, "ki", 0, "integral gain")
	f.Float64Var(&kd, "kd", 0, "derivative gain")
	f.IntVar(&rate, "rate", config.DefaultTickRate, "ticks per second")
	f.Float64Var(&alpha, "alpha", 0.1, "derivative filter coefficient, 1 disables filtering")
	f.StringVar(&rounding, "rounding", "even", "control output rounding: even, nearest or none")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks for headless runs")
	f.Float64Var(&targetX, "target-x", config.DefaultTarget.X, "target x")
	f.Float64Var(&targetY, "target-y", config.DefaultTarget.Y, "target y")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order. It returns the config and a name for the run.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg, name = p, preset
	}

	path := configFile
	if path == "" {
		if expanded, err := homedir.Expand(config.DefaultPath); err == nil {
			if _, err := os.Stat(expanded); err == nil {
				path = expanded
			}
		}
	}
	if path != "" && (preset == "" || configFile != "") {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		ui.Debug("using configuration file at: %s", path)
		cfg = loaded
		if configFile != "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("kp") {
		cfg.Gains.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Gains.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Gains.Kd = kd
	}
	if flags.Changed("rate") {
		cfg.TickRate = rate
	}
	if flags.Changed("alpha") {
		cfg.DerivativeAlpha = alpha
	}
	if flags.Changed("rounding") {
		cfg.Rounding = rounding
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("target-x") {
		cfg.Target.X = targetX
	}
	if flags.Changed("target-y") {
		cfg.Target.Y = targetY
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func openStore() (*storage.Store, error) {
	st, err := storage.New(dataDir)
	if err != nil {
		return nil, err
	}
	return st, st.Init()
}
