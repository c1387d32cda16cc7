package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/logging"
	"github.com/san-kum/physcore/internal/scene"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	frames     int
	stride     int
	integrator string
	logLevel   string
	// Plot and analysis selectors
	plotColumn    string
	analyzeColumn string
	xAxis         int
	yAxis         int
	against       string
	// Bench
	runs  int
	limit int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "physcore",
		Short:        "particle and rigid-body physics lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physcore", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level ("+strings.Join(logging.Levels, ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&stride, "stride", 1, "record every n-th frame")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "watch a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "run a scene many times in parallel and check determinism",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	benchCmd.Flags().IntVar(&limit, "parallel", 4, "runs in flight at once")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a state column or sample field of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "kinetic_energy", "state label or sample field")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency, phase and divergence analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "p0.y", "state label to analyze")
	analyzeCmd.Flags().IntVar(&xAxis, "x-axis", -1, "state index for the phase portrait x-axis")
	analyzeCmd.Flags().IntVar(&yAxis, "y-axis", -1, "state index for the phase portrait y-axis")
	analyzeCmd.Flags().StringVar(&against, "against", "", "second run to measure divergence from")

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [file]",
		Short: "export a run as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportRun,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes",
		Run: func(cmd *cobra.Command, args []string) {
			reg := scene.NewRegistry()
			for _, name := range reg.Names() {
				fmt.Printf("  %-10s %s\n", name, reg.Describe(name))
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, plotCmd, analyzeCmd, exportCmd, scenesCmd, presetsCmd)
	rootCmd.AddCommand(batchCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&frames, "frames", 0, "frame count (overrides --time)")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "particle integrator")
}

// resolveConfig layers defaults, a preset, a config file and explicit
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	if preset != "" {
		sceneName := name
		if sceneName == "" {
			sceneName = cfg.Scene
		}
		p := config.GetPreset(sceneName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if name != "" {
		cfg.Scene = name
	}
	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Lookup("stride") != nil && flags.Changed("stride") {
		cfg.Stride = stride
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = logLevel
	}
	return logging.New(level)
}

func sceneParams(cfg *config.Config, logger *zap.Logger) scene.Params {
	return scene.Params{
		Integrator: cfg.Integrator,
		World:      cfg.World,
		Logger:     logger,
	}
}
