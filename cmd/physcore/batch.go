package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/physcore/internal/analysis"
	"github.com/san-kum/physcore/internal/automation"
	"github.com/san-kum/physcore/internal/export"
	"github.com/san-kum/physcore/internal/metrics"
	"github.com/san-kum/physcore/internal/optim"
	"github.com/san-kum/physcore/internal/scene"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/storage"
	"github.com/san-kum/physcore/internal/viz"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	tuneParams  []string
	tuneMetric  string
	svgX        string
	svgY        string
	svgSnapshot bool
)

func batchCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a YAML scenario and save the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one world parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "world parameter ("+strings.Join(automation.Params(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&limit, "parallel", 4, "runs in flight at once")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search world parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "grid", []string{"iterations=4,8,16"}, "param=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "max_penetration", "metric to minimize")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id] [file]",
		Short: "draw a run as SVG (file \"-\" writes to stdout)",
		Args:  cobra.ExactArgs(2),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVar(&svgX, "x", "p0.x", "state label on the x-axis")
	svgCmd.Flags().StringVar(&svgY, "y", "p0.y", "state label on the y-axis")
	svgCmd.Flags().BoolVar(&svgSnapshot, "snapshot", false, "draw every body at the final frame instead of a trajectory")

	return []*cobra.Command{scenarioCmd, sweepCmd, tuneCmd, svgCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, runErr := automation.RunScenario(ctx, scenario, scene.NewRegistry(), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSTEPS\tMEAN KE\tPENETRATION")
	for _, r := range results {
		runID, err := st.Save(storage.RunMetadata{
			Scene:      r.Config.Scene,
			Preset:     r.Name,
			Dt:         r.Config.Dt,
			Duration:   float64(r.Result.StepsTaken) * r.Config.Dt,
			Integrator: r.Config.Integrator,
			World:      r.Config.World,
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4g\n", r.Name, runID, r.Result.StepsTaken,
			r.Result.Metrics["kinetic_energy"], r.Result.Metrics["max_penetration"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sweep := &automation.ParameterSweep{
		Scene:      cfg.Scene,
		Integrator: cfg.Integrator,
		Param:      sweepParam,
		Min:        sweepMin,
		Max:        sweepMax,
		NumSteps:   sweepSteps,
		Dt:         cfg.Dt,
		Frames:     simConfig(cfg).Steps(),
		Base:       cfg.World,
		Parallel:   limit,
	}

	results, err := automation.RunSweep(context.Background(), sweep, scene.NewRegistry(), logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s over %s\n\n", cfg.Scene, sweepParam)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\tMIN KE\tMAX KE\tPENETRATION\tAWAKE\tFINGERPRINT")
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.4g\t%.2f\t%016x\n",
			r.ParamValue, r.MinEnergy, r.MaxEnergy,
			r.Metrics["max_penetration"], r.Metrics["awake_ratio"], r.Fingerprint)
	}
	return w.Flush()
}

// parseGrid reads "name=v1,v2,..." entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad grid value in %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}

	reg := scene.NewRegistry()
	grid := optim.NewGridSearch(names, ranges)
	fmt.Printf("tuning %s over %d candidates for lowest %s\n", cfg.Scene, grid.Size(), tuneMetric)

	best, value, err := grid.Search(context.Background(), func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		wcfg := cfg.World
		if err := automation.ApplyParams(&wcfg, params); err != nil {
			return nil, err
		}
		if err := wcfg.Validate(); err != nil {
			return nil, err
		}
		runner, err := reg.Build(cfg.Scene, scene.Params{Integrator: cfg.Integrator, World: wcfg, Logger: logger})
		if err != nil {
			return nil, err
		}
		s := sim.New(runner, logger)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s.Run(ctx, simConfig(cfg))
	}, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6g\n", tuneMetric, value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	data, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if len(data.States) == 0 {
		return fmt.Errorf("no data to draw")
	}

	var svg string
	if svgSnapshot {
		svg = export.CanvasToSVG(snapshot(data.Labels, data.States[len(data.States)-1]), 4)
	} else {
		x, y := slices.Index(data.Labels, svgX), slices.Index(data.Labels, svgY)
		portrait := analysis.NewPhasePortrait(data.States, x, y)
		if portrait == nil {
			return fmt.Errorf("unknown labels %q, %q", svgX, svgY)
		}
		svg = export.TrajectoryToSVG(portrait.Points, 800, 600, "#00ff9c")
	}

	return export.WriteFile(args[1], os.Stdout, svg)
}

// snapshot draws every body of a recorded state on a fresh canvas, using
// the ".x" and ".y" columns of each body.
func snapshot(labels []string, state sim.State) *viz.Canvas {
	var points []mgl64.Vec3
	for i, label := range labels {
		prefix, ok := strings.CutSuffix(label, ".x")
		if !ok || i+1 >= len(labels) || labels[i+1] != prefix+".y" {
			continue
		}
		points = append(points, mgl64.Vec3{state[i], state[i+1], 0})
	}

	canvas := viz.NewCanvas(60, 20)
	view := viz.NewViewport()
	view.Fit(points)
	for _, p := range points {
		canvas.Dot(view.Project(canvas, p))
	}
	return canvas
}
