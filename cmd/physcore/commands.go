package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/physcore/internal/analysis"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/metrics"
	"github.com/san-kum/physcore/internal/scene"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/storage"
	"github.com/san-kum/physcore/internal/viz"
)

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Frames: cfg.Frames, Stride: cfg.Stride}
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, err := scene.NewRegistry().Build(cfg.Scene, sceneParams(cfg, logger))
	if err != nil {
		return err
	}

	simulator := sim.New(runner, logger)
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s scene...\n", cfg.Scene)
	start := time.Now()

	result, err := simulator.Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scene:      cfg.Scene,
		Preset:     preset,
		Dt:         cfg.Dt,
		Duration:   float64(result.StepsTaken) * cfg.Dt,
		Integrator: cfg.Integrator,
		World:      cfg.World,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("fingerprint: %016x\n", result.Fingerprint)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	reg := scene.NewRegistry()
	params := sceneParams(cfg, zap.NewNop())
	return viz.Run(func() (viz.Source, error) {
		return reg.Build(cfg.Scene, params)
	}, cfg.Dt)
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := scene.NewRegistry()
	params := sceneParams(cfg, logger)
	ensemble := sim.NewEnsemble(func(int) (sim.Stepper, error) {
		return reg.Build(cfg.Scene, params)
	}, runs, limit)

	fmt.Printf("benchmarking %s (%d runs, %d in parallel)\n\n", cfg.Scene, runs, limit)
	start := time.Now()
	results, err := ensemble.Run(context.Background(), simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tFINGERPRINT")
	steps := 0
	deterministic := true
	for i, r := range results {
		steps += r.StepsTaken
		if r.Fingerprint != results[0].Fingerprint {
			deterministic = false
		}
		fmt.Fprintf(w, "%d\t%d\t%016x\n", i, r.StepsTaken, r.Fingerprint)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntotal: %v, %.0f steps/sec\n", elapsed, float64(steps)/elapsed.Seconds())
	if !deterministic {
		return fmt.Errorf("runs of %s diverged", cfg.Scene)
	}
	fmt.Println("all runs identical")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tFINGERPRINT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Fingerprint,
		)
	}

	return w.Flush()
}

// loadRun resolves an ID prefix and loads the full run.
func loadRun(st *storage.Store, prefix string) (*storage.ExportData, error) {
	runID, err := st.Resolve(prefix)
	if err != nil {
		return nil, err
	}
	return st.Export(runID)
}

var sampleFields = map[string]func(sim.Sample) float64{
	"kinetic_energy": func(s sim.Sample) float64 { return s.KineticEnergy },
	"awake":          func(s sim.Sample) float64 { return float64(s.Awake) },
	"contacts":       func(s sim.Sample) float64 { return float64(s.Contacts) },
	"iterations":     func(s sim.Sample) float64 { return float64(s.Iterations) },
	"pairs":          func(s sim.Sample) float64 { return float64(s.Pairs) },
	"penetration":    func(s sim.Sample) float64 { return s.Penetration },
}

// series extracts a state column by label, or a sample field by its JSON
// name.
func series(data *storage.ExportData, name string) ([]float64, error) {
	if idx := slices.Index(data.Labels, name); idx >= 0 {
		return analysis.Column(data.States, idx), nil
	}

	field, ok := sampleFields[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(data.Samples))
	for i, s := range data.Samples {
		out[i] = field(s)
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	data, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	values, err := series(data, plotColumn)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", data.ID)
	fmt.Printf("scene: %s\n", data.Scene)
	fmt.Printf("samples: %d\n\n", len(values))

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(plotColumn+" vs time"),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	values, err := series(data, analyzeColumn)
	if err != nil {
		return err
	}
	if len(values) < 2 || len(data.Times) < 2 {
		return fmt.Errorf("not enough data to analyze")
	}
	step := data.Times[1] - data.Times[0]

	fmt.Printf("analysis: %s\n", data.ID)
	fmt.Printf("scene: %s, column: %s\n\n", data.Scene, analyzeColumn)

	ps := analysis.PowerSpectrum(values)
	if len(ps) > 8 {
		graph := asciigraph.Plot(ps[1:len(ps)/2],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+analyzeColumn+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, power := analysis.DominantFrequency(values, step)
	fmt.Printf("mean: %.4f\n", analysis.Mean(values))
	fmt.Printf("dominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}

	x, y := xAxis, yAxis
	if x < 0 {
		x = slices.Index(data.Labels, analyzeColumn)
	}
	if y < 0 && x >= 0 {
		// Positions are followed by velocities three columns on.
		y = x + 3
	}
	if portrait := analysis.NewPhasePortrait(data.States, x, y); portrait != nil {
		fmt.Printf("\nphase portrait: %s vs %s\n", data.Labels[x], data.Labels[y])
		fmt.Println(portrait.ASCII(70, 20))
	}

	if against != "" {
		other, err := loadRun(st, against)
		if err != nil {
			return err
		}
		rate := analysis.Divergence(data.States, other.States, step)
		fmt.Printf("\ndivergence from %s: %.4f /s\n", other.ID, rate)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	data, err := loadRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		if err := storage.ExportJSON(args[1], data); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", data.ID, args[1])
		return nil
	}
	return storage.WriteJSON(os.Stdout, data)
}
