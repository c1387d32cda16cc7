package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/metrics"
	"github.com/san-kum/physcore/internal/scene"
	"github.com/san-kum/physcore/internal/sim"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. Zero fields fall back to the
// preset, or to the defaults when no preset is named.
type ScenarioStep struct {
	Scene      string             `yaml:"scene"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Frames     int                `yaml:"frames"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the config it ran under.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the step into a validated run config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Scene, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for scene %q", s.Preset, s.Scene)
		}
	}

	if s.Scene != "" {
		cfg.Scene = s.Scene
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Frames != 0 {
		cfg.Frames = s.Frames
	}
	if err := ApplyParams(&cfg.World, s.Params); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the steps that completed.
func RunScenario(ctx context.Context, scenario *Scenario, reg *scene.Registry, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", cfg.Scene, i+1)
		}
		logger.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.String("name", name),
			zap.String("scene", cfg.Scene))

		runner, err := reg.Build(cfg.Scene, scene.Params{Integrator: cfg.Integrator, World: cfg.World, Logger: logger})
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		simulator := sim.New(runner, logger)
		for _, m := range metrics.Default() {
			simulator.AddMetric(m)
		}
		result, err := simulator.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Frames: cfg.Frames, Stride: cfg.Stride})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}
