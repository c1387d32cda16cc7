package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physcore/internal/integrators"
	"github.com/san-kum/physcore/internal/logging"
	"github.com/san-kum/physcore/internal/world"
)

const (
	DefaultScene      = "fountain"
	DefaultIntegrator = "verlet"
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultLogLevel   = "info"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scene      string  `yaml:"scene"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	// Frames overrides Duration when positive.
	Frames int `yaml:"frames"`
	// Stride records every Stride-th frame.
	Stride   int          `yaml:"stride"`
	LogLevel string       `yaml:"log_level"`
	World    world.Config `yaml:"world"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      DefaultScene,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Stride:     1,
		LogLevel:   DefaultLogLevel,
		World:      world.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalid, c.Frames)
	}
	if c.Frames == 0 && !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	if c.Stride < 0 {
		return fmt.Errorf("%w: stride must not be negative, got %d", ErrInvalid, c.Stride)
	}
	if !slices.Contains(integrators.Names(), c.Integrator) {
		return fmt.Errorf("%w: unknown integrator %q", ErrInvalid, c.Integrator)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Clone returns a copy that shares nothing with c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
