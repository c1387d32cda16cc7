package config

import (
	"slices"

	"github.com/san-kum/physcore/internal/world"
)

func preset(scene, integrator string, dt, duration float64, w func(*world.Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scene = scene
	cfg.Integrator = integrator
	cfg.Dt = dt
	cfg.Duration = duration
	if w != nil {
		w(&cfg.World)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"fountain": {
		"default": preset("fountain", "verlet", 1.0/60, 10, nil),
		"euler":   preset("fountain", "euler", 1.0/60, 10, nil),
		"coarse": preset("fountain", "verlet", 1.0/20, 10, func(w *world.Config) {
			w.MaxContacts = 8
		}),
	},
	"bridge": {
		"default": preset("bridge", "verlet", 1.0/60, 20, nil),
		"stiff": preset("bridge", "verlet", 1.0/120, 20, func(w *world.Config) {
			w.Iterations = 64
		}),
	},
	"buoy": {
		"default": preset("buoy", "verlet", 1.0/60, 30, nil),
		"choppy": preset("buoy", "euler", 1.0/30, 30, nil),
	},
	"flight": {
		"default": preset("flight", "verlet", 1.0/60, 20, nil),
		"long":    preset("flight", "verlet", 1.0/60, 120, nil),
	},
	"raft": {
		"default": preset("raft", "verlet", 1.0/60, 30, nil),
		"bumpy": preset("raft", "verlet", 1.0/60, 30, func(w *world.Config) {
			w.Restitution = 0.9
		}),
	},
	"pile": {
		"default": preset("pile", "verlet", 1.0/60, 20, nil),
		"restless": preset("pile", "verlet", 1.0/60, 20, func(w *world.Config) {
			w.SleepEpsilon = 0
		}),
		"drowsy": preset("pile", "verlet", 1.0/60, 20, func(w *world.Config) {
			w.SleepEpsilon = 0.5
			w.Restitution = 0.1
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of scene in sorted order.
func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
