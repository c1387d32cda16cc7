package automation

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/physcore/internal/world"
)

var paramSetters = map[string]func(*world.Config, float64){
	"max_contacts":  func(c *world.Config, v float64) { c.MaxContacts = int(math.Round(v)) },
	"iterations":    func(c *world.Config, v float64) { c.Iterations = int(math.Round(v)) },
	"sleep_epsilon": func(c *world.Config, v float64) { c.SleepEpsilon = v },
	"restitution":   func(c *world.Config, v float64) { c.Restitution = v },
	"propagate":     func(c *world.Config, v float64) { c.Propagate = v != 0 },
}

// Params lists the world parameters SetParam understands.
func Params() []string {
	names := make([]string, 0, len(paramSetters))
	for name := range paramSetters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetParam sets a world parameter by its YAML name. Integer parameters
// are rounded; propagate is enabled by any non-zero value.
func SetParam(cfg *world.Config, name string, value float64) error {
	set, ok := paramSetters[name]
	if !ok {
		return fmt.Errorf("unknown world parameter: %s (available: %v)", name, Params())
	}
	set(cfg, value)
	return nil
}

// ApplyParams sets every parameter in params, in name order.
func ApplyParams(cfg *world.Config, params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := SetParam(cfg, name, params[name]); err != nil {
			return err
		}
	}
	return nil
}
