package scene

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/san-kum/physcore/internal/integrators"
	"github.com/san-kum/physcore/internal/world"
)

// Params configures a scene build.
type Params struct {
	// Integrator names the particle integrator. Rigid scenes ignore it.
	Integrator string
	World      world.Config
	Logger     *zap.Logger
}

func DefaultParams() Params {
	return Params{Integrator: "verlet", World: world.DefaultConfig()}
}

type Builder func(Params) (Runner, error)

type entry struct {
	description string
	build       Builder
}

type Registry struct {
	scenes map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]entry)}

	r.Register("fountain", "particles under gravity and drag falling onto the ground", Fountain)
	r.Register("bridge", "rope bridge of cables and rods hanging from anchors", Bridge)
	r.Register("buoy", "floating particles on springs, bungees and a pendulum", Buoy)
	r.Register("flight", "rigid aircraft flown by aerodynamic control surfaces", Flight)
	r.Register("raft", "two rafts on water tied together by a spring", Raft)
	r.Register("pile", "rigid spheres dropped into a heap that goes to sleep", Pile)

	return r
}

// Register adds or replaces a scene.
func (r *Registry) Register(name, description string, build Builder) {
	r.scenes[name] = entry{description: description, build: build}
}

func (r *Registry) Build(name string, p Params) (Runner, error) {
	e, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	if _, err := integrators.New(p.Integrator); err != nil {
		return nil, err
	}
	return e.build(p)
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].description
}

// Names returns the registered scene names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
