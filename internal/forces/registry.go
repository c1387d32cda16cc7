package forces

import "reflect"

// Generator adds one force law to a body's accumulators.
type Generator[B any] interface {
	UpdateForce(b B, dt float64)
}

// GeneratorFunc adapts a plain function to a Generator.
type GeneratorFunc[B any] func(b B, dt float64)

func (f GeneratorFunc[B]) UpdateForce(b B, dt float64) { f(b, dt) }

type Registration[B comparable] struct {
	Body      B
	Generator Generator[B]
}

// Registry holds (body, generator) pairs. Remove finds generators by
// equality, so they are usually pointers. Generators of an uncomparable
// type, such as GeneratorFunc, never match Remove and are dropped with
// RemoveBody instead.
type Registry[B comparable] struct {
	registrations []Registration[B]
}

func NewRegistry[B comparable]() *Registry[B] {
	return &Registry[B]{}
}

func (r *Registry[B]) Add(b B, g Generator[B]) {
	r.registrations = append(r.registrations, Registration[B]{Body: b, Generator: g})
}

// Remove drops every registration of g against b. Unknown pairs are ignored.
func (r *Registry[B]) Remove(b B, g Generator[B]) {
	r.removeIf(func(reg Registration[B]) bool {
		return reg.Body == b && sameGenerator(reg.Generator, g)
	})
}

func sameGenerator[B any](a, b Generator[B]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

// RemoveBody drops every registration that targets b.
func (r *Registry[B]) RemoveBody(b B) {
	r.removeIf(func(reg Registration[B]) bool { return reg.Body == b })
}

func (r *Registry[B]) removeIf(match func(Registration[B]) bool) {
	kept := r.registrations[:0]
	for _, reg := range r.registrations {
		if !match(reg) {
			kept = append(kept, reg)
		}
	}
	clear(r.registrations[len(kept):])
	r.registrations = kept
}

func (r *Registry[B]) Clear() {
	clear(r.registrations)
	r.registrations = r.registrations[:0]
}

func (r *Registry[B]) Len() int { return len(r.registrations) }

func (r *Registry[B]) Registrations() []Registration[B] { return r.registrations }

// UpdateForces applies every registered generator to its body.
func (r *Registry[B]) UpdateForces(dt float64) {
	for _, reg := range r.registrations {
		reg.Generator.UpdateForce(reg.Body, dt)
	}
}
