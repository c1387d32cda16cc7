package contact

import "math"

// Resolver runs the worst-first iterative solver. Iterations of zero means
// twice the number of contacts passed to each Resolve call.
type Resolver struct {
	Iterations int

	// Propagate carries each positional correction into the penetration of
	// every other contact sharing a body. Chains of constraints need it;
	// independent collisions do not.
	Propagate bool

	used int
}

func NewCollisionResolver(iterations int) *Resolver {
	return &Resolver{Iterations: iterations}
}

func NewConstraintResolver(iterations int) *Resolver {
	return &Resolver{Iterations: iterations, Propagate: true}
}

// IterationsUsed reports how many contacts the last Resolve call handled.
func (r *Resolver) IterationsUsed() int { return r.used }

// Resolve processes contacts in place and returns the iterations used.
func (r *Resolver) Resolve(contacts []Contact, dt float64) int {
	budget := r.Iterations
	if budget <= 0 {
		budget = 2 * len(contacts)
	}

	r.used = 0
	for r.used < budget {
		worst := pickWorst(contacts)
		if worst < 0 {
			break
		}

		c := &contacts[worst]
		c.Resolve(dt)

		if r.Propagate {
			propagate(contacts, worst)
		} else {
			c.Penetration = 0
		}

		r.used++
	}
	return r.used
}

// pickWorst returns the index of the contact closing fastest, or -1 when no
// contact is closing or penetrating.
func pickWorst(contacts []Contact) int {
	worst := -1
	lowest := math.MaxFloat64
	for i := range contacts {
		sep := contacts[i].SeparatingVelocity()
		if sep < lowest && (sep < 0 || contacts[i].Penetration > 0) {
			lowest = sep
			worst = i
		}
	}
	return worst
}

func propagate(contacts []Contact, resolved int) {
	moved := contacts[resolved].Bodies
	move := contacts[resolved].Movement

	for i := range contacts {
		c := &contacts[i]
		for side, sign := range [2]float64{-1, 1} {
			b := c.Bodies[side]
			if b == nil {
				continue
			}
			switch b {
			case moved[0]:
				c.Penetration += sign * move[0].Dot(c.Normal)
			case moved[1]:
				c.Penetration += sign * move[1].Dot(c.Normal)
			}
		}
	}
}
