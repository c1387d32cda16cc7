package metrics

import (
	"math"

	"github.com/san-kum/physcore/internal/sim"
)

// ContactLoad is the mean number of contacts resolved per frame.
type ContactLoad struct {
	name    string
	sum     int
	samples int
}

func NewContactLoad() *ContactLoad {
	return &ContactLoad{name: "contact_load"}
}

func (c *ContactLoad) Name() string { return c.name }

func (c *ContactLoad) Observe(s sim.Sample) {
	c.sum += s.Contacts
	c.samples++
}

func (c *ContactLoad) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *ContactLoad) Reset() {
	c.sum = 0
	c.samples = 0
}

// ResolverEffort is the mean number of resolver iterations per frame.
type ResolverEffort struct {
	name    string
	sum     int
	samples int
}

func NewResolverEffort() *ResolverEffort {
	return &ResolverEffort{name: "resolver_effort"}
}

func (r *ResolverEffort) Name() string { return r.name }

func (r *ResolverEffort) Observe(s sim.Sample) {
	r.sum += s.Iterations
	r.samples++
}

func (r *ResolverEffort) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.sum) / float64(r.samples)
}

func (r *ResolverEffort) Reset() {
	r.sum = 0
	r.samples = 0
}

// Penetration is the worst interpenetration left after resolution.
type Penetration struct {
	name  string
	worst float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(s sim.Sample) {
	p.worst = math.Max(p.worst, s.Penetration)
}

func (p *Penetration) Value() float64 { return p.worst }
func (p *Penetration) Reset()         { p.worst = 0 }

// Truncations counts frames whose contact buffer filled up.
type Truncations struct {
	name  string
	count int
}

func NewTruncations() *Truncations {
	return &Truncations{name: "truncations"}
}

func (t *Truncations) Name() string { return t.name }

func (t *Truncations) Observe(s sim.Sample) {
	if s.Truncated {
		t.count++
	}
}

func (t *Truncations) Value() float64 { return float64(t.count) }
func (t *Truncations) Reset()         { t.count = 0 }
