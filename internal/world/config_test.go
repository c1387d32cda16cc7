package world_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physcore/internal/world"
)

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(world.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects bad values",
		func(mutate func(*world.Config)) {
			cfg := world.DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(world.ErrInvalidConfig))

			_, err := world.NewParticleWorld(cfg, nil, nil)
			Expect(err).To(MatchError(world.ErrInvalidConfig))
			_, err = world.NewRigidWorld(cfg, nil)
			Expect(err).To(MatchError(world.ErrInvalidConfig))
		},
		Entry("no contact buffer", func(c *world.Config) { c.MaxContacts = 0 }),
		Entry("negative iterations", func(c *world.Config) { c.Iterations = -1 }),
		Entry("negative sleep epsilon", func(c *world.Config) { c.SleepEpsilon = -0.1 }),
		Entry("restitution above one", func(c *world.Config) { c.Restitution = 1.5 }),
	)
})
