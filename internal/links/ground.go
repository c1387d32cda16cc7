package links

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/contact"
)

const DefaultGroundRestitution = 0.2

var up = mgl64.Vec3{0, 1, 0}

// Ground is a horizontal plane at Height. A body collides once its
// position drops below Height+Clearance, so Clearance is the radius for
// spheres and zero for points.
type Ground[B Body] struct {
	Bodies      func() []B
	Height      float64
	Restitution float64
	Clearance   float64
}

func NewGround[B Body](bodies func() []B) *Ground[B] {
	return &Ground[B]{Bodies: bodies, Restitution: DefaultGroundRestitution}
}

func (g *Ground[B]) AddContacts(dst []contact.Contact) int {
	count := 0
	floor := g.Height + g.Clearance
	for _, b := range g.Bodies() {
		if count >= len(dst) {
			break
		}
		y := b.Position()[1]
		if y >= floor {
			continue
		}
		dst[count] = contact.Contact{
			Bodies:      [2]contact.Body{b, nil},
			Restitution: g.Restitution,
			Normal:      up,
			Penetration: floor - y,
		}
		count++
	}
	return count
}
