package links

import (
	"github.com/san-kum/physcore/internal/bvh"
	"github.com/san-kum/physcore/internal/contact"
)

// SphereOverlap narrows broad-phase candidate pairs down to bodies whose
// bounding spheres actually intersect.
type SphereOverlap[B Body] struct {
	Candidates  func() []bvh.Pair[B]
	Radius      func(B) float64
	Restitution float64
}

func (s *SphereOverlap[B]) AddContacts(dst []contact.Contact) int {
	count := 0
	for _, pair := range s.Candidates() {
		if count >= len(dst) {
			break
		}

		reach := s.Radius(pair.A) + s.Radius(pair.B)
		normal, dist := separation(pair.A.Position(), pair.B.Position())
		if dist >= reach {
			continue
		}
		if dist == 0 {
			normal = up
		}

		dst[count] = contact.Contact{
			Bodies:      [2]contact.Body{pair.A, pair.B},
			Restitution: s.Restitution,
			Normal:      normal,
			Penetration: reach - dist,
		}
		count++
	}
	return count
}
