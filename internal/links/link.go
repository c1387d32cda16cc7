package links

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/contact"
)

// Cable stops two bodies from separating beyond MaxLength.
type Cable struct {
	A, B        Body
	MaxLength   float64
	Restitution float64
}

func (c *Cable) AddContacts(dst []contact.Contact) int {
	if len(dst) == 0 {
		return 0
	}
	towardB, length := separation(c.B.Position(), c.A.Position())
	if length < c.MaxLength || length == 0 {
		return 0
	}
	dst[0] = contact.Contact{
		Bodies:      [2]contact.Body{c.A, c.B},
		Restitution: c.Restitution,
		Normal:      towardB,
		Penetration: length - c.MaxLength,
	}
	return 1
}

// Rod holds two bodies at exactly Length apart.
type Rod struct {
	A, B   Body
	Length float64
}

func (r *Rod) AddContacts(dst []contact.Contact) int {
	if len(dst) == 0 {
		return 0
	}
	towardB, length := separation(r.B.Position(), r.A.Position())
	normal, penetration, ok := rodContact(towardB, length, r.Length)
	if !ok {
		return 0
	}
	dst[0] = contact.Contact{
		Bodies:      [2]contact.Body{r.A, r.B},
		Normal:      normal,
		Penetration: penetration,
	}
	return 1
}

// AnchoredCable ties a body to a fixed point.
type AnchoredCable struct {
	Body        Body
	Anchor      mgl64.Vec3
	MaxLength   float64
	Restitution float64
}

func (c *AnchoredCable) AddContacts(dst []contact.Contact) int {
	if len(dst) == 0 {
		return 0
	}
	towardAnchor, length := separation(c.Anchor, c.Body.Position())
	if length < c.MaxLength || length == 0 {
		return 0
	}
	dst[0] = contact.Contact{
		Bodies:      [2]contact.Body{c.Body, nil},
		Restitution: c.Restitution,
		Normal:      towardAnchor,
		Penetration: length - c.MaxLength,
	}
	return 1
}

type AnchoredRod struct {
	Body   Body
	Anchor mgl64.Vec3
	Length float64
}

func (r *AnchoredRod) AddContacts(dst []contact.Contact) int {
	if len(dst) == 0 {
		return 0
	}
	towardAnchor, length := separation(r.Anchor, r.Body.Position())
	normal, penetration, ok := rodContact(towardAnchor, length, r.Length)
	if !ok {
		return 0
	}
	dst[0] = contact.Contact{
		Bodies:      [2]contact.Body{r.Body, nil},
		Normal:      normal,
		Penetration: penetration,
	}
	return 1
}

// separation returns the unit vector from `from` to `to` and the distance.
// Coincident points have no direction and report a zero vector.
func separation(to, from mgl64.Vec3) (mgl64.Vec3, float64) {
	d := to.Sub(from)
	length := d.Len()
	if length == 0 {
		return mgl64.Vec3{}, 0
	}
	return d.Mul(1 / length), length
}

// rodContact pulls the ends together when stretched and pushes them apart
// when compressed.
func rodContact(inward mgl64.Vec3, current, length float64) (mgl64.Vec3, float64, bool) {
	if current == length || current == 0 {
		return mgl64.Vec3{}, 0, false
	}
	if current > length {
		return inward, current - length, true
	}
	return inward.Mul(-1), length - current, true
}
