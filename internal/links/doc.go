// Package links generates contacts from simple geometric rules: a ground
// plane, cables and rods between bodies or to fixed anchors, and bounding
// sphere overlap for broad-phase candidates.
//
// Every generator implements [contact.Generator]. A generator writes at most
// len(dst) contacts; anything beyond that is dropped for the frame.
package links

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/contact"
)

// Body is a contact body with a position to measure from.
type Body interface {
	contact.Body
	Position() mgl64.Vec3
}
