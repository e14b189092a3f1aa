package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/jointrig/pkg/math"
)

// Body is a box in a World. It implements joint.Body.
type Body struct {
	Name   string
	Width  float64
	Height float64
	Static bool

	world  *World
	body   *cp.Body
	moment float64
}

// CP returns the Chipmunk body.
func (b *Body) CP() *cp.Body {
	return b.body
}

// Moment returns the moment of inertia. Static bodies report zero.
func (b *Body) Moment() float64 {
	return b.moment
}

// Position returns the body center in world space.
func (b *Body) Position() (x, y float64) {
	p := b.body.Position()
	return p.X, p.Y
}

// Angle returns the body rotation in radians.
func (b *Body) Angle() float64 {
	return b.body.Angle()
}

// Transform returns the body pose, rotated about Z.
func (b *Body) Transform() math.Transform {
	p := b.body.Position()
	return math.NewTransform(
		math.Vec3{X: float32(p.X), Y: float32(p.Y)},
		math.QuatFromAxisAngle(axisZ, float32(b.body.Angle())),
	)
}

// Corners returns the four box corners in world space, counter-clockwise.
func (b *Body) Corners() [4][2]float64 {
	hw, hh := b.Width/2, b.Height/2
	local := [4]cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var out [4][2]float64
	for i, v := range local {
		p := b.body.LocalToWorld(v)
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
