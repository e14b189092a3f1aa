package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/jointrig/internal/physics/chipmunk"
	"github.com/Faultbox/jointrig/internal/scene"
	"github.com/Faultbox/jointrig/internal/viewer/camera"
)

type color struct{ r, g, b uint8 }

var (
	colorBackground = color{24, 26, 31}
	colorAxis       = color{48, 52, 60}
	colorStatic     = color{130, 130, 130}
	colorDynamic    = color{90, 160, 230}
	colorHinge      = color{240, 200, 60}
	colorD6         = color{110, 210, 120}
	colorBroken     = color{230, 70, 60}
)

const anchorSize = 6

// Draw renders the world bodies and the scene joints.
func (w *Window) Draw(cam *camera.Camera, world *chipmunk.World, joints []*scene.JointDef) {
	w.setColor(colorBackground)
	_ = w.renderer.Clear()

	w.setColor(colorAxis)
	w.line(cam, -1e3, 0, 1e3, 0)
	w.line(cam, 0, -1e3, 0, 1e3)

	for _, b := range world.Bodies() {
		if b.Static {
			w.setColor(colorStatic)
		} else {
			w.setColor(colorDynamic)
		}
		c := b.Corners()
		for i := range c {
			n := c[(i+1)%len(c)]
			w.line(cam, c[i][0], c[i][1], n[0], n[1])
		}
	}

	for _, d := range joints {
		w.drawJoint(cam, d)
	}
}

func (w *Window) drawJoint(cam *camera.Camera, d *scene.JointDef) {
	base := d.Base()
	if !base.IsAttached() {
		return
	}
	body0, body1 := base.Bodies()
	if body0 == nil {
		return
	}

	switch {
	case base.Broken():
		w.setColor(colorBroken)
	case d.Hinge != nil:
		w.setColor(colorHinge)
	default:
		w.setColor(colorD6)
	}

	pose0 := body0.Transform()
	anchor := pose0.Mul(base.LocalPose()).Position
	ax, ay := float64(anchor.X), float64(anchor.Y)
	w.line(cam, float64(pose0.Position.X), float64(pose0.Position.Y), ax, ay)
	if body1 != nil {
		p := body1.Transform().Position
		w.line(cam, ax, ay, float64(p.X), float64(p.Y))
	}

	sx, sy := cam.ToScreen(ax, ay)
	_ = w.renderer.FillRect(&sdl.Rect{X: sx - anchorSize/2, Y: sy - anchorSize/2, W: anchorSize, H: anchorSize})
}

func (w *Window) setColor(c color) {
	_ = w.renderer.SetDrawColor(c.r, c.g, c.b, 255)
}

func (w *Window) line(cam *camera.Camera, x1, y1, x2, y2 float64) {
	sx1, sy1 := cam.ToScreen(x1, y1)
	sx2, sy2 := cam.ToScreen(x2, y2)
	_ = w.renderer.DrawLine(sx1, sy1, sx2, sy2)
}
