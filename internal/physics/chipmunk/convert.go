package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/jointrig/pkg/math"
)

const unlimited = math.MaxFloat

var axisZ = math.Vec3{Z: 1}

func vec(v math.Vec3) cp.Vector {
	return cp.Vector{X: float64(v.X), Y: float64(v.Y)}
}

// planarAngle returns the rotation of q about Z.
func planarAngle(q math.Quat) float64 {
	return float64(q.TwistAngle(axisZ))
}

// force maps a force limit to Chipmunk, where infinity means unlimited.
func force(f float32) float64 {
	if f >= unlimited {
		return cp.INFINITY
	}
	return float64(f)
}

// clampForce limits v to [-limit, limit].
func clampForce(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func isDynamic(b *cp.Body) bool {
	return b.GetType() == cp.BODY_DYNAMIC
}
