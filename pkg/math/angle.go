package math

import "github.com/chewxy/math32"

// MaxFloat is the largest float32, used as "unlimited" for forces.
const MaxFloat = math32.MaxFloat32

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float32) float32 {
	return rad * (180 / math32.Pi)
}

// AtLeast returns x, or min when x is smaller.
func AtLeast(x, min float32) float32 {
	if x < min {
		return min
	}
	return x
}

// WrapAngle maps an angle in radians to (-Pi, Pi].
func WrapAngle(rad float32) float32 {
	for rad > math32.Pi {
		rad -= 2 * math32.Pi
	}
	for rad <= -math32.Pi {
		rad += 2 * math32.Pi
	}
	return rad
}
