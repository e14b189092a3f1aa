package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
	if !q.IsIdentity() {
		t.Error("IsIdentity should be true for the identity")
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}

	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Z: 1}, float32(math.Pi/2))
	got := q.Rotate(Vec3{X: 1})
	want := Vec3{Y: 1}
	if !got.NearEqual(want, 0.0001) {
		t.Errorf("Rotate: expected %v, got %v", want, got)
	}
}

func TestQuatMulConjugate(t *testing.T) {
	q := QuatFromEuler(30, 45, 60)
	got := q.Mul(q.Conjugate())
	if !got.NearEqual(QuatIdentity(), 0.0001) {
		t.Errorf("q * conj(q) should be identity, got %v", got)
	}
}

func TestQuatTwistAngle(t *testing.T) {
	tests := []struct {
		name  string
		q     Quat
		axis  Vec3
		angle float32
	}{
		{"identity", QuatIdentity(), Vec3{X: 1}, 0},
		{"pure twist", QuatFromAxisAngle(Vec3{X: 1}, 0.5), Vec3{X: 1}, 0.5},
		{"negative twist", QuatFromAxisAngle(Vec3{Z: 1}, -1.2), Vec3{Z: 1}, -1.2},
		{"swing only", QuatFromAxisAngle(Vec3{Y: 1}, 0.7), Vec3{X: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.TwistAngle(tt.axis)
			if math.Abs(float64(got-tt.angle)) > 0.0001 {
				t.Errorf("expected twist %v, got %v", tt.angle, got)
			}
		})
	}
}
