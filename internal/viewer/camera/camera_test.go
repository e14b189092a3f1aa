package camera

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToScreen(t *testing.T) {
	c := New(800, 600, 50)

	tests := []struct {
		name   string
		x, y   float64
		sx, sy int32
	}{
		{"origin", 0, 0, 400, 300},
		{"right", 2, 0, 500, 300},
		{"up", 0, 1, 400, 250},
		{"down left", -1, -2, 350, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy := c.ToScreen(tt.x, tt.y)
			if sx != tt.sx || sy != tt.sy {
				t.Errorf("expected (%d, %d), got (%d, %d)", tt.sx, tt.sy, sx, sy)
			}
		})
	}
}

func TestToWorldInverse(t *testing.T) {
	c := New(640, 480, 40)
	c.CenterX, c.CenterY = 3, -1

	for _, p := range [][2]int{{0, 0}, {320, 240}, {100, 400}} {
		x, y := c.ToWorld(p[0], p[1])
		sx, sy := c.ToScreen(x, y)
		if int(sx) != p[0] || int(sy) != p[1] {
			t.Errorf("expected (%d, %d), got (%d, %d)", p[0], p[1], sx, sy)
		}
	}
}

func TestPan(t *testing.T) {
	c := New(800, 600, 100)
	c.Pan(100, 50)

	if !near(c.CenterX, -1) || !near(c.CenterY, 0.5) {
		t.Errorf("expected center (-1, 0.5), got (%v, %v)", c.CenterX, c.CenterY)
	}
}

func TestZoomKeepsPointUnderCursor(t *testing.T) {
	c := New(800, 600, 50)
	wx, wy := c.ToWorld(600, 100)

	c.Zoom(2, 600, 100)

	if c.PixelsPerMeter != 100 {
		t.Errorf("expected 100 pixels per meter, got %v", c.PixelsPerMeter)
	}
	x, y := c.ToWorld(600, 100)
	if !near(x, wx) || !near(y, wy) {
		t.Errorf("expected (%v, %v) under the cursor, got (%v, %v)", wx, wy, x, y)
	}
}

func TestZoomClamp(t *testing.T) {
	c := New(800, 600, 50)

	c.Zoom(1e6, 0, 0)
	if c.PixelsPerMeter != MaxPixelsPerMeter {
		t.Errorf("expected %v, got %v", MaxPixelsPerMeter, c.PixelsPerMeter)
	}
	c.SetPixelsPerMeter(0)
	if c.PixelsPerMeter != MinPixelsPerMeter {
		t.Errorf("expected %v, got %v", MinPixelsPerMeter, c.PixelsPerMeter)
	}
}
