// Package camera maps planar world coordinates (meters, Y up) to window
// pixels (Y down).
package camera

import "math"

// Zoom bounds in pixels per meter.
const (
	MinPixelsPerMeter = 5
	MaxPixelsPerMeter = 1000
)

// Camera centers a world point in a window of Width x Height pixels.
type Camera struct {
	PixelsPerMeter   float64
	CenterX, CenterY float64
	Width, Height    int
}

// New returns a camera looking at the world origin.
func New(width, height int, pixelsPerMeter float64) *Camera {
	c := &Camera{Width: width, Height: height}
	c.SetPixelsPerMeter(pixelsPerMeter)
	return c
}

// SetPixelsPerMeter sets the zoom, clamped to the zoom bounds.
func (c *Camera) SetPixelsPerMeter(ppm float64) {
	c.PixelsPerMeter = math.Max(MinPixelsPerMeter, math.Min(MaxPixelsPerMeter, ppm))
}

// ToScreen converts a world point to pixels.
func (c *Camera) ToScreen(x, y float64) (int32, int32) {
	sx := float64(c.Width)/2 + (x-c.CenterX)*c.PixelsPerMeter
	sy := float64(c.Height)/2 - (y-c.CenterY)*c.PixelsPerMeter
	return int32(math.Round(sx)), int32(math.Round(sy))
}

// ToWorld converts a pixel position to a world point.
func (c *Camera) ToWorld(sx, sy int) (float64, float64) {
	x := c.CenterX + (float64(sx)-float64(c.Width)/2)/c.PixelsPerMeter
	y := c.CenterY - (float64(sy)-float64(c.Height)/2)/c.PixelsPerMeter
	return x, y
}

// Pan moves the view by a mouse drag of dx, dy pixels.
func (c *Camera) Pan(dx, dy int) {
	c.CenterX -= float64(dx) / c.PixelsPerMeter
	c.CenterY += float64(dy) / c.PixelsPerMeter
}

// Zoom scales the view by factor, keeping the world point under the pixel
// sx, sy fixed.
func (c *Camera) Zoom(factor float64, sx, sy int) {
	wx, wy := c.ToWorld(sx, sy)
	c.SetPixelsPerMeter(c.PixelsPerMeter * factor)
	nx, ny := c.ToWorld(sx, sy)
	c.CenterX += wx - nx
	c.CenterY += wy - ny
}

// Resize updates the window size.
func (c *Camera) Resize(width, height int) {
	c.Width, c.Height = width, height
}
