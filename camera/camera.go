// Package camera provides a 2D pan/zoom viewport over a bounded race
// track, for cmd/replay's match viewer.
package camera

// Camera controls the viewport into a track's coordinate space. Unlike a
// toroidal simulation world, a track has fixed bounds and never wraps.
type Camera struct {
	// X, Y is the camera center in track coordinates.
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification).
	Zoom float32

	// ViewportW, ViewportH are the screen viewport dimensions.
	ViewportW, ViewportH float32

	// TrackW, TrackH are the track's bounding box dimensions, used to
	// compute the minimum zoom that keeps the viewport within it.
	TrackW, TrackH float32

	// MinZoom, MaxZoom bound SetZoom.
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the track's bounding box at 1:1 zoom.
func New(viewportW, viewportH, trackW, trackH float32) *Camera {
	minZoomX := viewportW / trackW
	minZoomY := viewportH / trackH
	minZoom := minZoomX
	if minZoomY > minZoom {
		minZoom = minZoomY
	}

	return &Camera{
		X:         trackW / 2,
		Y:         trackH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		TrackW:    trackW,
		TrackH:    trackH,
		MinZoom:   minZoom,
		MaxZoom:   4.0,
	}
}

// WorldToScreen converts track coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wx - c.X
	dy := wy - c.Y
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates back to track coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom
	return c.X + dx, c.Y + dy
}

// IsVisible reports whether a circle at (wx, wy) with the given radius
// could be visible on screen; a conservative check for render culling.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	dx := wx - c.X
	dy := wy - c.Y
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(dx) <= halfW && absf(dy) <= halfH
}

// Resize updates the viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	minZoomX := viewportW / c.TrackW
	minZoomY := viewportH / c.TrackH
	c.MinZoom = minZoomX
	if minZoomY > c.MinZoom {
		c.MinZoom = minZoomY
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels, clamped so the
// camera center stays within the track's bounding box.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.TrackW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.TrackH)
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default centered, 1:1 zoom view.
func (c *Camera) Reset() {
	c.X = c.TrackW / 2
	c.Y = c.TrackH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the track-coordinate bounds of the visible
// area as (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
