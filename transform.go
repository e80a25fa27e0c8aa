package takeoff

import "math"

// Viewport is an immutable snapshot of the view parameters, captured once
// per input event and passed to every transform.
type Viewport struct {
	// Zoom is the zoom level in percent (100 = actual size).
	Zoom float64

	// Pan is the screen-space offset of the page center from ScreenCenter.
	Pan Point

	// Rotation is the page rotation in degrees, clockwise.
	Rotation float64

	// PageWidth and PageHeight are the logical page size in document units.
	PageWidth  float64
	PageHeight float64

	// ScreenCenter is the screen position of the page center at zero pan.
	ScreenCenter Point
}

// Scale returns the zoom as a multiplier.
func (v Viewport) Scale() float64 {
	return v.Zoom / 100
}

// ToDocument converts a length in screen pixels to document units.
func (v Viewport) ToDocument(screenPixels float64) float64 {
	s := v.Scale()
	if s == 0 {
		return screenPixels
	}
	return screenPixels / s
}

// sinCos returns sin and cos of an angle in degrees. Right angles are
// returned exactly so transforms at 0/90/180/270 are pixel exact.
func sinCos(degrees float64) (float64, float64) {
	switch normalizeAngle(degrees) {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	rad := degrees * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// ScreenToDocument maps a screen point to document space.
func ScreenToDocument(screen Point, v Viewport) Point {
	sin, cos := sinCos(v.Rotation)
	s := v.Scale()

	// relative to the on-screen center of the transformed page
	dx := screen.X - v.ScreenCenter.X - v.Pan.X
	dy := screen.Y - v.ScreenCenter.Y - v.Pan.Y

	// undo rotation
	localX := dx*cos + dy*sin
	localY := -dx*sin + dy*cos

	// undo scale, then re-origin to the top-left corner
	return Point{
		X: localX/s + v.PageWidth/2,
		Y: localY/s + v.PageHeight/2,
	}
}

// DocumentToScreen maps a document point to screen space. It is the exact
// inverse of ScreenToDocument.
func DocumentToScreen(doc Point, v Viewport) Point {
	sin, cos := sinCos(v.Rotation)
	s := v.Scale()

	localX := (doc.X - v.PageWidth/2) * s
	localY := (doc.Y - v.PageHeight/2) * s

	rx := localX*cos - localY*sin
	ry := localX*sin + localY*cos

	return Point{
		X: rx + v.Pan.X + v.ScreenCenter.X,
		Y: ry + v.Pan.Y + v.ScreenCenter.Y,
	}
}

// ZoomAt changes the zoom while keeping the document point under cursor
// fixed on screen.
func ZoomAt(v Viewport, cursor Point, newZoom float64) Viewport {
	if newZoom == v.Zoom {
		return v
	}
	sin, cos := sinCos(v.Rotation)
	oldScale := v.Scale()
	newScale := newZoom / 100

	// document-local offset of the cursor from the page center
	dx := cursor.X - v.ScreenCenter.X - v.Pan.X
	dy := cursor.Y - v.ScreenCenter.Y - v.Pan.Y
	localX := (dx*cos + dy*sin) / oldScale
	localY := (-dx*sin + dy*cos) / oldScale

	// where that offset lands at the new scale
	rx := (localX*cos - localY*sin) * newScale
	ry := (localX*sin + localY*cos) * newScale

	out := v
	out.Zoom = newZoom
	out.Pan = Point{
		X: cursor.X - v.ScreenCenter.X - rx,
		Y: cursor.Y - v.ScreenCenter.Y - ry,
	}
	return out
}

// WheelZoom applies one zoom step per wheel notch around cursor. A negative
// deltaY (scroll up) zooms in.
func WheelZoom(v Viewport, cursor Point, deltaY float64, cfg Config) Viewport {
	if deltaY == 0 {
		return v
	}
	step := cfg.ZoomStep
	if deltaY > 0 {
		step = -step
	}
	return ZoomAt(v, cursor, clampZoom(v.Zoom+step, cfg))
}

func clampZoom(zoom float64, cfg Config) float64 {
	return math.Max(cfg.ZoomMin, math.Min(cfg.ZoomMax, zoom))
}

// NormalizeRotation snaps a rotation to the nearest quarter turn in [0, 360).
func NormalizeRotation(degrees float64) float64 {
	return normalizeAngle(quantizeAngle(degrees, 90))
}

// quantizeAngle rounds an angle to the nearest multiple of step degrees
func quantizeAngle(angle, step float64) float64 {
	return math.Round(angle/step) * step
}

// normalizeAngle normalizes an angle to [0, 360) range
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}
