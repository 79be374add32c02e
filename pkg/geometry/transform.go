package geometry

import "math"

// MinZoom and MaxZoom bound the user-controlled zoom level.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// fitMargin keeps a small border around the frame when fitted to the surface.
const fitMargin = 0.95

// Point is a coordinate in either pixel space (source frame) or screen space
// (rendering surface), depending on context.
type Point struct {
	X float64
	Y float64
}

// ViewState describes how pixel space maps onto the rendering surface.
// It is recomputed whenever the surface size, the source frame size or the
// zoom level changes, and is never persisted.
type ViewState struct {
	ScaleFactor float64
	ZoomLevel   float64
	Offset      Point
}

// Scale returns the combined pixel-to-screen factor.
func (v ViewState) Scale() float64 {
	return v.ScaleFactor * v.ZoomLevel
}

// ToScreen converts a pixel-space point to screen space.
func ToScreen(p Point, v ViewState) Point {
	s := v.Scale()
	return Point{X: p.X*s + v.Offset.X, Y: p.Y*s + v.Offset.Y}
}

// ToPixel converts a screen-space point back to pixel space. When the
// combined scale is ~0 the inverse is undefined; the point collapses to the
// origin instead of erroring.
func ToPixel(p Point, v ViewState) Point {
	s := v.Scale()
	if math.Abs(s) < 1e-9 {
		return Point{}
	}
	return Point{X: (p.X - v.Offset.X) / s, Y: (p.Y - v.Offset.Y) / s}
}

// FitScale returns the scale factor that fits a frame inside a surface while
// keeping the aspect ratio, with a 5% margin.
func FitScale(frameW, frameH, surfaceW, surfaceH float64) float64 {
	if frameW <= 0 || frameH <= 0 {
		return 1
	}
	return math.Min(surfaceW/frameW, surfaceH/frameH) * fitMargin
}

// RecenterOffset centers a scaled frame on the surface. The offset is clamped
// to >= 0 so the frame never renders above or left of the surface origin,
// even when it overflows the surface.
func RecenterOffset(displayW, displayH, surfaceW, surfaceH float64) Point {
	return Point{
		X: math.Max(0, (surfaceW-displayW)/2),
		Y: math.Max(0, (surfaceH-displayH)/2),
	}
}

// Fit recomputes the full view state for a frame of the given size shown on a
// surface of the given size at the given zoom level.
func Fit(frameW, frameH, surfaceW, surfaceH, zoom float64) ViewState {
	zoom = ClampZoom(zoom)
	scale := FitScale(frameW, frameH, surfaceW, surfaceH)
	displayW := frameW * scale * zoom
	displayH := frameH * scale * zoom
	return ViewState{
		ScaleFactor: scale,
		ZoomLevel:   zoom,
		Offset:      RecenterOffset(displayW, displayH, surfaceW, surfaceH),
	}
}

// ClampZoom bounds a zoom level to the supported range.
func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
