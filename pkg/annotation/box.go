package annotation

import "math"

// Corner identifies one of the four resize handles of a box.
type Corner string

const (
	CornerNW Corner = "nw"
	CornerNE Corner = "ne"
	CornerSW Corner = "sw"
	CornerSE Corner = "se"
)

// MinBoxSize is the smallest accepted box side length in pixels. Boxes below
// it are rejected so a click without a drag never produces a zero-area box.
const MinBoxSize = 5.0

// Box is a single labeled axis-aligned rectangle in video-pixel coordinates.
// A valid box always satisfies X1 < X2 and Y1 < Y2.
type Box struct {
	Class string  `json:"class"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
}

// NewBox builds a normalized box from two arbitrary corner points.
func NewBox(class string, x1, y1, x2, y2 float64) Box {
	b := Box{Class: class, X1: x1, Y1: y1, X2: x2, Y2: y2}
	b.normalize()
	return b
}

// Clone returns an independent copy of the box.
func (b Box) Clone() Box {
	return b
}

// Width returns the box width in pixels.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Contains reports whether a pixel point lies inside the box, borders
// included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

// CornerPoint returns the pixel coordinates of the given handle.
func (b Box) CornerPoint(c Corner) (float64, float64) {
	switch c {
	case CornerNW:
		return b.X1, b.Y1
	case CornerNE:
		return b.X2, b.Y1
	case CornerSW:
		return b.X1, b.Y2
	default:
		return b.X2, b.Y2
	}
}

// translate shifts the whole box by (dx, dy).
func (b *Box) translate(dx, dy float64) {
	b.X1 += dx
	b.Y1 += dy
	b.X2 += dx
	b.Y2 += dy
}

// resize applies (dx, dy) to the two coordinates owned by the corner and then
// renormalizes, so dragging a handle past the opposite edge flips the box
// into a valid orientation instead of inverting it. A step that would bring
// a side to exactly zero is dropped; the box keeps its strict extent and the
// next drag step either restores it or completes the flip.
func (b *Box) resize(c Corner, dx, dy float64) {
	next := *b
	switch c {
	case CornerNW:
		next.X1 += dx
		next.Y1 += dy
	case CornerNE:
		next.X2 += dx
		next.Y1 += dy
	case CornerSW:
		next.X1 += dx
		next.Y2 += dy
	case CornerSE:
		next.X2 += dx
		next.Y2 += dy
	}
	if next.X1 == next.X2 || next.Y1 == next.Y2 {
		return
	}
	next.normalize()
	*b = next
}

func (b *Box) normalize() {
	x1, x2 := math.Min(b.X1, b.X2), math.Max(b.X1, b.X2)
	y1, y2 := math.Min(b.Y1, b.Y2), math.Max(b.Y1, b.Y2)
	b.X1, b.Y1, b.X2, b.Y2 = x1, y1, x2, y2
}
