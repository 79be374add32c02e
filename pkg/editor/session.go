package editor

import (
	"errors"
	"math"

	"github.com/annotatex/annotatex/pkg/annotation"
	"github.com/annotatex/annotatex/pkg/geometry"
)

// ErrNoClass is returned when a draw gesture starts without a selected class.
var ErrNoClass = errors.New("no class selected")

// handleRadius is the corner hit radius in screen pixels.
const handleRadius = 8.0

// Mode is the in-progress interaction of the session.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeMoving
	ModeResizing
)

// Cursor is the affordance glyph the UI should show for a pointer position.
type Cursor string

const (
	CursorDraw   Cursor = "draw"
	CursorMove   Cursor = "move"
	CursorResize Cursor = "resize"
)

// Rect is a screen-space rectangle, used for the live drawing preview.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Session tracks one in-progress pointer interaction against the annotation
// store. Pointer events arrive in screen coordinates and are translated to
// pixel space through the geometry transform; the session is the only place
// that decides between drawing, moving and resizing.
//
// Moving and resizing mutate the store incrementally on every drag event,
// re-anchoring after each step. Drawing only commits on release.
type Session struct {
	store *annotation.Store

	mode     Mode
	selected int
	corner   annotation.Corner
	anchor   geometry.Point
	current  geometry.Point
}

// NewSession returns an idle session over the given store.
func NewSession(store *annotation.Store) *Session {
	return &Session{store: store, selected: -1}
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Selected returns the selected box index on the current frame, or -1.
func (s *Session) Selected() int { return s.selected }

// Reset forces the session back to idle and clears the selection. It is
// called on frame changes, explicit deselects and double-clicks.
func (s *Session) Reset() {
	s.mode = ModeIdle
	s.selected = -1
	s.anchor = geometry.Point{}
	s.current = geometry.Point{}
}

// PointerDown starts an interaction. Existing boxes are hit-tested in
// insertion order, corner handles before interiors, and the first match
// wins. With no hit and a selected class a draw gesture starts; without a
// class ErrNoClass is returned and the session stays idle.
func (s *Session) PointerDown(frame int, class string, pt geometry.Point, view geometry.ViewState) error {
	for i, b := range s.store.Boxes(frame) {
		if corner, ok := hitCorner(b, pt, view); ok {
			s.mode = ModeResizing
			s.corner = corner
			s.selected = i
			s.anchor = pt
			return nil
		}
		if hitInterior(b, pt, view) {
			s.mode = ModeMoving
			s.selected = i
			s.anchor = pt
			return nil
		}
	}

	if class == "" {
		return ErrNoClass
	}
	s.mode = ModeDrawing
	s.selected = -1
	s.anchor = pt
	s.current = pt
	return nil
}

// PointerDrag advances the interaction. Drawing only updates the preview
// rectangle; moving and resizing apply the pixel-space delta to the store
// immediately and move the anchor to the new pointer position.
func (s *Session) PointerDrag(frame int, pt geometry.Point, view geometry.ViewState) {
	switch s.mode {
	case ModeDrawing:
		s.current = pt
	case ModeMoving, ModeResizing:
		scale := view.Scale()
		if scale == 0 {
			return
		}
		dx := (pt.X - s.anchor.X) / scale
		dy := (pt.Y - s.anchor.Y) / scale
		if s.mode == ModeMoving {
			s.store.Move(frame, s.selected, dx, dy)
		} else {
			s.store.Resize(frame, s.selected, s.corner, dx, dy)
		}
		s.anchor = pt
	}
}

// PointerUp ends the interaction. A draw gesture commits the rectangle
// between the original anchor and the release point; the store's minimum
// size policy may still reject it. Move and resize edits were already
// applied during the drag. The mode always returns to idle.
func (s *Session) PointerUp(frame int, class string, pt geometry.Point, view geometry.ViewState) (annotation.Box, error) {
	mode := s.mode
	s.mode = ModeIdle

	if mode != ModeDrawing {
		return annotation.Box{}, nil
	}

	p1 := geometry.ToPixel(s.anchor, view)
	p2 := geometry.ToPixel(pt, view)
	box := annotation.NewBox(class, p1.X, p1.Y, p2.X, p2.Y)
	if err := s.store.Add(frame, box); err != nil {
		return annotation.Box{}, err
	}
	return box, nil
}

// Preview returns the live screen-space rubber band while a draw gesture is
// in progress.
func (s *Session) Preview() (Rect, bool) {
	if s.mode != ModeDrawing {
		return Rect{}, false
	}
	return Rect{
		X1: math.Min(s.anchor.X, s.current.X),
		Y1: math.Min(s.anchor.Y, s.current.Y),
		X2: math.Max(s.anchor.X, s.current.X),
		Y2: math.Max(s.anchor.Y, s.current.Y),
	}, true
}

// CursorAt returns the affordance for a pointer position. It is a pure
// function of the position and the frame's boxes, independent of the session
// state, and is recomputed on every pointer move.
func (s *Session) CursorAt(frame int, pt geometry.Point, view geometry.ViewState) Cursor {
	for _, b := range s.store.Boxes(frame) {
		if _, ok := hitCorner(b, pt, view); ok {
			return CursorResize
		}
		if hitInterior(b, pt, view) {
			return CursorMove
		}
	}
	return CursorDraw
}

func hitCorner(b annotation.Box, pt geometry.Point, view geometry.ViewState) (annotation.Corner, bool) {
	for _, c := range []annotation.Corner{annotation.CornerNW, annotation.CornerNE, annotation.CornerSW, annotation.CornerSE} {
		cx, cy := b.CornerPoint(c)
		sp := geometry.ToScreen(geometry.Point{X: cx, Y: cy}, view)
		if math.Abs(pt.X-sp.X) < handleRadius && math.Abs(pt.Y-sp.Y) < handleRadius {
			return c, true
		}
	}
	return "", false
}

func hitInterior(b annotation.Box, pt geometry.Point, view geometry.ViewState) bool {
	p := geometry.ToPixel(pt, view)
	return b.Contains(p.X, p.Y)
}
