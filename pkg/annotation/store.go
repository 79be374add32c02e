package annotation

import (
	"errors"
	"sort"
)

var (
	// ErrTooSmall rejects boxes below the minimum size policy.
	ErrTooSmall = errors.New("box below minimum size")
	// ErrNotFound marks delete/mutate calls addressing a missing box.
	ErrNotFound = errors.New("box not found")
	// ErrNothingToCopy marks a copy-from-previous with no source boxes.
	ErrNothingToCopy = errors.New("no annotations to copy")
)

// Store owns the per-frame box collections. Frame indices are sparse: an
// absent key means zero boxes. All operations are synchronous and are called
// from a single event loop, so the store carries no locking.
type Store struct {
	frames map[int][]Box
}

// NewStore returns an empty annotation store.
func NewStore() *Store {
	return &Store{frames: make(map[int][]Box)}
}

// Add appends a box to a frame. Boxes narrower or shorter than MinBoxSize
// are rejected and the frame is left unchanged.
func (s *Store) Add(frame int, b Box) error {
	b.normalize()
	if b.Width() < MinBoxSize || b.Height() < MinBoxSize {
		return ErrTooSmall
	}
	s.frames[frame] = append(s.frames[frame], b)
	return nil
}

// Move shifts the box at index by (dx, dy) pixels.
func (s *Store) Move(frame, index int, dx, dy float64) error {
	boxes, ok := s.frames[frame]
	if !ok || index < 0 || index >= len(boxes) {
		return ErrNotFound
	}
	boxes[index].translate(dx, dy)
	return nil
}

// Resize applies (dx, dy) to the given corner of the box at index. The box is
// renormalized afterwards so it can never end up inverted.
func (s *Store) Resize(frame, index int, corner Corner, dx, dy float64) error {
	boxes, ok := s.frames[frame]
	if !ok || index < 0 || index >= len(boxes) {
		return ErrNotFound
	}
	boxes[index].resize(corner, dx, dy)
	return nil
}

// Delete removes exactly the box at index and returns it.
func (s *Store) Delete(frame, index int) (Box, error) {
	boxes, ok := s.frames[frame]
	if !ok || index < 0 || index >= len(boxes) {
		return Box{}, ErrNotFound
	}
	removed := boxes[index]
	s.frames[frame] = append(boxes[:index], boxes[index+1:]...)
	return removed, nil
}

// UndoLast removes the most recently appended box on the frame. There is no
// cross-frame or multi-step undo stack.
func (s *Store) UndoLast(frame int) (Box, error) {
	boxes := s.frames[frame]
	if len(boxes) == 0 {
		return Box{}, ErrNotFound
	}
	removed := boxes[len(boxes)-1]
	s.frames[frame] = boxes[:len(boxes)-1]
	return removed, nil
}

// CopyFromPrevious deep-copies every box from frame-1 into frame, appending
// to whatever the frame already holds. It returns the number of copied boxes.
func (s *Store) CopyFromPrevious(frame int) (int, error) {
	if frame <= 0 {
		return 0, ErrNothingToCopy
	}
	prev := s.frames[frame-1]
	if len(prev) == 0 {
		return 0, ErrNothingToCopy
	}
	for _, b := range prev {
		s.frames[frame] = append(s.frames[frame], b.Clone())
	}
	return len(prev), nil
}

// Clear empties the frame's sequence and returns the prior count. The frame
// key stays present afterwards; aggregate counts only consider frames with at
// least one box.
func (s *Store) Clear(frame int) int {
	count := len(s.frames[frame])
	if _, ok := s.frames[frame]; ok {
		s.frames[frame] = s.frames[frame][:0]
	}
	return count
}

// Boxes returns a copy of the frame's box sequence in insertion order.
func (s *Store) Boxes(frame int) []Box {
	boxes := s.frames[frame]
	out := make([]Box, len(boxes))
	copy(out, boxes)
	return out
}

// BoxCount returns the number of boxes on one frame.
func (s *Store) BoxCount(frame int) int {
	return len(s.frames[frame])
}

// TotalBoxes returns the number of boxes across all frames.
func (s *Store) TotalBoxes() int {
	total := 0
	for _, boxes := range s.frames {
		total += len(boxes)
	}
	return total
}

// AnnotatedFrameCount returns the number of frames holding at least one box.
// Present-but-empty entries left behind by Clear are not counted.
func (s *Store) AnnotatedFrameCount() int {
	count := 0
	for _, boxes := range s.frames {
		if len(boxes) > 0 {
			count++
		}
	}
	return count
}

// Empty reports whether the store holds no boxes at all.
func (s *Store) Empty() bool {
	return s.TotalBoxes() == 0
}

// Frames returns every frame index present as a key, sorted ascending. Frames
// cleared to empty are included; exporters write their image artifacts too.
func (s *Store) Frames() []int {
	frames := make([]int, 0, len(s.frames))
	for f := range s.frames {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}
