package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsTinyBoxes(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.Add(0, NewBox("car", 10, 10, 14.9, 100)), ErrTooSmall)
	assert.ErrorIs(t, s.Add(0, NewBox("car", 10, 10, 100, 14)), ErrTooSmall)
	assert.Equal(t, 0, s.BoxCount(0))

	require.NoError(t, s.Add(0, NewBox("car", 10, 10, 15, 15)))
	assert.Equal(t, 1, s.BoxCount(0))
}

func TestAddNormalizesCorners(t *testing.T) {
	s := NewStore()
	// Drawn bottom-right to top-left.
	require.NoError(t, s.Add(3, NewBox("dog", 50, 90, 10, 10)))

	b := s.Boxes(3)[0]
	assert.Equal(t, Box{Class: "dog", X1: 10, Y1: 10, X2: 50, Y2: 90}, b)
}

func TestMove(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("person", 10, 10, 50, 90)))

	require.NoError(t, s.Move(0, 0, 5, -3))
	b := s.Boxes(0)[0]
	assert.Equal(t, Box{Class: "person", X1: 15, Y1: 7, X2: 55, Y2: 87}, b)

	assert.ErrorIs(t, s.Move(0, 7, 1, 1), ErrNotFound)
	assert.ErrorIs(t, s.Move(9, 0, 1, 1), ErrNotFound)
}

func TestResizeCornerFlip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("person", 10, 10, 50, 50)))

	// Drag the SE handle far past the NW corner; the box must flip into a
	// valid orientation instead of inverting.
	require.NoError(t, s.Resize(0, 0, CornerSE, -60, -60))
	b := s.Boxes(0)[0]
	assert.True(t, b.X1 < b.X2 && b.Y1 < b.Y2, "box must stay normalized, got %+v", b)
	assert.Equal(t, Box{Class: "person", X1: -10, Y1: -10, X2: 10, Y2: 10}, b)
}

func TestResizeRejectsZeroWidthStep(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("person", 0, 0, 40, 40)))

	// A step landing exactly on the opposite edge would collapse the box to
	// zero width; it is dropped and the extent stays strict.
	require.NoError(t, s.Resize(0, 0, CornerSE, -40, 0))
	assert.Equal(t, Box{Class: "person", X1: 0, Y1: 0, X2: 40, Y2: 40}, s.Boxes(0)[0])

	require.NoError(t, s.Resize(0, 0, CornerNE, 0, 40))
	assert.Equal(t, Box{Class: "person", X1: 0, Y1: 0, X2: 40, Y2: 40}, s.Boxes(0)[0])

	// Dragging past the edge still flips.
	require.NoError(t, s.Resize(0, 0, CornerSE, -60, 0))
	assert.Equal(t, Box{Class: "person", X1: -20, Y1: 0, X2: 0, Y2: 40}, s.Boxes(0)[0])
}

func TestResizeEachCorner(t *testing.T) {
	cases := []struct {
		corner Corner
		want   Box
	}{
		{CornerNW, Box{Class: "cat", X1: 12, Y1: 13, X2: 50, Y2: 50}},
		{CornerNE, Box{Class: "cat", X1: 10, Y1: 13, X2: 52, Y2: 50}},
		{CornerSW, Box{Class: "cat", X1: 12, Y1: 10, X2: 50, Y2: 53}},
		{CornerSE, Box{Class: "cat", X1: 10, Y1: 10, X2: 52, Y2: 53}},
	}

	for _, c := range cases {
		s := NewStore()
		require.NoError(t, s.Add(0, NewBox("cat", 10, 10, 50, 50)))
		require.NoError(t, s.Resize(0, 0, c.corner, 2, 3))
		assert.Equal(t, c.want, s.Boxes(0)[0], "corner %s", c.corner)
	}
}

func TestDeleteShiftsNothingElse(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("a", 0, 0, 10, 10)))
	require.NoError(t, s.Add(0, NewBox("b", 20, 20, 30, 30)))
	require.NoError(t, s.Add(0, NewBox("c", 40, 40, 50, 50)))
	require.NoError(t, s.Add(1, NewBox("d", 0, 0, 10, 10)))

	removed, err := s.Delete(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Class)

	left := s.Boxes(0)
	require.Len(t, left, 2)
	assert.Equal(t, "a", left[0].Class)
	assert.Equal(t, "c", left[1].Class)
	assert.Equal(t, 1, s.BoxCount(1))

	_, err = s.Delete(0, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUndoLast(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("a", 0, 0, 10, 10)))
	require.NoError(t, s.Add(0, NewBox("b", 20, 20, 30, 30)))

	removed, err := s.UndoLast(0)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Class)
	assert.Equal(t, 1, s.BoxCount(0))

	_, err = s.UndoLast(3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCopyFromPrevious(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(4, NewBox("a", 0, 0, 10, 10)))
	require.NoError(t, s.Add(4, NewBox("b", 20, 20, 40, 40)))
	require.NoError(t, s.Add(5, NewBox("c", 50, 50, 60, 60)))

	n, err := s.CopyFromPrevious(5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, s.BoxCount(5))

	// Copies are independent: mutating frame 5 must not touch frame 4.
	require.NoError(t, s.Move(5, 1, 100, 100))
	assert.Equal(t, Box{Class: "a", X1: 0, Y1: 0, X2: 10, Y2: 10}, s.Boxes(4)[0])

	_, err = s.CopyFromPrevious(0)
	assert.ErrorIs(t, err, ErrNothingToCopy)
	_, err = s.CopyFromPrevious(100)
	assert.ErrorIs(t, err, ErrNothingToCopy)
}

func TestClearLeavesEntryButNotCounts(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(2, NewBox("a", 0, 0, 10, 10)))
	require.NoError(t, s.Add(2, NewBox("b", 20, 20, 30, 30)))

	assert.Equal(t, 2, s.Clear(2))
	assert.Equal(t, 0, s.BoxCount(2))
	assert.Equal(t, 0, s.AnnotatedFrameCount())
	assert.True(t, s.Empty())

	// The cleared frame stays a key: exporters still emit its image artifact.
	assert.Equal(t, []int{2}, s.Frames())

	assert.Equal(t, 0, s.Clear(99))
}

func TestAggregates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("a", 0, 0, 10, 10)))
	require.NoError(t, s.Add(0, NewBox("b", 0, 0, 10, 10)))
	require.NoError(t, s.Add(7, NewBox("c", 0, 0, 10, 10)))

	assert.Equal(t, 3, s.TotalBoxes())
	assert.Equal(t, 2, s.AnnotatedFrameCount())
	assert.Equal(t, []int{0, 7}, s.Frames())
}

func TestNormalizationInvariantUnderMutationSequences(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(0, NewBox("a", 5, 5, 60, 60)))
	require.NoError(t, s.Add(0, NewBox("b", 100, 100, 200, 150)))

	ops := []func(){
		func() { s.Move(0, 0, -30, 12) },
		func() { s.Resize(0, 0, CornerNW, 80, 80) },
		func() { s.Resize(0, 1, CornerSW, 150, -90) },
		func() { s.Move(0, 1, 3.5, -7.25) },
		func() { s.Resize(0, 0, CornerNE, -200, 300) },
	}
	for _, op := range ops {
		op()
		for _, b := range s.Boxes(0) {
			assert.True(t, b.X1 < b.X2 && b.Y1 < b.Y2, "invariant broken: %+v", b)
		}
	}
}
