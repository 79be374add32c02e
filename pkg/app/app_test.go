package app

import (
	"fmt"
	"image"
	"testing"

	"github.com/annotatex/annotatex/pkg/export"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideo struct {
	frames  int
	fps     float64
	width   int
	height  int
	failAll bool
}

func (f *fakeVideo) Path() string          { return "test.mp4" }
func (f *fakeVideo) FrameCount() int       { return f.frames }
func (f *fakeVideo) FPS() float64          { return f.fps }
func (f *fakeVideo) FrameSize() (int, int) { return f.width, f.height }
func (f *fakeVideo) Close() error          { return nil }

func (f *fakeVideo) Frame(index int) (image.Image, error) {
	if f.failAll {
		return nil, fmt.Errorf("decode failed for frame %d", index)
	}
	return image.NewRGBA(image.Rect(0, 0, f.width, f.height)), nil
}

func newApp(t *testing.T) *App {
	t.Helper()
	a := New(zerolog.Nop())
	a.SetSource(&fakeVideo{frames: 100, fps: 25, width: 1920, height: 1080}, "test.mp4")
	return a
}

func TestSetSourceResetsState(t *testing.T) {
	a := newApp(t)
	a.SelectClass("car")
	a.PointerDown(100, 100)
	a.PointerDrag(300, 300)
	a.PointerUp(300, 300)
	require.Equal(t, 1, a.Store().TotalBoxes())

	a.SetSource(&fakeVideo{frames: 10, fps: 30, width: 640, height: 480}, "other.mp4")
	assert.Equal(t, 0, a.Store().TotalBoxes())
	assert.Equal(t, 0, a.Frame())
	assert.Equal(t, 100, a.Snapshot().ZoomPercent)
	assert.Equal(t, "Loaded: other.mp4", a.Status().Message)
}

func TestNavigationClamping(t *testing.T) {
	a := newApp(t)

	a.JumpTo(50)
	assert.Equal(t, 50, a.Frame())

	a.JumpTo(400)
	assert.Equal(t, 50, a.Frame())
	assert.Equal(t, SeverityWarning, a.Status().Severity)

	a.Step(-200)
	assert.Equal(t, 0, a.Frame())

	a.Last()
	assert.Equal(t, 99, a.Frame())

	a.SkipForward()
	assert.Equal(t, 99, a.Frame())

	a.SkipBack()
	assert.Equal(t, 89, a.Frame())

	a.First()
	assert.Equal(t, 0, a.Frame())
}

func TestFrameChangeResetsSession(t *testing.T) {
	a := newApp(t)
	a.SelectClass("person")
	a.PointerDown(100, 100)
	a.PointerDrag(300, 300)
	a.PointerUp(300, 300)

	// Select the new box by pressing inside it.
	a.PointerDown(200, 200)
	a.PointerUp(200, 200)
	require.Equal(t, 0, a.Snapshot().SelectedIndex)

	a.Step(1)
	assert.Equal(t, -1, a.Snapshot().SelectedIndex)
}

func TestDrawWithoutClassWarns(t *testing.T) {
	a := newApp(t)

	a.PointerDown(100, 100)
	assert.Equal(t, Status{Message: "Select a class first", Severity: SeverityWarning}, a.Status())
}

func TestDrawCommitsInPixelSpace(t *testing.T) {
	a := newApp(t)
	a.SelectClass("car")

	// 1920x1080 on the default 800x500 surface: scale = 500/1080*0.95.
	view := a.View()
	require.Greater(t, view.ScaleFactor, 0.0)

	a.PointerDown(view.Offset.X, view.Offset.Y)
	a.PointerDrag(view.Offset.X+100, view.Offset.Y+100)
	a.PointerUp(view.Offset.X+100, view.Offset.Y+100)

	boxes := a.Boxes()
	require.Len(t, boxes, 1)
	scale := view.Scale()
	assert.InDelta(t, 100/scale, boxes[0].X2-boxes[0].X1, 1e-6)
	assert.Equal(t, "Added: car", a.Status().Message)
}

func TestZoomClampAndStatus(t *testing.T) {
	a := newApp(t)

	for i := 0; i < 20; i++ {
		a.Zoom(1)
	}
	assert.Equal(t, 500, a.Snapshot().ZoomPercent)

	for i := 0; i < 40; i++ {
		a.Zoom(-1)
	}
	assert.Equal(t, 10, a.Snapshot().ZoomPercent)

	a.ZoomReset()
	assert.Equal(t, 100, a.Snapshot().ZoomPercent)
	assert.Equal(t, "Zoom: 100%", a.Status().Message)
}

func TestClassSelection(t *testing.T) {
	a := newApp(t)

	a.SelectClass("nonexistent")
	assert.Equal(t, SeverityWarning, a.Status().Severity)
	assert.Empty(t, a.SelectedClass())

	a.SelectClassByIndex(2)
	assert.Equal(t, "car", a.SelectedClass())

	a.AddClass(" Forklift ")
	assert.Equal(t, "forklift", a.SelectedClass())
	assert.Equal(t, "Added: forklift", a.Status().Message)

	a.AddClass("forklift")
	assert.Equal(t, SeverityWarning, a.Status().Severity)
}

func TestDeleteSelectedIsNoOpWithoutSelection(t *testing.T) {
	a := newApp(t)
	a.SelectClass("car")
	a.PointerDown(100, 100)
	a.PointerDrag(300, 300)
	a.PointerUp(300, 300)
	before := a.Status()

	a.DeleteSelected()
	assert.Equal(t, 1, a.Store().TotalBoxes())
	assert.Equal(t, before, a.Status())

	// Select then delete.
	a.PointerDown(200, 200)
	a.PointerUp(200, 200)
	a.DeleteSelected()
	assert.Equal(t, 0, a.Store().TotalBoxes())
	assert.Equal(t, "Deleted: car", a.Status().Message)
}

func TestCopyPreviousStatus(t *testing.T) {
	a := newApp(t)
	a.CopyPrevious()
	assert.Equal(t, Status{Message: "No annotations to copy", Severity: SeverityWarning}, a.Status())

	a.SelectClass("car")
	a.PointerDown(100, 100)
	a.PointerDrag(300, 300)
	a.PointerUp(300, 300)

	a.Step(1)
	a.CopyPrevious()
	assert.Equal(t, "Copied 1 annotations", a.Status().Message)
	assert.Equal(t, 1, a.Snapshot().FrameBoxCount)
}

func TestExportStatus(t *testing.T) {
	a := newApp(t)

	err := a.Export(export.FormatYOLO, t.TempDir(), "proj")
	assert.ErrorIs(t, err, export.ErrEmptyStore)
	assert.Equal(t, SeverityWarning, a.Status().Severity)

	a.SelectClass("car")
	a.PointerDown(100, 100)
	a.PointerDrag(300, 300)
	a.PointerUp(300, 300)

	require.NoError(t, a.Export(export.FormatYOLO, t.TempDir(), "proj"))
	assert.Equal(t, Status{Message: "Saved: proj", Severity: SeverityInfo}, a.Status())
}

func TestSnapshotTimes(t *testing.T) {
	a := New(zerolog.Nop())
	a.SetSource(&fakeVideo{frames: 1500, fps: 25, width: 640, height: 480}, "clip.mp4")
	a.JumpTo(750)

	s := a.Snapshot()
	assert.Equal(t, "00:30", s.TimeCurrent)
	assert.Equal(t, "01:00", s.TimeTotal)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
	assert.Equal(t, 1500, s.TotalFrames)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00", FormatTime(0))
	assert.Equal(t, "00:59", FormatTime(59.9))
	assert.Equal(t, "02:05", FormatTime(125))
}
