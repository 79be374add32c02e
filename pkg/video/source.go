package video

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrClosed is returned when reading from a source that is not open.
var ErrClosed = errors.New("video source is closed")

// Source wraps a video container and exposes the decoder capabilities the
// annotation core needs: frame count, frame rate, seeking by frame index and
// decoding single frames. Reads are blocking and synchronous.
type Source struct {
	path string
	cap  *gocv.VideoCapture
	mat  gocv.Mat
}

// Open opens a video container. An open failure is terminal for the load
// operation; the caller surfaces it as a blocking error.
func Open(path string) (*Source, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("Open: could not open '%s', got '%w'", path, err)
	}
	return &Source{path: path, cap: cap, mat: gocv.NewMat()}, nil
}

// Path returns the source container path.
func (s *Source) Path() string { return s.path }

// FrameCount returns the number of frames in the container.
func (s *Source) FrameCount() int {
	if s.cap == nil {
		return 0
	}
	return int(s.cap.Get(gocv.VideoCaptureFrameCount))
}

// FPS returns the container frame rate, defaulting to 30 when the container
// does not report one.
func (s *Source) FPS() float64 {
	if s.cap == nil {
		return 0
	}
	fps := s.cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		return 30
	}
	return fps
}

// FrameSize returns the raster dimensions of the container's frames.
func (s *Source) FrameSize() (int, int) {
	if s.cap == nil {
		return 0, 0
	}
	return int(s.cap.Get(gocv.VideoCaptureFrameWidth)), int(s.cap.Get(gocv.VideoCaptureFrameHeight))
}

// Frame seeks to the given frame index and decodes it. It satisfies the
// exporter's frame source contract; a seek or decode failure for one index
// is reported per call and does not poison the source.
func (s *Source) Frame(index int) (image.Image, error) {
	if s.cap == nil {
		return nil, ErrClosed
	}
	s.cap.Set(gocv.VideoCapturePosFrames, float64(index))
	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, fmt.Errorf("Frame: could not decode frame %d of '%s'", index, s.path)
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Frame: could not convert frame %d, got '%w'", index, err)
	}
	return img, nil
}

// Close releases the decoder.
func (s *Source) Close() error {
	if s.cap == nil {
		return nil
	}
	err := s.cap.Close()
	s.mat.Close()
	s.cap = nil
	return err
}
