package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/annotatex/annotatex/pkg/annotation"
	"github.com/annotatex/annotatex/pkg/classes"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// Format selects one of the supported dataset interchange formats.
type Format string

const (
	FormatYOLO Format = "YOLO"
	FormatVOC  Format = "VOC"
	FormatCOCO Format = "COCO"
)

var (
	// ErrEmptyStore rejects exports with no annotations at all.
	ErrEmptyStore = errors.New("no annotations to export")
	// ErrUnknownFormat rejects export requests for unsupported formats.
	ErrUnknownFormat = errors.New("unknown export format")
)

// DefaultJPEGQuality is used when the caller does not set one.
const DefaultJPEGQuality = 90

// FrameSource decodes single frames of the annotated video by index. The
// exporters seek the decoder to each stored frame; a failure for one index is
// non-fatal and only skips that frame.
type FrameSource interface {
	Frame(index int) (image.Image, error)
}

// Options name the destination of an export run.
type Options struct {
	Dir         string
	Name        string
	JPEGQuality int
}

// Exporter reads the whole annotation store once and emits dataset artifacts
// on disk in the requested format.
type Exporter struct {
	store *annotation.Store
	reg   *classes.Registry
	src   FrameSource
	log   zerolog.Logger
}

// New builds an exporter over a store, a class registry and a frame source.
func New(store *annotation.Store, reg *classes.Registry, src FrameSource, log zerolog.Logger) *Exporter {
	return &Exporter{store: store, reg: reg, src: src, log: log}
}

// Run exports the store in the given format under <dir>/<name>/. Directory
// creation and label/manifest write failures are terminal; per-frame decode
// failures are logged and skipped.
func (e *Exporter) Run(format Format, opts Options) error {
	if e.store.Empty() {
		return ErrEmptyStore
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}

	root := filepath.Join(opts.Dir, opts.Name)
	for _, dir := range []string{filepath.Join(root, "images"), filepath.Join(root, "labels")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("Run: could not create '%s', got '%w'", dir, err)
		}
	}

	switch format {
	case FormatYOLO:
		return e.exportYOLO(root, opts)
	case FormatVOC:
		return e.exportVOC(root, opts)
	case FormatCOCO:
		return e.exportCOCO(root, opts)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownFormat, format)
	}
}

// decodedFrame is one stored frame the exporters managed to decode.
type decodedFrame struct {
	index  int
	name   string
	width  int
	height int
}

// writeFrames decodes every frame index present in the store, even those with
// an empty box list, and writes its JPEG artifact under images/. Frames that
// fail to decode are skipped; the rest of the export continues.
func (e *Exporter) writeFrames(root string, quality int) ([]decodedFrame, error) {
	var out []decodedFrame
	for _, f := range e.store.Frames() {
		img, err := e.src.Frame(f)
		if err != nil {
			e.log.Warn().Err(err).Int("frame", f).Msg("skipping frame that failed to decode")
			continue
		}

		name := imageName(f)
		if err := imaging.Save(img, filepath.Join(root, "images", name), imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("writeFrames: could not write '%s', got '%w'", name, err)
		}

		bounds := img.Bounds()
		out = append(out, decodedFrame{
			index:  f,
			name:   name,
			width:  bounds.Dx(),
			height: bounds.Dy(),
		})
	}
	return out, nil
}

func imageName(frame int) string {
	return fmt.Sprintf("frame_%06d.jpg", frame)
}

func labelName(frame int, ext string) string {
	return fmt.Sprintf("frame_%06d.%s", frame, ext)
}
