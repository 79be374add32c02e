package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// exportYOLO writes classes.txt plus one label file per frame, each line
// holding the class index and the box center/size normalized by the frame
// dimensions at 6 decimal digits.
func (e *Exporter) exportYOLO(root string, opts Options) error {
	classList := e.reg.All()
	classesPath := filepath.Join(root, "classes.txt")
	if err := os.WriteFile(classesPath, []byte(strings.Join(classList, "\n")), 0o644); err != nil {
		return fmt.Errorf("exportYOLO: could not write '%s', got '%w'", classesPath, err)
	}

	frames, err := e.writeFrames(root, opts.JPEGQuality)
	if err != nil {
		return err
	}

	for _, f := range frames {
		var sb strings.Builder
		w, h := float64(f.width), float64(f.height)
		for _, b := range e.store.Boxes(f.index) {
			cx := (b.X1 + b.X2) / 2 / w
			cy := (b.Y1 + b.Y2) / 2 / h
			bw := b.Width() / w
			bh := b.Height() / h
			fmt.Fprintf(&sb, "%d %.6f %.6f %.6f %.6f\n", e.reg.Index(b.Class), cx, cy, bw, bh)
		}

		labelPath := filepath.Join(root, "labels", labelName(f.index, "txt"))
		if err := os.WriteFile(labelPath, []byte(sb.String()), 0o644); err != nil {
			return fmt.Errorf("exportYOLO: could not write '%s', got '%w'", labelPath, err)
		}
	}

	e.log.Info().Int("frames", len(frames)).Str("dir", root).Msg("YOLO export finished")
	return nil
}
