package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

type vocAnnotation struct {
	XMLName  xml.Name    `xml:"annotation"`
	Filename string      `xml:"filename"`
	Size     vocSize     `xml:"size"`
	Objects  []vocObject `xml:"object"`
}

type vocSize struct {
	Width  int `xml:"width"`
	Height int `xml:"height"`
	Depth  int `xml:"depth"`
}

type vocObject struct {
	Name   string    `xml:"name"`
	BndBox vocBndBox `xml:"bndbox"`
}

type vocBndBox struct {
	Xmin int `xml:"xmin"`
	Ymin int `xml:"ymin"`
	Xmax int `xml:"xmax"`
	Ymax int `xml:"ymax"`
}

// exportVOC writes one XML annotation document per frame with integer pixel
// box coordinates.
func (e *Exporter) exportVOC(root string, opts Options) error {
	frames, err := e.writeFrames(root, opts.JPEGQuality)
	if err != nil {
		return err
	}

	for _, f := range frames {
		doc := vocAnnotation{
			Filename: f.name,
			Size:     vocSize{Width: f.width, Height: f.height, Depth: 3},
		}
		for _, b := range e.store.Boxes(f.index) {
			doc.Objects = append(doc.Objects, vocObject{
				Name: b.Class,
				BndBox: vocBndBox{
					Xmin: int(b.X1),
					Ymin: int(b.Y1),
					Xmax: int(b.X2),
					Ymax: int(b.Y2),
				},
			})
		}

		data, err := xml.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("exportVOC: could not encode frame %d, got '%w'", f.index, err)
		}

		labelPath := filepath.Join(root, "labels", labelName(f.index, "xml"))
		if err := os.WriteFile(labelPath, data, 0o644); err != nil {
			return fmt.Errorf("exportVOC: could not write '%s', got '%w'", labelPath, err)
		}
	}

	e.log.Info().Int("frames", len(frames)).Str("dir", root).Msg("VOC export finished")
	return nil
}
