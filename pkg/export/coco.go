package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type cocoManifest struct {
	Images      []cocoImage      `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
	Categories  []cocoCategory   `json:"categories"`
}

type cocoImage struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cocoAnnotation struct {
	ID         int        `json:"id"`
	ImageID    int        `json:"image_id"`
	CategoryID int        `json:"category_id"`
	BBox       [4]float64 `json:"bbox"`
	Area       float64    `json:"area"`
	IsCrowd    int        `json:"iscrowd"`
}

type cocoCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// exportCOCO writes a single JSON manifest for the whole project. Image ids
// are frame index + 1, category ids are class index + 1 and annotation ids
// are a running counter starting at 1.
func (e *Exporter) exportCOCO(root string, opts Options) error {
	manifest := cocoManifest{
		Images:      make([]cocoImage, 0),
		Annotations: make([]cocoAnnotation, 0),
		Categories:  make([]cocoCategory, 0),
	}
	for i, name := range e.reg.All() {
		manifest.Categories = append(manifest.Categories, cocoCategory{ID: i + 1, Name: name})
	}

	frames, err := e.writeFrames(root, opts.JPEGQuality)
	if err != nil {
		return err
	}

	annID := 1
	for _, f := range frames {
		imgID := f.index + 1
		manifest.Images = append(manifest.Images, cocoImage{
			ID:       imgID,
			FileName: f.name,
			Width:    f.width,
			Height:   f.height,
		})

		for _, b := range e.store.Boxes(f.index) {
			manifest.Annotations = append(manifest.Annotations, cocoAnnotation{
				ID:         annID,
				ImageID:    imgID,
				CategoryID: e.reg.Index(b.Class) + 1,
				BBox:       [4]float64{b.X1, b.Y1, b.Width(), b.Height()},
				Area:       b.Width() * b.Height(),
				IsCrowd:    0,
			})
			annID++
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("exportCOCO: could not encode manifest, got '%w'", err)
	}

	manifestPath := filepath.Join(root, "annotations.json")
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("exportCOCO: could not write '%s', got '%w'", manifestPath, err)
	}

	e.log.Info().Int("frames", len(frames)).Int("annotations", annID-1).Str("dir", root).Msg("COCO export finished")
	return nil
}
