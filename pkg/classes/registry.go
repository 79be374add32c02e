package classes

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"
)

// ErrExists is returned when adding a custom class whose name collides with a
// built-in or previously added custom class.
var ErrExists = errors.New("class already exists")

// builtin is the default detection class list (COCO order).
var builtin = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck",
	"boat", "traffic light", "fire hydrant", "stop sign", "parking meter", "bench",
	"bird", "cat", "dog", "horse", "sheep", "cow", "elephant", "bear", "zebra",
	"giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove",
	"skateboard", "surfboard", "tennis racket", "bottle", "wine glass", "cup",
	"fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// palette assigns vibrant colors to built-in classes by index.
var palette = []color.RGBA{
	{0xFF, 0x6B, 0x6B, 0xFF}, {0x4E, 0xCD, 0xC4, 0xFF}, {0x45, 0xB7, 0xD1, 0xFF},
	{0x96, 0xCE, 0xB4, 0xFF}, {0xFF, 0xEA, 0xA7, 0xFF}, {0xDD, 0xA0, 0xDD, 0xFF},
	{0x98, 0xD8, 0xC8, 0xFF}, {0xF7, 0xDC, 0x6F, 0xFF}, {0xBB, 0x8F, 0xCE, 0xFF},
	{0x85, 0xC1, 0xE9, 0xFF}, {0xF8, 0xB5, 0x00, 0xFF}, {0xFF, 0x47, 0x57, 0xFF},
	{0x2E, 0xD5, 0x73, 0xFF}, {0x1E, 0x90, 0xFF, 0xFF}, {0xFF, 0x63, 0x48, 0xFF},
	{0x7B, 0xED, 0x9F, 0xFF}, {0x70, 0xA1, 0xFF, 0xFF}, {0xFF, 0xA5, 0x02, 0xFF},
	{0xFF, 0x47, 0x57, 0xFF}, {0x2F, 0x35, 0x42, 0xFF}, {0x57, 0x60, 0x6F, 0xFF},
	{0x74, 0x7D, 0x8C, 0xFF}, {0xA4, 0xB0, 0xBD, 0xFF}, {0xDF, 0xE4, 0xEA, 0xFF},
}

// Registry maps class names to stable display colors. It owns both the
// built-in class list and user-added custom classes. It is passed by
// reference to every component that needs label or color lookups.
type Registry struct {
	custom []string
}

// NewRegistry returns a registry with the built-in class list and no custom
// classes.
func NewRegistry() *Registry {
	return &Registry{custom: make([]string, 0)}
}

// All returns the combined built-in + custom class list in insertion order.
// The slice is a copy; callers may not mutate registry state through it.
func (r *Registry) All() []string {
	all := make([]string, 0, len(builtin)+len(r.custom))
	all = append(all, builtin...)
	all = append(all, r.custom...)
	return all
}

// Index returns the position of a class in the combined list, or -1.
func (r *Registry) Index(name string) int {
	for i, c := range builtin {
		if c == name {
			return i
		}
	}
	for i, c := range r.custom {
		if c == name {
			return len(builtin) + i
		}
	}
	return -1
}

// Contains reports whether the name matches a known class, case-insensitively.
func (r *Registry) Contains(name string) bool {
	lower := strings.ToLower(name)
	for _, c := range builtin {
		if strings.ToLower(c) == lower {
			return true
		}
	}
	for _, c := range r.custom {
		if c == lower {
			return true
		}
	}
	return false
}

// AddCustom registers a new custom class. The name is trimmed and
// lower-cased. Empty names and case-insensitive collisions with existing
// classes are rejected.
func (r *Registry) AddCustom(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("AddCustom: empty class name")
	}
	if r.Contains(name) {
		return "", ErrExists
	}
	r.custom = append(r.custom, name)
	return name, nil
}

// Filter returns all class names containing the query, case-insensitively.
// An empty query returns the full combined list in order.
func (r *Registry) Filter(query string) []string {
	all := r.All()
	if query == "" {
		return all
	}
	query = strings.ToLower(query)
	matched := make([]string, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c), query) {
			matched = append(matched, c)
		}
	}
	return matched
}

// ColorFor returns the display color for a class. Built-in classes resolve
// through the fixed palette by index; any other name gets a color derived
// from an FNV-1a hash of the name, so the same name maps to the same color
// across runs.
func (r *Registry) ColorFor(name string) color.RGBA {
	for i, c := range builtin {
		if c == name {
			return palette[i%len(palette)]
		}
	}
	return hashColor(name)
}

// HexColorFor is ColorFor rendered as an #RRGGBB string for UI consumption.
func (r *Registry) HexColorFor(name string) string {
	c := r.ColorFor(name)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func hashColor(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	return color.RGBA{
		R: uint8(sum >> 16),
		G: uint8(sum >> 8),
		B: uint8(sum),
		A: 0xFF,
	}
}
