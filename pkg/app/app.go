package app

import (
	"errors"
	"fmt"
	"image"

	"github.com/annotatex/annotatex/pkg/annotation"
	"github.com/annotatex/annotatex/pkg/classes"
	"github.com/annotatex/annotatex/pkg/editor"
	"github.com/annotatex/annotatex/pkg/export"
	"github.com/annotatex/annotatex/pkg/geometry"
	"github.com/rs/zerolog"
)

// ErrNoVideo marks operations that need a loaded video source.
var ErrNoVideo = errors.New("no video loaded")

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Status is the human-readable outcome of the last operation.
type Status struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// VideoSource is the decoder capability set the app needs from a loaded
// container. pkg/video.Source satisfies it.
type VideoSource interface {
	Path() string
	FrameCount() int
	FPS() float64
	FrameSize() (int, int)
	Frame(index int) (image.Image, error)
	Close() error
}

const (
	defaultSurfaceW = 800
	defaultSurfaceH = 500
	zoomStep        = 1.2
	skipFrames      = 10
)

// App owns all core state: the annotation store, the class registry, the edit
// session, the view transform and the loaded video source. The UI layer
// drives it through methods mirroring its events and polls Snapshot after
// each mutating call. Everything runs on the caller's single event loop.
type App struct {
	log zerolog.Logger

	store   *annotation.Store
	reg     *classes.Registry
	session *editor.Session
	src     VideoSource

	frame    int
	zoom     float64
	view     geometry.ViewState
	surfaceW float64
	surfaceH float64

	selectedClass string
	showLabels    bool
	showBoxes     bool
	jpegQuality   int
	status        Status
}

// New returns an app with an empty store, the built-in class registry and no
// video loaded.
func New(log zerolog.Logger) *App {
	store := annotation.NewStore()
	return &App{
		log:         log,
		store:       store,
		reg:         classes.NewRegistry(),
		session:     editor.NewSession(store),
		zoom:        1.0,
		surfaceW:    defaultSurfaceW,
		surfaceH:    defaultSurfaceH,
		showLabels:  true,
		showBoxes:   true,
		jpegQuality: export.DefaultJPEGQuality,
		status:      Status{Message: "Ready", Severity: SeverityInfo},
	}
}

// SetJPEGQuality overrides the JPEG quality used for exported frame images.
func (a *App) SetJPEGQuality(q int) {
	if q > 0 && q <= 100 {
		a.jpegQuality = q
	}
}

// Registry exposes the class registry for label/color lookups.
func (a *App) Registry() *classes.Registry { return a.reg }

// Store exposes the annotation store for read access.
func (a *App) Store() *annotation.Store { return a.store }

// SetSource installs a freshly opened video source, discarding all previous
// annotations and resetting frame, zoom and session state. The previous
// source, if any, is closed.
func (a *App) SetSource(src VideoSource, name string) {
	if a.src != nil {
		a.src.Close()
	}
	a.src = src
	a.store = annotation.NewStore()
	a.session = editor.NewSession(a.store)
	a.frame = 0
	a.zoom = 1.0
	a.recomputeView()
	a.setStatus(SeverityInfo, "Loaded: %s", name)
	a.log.Info().Str("video", name).Int("frames", src.FrameCount()).Float64("fps", src.FPS()).Msg("video loaded")
}

// FrameImage decodes the current frame for rendering.
func (a *App) FrameImage() (image.Image, error) {
	if a.src == nil {
		return nil, ErrNoVideo
	}
	return a.src.Frame(a.frame)
}

// ---- view ----

// SetSurface records the rendering surface size and refits the view.
func (a *App) SetSurface(w, h float64) {
	if w > 0 && h > 0 {
		a.surfaceW, a.surfaceH = w, h
	}
	a.recomputeView()
}

// Zoom multiplies the zoom level by 1.2 (in) or 0.8 (out), clamped to the
// supported range, and refits the view.
func (a *App) Zoom(direction int) {
	factor := 0.8
	if direction > 0 {
		factor = zoomStep
	}
	a.zoom = geometry.ClampZoom(a.zoom * factor)
	a.recomputeView()
	a.setStatus(SeverityInfo, "Zoom: %d%%", int(a.zoom*100))
}

// ZoomReset restores 100% zoom.
func (a *App) ZoomReset() {
	a.zoom = 1.0
	a.recomputeView()
	a.setStatus(SeverityInfo, "Zoom: %d%%", int(a.zoom*100))
}

func (a *App) recomputeView() {
	if a.src == nil {
		a.view = geometry.ViewState{ScaleFactor: 1, ZoomLevel: a.zoom}
		return
	}
	w, h := a.src.FrameSize()
	a.view = geometry.Fit(float64(w), float64(h), a.surfaceW, a.surfaceH, a.zoom)
}

// View returns the current view transform.
func (a *App) View() geometry.ViewState { return a.view }

// ---- navigation ----

// JumpTo navigates to an absolute frame index. Out-of-range input is a
// warning and leaves the current frame unchanged.
func (a *App) JumpTo(frame int) {
	if a.src == nil {
		a.setStatus(SeverityWarning, "No video loaded")
		return
	}
	if frame < 0 || frame >= a.src.FrameCount() {
		a.setStatus(SeverityWarning, "Frame %d out of range", frame)
		return
	}
	a.frame = frame
	a.session.Reset()
	a.setStatus(SeverityInfo, "Frame %d / %d", a.frame+1, a.src.FrameCount())
}

// Step navigates by a relative delta, clamped to the valid range.
func (a *App) Step(delta int) {
	if a.src == nil {
		a.setStatus(SeverityWarning, "No video loaded")
		return
	}
	target := a.frame + delta
	if target < 0 {
		target = 0
	}
	if max := a.src.FrameCount() - 1; target > max {
		target = max
	}
	a.JumpTo(target)
}

// First navigates to the first frame.
func (a *App) First() { a.JumpTo(0) }

// Last navigates to the last frame.
func (a *App) Last() {
	if a.src == nil {
		a.setStatus(SeverityWarning, "No video loaded")
		return
	}
	a.JumpTo(a.src.FrameCount() - 1)
}

// SkipBack navigates ten frames back.
func (a *App) SkipBack() { a.Step(-skipFrames) }

// SkipForward navigates ten frames forward.
func (a *App) SkipForward() { a.Step(skipFrames) }

// Frame returns the current frame index.
func (a *App) Frame() int { return a.frame }

// ---- classes ----

// SelectClass makes a class the active drawing label.
func (a *App) SelectClass(name string) {
	if a.reg.Index(name) < 0 {
		a.setStatus(SeverityWarning, "Unknown class '%s'", name)
		return
	}
	a.selectedClass = name
	a.setStatus(SeverityInfo, "Selected: %s", name)
}

// SelectClassByIndex selects a class by its position in the combined list,
// matching the original's digit shortcuts.
func (a *App) SelectClassByIndex(index int) {
	all := a.reg.All()
	if index < 0 || index >= len(all) {
		a.setStatus(SeverityWarning, "No class at index %d", index)
		return
	}
	a.SelectClass(all[index])
}

// AddClass registers a custom class and selects it.
func (a *App) AddClass(name string) {
	normalized, err := a.reg.AddCustom(name)
	if err != nil {
		if errors.Is(err, classes.ErrExists) {
			a.setStatus(SeverityWarning, "Class '%s' already exists", name)
		} else {
			a.setStatus(SeverityWarning, "Invalid class name")
		}
		return
	}
	a.selectedClass = normalized
	a.setStatus(SeverityInfo, "Added: %s", normalized)
}

// SelectedClass returns the active drawing label, empty when none.
func (a *App) SelectedClass() string { return a.selectedClass }

// ---- pointer events ----

// PointerDown starts a draw, move or resize interaction at a screen point.
func (a *App) PointerDown(x, y float64) {
	if a.src == nil {
		return
	}
	err := a.session.PointerDown(a.frame, a.selectedClass, geometry.Point{X: x, Y: y}, a.view)
	if errors.Is(err, editor.ErrNoClass) {
		a.setStatus(SeverityWarning, "Select a class first")
	}
}

// PointerDrag advances the in-progress interaction.
func (a *App) PointerDrag(x, y float64) {
	if a.src == nil {
		return
	}
	a.session.PointerDrag(a.frame, geometry.Point{X: x, Y: y}, a.view)
}

// PointerUp ends the interaction, committing a drawn box if large enough.
func (a *App) PointerUp(x, y float64) {
	if a.src == nil {
		return
	}
	box, err := a.session.PointerUp(a.frame, a.selectedClass, geometry.Point{X: x, Y: y}, a.view)
	switch {
	case errors.Is(err, annotation.ErrTooSmall):
		a.setStatus(SeverityWarning, "Box too small")
	case err == nil && box.Class != "":
		a.setStatus(SeverityInfo, "Added: %s", box.Class)
	}
}

// CursorAt returns the affordance glyph for a pointer position.
func (a *App) CursorAt(x, y float64) editor.Cursor {
	return a.session.CursorAt(a.frame, geometry.Point{X: x, Y: y}, a.view)
}

// Preview returns the live rubber band while drawing.
func (a *App) Preview() (editor.Rect, bool) { return a.session.Preview() }

// Deselect clears the selection and resets the session, as does a
// double-click in the original.
func (a *App) Deselect() {
	a.session.Reset()
	a.setStatus(SeverityInfo, "Ready")
}

// ---- edit operations ----

// DeleteSelected removes the selected box. With no selection or a stale
// index this is a no-op, not an error.
func (a *App) DeleteSelected() {
	idx := a.session.Selected()
	if idx < 0 {
		return
	}
	removed, err := a.store.Delete(a.frame, idx)
	if err != nil {
		return
	}
	a.session.Reset()
	a.setStatus(SeverityInfo, "Deleted: %s", removed.Class)
}

// Undo removes the most recently added box on the current frame.
func (a *App) Undo() {
	removed, err := a.store.UndoLast(a.frame)
	if err != nil {
		return
	}
	a.setStatus(SeverityInfo, "Undid: %s", removed.Class)
}

// CopyPrevious duplicates the previous frame's boxes onto the current one.
func (a *App) CopyPrevious() {
	n, err := a.store.CopyFromPrevious(a.frame)
	if err != nil {
		a.setStatus(SeverityWarning, "No annotations to copy")
		return
	}
	a.setStatus(SeverityInfo, "Copied %d annotations", n)
}

// ClearFrame empties the current frame.
func (a *App) ClearFrame() {
	count := a.store.Clear(a.frame)
	a.session.Reset()
	a.setStatus(SeverityInfo, "Cleared %d annotations", count)
}

// ---- display toggles ----

// SetShowLabels toggles label rendering in the snapshot.
func (a *App) SetShowLabels(v bool) { a.showLabels = v }

// SetShowBoxes toggles box rendering in the snapshot.
func (a *App) SetShowBoxes(v bool) { a.showBoxes = v }

// ---- export ----

// Export writes the dataset under dir/name in the given format. Directory or
// manifest failures surface as a blocking error status; per-frame decode
// failures are skipped inside the exporter.
func (a *App) Export(format export.Format, dir, name string) error {
	if a.src == nil {
		a.setStatus(SeverityError, "No video loaded")
		return ErrNoVideo
	}
	if a.store.Empty() {
		a.setStatus(SeverityWarning, "No annotations to save")
		return export.ErrEmptyStore
	}

	exp := export.New(a.store, a.reg, a.src, a.log)
	if err := exp.Run(format, export.Options{Dir: dir, Name: name, JPEGQuality: a.jpegQuality}); err != nil {
		a.setStatus(SeverityError, "Export failed: %v", err)
		return err
	}
	a.setStatus(SeverityInfo, "Saved: %s", name)
	return nil
}

// ---- status and snapshot ----

func (a *App) setStatus(sev Severity, format string, args ...interface{}) {
	a.status = Status{Message: fmt.Sprintf(format, args...), Severity: sev}
}

// Status returns the outcome of the last operation.
func (a *App) Status() Status { return a.status }

// FormatTime renders a second count as MM:SS for the timeline.
func FormatTime(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Snapshot is the pull-based state the UI reads after each mutating call.
type Snapshot struct {
	VideoPath      string             `json:"video_path"`
	Frame          int                `json:"frame"`
	TotalFrames    int                `json:"total_frames"`
	FPS            float64            `json:"fps"`
	Progress       float64            `json:"progress"`
	TimeCurrent    string             `json:"time_current"`
	TimeTotal      string             `json:"time_total"`
	View           geometry.ViewState `json:"view"`
	ZoomPercent    int                `json:"zoom_percent"`
	SelectedClass  string             `json:"selected_class"`
	SelectedIndex  int                `json:"selected_index"`
	ShowLabels     bool               `json:"show_labels"`
	ShowBoxes      bool               `json:"show_boxes"`
	TotalBoxes     int                `json:"total_boxes"`
	AnnotatedCount int                `json:"annotated_frames"`
	FrameBoxCount  int                `json:"frame_box_count"`
	Status         Status             `json:"status"`
}

// Snapshot assembles the current pull-based state.
func (a *App) Snapshot() Snapshot {
	s := Snapshot{
		Frame:          a.frame,
		View:           a.view,
		ZoomPercent:    int(a.zoom * 100),
		SelectedClass:  a.selectedClass,
		SelectedIndex:  a.session.Selected(),
		ShowLabels:     a.showLabels,
		ShowBoxes:      a.showBoxes,
		TotalBoxes:     a.store.TotalBoxes(),
		AnnotatedCount: a.store.AnnotatedFrameCount(),
		FrameBoxCount:  a.store.BoxCount(a.frame),
		Status:         a.status,
	}
	if a.src != nil {
		s.VideoPath = a.src.Path()
		s.TotalFrames = a.src.FrameCount()
		s.FPS = a.src.FPS()
		if s.TotalFrames > 0 {
			s.Progress = float64(a.frame) / float64(s.TotalFrames)
		}
		if s.FPS > 0 {
			s.TimeCurrent = FormatTime(float64(a.frame) / s.FPS)
			s.TimeTotal = FormatTime(float64(s.TotalFrames) / s.FPS)
		}
	}
	return s
}

// Boxes returns the current frame's box list for rendering.
func (a *App) Boxes() []annotation.Box {
	return a.store.Boxes(a.frame)
}
