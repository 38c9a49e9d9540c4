package chart

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrCanvasInUse is returned when a chart is attached to a canvas that
	// still holds another chart.
	ErrCanvasInUse = errors.New("canvas already has a chart attached")
	// ErrUnknownCanvas is returned for operations on a canvas never mounted.
	ErrUnknownCanvas = errors.New("unknown canvas")
)

// Source produces the series for a canvas. It is called every time the
// canvas is drawn or refreshed so charts always reflect the latest snapshot.
type Source func() Series

// Canvas is a drawing slot. Mount replaces it with a fresh one on every
// rebuild; Gen tells the generations apart.
type Canvas struct {
	chart Chart
	ID    string
	Gen   uint64
}

// Attach binds ch to the canvas.
func (c *Canvas) Attach(ch Chart) error {
	if c.chart != nil && !c.chart.Destroyed() {
		return fmt.Errorf("%s: %w", c.ID, ErrCanvasInUse)
	}
	c.chart = ch
	return nil
}

// Chart returns the attached chart, or nil.
func (c *Canvas) Chart() Chart {
	return c.chart
}

type mount struct {
	canvas *Canvas
	source Source
	title  string
	kind   Kind
}

// Registry owns every mounted chart of one dashboard session. It is driven
// from the event loop and is not safe for concurrent use.
type Registry struct {
	mounts  map[string]*mount
	palette Palette
	gen     uint64
	width   int
	height  int
}

// NewRegistry creates a registry drawing charts at width x height.
func NewRegistry(width, height int, palette Palette) *Registry {
	return &Registry{
		mounts:  make(map[string]*mount),
		palette: palette,
		width:   width,
		height:  height,
	}
}

// Mount builds a chart of kind on canvasID. A chart already on that canvas is
// destroyed and the canvas replaced before the new chart is attached.
func (r *Registry) Mount(canvasID string, kind Kind, title string, source Source) (*Canvas, error) {
	ch, err := New(kind, title, r.width, r.height, r.palette)
	if err != nil {
		return nil, err
	}

	if old, ok := r.mounts[canvasID]; ok && old.canvas.chart != nil {
		old.canvas.chart.Destroy()
	}

	r.gen++
	canvas := &Canvas{ID: canvasID, Gen: r.gen}
	if err := canvas.Attach(ch); err != nil {
		return nil, err
	}
	ch.Update(source())

	r.mounts[canvasID] = &mount{canvas: canvas, source: source, title: title, kind: kind}
	return canvas, nil
}

// Refresh recomputes canvasID's series from its source and pushes it into
// the chart.
func (r *Registry) Refresh(canvasID string) error {
	m, ok := r.mounts[canvasID]
	if !ok {
		return fmt.Errorf("%s: %w", canvasID, ErrUnknownCanvas)
	}
	m.canvas.chart.Update(m.source())
	return nil
}

// RefreshAll refreshes every mounted canvas.
func (r *Registry) RefreshAll() {
	for _, m := range r.mounts {
		m.canvas.chart.Update(m.source())
	}
}

// Rebuild remounts canvasID with its current kind, title and source.
func (r *Registry) Rebuild(canvasID string) error {
	m, ok := r.mounts[canvasID]
	if !ok {
		return fmt.Errorf("%s: %w", canvasID, ErrUnknownCanvas)
	}
	_, err := r.Mount(canvasID, m.kind, m.title, m.source)
	return err
}

// Unmount destroys the chart on canvasID and forgets the canvas.
func (r *Registry) Unmount(canvasID string) {
	if m, ok := r.mounts[canvasID]; ok {
		m.canvas.chart.Destroy()
		delete(r.mounts, canvasID)
	}
}

// Canvas returns the current canvas for id.
func (r *Registry) Canvas(canvasID string) (*Canvas, bool) {
	m, ok := r.mounts[canvasID]
	if !ok {
		return nil, false
	}
	return m.canvas, true
}

// Kind returns the chart kind mounted on canvasID.
func (r *Registry) Kind(canvasID string) (Kind, bool) {
	m, ok := r.mounts[canvasID]
	if !ok {
		return "", false
	}
	return m.kind, true
}

// View draws canvasID, or returns an empty string when nothing is mounted.
func (r *Registry) View(canvasID string) string {
	m, ok := r.mounts[canvasID]
	if !ok {
		return ""
	}
	return m.canvas.chart.View()
}

// Resize changes the drawing size of every chart.
func (r *Registry) Resize(width, height int) {
	r.width, r.height = width, height
	for _, m := range r.mounts {
		m.canvas.chart.Resize(width, height)
	}
}

// Mounted lists the mounted canvas ids in order.
func (r *Registry) Mounted() []string {
	ids := make([]string, 0, len(r.mounts))
	for id := range r.mounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear destroys every chart.
func (r *Registry) Clear() {
	for id := range r.mounts {
		r.Unmount(id)
	}
}
