// Package interaction holds the mutable scene shared by the window and the
// terminal front ends. It turns pointer, wheel and control input into scene
// changes and pushes the resulting graph configuration to a Sink.
package interaction

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/interfere/internal/scene"
	"github.com/san-kum/interfere/internal/spatial"
)

// Sink receives a fresh graph configuration after every change.
type Sink interface {
	Apply(cfg spatial.Configuration)
}

type TargetKind int

const (
	None TargetKind = iota
	SourceTarget
	ObserverTarget
)

// Target names a draggable point: a source by index or the observer.
type Target struct {
	Kind  TargetKind
	Index int
}

func (t Target) String() string {
	switch t.Kind {
	case SourceTarget:
		return fmt.Sprintf("speaker %d", t.Index+1)
	case ObserverTarget:
		return "observer"
	}
	return "none"
}

type Layer struct {
	mu sync.Mutex

	scene    scene.Scene
	vp       scene.Viewport
	drag     Target
	selected Target
	sink     Sink
	version  uint64
}

func New(s scene.Scene, vp scene.Viewport) *Layer {
	return &Layer{
		scene:    s.Clone(),
		vp:       vp,
		selected: Target{Kind: SourceTarget},
	}
}

// SetSink attaches sink and immediately sends it the current configuration.
func (l *Layer) SetSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
	if sink != nil {
		sink.Apply(spatial.Configure(l.scene, l.vp))
	}
}

// Scene returns a copy of the current scene.
func (l *Layer) Scene() scene.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scene.Clone()
}

func (l *Layer) Viewport() scene.Viewport {
	return l.vp
}

// Configuration is the graph configuration for the current scene.
func (l *Layer) Configuration() spatial.Configuration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return spatial.Configure(l.scene, l.vp)
}

// Version increases on every change. Renderers compare it with the last
// version they drew.
func (l *Layer) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// changedLocked bumps the version and notifies the sink. Must hold l.mu.
func (l *Layer) changedLocked() {
	l.version++
	if l.sink != nil {
		l.sink.Apply(spatial.Configure(l.scene, l.vp))
	}
}

// Press starts a drag on the first point within the hit box around (px, py):
// sources in order, then the observer. It reports whether something was hit.
func (l *Layer) Press(px, py float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drag = l.hitLocked(scene.PointFromPixel(px, py, l.vp))
	if l.drag.Kind != None {
		l.selected = l.drag
	}
	return l.drag.Kind != None
}

func (l *Layer) hitLocked(p scene.Point) Target {
	for i, src := range l.scene.Sources {
		if hit(src.Point, p) {
			return Target{Kind: SourceTarget, Index: i}
		}
	}
	if hit(l.scene.Observer, p) {
		return Target{Kind: ObserverTarget}
	}
	return Target{}
}

func hit(a, b scene.Point) bool {
	return math.Abs(a.X-b.X) < scene.HitRadius && math.Abs(a.Y-b.Y) < scene.HitRadius
}

// Move drags the pressed point to (px, py). Positions are not clamped to
// the viewport.
func (l *Layer) Move(px, py float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.drag.Kind == None {
		return false
	}
	l.setLocked(l.drag, scene.PointFromPixel(px, py, l.vp))
	return true
}

func (l *Layer) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drag = Target{}
}

// Dragging returns the point being dragged, if any.
func (l *Layer) Dragging() (Target, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drag, l.drag.Kind != None
}

func (l *Layer) setLocked(t Target, p scene.Point) {
	switch t.Kind {
	case SourceTarget:
		l.scene.Sources[t.Index].Point = p
	case ObserverTarget:
		l.scene.Observer = p
	default:
		return
	}
	l.changedLocked()
}

// Wheel zooms by a wheel delta and returns the new scale.
func (l *Layer) Wheel(deltaY float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	scale := scene.ZoomScale(l.scene.Scale, deltaY)
	if scale != l.scene.Scale {
		l.scene.Scale = scale
		l.changedLocked()
	}
	return scale
}

// SetFrequency snaps f to the slider step and range and returns the value used.
func (l *Layer) SetFrequency(f float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	f = scene.ClampFrequency(f)
	if f != l.scene.Frequency {
		l.scene.Frequency = f
		l.changedLocked()
	}
	return f
}

// SetSpan snaps s to the slider step and range and returns the value used.
func (l *Layer) SetSpan(s float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	s = scene.ClampSpan(s)
	if s != l.scene.FrequencySpan {
		l.scene.FrequencySpan = s
		l.changedLocked()
	}
	return s
}

// ToggleInvert flips the polarity of source i and returns the new state.
func (l *Layer) ToggleInvert(i int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.scene.Sources) {
		return false, fmt.Errorf("%w: %d", scene.ErrSourceIndex, i)
	}
	l.scene.Sources[i].Inverted = !l.scene.Sources[i].Inverted
	l.changedLocked()
	return l.scene.Sources[i].Inverted, nil
}

// Selected is the point keyboard movement applies to.
func (l *Layer) Selected() Target {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// SelectNext cycles through the sources, then the observer.
func (l *Layer) SelectNext() Target {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.selected.Kind == SourceTarget && l.selected.Index+1 < len(l.scene.Sources):
		l.selected.Index++
	case l.selected.Kind == SourceTarget:
		l.selected = Target{Kind: ObserverTarget}
	case len(l.scene.Sources) > 0:
		l.selected = Target{Kind: SourceTarget}
	default:
		l.selected = Target{Kind: ObserverTarget}
	}
	l.version++
	return l.selected
}

// Nudge moves the selected point by (dx, dy) percent.
func (l *Layer) Nudge(dx, dy float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var p scene.Point
	switch l.selected.Kind {
	case SourceTarget:
		p = l.scene.Sources[l.selected.Index].Point
	case ObserverTarget:
		p = l.scene.Observer
	default:
		return
	}
	l.setLocked(l.selected, scene.Point{X: p.X + dx, Y: p.Y + dy})
}

// Reset replaces the scene, e.g. after loading a preset.
func (l *Layer) Reset(s scene.Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scene = s.Clone()
	l.drag = Target{}
	if l.selected.Kind == SourceTarget && l.selected.Index >= len(s.Sources) {
		l.selected = Target{Kind: ObserverTarget}
	}
	l.changedLocked()
}
