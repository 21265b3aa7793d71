package scene

import (
	"fmt"
	"math"
)

const (
	// FieldSpeedOfSound is used by the interference field (m/s).
	FieldSpeedOfSound = 340.0
	// AudioSpeedOfSound is used for propagation delays (m/s).
	AudioSpeedOfSound = 343.0

	MinFrequency = 20.0
	MaxFrequency = 2000.0
	MinSpan      = 10.0
	MaxSpan      = 500.0
	MinScale     = 0.1
	MaxScale     = 20.0

	FrequencyStep = 1.0
	SpanStep      = 10.0

	// ZoomFactor converts a wheel delta into a scale change.
	ZoomFactor = -0.01

	// HitRadius is the drag hit box half-size in percentage units.
	HitRadius = 5.0

	DefaultFrequency = 440.0
	DefaultSpan      = 100.0
	DefaultScale     = 5.0
)

// DefaultViewport is the fixed raster size of the visualizer.
var DefaultViewport = Viewport{Width: 800, Height: 600}

type Point struct {
	X, Y float64
}

// Pixel converts a percentage point to pixel coordinates.
func (p Point) Pixel(vp Viewport) (float64, float64) {
	return p.X * float64(vp.Width) / 100, p.Y * float64(vp.Height) / 100
}

// PointFromPixel converts pixel coordinates to a percentage point.
func PointFromPixel(px, py float64, vp Viewport) Point {
	return Point{X: px / float64(vp.Width) * 100, Y: py / float64(vp.Height) * 100}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

type Source struct {
	Point
	Inverted bool
}

// Sign is -1 for an inverted source and 1 otherwise.
func (s Source) Sign() float64 {
	if s.Inverted {
		return -1
	}
	return 1
}

type Params struct {
	Frequency     float64 // Hz
	FrequencySpan float64 // Hz
	Scale         float64 // pixels per meter
}

type Viewport struct {
	Width, Height int
}

func (v Viewport) Pixels() int { return v.Width * v.Height }

type Scene struct {
	Sources  []Source
	Observer Point
	Params
}

// Default returns the initial layout: two sources stacked on the left third,
// the observer on the right.
func Default() Scene {
	return Scene{
		Sources: []Source{
			{Point: Point{X: 25, Y: 33}},
			{Point: Point{X: 25, Y: 67}},
		},
		Observer: Point{X: 75, Y: 50},
		Params: Params{
			Frequency:     DefaultFrequency,
			FrequencySpan: DefaultSpan,
			Scale:         DefaultScale,
		},
	}
}

// Clone copies the source slice so the result can be modified freely.
func (s Scene) Clone() Scene {
	c := s
	c.Sources = make([]Source, len(s.Sources))
	copy(c.Sources, s.Sources)
	return c
}

// Midpoint of the first two sources. A single source is its own midpoint.
func (s Scene) Midpoint() Point {
	switch len(s.Sources) {
	case 0:
		return Point{}
	case 1:
		return s.Sources[0].Point
	}
	return Midpoint(s.Sources[0].Point, s.Sources[1].Point)
}

// Validate checks values read from a config file. Interactive inputs are
// clamped before they reach a Scene and never fail here.
func (s Scene) Validate() error {
	if len(s.Sources) == 0 {
		return ErrSourceCount
	}
	checks := []struct {
		name          string
		value, lo, hi float64
	}{
		{"frequency", s.Frequency, MinFrequency, MaxFrequency},
		{"frequency_span", s.FrequencySpan, MinSpan, MaxSpan},
		{"scale", s.Scale, MinScale, MaxScale},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < c.lo || c.value > c.hi {
			return &BoundsError{Param: c.name, Value: c.value, Min: c.lo, Max: c.hi}
		}
	}
	return nil
}

func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Distance between two percentage points in meters.
func Distance(a, b Point, vp Viewport, scale float64) float64 {
	dx := (b.X - a.X) * float64(vp.Width) / 100 / scale
	dy := (b.Y - a.Y) * float64(vp.Height) / 100 / scale
	return math.Sqrt(dx*dx + dy*dy)
}

// PixelDistance is the distance in meters from pixel (px, py) to p.
func PixelDistance(px, py float64, p Point, vp Viewport, scale float64) float64 {
	sx, sy := p.Pixel(vp)
	dx := (px - sx) / scale
	dy := (py - sy) / scale
	return math.Sqrt(dx*dx + dy*dy)
}

// FormatMeters renders a distance label, e.g. "54.40m".
func FormatMeters(d float64) string {
	return fmt.Sprintf("%.2fm", d)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func ClampFrequency(f float64) float64 {
	return clamp(math.Round(f/FrequencyStep)*FrequencyStep, MinFrequency, MaxFrequency)
}

func ClampSpan(s float64) float64 {
	return clamp(math.Round(s/SpanStep)*SpanStep, MinSpan, MaxSpan)
}

func ClampScale(s float64) float64 {
	return clamp(s, MinScale, MaxScale)
}

// ZoomScale applies a wheel delta to scale and pins the result to
// [MinScale, MaxScale].
func ZoomScale(scale, deltaY float64) float64 {
	return ClampScale(scale + deltaY*ZoomFactor)
}
