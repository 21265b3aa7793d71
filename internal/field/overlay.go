package field

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/san-kum/interfere/internal/scene"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrBufferTooSmall is returned when a destination image does not cover the viewport.
var ErrBufferTooSmall = errors.New("field: destination smaller than viewport")

const (
	MarkerRadius = 5
	DashLength   = 5
	LabelOffset  = 10
)

var (
	SourceColor   = color.RGBA{255, 0, 0, 255}
	ObserverColor = color.RGBA{0, 0, 255, 255}
	LineColor     = color.RGBA{255, 255, 255, 255}
)

// Marker is a filled dot with a caption, in pixel coordinates.
type Marker struct {
	X, Y   float64
	Color  color.RGBA
	Label  string
	LabelX float64
	LabelY float64
}

// Measure is a dashed segment with its length label drawn at the midpoint.
type Measure struct {
	X0, Y0, X1, Y1 float64
	Meters         float64
	Label          string
	LabelX, LabelY float64
}

// Annotations is the overlay geometry drawn on top of the field.
type Annotations struct {
	Markers  []Marker
	Measures []Measure
}

// Annotate lays out markers for every source and the observer, the
// source-to-source measure and the midpoint-to-observer measure.
func Annotate(s scene.Scene, vp scene.Viewport) Annotations {
	var a Annotations
	for i, src := range s.Sources {
		a.Markers = append(a.Markers, marker(src.Point, vp, SourceColor, fmt.Sprintf("Speaker %d", i+1)))
	}
	a.Markers = append(a.Markers, marker(s.Observer, vp, ObserverColor, "Observer"))

	if len(s.Sources) >= 2 {
		a.Measures = append(a.Measures, measure(s.Sources[0].Point, s.Sources[1].Point, s, vp))
	}
	if len(s.Sources) > 0 {
		a.Measures = append(a.Measures, measure(s.Midpoint(), s.Observer, s, vp))
	}
	return a
}

func marker(p scene.Point, vp scene.Viewport, c color.RGBA, label string) Marker {
	x, y := p.Pixel(vp)
	return Marker{X: x, Y: y, Color: c, Label: label, LabelX: x + LabelOffset, LabelY: y - LabelOffset}
}

func measure(a, b scene.Point, s scene.Scene, vp scene.Viewport) Measure {
	x0, y0 := a.Pixel(vp)
	x1, y1 := b.Pixel(vp)
	d := scene.Distance(a, b, vp, s.Scale)
	lx, ly := scene.Midpoint(a, b).Pixel(vp)
	return Measure{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		Meters: d,
		Label:  scene.FormatMeters(d),
		LabelX: lx, LabelY: ly,
	}
}

// DrawOverlay paints the annotations onto img.
func DrawOverlay(img *image.RGBA, s scene.Scene, vp scene.Viewport) {
	a := Annotate(s, vp)
	for _, m := range a.Markers {
		fillCircle(img, m.X, m.Y, MarkerRadius, m.Color)
		drawLabel(img, m.LabelX, m.LabelY, m.Label)
	}
	for _, m := range a.Measures {
		dashedLine(img, m.X0, m.Y0, m.X1, m.Y1, LineColor)
		drawLabel(img, m.LabelX, m.LabelY, m.Label)
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			if image.Pt(x, y).In(b) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// dashedLine walks the segment one pixel at a time and alternates
// DashLength pixels on and off.
func dashedLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	b := img.Bounds()
	steps := int(math.Ceil(length))
	for i := 0; i <= steps; i++ {
		if (i/DashLength)%2 == 1 {
			continue
		}
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(x0 + (x1-x0)*t))
		y := int(math.Round(y0 + (y1-y0)*t))
		if image.Pt(x, y).In(b) {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawLabel(img *image.RGBA, x, y float64, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(LineColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(text)
}
