package scene

import (
	"errors"
	"math"
	"testing"
)

func TestDistance_ReferenceLayout(t *testing.T) {
	a := Point{X: 25, Y: 33}
	b := Point{X: 25, Y: 67}

	got := Distance(a, b, DefaultViewport, 5)
	// 34% of 600px is 204px vertically.
	want := 0.34 * 600 / 5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Distance = %v, want %v", got, want)
	}
	if got := FormatMeters(got); got != "40.80m" {
		t.Errorf("FormatMeters = %q", got)
	}
}

func TestDistance_HorizontalSeparation(t *testing.T) {
	// 34% of the 800px width at scale 5.
	got := Distance(Point{X: 33, Y: 25}, Point{X: 67, Y: 25}, DefaultViewport, 5)
	if math.Abs(got-54.4) > 1e-9 {
		t.Errorf("Distance = %v, want 54.4", got)
	}
}

func TestDistance_ScaleIsInverse(t *testing.T) {
	a, b := Point{X: 10, Y: 20}, Point{X: 70, Y: 55}
	for _, scale := range []float64{0.1, 0.5, 1, 5, 10} {
		d1 := Distance(a, b, DefaultViewport, scale)
		d2 := Distance(a, b, DefaultViewport, scale*2)
		if math.Abs(d1/2-d2) > 1e-9 {
			t.Errorf("scale %v: doubled scale gave %v, want %v", scale, d2, d1/2)
		}
	}
}

func TestPixelDistance_MatchesDistance(t *testing.T) {
	p := Point{X: 40, Y: 60}
	q := Point{X: 10, Y: 5}
	px, py := q.Pixel(DefaultViewport)

	if got, want := PixelDistance(px, py, p, DefaultViewport, 3), Distance(q, p, DefaultViewport, 3); math.Abs(got-want) > 1e-9 {
		t.Errorf("PixelDistance = %v, want %v", got, want)
	}
}

func TestPointFromPixel_RoundTrip(t *testing.T) {
	p := Point{X: 12.5, Y: 80}
	px, py := p.Pixel(DefaultViewport)
	if got := PointFromPixel(px, py, DefaultViewport); math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestZoomScale_Clamps(t *testing.T) {
	tests := []struct {
		name          string
		scale, deltaY float64
		want          float64
	}{
		{"zoom in", 5, -100, 6},
		{"zoom out", 5, 100, 4},
		{"pinned low", 0.5, 1000, MinScale},
		{"pinned high", 19, -5000, MaxScale},
		{"stays low", MinScale, 10, MinScale},
		{"stays high", MaxScale, -10, MaxScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ZoomScale(tt.scale, tt.deltaY); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ZoomScale(%v, %v) = %v, want %v", tt.scale, tt.deltaY, got, tt.want)
			}
		})
	}
}

func TestClampSliders(t *testing.T) {
	if got := ClampFrequency(5); got != MinFrequency {
		t.Errorf("ClampFrequency(5) = %v", got)
	}
	if got := ClampFrequency(440.4); got != 440 {
		t.Errorf("ClampFrequency(440.4) = %v", got)
	}
	if got := ClampSpan(1000); got != MaxSpan {
		t.Errorf("ClampSpan(1000) = %v", got)
	}
	if got := ClampSpan(104); got != 100 {
		t.Errorf("ClampSpan(104) = %v", got)
	}
}

func TestScene_CloneIsIndependent(t *testing.T) {
	s := Default()
	moved := s.Clone()
	moved.Sources[0] = Source{Point: Point{X: 1, Y: 2}, Inverted: true}

	if s.Sources[0].X != 25 || s.Sources[0].Inverted {
		t.Errorf("original scene modified: %+v", s.Sources[0])
	}
	if !moved.Sources[0].Inverted {
		t.Error("expected inverted copy")
	}
}

func TestScene_Midpoint(t *testing.T) {
	s := Default()
	if got := s.Midpoint(); got != (Point{X: 25, Y: 50}) {
		t.Errorf("Midpoint = %v", got)
	}
}

func TestScene_Validate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default scene invalid: %v", err)
	}

	s := Default()
	s.Frequency = 5000
	err := s.Validate()
	if !errors.Is(err, ErrParameterBounds) {
		t.Fatalf("expected ErrParameterBounds, got %v", err)
	}
	var be *BoundsError
	if !errors.As(err, &be) || be.Param != "frequency" {
		t.Errorf("expected frequency bounds error, got %v", err)
	}

	s = Default()
	s.Sources = nil
	if err := s.Validate(); !errors.Is(err, ErrSourceCount) {
		t.Errorf("expected ErrSourceCount, got %v", err)
	}
}
