package tui

import (
	"strings"
	"testing"

	"github.com/san-kum/interfere/internal/field"
	"github.com/san-kum/interfere/internal/scene"
)

func TestCanvas_SetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2800|0x01|0x80 {
		t.Errorf("cell = %U", c.Grid[0][0])
	}
	if !c.isSet(1, 3) || c.isSet(1, 2) {
		t.Error("isSet disagrees with Set")
	}
	c.unset(0, 0)
	if c.Grid[0][0] != 0x2800|0x80 {
		t.Errorf("after unset = %U", c.Grid[0][0])
	}
	// Out of range is ignored.
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Grid[0][1] != brailleBlank {
		t.Error("out of range dot landed on the canvas")
	}
}

func TestCanvas_DashedLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0, 2)
	for x := 0; x < 20; x++ {
		want := (x/2)%2 == 0
		if c.isSet(x, 0) != want {
			t.Errorf("dot %d set=%v, want %v", x, c.isSet(x, 0), want)
		}
	}
}

func TestCanvas_String(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 3 {
		t.Errorf("unexpected layout %q", c.String())
	}
}

func TestRasterize_MatchesField(t *testing.T) {
	s := scene.Default()
	vp := scene.DefaultViewport
	c := NewCanvas(40, 15)
	Rasterize(c, s, vp)

	w, h := c.Dots()
	on := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := float64(x)*10 + 5
			py := float64(y)*10 + 5
			want := field.Total(s, vp, px, py) > 0
			if c.isSet(x, y) != want {
				t.Fatalf("dot (%d,%d) set=%v, want %v", x, y, c.isSet(x, y), want)
			}
			if want {
				on++
			}
		}
	}
	if on == 0 || on == w*h {
		t.Errorf("degenerate raster: %d of %d dots on", on, w*h)
	}
}

func TestCell(t *testing.T) {
	c := NewCanvas(80, 20)
	col, row, ok := Cell(c, scene.Point{X: 50, Y: 50})
	if !ok || col != 40 || row != 10 {
		t.Errorf("Cell = %d,%d,%v", col, row, ok)
	}
	if _, _, ok := Cell(c, scene.Point{X: 100, Y: 50}); ok {
		t.Error("right edge should be off canvas")
	}
	if _, _, ok := Cell(c, scene.Point{X: -1, Y: 50}); ok {
		t.Error("negative point should be off canvas")
	}
}

func TestCanvas_DashedLineClearsGaps(t *testing.T) {
	c := NewCanvas(10, 1)
	for x := 0; x < 20; x++ {
		c.Set(x, 0)
	}
	c.DrawLine(0, 0, 19, 0, 5)
	for x := 0; x < 20; x++ {
		want := (x/5)%2 == 0
		if c.isSet(x, 0) != want {
			t.Errorf("dot %d set=%v, want %v", x, c.isSet(x, 0), want)
		}
	}
}

func TestDrawMeasures_DefaultScene(t *testing.T) {
	s := scene.Default()
	vp := scene.DefaultViewport
	c := NewCanvas(40, 15) // 80x60 dots, 10 px per dot
	Rasterize(c, s, vp)
	DrawMeasures(c, s, vp)

	// Midpoint (200,300) px to observer (600,300) px runs along dot row 30
	// from x=20 to x=60.
	for x := 20; x <= 60; x++ {
		want := ((x-20)/field.DashLength)%2 == 0
		if c.isSet(x, 30) != want {
			t.Fatalf("dot (%d,30) set=%v, want %v", x, c.isSet(x, 30), want)
		}
	}
	// The speaker segment runs down column 20 from y=19 to y=40.
	for y := 19; y <= 40; y++ {
		if y == 30 {
			continue // shared with the observer segment
		}
		want := ((y-19)/field.DashLength)%2 == 0
		if c.isSet(20, y) != want {
			t.Fatalf("dot (20,%d) set=%v, want %v", y, c.isSet(20, y), want)
		}
	}
}
