package tui

import (
	"github.com/san-kum/interfere/internal/field"
	"github.com/san-kum/interfere/internal/scene"
)

// Rasterize fills c with the field of s: a dot is on where the intensity
// is above one half, i.e. where the summed amplitude is positive. Dots
// sample the viewport at their centers.
func Rasterize(c *Canvas, s scene.Scene, vp scene.Viewport) {
	c.Clear()
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		py := (float64(y) + 0.5) * float64(vp.Height) / float64(h)
		for x := 0; x < w; x++ {
			px := (float64(x) + 0.5) * float64(vp.Width) / float64(w)
			if field.Total(s, vp, px, py) > 0 {
				c.Set(x, y)
			}
		}
	}
}

// DrawMeasures overlays the dashed measurement segments of s (between the
// sources, and from their midpoint to the observer) on c.
func DrawMeasures(c *Canvas, s scene.Scene, vp scene.Viewport) {
	w, h := c.Dots()
	dot := func(px, py float64) (int, int) {
		return int(px * float64(w) / float64(vp.Width)), int(py * float64(h) / float64(vp.Height))
	}
	for _, m := range field.Annotate(s, vp).Measures {
		x0, y0 := dot(m.X0, m.Y0)
		x1, y1 := dot(m.X1, m.Y1)
		c.DrawLine(x0, y0, x1, y1, field.DashLength)
	}
}

// Cell returns the canvas cell covering percentage point p, and whether it
// lies on the canvas.
func Cell(c *Canvas, p scene.Point) (col, row int, ok bool) {
	col = int(p.X / 100 * float64(c.Width))
	row = int(p.Y / 100 * float64(c.Height))
	if p.X < 0 || p.Y < 0 || col >= c.Width || row >= c.Height {
		return col, row, false
	}
	return col, row, true
}

// CellPixel maps the center of a canvas cell to viewport pixels.
func CellPixel(c *Canvas, col, row int, vp scene.Viewport) (float64, float64) {
	px := (float64(col) + 0.5) * float64(vp.Width) / float64(c.Width)
	py := (float64(row) + 0.5) * float64(vp.Height) / float64(c.Height)
	return px, py
}
