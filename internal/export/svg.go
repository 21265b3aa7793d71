package export

import (
	"encoding/base64"
	"fmt"
	"html"
	"image/color"
	"strings"

	"github.com/san-kum/interfere/internal/field"
	"github.com/san-kum/interfere/internal/scene"
)

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SceneSVG draws the overlay of s as vector elements on top of the field
// raster, which is embedded as a PNG data URI. fieldPNG may be nil for an
// overlay-only drawing on black.
func SceneSVG(s scene.Scene, vp scene.Viewport, fieldPNG []byte) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, vp.Width, vp.Height, vp.Width, vp.Height))

	if len(fieldPNG) > 0 {
		sb.WriteString(fmt.Sprintf(`<image width="%d" height="%d" href="data:image/png;base64,%s"/>
`, vp.Width, vp.Height, base64.StdEncoding.EncodeToString(fieldPNG)))
	} else {
		sb.WriteString(`<rect width="100%" height="100%" fill="#000000"/>
`)
	}

	a := field.Annotate(s, vp)

	// Markers first, then the measures on top, the same order as the raster overlay.
	for _, m := range a.Markers {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%d" fill="%s"/>
`, m.X, m.Y, field.MarkerRadius, hexColor(m.Color)))
	}
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-dasharray="%d,%d">
`, hexColor(field.LineColor), field.DashLength, field.DashLength))
	for _, m := range a.Measures {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, m.X0, m.Y0, m.X1, m.Y1))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<g fill="%s" font-family="sans-serif" font-size="12">
`, hexColor(field.LineColor)))
	for _, m := range a.Markers {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>
`, m.LabelX, m.LabelY, html.EscapeString(m.Label)))
	}
	for _, m := range a.Measures {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%s</text>
`, m.LabelX, m.LabelY, html.EscapeString(m.Label)))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PlotToSVG draws values as a polyline scaled to fit width x height.
func PlotToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
