package gui

import (
	"fmt"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/field"
	"github.com/san-kum/interfere/internal/scene"
	"github.com/san-kum/interfere/internal/spatial"
)

const profileSamples = 200

// refreshField recomputes the field texture when the layer changed since
// the last frame and returns the scene it shows.
func (a *App) refreshField() scene.Scene {
	v := a.Layer.Version()
	s := a.Layer.Scene()
	if a.fresh && v == a.drawn {
		return s
	}
	vp := a.Layer.Viewport()
	if err := field.RenderInto(a.ctx, a.field, s, vp); err != nil {
		return s
	}
	for i := range a.pixels {
		p := a.field.Pix[i*4 : i*4+4 : i*4+4]
		a.pixels[i].R, a.pixels[i].G, a.pixels[i].B, a.pixels[i].A = p[0], p[1], p[2], p[3]
	}
	rl.UpdateTexture(a.tex, a.pixels)
	a.profile = field.Profile(s, vp, s.Midpoint(), s.Observer, profileSamples)
	a.drawn, a.fresh = v, true
	return s
}

// drawOverlay paints the markers, then the dashed measures and the labels.
func (a *App) drawOverlay(s scene.Scene) {
	ann := field.Annotate(s, a.Layer.Viewport())
	for _, m := range ann.Markers {
		rl.DrawCircle(int32(m.X), int32(m.Y), field.MarkerRadius, m.Color)
	}
	for _, m := range ann.Measures {
		dashedLine(m.X0, m.Y0, m.X1, m.Y1, field.LineColor)
	}
	for _, m := range ann.Markers {
		a.drawText(m.Label, int(m.LabelX), int(m.LabelY)-10, 12, field.LineColor)
	}
	for _, m := range ann.Measures {
		a.drawText(m.Label, int(m.LabelX), int(m.LabelY)-10, 12, field.LineColor)
	}
}

func dashedLine(x0, y0, x1, y1 float64, c rl.Color) {
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 {
		return
	}
	ux, uy := (x1-x0)/length, (y1-y0)/length
	for d := 0.0; d < length; d += 2 * field.DashLength {
		e := math.Min(d+field.DashLength, length)
		rl.DrawLineV(
			rl.NewVector2(float32(x0+ux*d), float32(y0+uy*d)),
			rl.NewVector2(float32(x0+ux*e), float32(y0+uy*e)),
			c,
		)
	}
}

func (a *App) drawPanel(s scene.Scene) {
	vp := a.Layer.Viewport()
	x := vp.Width + 20
	rl.DrawRectangle(int32(vp.Width), 0, panelWidth, int32(vp.Height), ColBg)
	rl.DrawLine(int32(vp.Width), 0, int32(vp.Width), int32(vp.Height), ColGrid)

	a.drawText("interfere", x, 20, 24, ColSelect)

	a.freqSlider.draw(a, s.Frequency, fmt.Sprintf("%.0f Hz", s.Frequency))
	a.spanSlider.draw(a, s.FrequencySpan, fmt.Sprintf("%.0f Hz", s.FrequencySpan))

	for i, r := range a.toggles {
		if i >= len(s.Sources) {
			break
		}
		col := ColText
		if s.Sources[i].Inverted {
			rl.DrawRectangleRec(r, ColAccent)
			col = ColSelect
		} else {
			rl.DrawRectangleLinesEx(r, 1, ColText)
		}
		a.drawText(fmt.Sprintf("invert speaker %d", i+1), int(r.X+r.Width)+10, int(r.Y), 14, col)
	}

	label := "PLAY"
	if a.Player.State() == audio.Playing {
		label = "STOP"
	}
	rl.DrawRectangleLinesEx(a.playButton, 1, ColAccent)
	a.drawText(label, int(a.playButton.X)+int(a.playButton.Width)/2-16, int(a.playButton.Y)+8, 16, ColSelect)

	y := int(a.playButton.Y+a.playButton.Height) + 24
	a.drawText(fmt.Sprintf("zoom %.2f px/m", s.Scale), x, y, 14, ColText)
	y += 22

	cfg := spatial.Configure(s, vp)
	a.drawText(fmt.Sprintf("Q %.2f", cfg.Filter.Q), x, y, 14, ColText)
	y += 22
	for i, p := range cfg.Paths {
		a.drawText(fmt.Sprintf("s%d %s %s", i+1, scene.FormatMeters(p.Distance),
			p.DelayDuration().Round(100*time.Microsecond)), x, y, 14, ColText)
		y += 18
		a.drawText(fmt.Sprintf("   gain %+.3f", p.Gain), x, y, 14, ColTextDim)
		y += 22
	}

	a.drawProfile(x, y+10, panelWidth-40, 60)

	status := a.status
	if status == "" {
		status = a.audioStatus()
	}
	a.drawText(status, x, vp.Height-60, 14, ColAccent)
	a.drawText("drop an audio file here", x, vp.Height-36, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), x, vp.Height-18, 12, ColTextDim)
}

func (a *App) audioStatus() string {
	asset := a.Player.Asset()
	if asset == nil {
		return "no audio loaded"
	}
	return fmt.Sprintf("%s  %s", a.Player.State(), asset.Name)
}

// drawProfile plots the summed amplitude along the line from the speakers'
// midpoint to the observer.
func (a *App) drawProfile(rectX, rectY, width, height int) {
	if len(a.profile) < 2 {
		return
	}
	minVal, maxVal := a.profile[0], a.profile[0]
	for _, v := range a.profile {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.profile))
	for i, val := range a.profile {
		px := float32(rectX) + (float32(i)/float32(len(a.profile)-1))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText("midpoint -> observer", rectX, rectY+height+6, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%.3f", a.profile[len(a.profile)-1]), rectX+width-40, rectY-14, 12, ColText)
}
