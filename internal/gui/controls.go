package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/interfere/internal/scene"
)

// slider is a horizontal track with a knob. The value it reports is not
// snapped; the layer applies the step and range.
type slider struct {
	label    string
	track    rl.Rectangle
	min, max float64
	active   bool
}

func newSlider(label string, x, y, width float32, min, max float64) *slider {
	return &slider{label: label, track: rl.NewRectangle(x, y, width, 6), min: min, max: max}
}

// value maps a pointer x position to the slider range.
func (s *slider) value(x float32) float64 {
	t := float64((x - s.track.X) / s.track.Width)
	t = math.Max(0, math.Min(1, t))
	return s.min + t*(s.max-s.min)
}

func (s *slider) hitbox() rl.Rectangle {
	return rl.NewRectangle(s.track.X-6, s.track.Y-8, s.track.Width+12, s.track.Height+16)
}

// update tracks a drag that starts on the slider and returns the pointer
// value while it lasts.
func (s *slider) update(mouse rl.Vector2) (float64, bool) {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && rl.CheckCollisionPointRec(mouse, s.hitbox()) {
		s.active = true
	}
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		s.active = false
	}
	if !s.active {
		return 0, false
	}
	return s.value(mouse.X), true
}

func (s *slider) draw(a *App, v float64, text string) {
	a.drawText(s.label, int(s.track.X), int(s.track.Y)-24, 14, ColText)
	a.drawText(text, int(s.track.X+s.track.Width)-70, int(s.track.Y)-24, 14, ColSelect)
	rl.DrawRectangleRec(s.track, ColGrid)
	t := (v - s.min) / (s.max - s.min)
	filled := s.track
	filled.Width = float32(t) * s.track.Width
	rl.DrawRectangleRec(filled, ColTextDim)
	knobX := s.track.X + filled.Width
	col := ColAccent
	if s.active {
		col = ColSelect
	}
	rl.DrawCircle(int32(knobX), int32(s.track.Y+s.track.Height/2), 7, col)
}

func (a *App) layoutControls() {
	x := float32(a.Layer.Viewport().Width + 20)
	w := float32(panelWidth - 40)
	a.freqSlider = newSlider("frequency", x, 90, w, scene.MinFrequency, scene.MaxFrequency)
	a.spanSlider = newSlider("frequency span", x, 150, w, scene.MinSpan, scene.MaxSpan)

	a.toggles = nil
	y := float32(180)
	for range a.Layer.Scene().Sources {
		a.toggles = append(a.toggles, rl.NewRectangle(x, y, 14, 14))
		y += 24
	}
	a.playButton = rl.NewRectangle(x, y+8, w, 34)
}

func (a *App) updateControls(mouse rl.Vector2) {
	if _, dragging := a.Layer.Dragging(); dragging {
		return
	}
	if v, ok := a.freqSlider.update(mouse); ok {
		a.Layer.SetFrequency(v)
	}
	if v, ok := a.spanSlider.update(mouse); ok {
		a.Layer.SetSpan(v)
	}
	if !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	for i, r := range a.toggles {
		if rl.CheckCollisionPointRec(mouse, r) {
			if _, err := a.Layer.ToggleInvert(i); err != nil {
				a.Logger.Warn("invert", "err", err)
			}
		}
	}
	if rl.CheckCollisionPointRec(mouse, a.playButton) {
		a.togglePlayback()
	}
}
