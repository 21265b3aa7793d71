package tui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	clearLine  = "\r\033[2K"
	meterWidth = 36
)

// LiveMeter prints a single self-overwriting progress line for headless
// playback, at most frameRate times per second.
type LiveMeter struct {
	w         io.Writer
	name      string
	frameRate int
	lastFrame time.Time
}

func NewLiveMeter(w io.Writer, name string, frameRate int) *LiveMeter {
	if frameRate <= 0 {
		frameRate = 10
	}
	return &LiveMeter{w: w, name: name, frameRate: frameRate}
}

// Update redraws the line unless the previous frame is too recent.
func (r *LiveMeter) Update(elapsed, total time.Duration) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	fmt.Fprint(r.w, clearLine+r.line(elapsed, total))
}

func (r *LiveMeter) line(elapsed, total time.Duration) string {
	progress := 1.0
	if total > 0 {
		progress = min(float64(elapsed)/float64(total), 1)
	}
	filled := int(progress * meterWidth)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", meterWidth-filled))
	timeStr := fmt.Sprintf("%.1fs/%.1fs", elapsed.Seconds(), total.Seconds())
	return fmt.Sprintf("  %s %s %s  %s", green.Render("▶"), white.Render(r.name), bar, dim.Render(timeStr))
}

func (r *LiveMeter) Start() { fmt.Fprint(r.w, hideCursor) }

// Stop draws the final frame and restores the cursor.
func (r *LiveMeter) Stop(elapsed, total time.Duration) {
	fmt.Fprint(r.w, clearLine+r.line(elapsed, total)+"\n"+showCursor)
}
