package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/interaction"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColGrid    = rl.NewColor(30, 30, 30, 255)    // Barely visible grid
)

const (
	panelWidth = 280
	fontPath   = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

	// wheelDelta converts one wheel notch into browser-style deltaY units.
	wheelDelta = 100
)

type App struct {
	Layer  *interaction.Layer
	Player *audio.Player
	Logger *slog.Logger
	Font   rl.Font

	field   *image.RGBA
	pixels  []color.RGBA
	tex     rl.Texture2D
	drawn   uint64
	fresh   bool
	profile []float64

	freqSlider *slider
	spanSlider *slider
	toggles    []rl.Rectangle
	playButton rl.Rectangle

	ctx     context.Context
	cancel  context.CancelFunc
	loads   *loader
	loading string
	status  string
	quit    bool
}

// initWindow opens the field canvas plus the control panel at 60 FPS and
// disables the default exit key.
func initWindow(width, height int) {
	rl.InitWindow(int32(width+panelWidth), int32(height), "interfere")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when present, otherwise the raylib default.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wires the window to layer and player. The window must be open.
func NewApp(layer *interaction.Layer, player *audio.Player, logger *slog.Logger) *App {
	vp := layer.Viewport()
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Layer:  layer,
		Player: player,
		Logger: logger,
		Font:   loadFont(),
		field:  image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height)),
		pixels: make([]color.RGBA, vp.Pixels()),
		ctx:    ctx,
		cancel: cancel,
		loads:  newLoader(ctx, player.LoadFile),
	}

	img := rl.GenImageColor(vp.Width, vp.Height, rl.Black)
	a.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	a.layoutControls()
	return a
}

// Run opens the window and blocks until it is closed. A non-empty
// audioPath is loaded in the background at startup.
func Run(layer *interaction.Layer, player *audio.Player, logger *slog.Logger, audioPath string) {
	vp := layer.Viewport()
	initWindow(vp.Width, vp.Height)
	defer rl.CloseWindow()

	app := NewApp(layer, player, logger)
	defer app.Close()
	if audioPath != "" {
		app.LoadFile(audioPath)
	}
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Close stops playback and aborts pending loads.
func (a *App) Close() {
	a.cancel()
	a.loads.wait()
	if err := a.Player.Close(); err != nil {
		a.Logger.Warn("closing audio", "err", err)
	}
	rl.UnloadTexture(a.tex)
}

// LoadFile reads and decodes path off the UI thread. The result is picked
// up by Update.
func (a *App) LoadFile(path string) {
	a.loading = a.loads.start(path)
	a.status = "decoding " + a.loading
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		if len(files) > 0 {
			a.LoadFile(files[0])
		}
		rl.UnloadDroppedFiles()
	}
	a.pollLoads()

	mouse := rl.GetMousePosition()
	vp := a.Layer.Viewport()
	onCanvas := mouse.X < float32(vp.Width)

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton) && onCanvas:
		a.Layer.Press(float64(mouse.X), float64(mouse.Y))
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Layer.Release()
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.Layer.Move(float64(mouse.X), float64(mouse.Y))
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && onCanvas {
		a.Layer.Wheel(float64(-wheel) * wheelDelta)
	}

	a.updateControls(mouse)

	if rl.IsKeyPressed(rl.KeySpace) {
		a.togglePlayback()
	}
}

func (a *App) pollLoads() {
	for _, r := range a.loads.poll() {
		switch {
		case errors.Is(r.err, audio.ErrSuperseded), errors.Is(r.err, context.Canceled):
			continue
		case r.err != nil:
			a.status = "could not decode " + r.name
		default:
			a.status = "loaded " + r.name
		}
		if r.name == a.loading {
			a.loading = ""
		}
	}
}

// togglePlayback ignores the request while nothing is decoded.
func (a *App) togglePlayback() {
	if a.Player.Asset() == nil {
		a.status = "audio not loaded"
		return
	}
	if err := a.Player.Toggle(); err != nil {
		a.Logger.Error("playback", "err", err)
		a.status = fmt.Sprintf("playback failed: %v", err)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	s := a.refreshField()
	rl.DrawTexture(a.tex, 0, 0, rl.White)
	a.drawOverlay(s)
	a.drawPanel(s)

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
