package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/interaction"
	"github.com/san-kum/interfere/internal/scene"
	"github.com/san-kum/interfere/internal/spatial"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	blue    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const (
	canvasLeft  = 2 // columns before the canvas
	canvasTop   = 1 // rows before the canvas
	panelHeight = 9

	nudgeStep     = 1.0  // percent per arrow key
	nudgeStepFast = 5.0  // percent per shifted arrow key
	zoomDelta     = 50.0 // wheel units per zoom key, 0.5 px/m
	pollInterval  = 200 * time.Millisecond
)

// Player is the playback control the terminal view needs.
type Player interface {
	Toggle() error
	State() audio.State
	Asset() *audio.Asset
}

// fieldView caches the rasterized field between frames.
type fieldView struct {
	canvas *Canvas
	drawn  uint64
	fresh  bool
}

type model struct {
	layer   *interaction.Layer
	player  Player
	initial scene.Scene
	view    *fieldView

	status string
	width  int
	height int
}

// NewModel builds the terminal view over layer. player may be nil, in which
// case the play key only reports that no audio is loaded.
func NewModel(layer *interaction.Layer, player Player) model {
	m := model{
		layer:   layer,
		player:  player,
		initial: layer.Scene(),
		width:   80,
		height:  24,
	}
	m.resize()
	return m
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m *model) resize() {
	cols := max(m.width-2*canvasLeft, 20)
	rows := max(m.height-canvasTop-panelHeight, 8)
	m.view = &fieldView{canvas: NewCanvas(cols, rows)}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.status = ""
	s := m.layer.Scene()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.layer.SelectNext()
	case "up", "k":
		m.layer.Nudge(0, -nudgeStep)
	case "down", "j":
		m.layer.Nudge(0, nudgeStep)
	case "left", "h":
		m.layer.Nudge(-nudgeStep, 0)
	case "right", "l":
		m.layer.Nudge(nudgeStep, 0)
	case "shift+up", "K":
		m.layer.Nudge(0, -nudgeStepFast)
	case "shift+down", "J":
		m.layer.Nudge(0, nudgeStepFast)
	case "shift+left", "H":
		m.layer.Nudge(-nudgeStepFast, 0)
	case "shift+right", "L":
		m.layer.Nudge(nudgeStepFast, 0)
	case "+", "=":
		m.layer.Wheel(-zoomDelta)
	case "-", "_":
		m.layer.Wheel(zoomDelta)
	case "]":
		m.layer.SetFrequency(s.Frequency + 10)
	case "[":
		m.layer.SetFrequency(s.Frequency - 10)
	case "}":
		m.layer.SetSpan(s.FrequencySpan + scene.SpanStep)
	case "{":
		m.layer.SetSpan(s.FrequencySpan - scene.SpanStep)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if _, err := m.layer.ToggleInvert(i); err != nil {
			m.status = err.Error()
		}
	case " ", "p":
		m.togglePlayback()
	case "r":
		m.layer.Reset(m.initial)
	}
	return m, nil
}

// togglePlayback ignores the request when nothing is decoded.
func (m *model) togglePlayback() {
	if m.player == nil || m.player.Asset() == nil {
		m.status = "audio not loaded"
		return
	}
	if err := m.player.Toggle(); err != nil {
		m.status = err.Error()
	}
}

// handleMouse maps terminal cells to viewport pixels and forwards pointer
// input to the layer, so dragging works like in the window.
func (m *model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasLeft, msg.Y-canvasTop
	px, py := CellPixel(m.view.canvas, col, row, m.layer.Viewport())
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.layer.Wheel(-zoomDelta)
	case msg.Button == tea.MouseButtonWheelDown:
		m.layer.Wheel(zoomDelta)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.layer.Press(px, py)
	case msg.Action == tea.MouseActionMotion:
		m.layer.Move(px, py)
	case msg.Action == tea.MouseActionRelease:
		m.layer.Release()
	}
}

// refresh re-rasterizes the field when the layer changed since the last draw.
func (m model) refresh() scene.Scene {
	v := m.layer.Version()
	s := m.layer.Scene()
	if !m.view.fresh || v != m.view.drawn {
		Rasterize(m.view.canvas, s, m.layer.Viewport())
		DrawMeasures(m.view.canvas, s, m.layer.Viewport())
		m.view.drawn, m.view.fresh = v, true
	}
	return s
}

func (m model) View() string {
	s := m.refresh()
	vp := m.layer.Viewport()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s%s  %s\n", strings.Repeat(" ", canvasLeft), cyan.Render("interfere"), m.audioStatus()))

	marks := m.markers(s)
	for row, cells := range m.view.canvas.Grid {
		b.WriteString(strings.Repeat(" ", canvasLeft))
		b.WriteString(renderRow(cells, marks[row]))
		b.WriteString("\n")
	}

	cfg := spatial.Configure(s, vp)
	b.WriteString(fmt.Sprintf("\n  %s %s  %s %s  %s %s  %s %s\n",
		dim.Render("freq"), white.Render(fmt.Sprintf("%.0f Hz", s.Frequency)),
		dim.Render("span"), white.Render(fmt.Sprintf("%.0f Hz", s.FrequencySpan)),
		dim.Render("Q"), white.Render(fmt.Sprintf("%.2f", cfg.Filter.Q)),
		dim.Render("zoom"), white.Render(fmt.Sprintf("%.2f px/m", s.Scale))))

	selected := m.layer.Selected()
	for i, src := range s.Sources {
		path := cfg.Paths[i]
		polarity := dim.Render("normal")
		if src.Inverted {
			polarity = magenta.Render("inverted")
		}
		cursor := "  "
		if selected.Kind == interaction.SourceTarget && selected.Index == i {
			cursor = cyan.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s  %s  %s  %s  %s\n", cursor,
			red.Render(fmt.Sprintf("speaker %d", i+1)), dim.Render(src.Point.String()),
			white.Render(scene.FormatMeters(path.Distance)),
			dim.Render(path.DelayDuration().Round(time.Millisecond/10).String()),
			dim.Render(fmt.Sprintf("gain %+.3f", path.Gain)), polarity))
	}
	cursor := "  "
	if selected.Kind == interaction.ObserverTarget {
		cursor = cyan.Render("▸ ")
	}
	mid := s.Midpoint()
	line := fmt.Sprintf("  %s%s %s", cursor, blue.Render("observer"), dim.Render(s.Observer.String()))
	if len(s.Sources) >= 2 {
		line += fmt.Sprintf("  %s %s  %s %s",
			dim.Render("speakers"), white.Render(scene.FormatMeters(scene.Distance(s.Sources[0].Point, s.Sources[1].Point, vp, s.Scale))),
			dim.Render("midpoint"), white.Render(scene.FormatMeters(scene.Distance(mid, s.Observer, vp, s.Scale))))
	}
	b.WriteString(line + "\n")

	if m.status != "" {
		b.WriteString("  " + yellow.Render(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(dim.Render("  tab select  arrows move  +/- zoom  [ ] freq  { } span  1/2 invert  space play  r reset  q quit") + "\n")
	return b.String()
}

func (m model) audioStatus() string {
	if m.player == nil {
		return dimmer.Render("no audio")
	}
	switch m.player.State() {
	case audio.Playing:
		return green.Render("● playing")
	case audio.Loaded:
		return yellow.Render("○ loaded")
	}
	if m.player.Asset() == nil {
		return dimmer.Render("no audio")
	}
	return dim.Render("○ stopped")
}

// markers returns, per canvas row, the styled glyphs to draw over the field
// keyed by column. Later points win, so the observer stays visible.
func (m model) markers(s scene.Scene) []map[int]string {
	marks := make([]map[int]string, m.view.canvas.Height)
	put := func(p scene.Point, glyph string) {
		col, row, ok := Cell(m.view.canvas, p)
		if !ok {
			return
		}
		if marks[row] == nil {
			marks[row] = make(map[int]string)
		}
		marks[row][col] = glyph
	}
	for i, src := range s.Sources {
		glyph := fmt.Sprintf("%d", (i+1)%10)
		if src.Inverted {
			glyph = "-"
		}
		put(src.Point, red.Render(glyph))
	}
	put(s.Observer, blue.Render("O"))
	return marks
}

// renderRow styles runs of field cells in one call each and splices the
// marker glyphs in between.
func renderRow(cells []rune, marks map[int]string) string {
	if len(marks) == 0 {
		return green.Render(string(cells))
	}
	var b strings.Builder
	start := 0
	for col := range cells {
		glyph, ok := marks[col]
		if !ok {
			continue
		}
		if col > start {
			b.WriteString(green.Render(string(cells[start:col])))
		}
		b.WriteString(glyph)
		start = col + 1
	}
	if start < len(cells) {
		b.WriteString(green.Render(string(cells[start:])))
	}
	return b.String()
}

// Run starts the terminal view with mouse support until the user quits.
func Run(layer *interaction.Layer, player Player) error {
	p := tea.NewProgram(NewModel(layer, player), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
