package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/interfere/internal/analysis"
	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/config"
	"github.com/san-kum/interfere/internal/export"
	"github.com/san-kum/interfere/internal/field"
	"github.com/san-kum/interfere/internal/gui"
	"github.com/san-kum/interfere/internal/interaction"
	"github.com/san-kum/interfere/internal/scene"
	"github.com/san-kum/interfere/internal/spatial"
	"github.com/san-kum/interfere/internal/tui"
)

// spectrumFrames bounds the window render-audio analyzes.
const spectrumFrames = 1 << 16

// Command flags.
var (
	audioFile  string
	outFile    string
	svgFile    string
	noOverlay  bool
	playFor    time.Duration
	points     int
	irSamples  int
	frameRate  int
	benchRuns  int
	plotWidth  int
	plotHeight int
	csvFile    string
)

// main registers the commands and runs the window when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "interfere",
		Short:        "two-source acoustic interference lab",
		SilenceUsage: true,
		RunE:         runGUI,
	}
	addSceneFlags(rootCmd)
	rootCmd.Flags().StringVar(&audioFile, "audio", "", "audio file to load at startup")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the interactive window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&audioFile, "audio", "", "audio file to load at startup")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive field in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&audioFile, "audio", "", "audio file to load at startup")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render the field to a PNG (and optionally an SVG)",
		Args:  cobra.NoArgs,
		RunE:  renderField,
	}
	renderCmd.Flags().StringVarP(&outFile, "output", "o", "field.png", "PNG output path")
	renderCmd.Flags().StringVar(&svgFile, "svg", "", "also write an SVG with the overlay as vectors")
	renderCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "omit markers and measurements")

	playCmd := &cobra.Command{
		Use:   "play [file]",
		Short: "play a file through the spatializer at the observer",
		Args:  cobra.ExactArgs(1),
		RunE:  playFile,
	}
	playCmd.Flags().DurationVar(&playFor, "duration", 0, "stop after this long (0 plays to the end)")
	playCmd.Flags().IntVar(&frameRate, "fps", 10, "progress redraws per second")

	renderAudioCmd := &cobra.Command{
		Use:   "render-audio [file]",
		Short: "render a file through the spatializer to a WAV",
		Args:  cobra.ExactArgs(1),
		RunE:  renderAudio,
	}
	renderAudioCmd.Flags().StringVarP(&outFile, "output", "o", "out.wav", "WAV output path")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot the field from the speakers' midpoint to the observer",
		Args:  cobra.NoArgs,
		RunE:  profileField,
	}
	profileCmd.Flags().IntVar(&points, "points", 200, "samples along the line")
	profileCmd.Flags().StringVar(&svgFile, "svg", "", "also write the profile as SVG")
	profileCmd.Flags().StringVar(&csvFile, "csv", "", "also write the profile as CSV")
	profileCmd.Flags().IntVar(&plotWidth, "plot-width", 80, "plot width in columns")
	profileCmd.Flags().IntVar(&plotHeight, "plot-height", 15, "plot height in rows")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "impulse and magnitude response at the observer",
		Args:  cobra.NoArgs,
		RunE:  analyzeObserver,
	}
	analyzeCmd.Flags().IntVar(&irSamples, "samples", 0, "impulse response length (0 covers the longest path)")
	analyzeCmd.Flags().IntVar(&plotWidth, "plot-width", 80, "plot width in columns")
	analyzeCmd.Flags().IntVar(&plotHeight, "plot-height", 15, "plot height in rows")
	analyzeCmd.Flags().StringVar(&csvFile, "csv", "", "also write the impulse response as CSV")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "print distances, delays, gains and the filter",
		Args:  cobra.NoArgs,
		RunE:  printInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	saveCmd := &cobra.Command{
		Use:   "save-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark field rendering",
		Args:  cobra.NoArgs,
		RunE:  benchField,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 10, "renders per size")

	rootCmd.AddCommand(guiCmd, tuiCmd, renderCmd, playCmd, renderAudioCmd, profileCmd, analyzeCmd, infoCmd, presetsCmd, saveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newPlayer(cfg *config.Config, logger *slog.Logger) (*audio.Player, error) {
	factory, err := audio.Backend(cfg.Audio.Backend)
	if err != nil {
		return nil, err
	}
	return audio.NewPlayer(
		audio.WithOutput(factory),
		audio.WithLogger(logger),
		audio.WithFormat(cfg.Audio.SampleRate, cfg.Audio.BufferSize),
	), nil
}

// newSession wires a layer over the configured scene to a new player.
func newSession(cfg *config.Config, logger *slog.Logger) (*interaction.Layer, *audio.Player, error) {
	player, err := newPlayer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	layer := interaction.New(cfg.Scene(), cfg.Viewport())
	layer.SetSink(player)
	return layer, player, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	layer, player, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	gui.Run(layer, player, logger, audioFile)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	layer, player, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer player.Close()

	if audioFile != "" {
		if err := player.LoadFile(cmd.Context(), audioFile); err != nil {
			return err
		}
	}
	return tui.Run(layer, player)
}

func renderField(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	s, vp := cfg.Scene(), cfg.Viewport()

	start := time.Now()
	img := field.Render(s, vp)
	logger.Debug("field rendered", "width", vp.Width, "height", vp.Height, "elapsed", time.Since(start))

	// The SVG carries the overlay as vectors, so it embeds the bare field.
	var raster []byte
	if svgFile != "" {
		if raster, err = export.EncodePNG(img); err != nil {
			return err
		}
	}
	if !noOverlay {
		field.DrawOverlay(img, s, vp)
	}

	data, err := export.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := export.WriteFile(outFile, data); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d)\n", outFile, vp.Width, vp.Height)

	if svgFile != "" {
		if err := export.WriteFile(svgFile, []byte(export.SceneSVG(s, vp, raster))); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

func playFile(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	_, player, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := player.LoadFile(ctx, args[0]); err != nil {
		return err
	}
	total := player.Asset().Duration()
	if playFor > 0 && playFor < total {
		total = playFor
	}
	if err := player.Play(); err != nil {
		return err
	}

	meter := tui.NewLiveMeter(os.Stdout, filepath.Base(args[0]), frameRate)
	meter.Start()
	start := time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(max(frameRate, 1)))
	defer ticker.Stop()

	for player.State() == audio.Playing {
		elapsed := time.Since(start)
		if playFor > 0 && elapsed >= playFor {
			break
		}
		meter.Update(elapsed, total)
		select {
		case <-ctx.Done():
			meter.Stop(time.Since(start), total)
			return player.Stop()
		case <-ticker.C:
		}
	}
	meter.Stop(min(time.Since(start), total), total)
	return player.Stop()
}

func renderAudio(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%s: failed to open: %w", args[0], err)
	}
	rate := cfg.Audio.SampleRate
	asset, err := audio.Decode(filepath.Base(args[0]), data, rate)
	if err != nil {
		return err
	}

	graph := spatial.Configure(cfg.Scene(), cfg.Viewport())
	samples, err := audio.Render(asset, graph, audio.OutputChannels, audio.TailFrames(graph, rate))
	if err != nil {
		return err
	}
	if peak := audio.Peak(samples); peak > 1 {
		logger.Warn("output clips", "peak", peak)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, samples, rate, audio.OutputChannels); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	frames := len(samples) / audio.OutputChannels
	fmt.Printf("wrote %s (%s, peak %.3f)\n", outFile,
		time.Duration(frames)*time.Second/time.Duration(rate), audio.Peak(samples))

	// Dominant frequency of the left channel over a window from the middle.
	n := min(frames, spectrumFrames)
	left := make([]float64, n)
	start := (frames - n) / 2
	for i := range left {
		left[i] = float64(samples[(start+i)*audio.OutputChannels])
	}
	if dominant := analysis.Peak(analysis.Spectrum(left, float64(rate))); dominant.Magnitude > 0 {
		fmt.Printf("dominant frequency: %.1f Hz (%.1f dB)\n", dominant.Frequency, dominant.DB())
	}
	return nil
}

func profileField(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	s, vp := cfg.Scene(), cfg.Viewport()
	mid := s.Midpoint()
	profile := field.Profile(s, vp, mid, s.Observer, points)

	graph := asciigraph.Plot(analysis.Downsample(profile, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("amplitude from midpoint %s to observer %s (%s)",
			mid, s.Observer, scene.FormatMeters(scene.Distance(mid, s.Observer, vp, s.Scale)))),
	)
	fmt.Println(graph)
	fmt.Printf("\nat observer: %.4f (intensity %.3f)\n", profile[len(profile)-1], field.Intensity(profile[len(profile)-1]))

	if svgFile != "" {
		if err := export.WriteFile(svgFile, []byte(export.PlotToSVG(profile, 800, 200, "#00ff00"))); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	if csvFile != "" {
		// Position runs in meters from the midpoint.
		length := scene.Distance(mid, s.Observer, vp, s.Scale)
		step := 0.0
		if len(profile) > 1 {
			step = length / float64(len(profile)-1)
		}
		if err := export.WriteSeriesFile(csvFile, "meters", "amplitude", profile, 0, step); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvFile)
	}
	return nil
}

func analyzeObserver(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	rate := cfg.Audio.SampleRate
	graph := spatial.Configure(cfg.Scene(), cfg.Viewport())

	n := irSamples
	if n <= 0 {
		// Cover the longest arrival plus a filter tail.
		n = audio.TailFrames(graph, rate) + rate/10
	}
	ir, err := analysis.ImpulseResponse(graph, rate, n)
	if err != nil {
		return err
	}
	onset := analysis.Onset(ir, 1e-6)
	if onset < 0 {
		fmt.Println("impulse response is silent at the observer")
		return nil
	}

	fmt.Println(asciigraph.Plot(analysis.Downsample(ir[onset:], plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("impulse response from first arrival (%.2f ms)", float64(onset)/float64(rate)*1000)),
	))
	fmt.Println()

	resp := analysis.Response(ir, float64(rate))
	// Show up to twice the band-pass center.
	limit := len(resp)
	for i, b := range resp {
		if b.Frequency > 2*graph.Filter.Center {
			limit = i
			break
		}
	}
	fmt.Println(asciigraph.Plot(analysis.Downsample(analysis.Magnitudes(resp[:limit]), plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("magnitude response 0-%.0f Hz", 2*graph.Filter.Center)),
	))
	peak := analysis.Peak(resp)
	fmt.Printf("\npeak: %.1f Hz at %.1f dB\n", peak.Frequency, peak.DB())

	if csvFile != "" {
		if err := export.WriteSeriesFile(csvFile, "time", "amplitude", ir, 0, 1/float64(rate)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvFile)
	}
	return nil
}

func printInfo(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	s, vp := cfg.Scene(), cfg.Viewport()
	graph := spatial.Configure(s, vp)

	fmt.Printf("frequency %.0f Hz, span %.0f Hz, Q %.3f, wavelength %.3fm, zoom %.2f px/m\n\n",
		s.Frequency, s.FrequencySpan, graph.Filter.Q, field.Wavelength(s.Frequency), s.Scale)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tPOSITION\tPOLARITY\tDISTANCE\tDELAY\tGAIN")
	for i, src := range s.Sources {
		polarity := "normal"
		if src.Inverted {
			polarity = "inverted"
		}
		p := graph.Paths[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\t%+.4f\n",
			i+1, src.Point, polarity, scene.FormatMeters(p.Distance),
			p.DelayDuration().Round(time.Microsecond), p.Gain)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nobserver %s", s.Observer)
	if len(s.Sources) >= 2 {
		fmt.Printf(", speakers %s apart, %s from their midpoint",
			scene.FormatMeters(scene.Distance(s.Sources[0].Point, s.Sources[1].Point, vp, s.Scale)),
			scene.FormatMeters(scene.Distance(s.Midpoint(), s.Observer, vp, s.Scale)))
	}
	ox, oy := s.Observer.Pixel(vp)
	total := field.Total(s, vp, ox, oy)
	fmt.Printf("\nfield at observer: %.4f (green %d)\n", total, field.Color(total).G)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFREQ\tSPAN\tSCALE\tSOURCES\tOBSERVER")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		s := cfg.Scene()
		var srcs string
		for i, src := range s.Sources {
			if i > 0 {
				srcs += " "
			}
			srcs += src.Point.String()
			if src.Inverted {
				srcs += "-"
			}
		}
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.1f\t%s\t%s\n", name, s.Frequency, s.FrequencySpan, s.Scale, srcs, s.Observer)
	}
	return w.Flush()
}

func benchField(cmd *cobra.Command, args []string) error {
	if benchRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", benchRuns)
	}
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	s := cfg.Scene()
	sizes := []scene.Viewport{{Width: 200, Height: 150}, {Width: 400, Height: 300}, scene.DefaultViewport, {Width: 1600, Height: 1200}}

	fmt.Printf("benchmarking field render (%d runs per size)\n\n", benchRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPIXELS\tPER FRAME\tMPIX/SEC")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for _, vp := range sizes {
		img := field.Render(s, vp)
		start := time.Now()
		for i := 0; i < benchRuns; i++ {
			if err := field.RenderInto(ctx, img, s, vp); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
		per := time.Since(start) / time.Duration(benchRuns)
		fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.1f\n", vp.Width, vp.Height, vp.Pixels(), per,
			float64(vp.Pixels())/per.Seconds()/1e6)
	}
	return w.Flush()
}
