package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/interfere/internal/config"
	"github.com/san-kum/interfere/internal/logging"
)

// Persistent flags shared by every command.
var (
	configFile string
	preset     string
	logLevel   string
	frequency  float64
	span       float64
	scale      float64
	width      int
	height     int
	observer   string
	sources    []string
	invert     []int
	sampleRate int
	bufferSize int
	backend    string
)

func addSceneFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset scene")
	f.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	f.Float64Var(&frequency, "frequency", 440, "source frequency in Hz")
	f.Float64Var(&span, "span", 100, "band-pass width in Hz")
	f.Float64Var(&scale, "scale", 5, "zoom in pixels per meter")
	f.IntVar(&width, "width", 800, "viewport width in pixels")
	f.IntVar(&height, "height", 600, "viewport height in pixels")
	f.StringVar(&observer, "observer", "", "observer position as x,y percent")
	f.StringArrayVar(&sources, "source", nil, "source position as x,y percent (repeatable, replaces the layout)")
	f.IntSliceVar(&invert, "invert", nil, "1-based indices of inverted sources")
	f.IntVar(&sampleRate, "sample-rate", config.DefaultSampleRate, "audio output sample rate")
	f.IntVar(&bufferSize, "buffer-size", config.DefaultBufferSize, "audio output buffer in frames")
	f.StringVar(&backend, "backend", config.DefaultBackend, "audio output backend (portaudio, oto)")
}

// resolveConfig builds the effective configuration: defaults, then the
// preset, then the config file, then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frequency") {
		cfg.Frequency = frequency
	}
	if flags.Changed("span") {
		cfg.FrequencySpan = span
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("observer") {
		x, y, err := parsePoint(observer)
		if err != nil {
			return nil, fmt.Errorf("--observer: %w", err)
		}
		cfg.Observer = config.PointConfig{X: x, Y: y}
	}
	if flags.Changed("source") {
		cfg.Sources = nil
		for _, s := range sources {
			x, y, err := parsePoint(s)
			if err != nil {
				return nil, fmt.Errorf("--source: %w", err)
			}
			cfg.Sources = append(cfg.Sources, config.SourceConfig{X: x, Y: y})
		}
	}
	if flags.Changed("invert") {
		for _, i := range invert {
			if i < 1 || i > len(cfg.Sources) {
				return nil, fmt.Errorf("--invert: no source %d", i)
			}
			cfg.Sources[i-1].Inverted = true
		}
	}
	if flags.Changed("sample-rate") {
		cfg.Audio.SampleRate = sampleRate
	}
	if flags.Changed("buffer-size") {
		cfg.Audio.BufferSize = bufferSize
	}
	if flags.Changed("backend") {
		cfg.Audio.Backend = backend
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the configuration and installs the logger.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration resolved", "preset", preset, "config", configFile,
		"frequency", cfg.Frequency, "span", cfg.FrequencySpan, "scale", cfg.Scale,
		"sources", len(cfg.Sources))
	return cfg, logger, nil
}

func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return x, y, nil
}
