package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/scene"
)

// ErrAudioSettings is returned for a non-positive sample rate or buffer size.
var ErrAudioSettings = errors.New("config: invalid audio settings")

const (
	DefaultSampleRate = 44100
	DefaultBufferSize = 1024
	DefaultBackend    = "portaudio"
	DefaultLogLevel   = "info"
)

type Config struct {
	Frequency     float64        `yaml:"frequency"`
	FrequencySpan float64        `yaml:"frequency_span"`
	Scale         float64        `yaml:"scale"`
	Width         int            `yaml:"width"`
	Height        int            `yaml:"height"`
	Sources       []SourceConfig `yaml:"sources"`
	Observer      PointConfig    `yaml:"observer"`
	Audio         AudioConfig    `yaml:"audio"`
	LogLevel      string         `yaml:"log_level"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type SourceConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Inverted bool    `yaml:"inverted"`
}

type AudioConfig struct {
	SampleRate int    `yaml:"sample_rate"`
	BufferSize int    `yaml:"buffer_size"`
	Backend    string `yaml:"backend"`
}

func DefaultConfig() *Config {
	return FromScene(scene.Default())
}

// FromScene builds a config holding s with default viewport, audio and
// logging settings.
func FromScene(s scene.Scene) *Config {
	cfg := &Config{
		Frequency:     s.Frequency,
		FrequencySpan: s.FrequencySpan,
		Scale:         s.Scale,
		Width:         scene.DefaultViewport.Width,
		Height:        scene.DefaultViewport.Height,
		Observer:      PointConfig{X: s.Observer.X, Y: s.Observer.Y},
		Audio: AudioConfig{
			SampleRate: DefaultSampleRate,
			BufferSize: DefaultBufferSize,
			Backend:    DefaultBackend,
		},
		LogLevel: DefaultLogLevel,
	}
	for _, src := range s.Sources {
		cfg.Sources = append(cfg.Sources, SourceConfig{X: src.X, Y: src.Y, Inverted: src.Inverted})
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultConfig().Sources
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the viewport size, the audio settings and scene bounds.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Width, c.Height)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrAudioSettings, c.Audio.SampleRate)
	}
	if c.Audio.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size %d", ErrAudioSettings, c.Audio.BufferSize)
	}
	if _, err := audio.Backend(c.Audio.Backend); err != nil {
		return err
	}
	return c.Scene().Validate()
}

func (c *Config) Scene() scene.Scene {
	s := scene.Scene{
		Observer: scene.Point{X: c.Observer.X, Y: c.Observer.Y},
		Params: scene.Params{
			Frequency:     c.Frequency,
			FrequencySpan: c.FrequencySpan,
			Scale:         c.Scale,
		},
	}
	for _, src := range c.Sources {
		s.Sources = append(s.Sources, scene.Source{Point: scene.Point{X: src.X, Y: src.Y}, Inverted: src.Inverted})
	}
	return s
}

func (c *Config) Viewport() scene.Viewport {
	return scene.Viewport{Width: c.Width, Height: c.Height}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Sources = append([]SourceConfig(nil), c.Sources...)
	return &out
}
