package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/scene"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Frequency != 440 {
		t.Errorf("expected frequency 440, got %f", cfg.Frequency)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Sources))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestScene_RoundTrip(t *testing.T) {
	s := scene.Default()
	s.Sources[1].Inverted = true
	got := FromScene(s).Scene()

	if len(got.Sources) != 2 || !got.Sources[1].Inverted {
		t.Fatalf("sources lost: %+v", got.Sources)
	}
	if got.Observer != s.Observer || got.Params != s.Params {
		t.Errorf("got %+v, want %+v", got, s)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("cancel")
	cfg.Audio.Backend = "oto"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Audio.Backend != "oto" {
		t.Errorf("backend = %q", loaded.Audio.Backend)
	}
	if !loaded.Sources[1].Inverted {
		t.Error("inversion not persisted")
	}
}

func TestLoad_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("frequency: 880\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frequency != 880 {
		t.Errorf("frequency = %f", cfg.Frequency)
	}
	if cfg.FrequencySpan != scene.DefaultSpan || len(cfg.Sources) != 2 {
		t.Errorf("defaults not kept: span %f, %d sources", cfg.FrequencySpan, len(cfg.Sources))
	}
}

func TestLoad_OutOfBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scale: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, scene.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestValidate_AudioSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, ErrAudioSettings},
		{"negative sample rate", func(c *Config) { c.Audio.SampleRate = -44100 }, ErrAudioSettings},
		{"zero buffer", func(c *Config) { c.Audio.BufferSize = 0 }, ErrAudioSettings},
		{"negative buffer", func(c *Config) { c.Audio.BufferSize = -5 }, ErrAudioSettings},
		{"unknown backend", func(c *Config) { c.Audio.Backend = "alsa" }, audio.ErrUnknownBackend},
		{"empty backend", func(c *Config) { c.Audio.Backend = "" }, audio.ErrUnknownBackend},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Audio.Backend = "oto"
	if err := cfg.Validate(); err != nil {
		t.Errorf("oto backend rejected: %v", err)
	}
}

func TestLoad_BadAudioSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("audio:\n  sample_rate: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrAudioSettings) {
		t.Errorf("expected ErrAudioSettings, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("wide")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Frequency != 110 {
		t.Errorf("expected frequency 110, got %f", cfg.Frequency)
	}

	cfg.Sources[0].X = 99
	if Presets["wide"].Sources[0].X == 99 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresets_Valid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) || names[0] != "broadside" {
		t.Errorf("unexpected preset list %v", names)
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
