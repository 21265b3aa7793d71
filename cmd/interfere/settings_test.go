package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/interfere/internal/config"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSceneFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint("25, 37.5")
	if err != nil {
		t.Fatal(err)
	}
	if x != 25 || y != 37.5 {
		t.Errorf("got (%v,%v)", x, y)
	}

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b"} {
		if _, _, err := parsePoint(bad); err == nil {
			t.Errorf("parsePoint(%q) should fail", bad)
		}
	}
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(newTestCommand(t))
	if err != nil {
		t.Fatal(err)
	}
	want := config.DefaultConfig()
	if cfg.Frequency != want.Frequency || len(cfg.Sources) != len(want.Sources) {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestResolveConfig_FlagsOverridePreset(t *testing.T) {
	cmd := newTestCommand(t,
		"--preset", "wide",
		"--frequency", "300",
		"--source", "10,10", "--source", "10,90", "--source", "50,50",
		"--invert", "3",
		"--observer", "80,20",
	)
	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frequency != 300 {
		t.Errorf("frequency = %v", cfg.Frequency)
	}
	if cfg.Scale != config.Presets["wide"].Scale {
		t.Errorf("preset scale lost: %v", cfg.Scale)
	}
	if len(cfg.Sources) != 3 || !cfg.Sources[2].Inverted || cfg.Sources[0].Inverted {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if cfg.Observer.X != 80 || cfg.Observer.Y != 20 {
		t.Errorf("observer = %+v", cfg.Observer)
	}
	// The preset itself is untouched.
	if len(config.Presets["wide"].Sources) != 2 {
		t.Error("preset mutated")
	}
}

func TestResolveConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("frequency: 880\nscale: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(newTestCommand(t, "--config", path, "--scale", "4"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frequency != 880 || cfg.Scale != 4 {
		t.Errorf("got frequency %v scale %v", cfg.Frequency, cfg.Scale)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	cases := [][]string{
		{"--preset", "nope"},
		{"--frequency", "5"},
		{"--invert", "7"},
		{"--observer", "x"},
		{"--config", filepath.Join(t.TempDir(), "missing.yaml")},
		{"--sample-rate", "0"},
		{"--sample-rate", "-8000"},
		{"--buffer-size", "0"},
		{"--backend", "alsa"},
	}
	for _, args := range cases {
		if _, err := resolveConfig(newTestCommand(t, args...)); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}
