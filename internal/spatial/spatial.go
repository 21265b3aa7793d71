// Package spatial maps scene geometry to the parameters of the playback graph:
// one shared band-pass filter and a delay/gain pair per source.
package spatial

import (
	"math"
	"time"

	"github.com/san-kum/interfere/internal/scene"
)

const (
	// LoudnessMultiplier is applied to every path gain.
	LoudnessMultiplier = 7.0

	// MinAttenuationDistance floors the 1/d attenuation (meters).
	MinAttenuationDistance = 0.1

	// MaxDelay is the capacity of each delay line. Longer propagation
	// delays are clamped to it.
	MaxDelay = 1.0
)

// Filter is the band-pass configuration shared by all sources.
type Filter struct {
	Center float64 // Hz
	Q      float64
}

// Path is the delay and signed gain from one source to the observer.
type Path struct {
	Distance float64 // meters
	Delay    float64 // seconds
	Gain     float64
}

func (p Path) DelayDuration() time.Duration {
	return time.Duration(p.Delay * float64(time.Second))
}

type Configuration struct {
	Filter Filter
	Paths  []Path
}

// FilterFor returns center = frequency and Q = frequency / span.
func FilterFor(p scene.Params) Filter {
	return Filter{Center: p.Frequency, Q: p.Frequency / p.FrequencySpan}
}

// PathFor computes the propagation parameters of src as heard at observer.
func PathFor(src scene.Source, observer scene.Point, scale float64, vp scene.Viewport) Path {
	d := scene.Distance(observer, src.Point, vp, scale)
	return Path{
		Distance: d,
		Delay:    math.Min(d/scene.AudioSpeedOfSound, MaxDelay),
		Gain:     src.Sign() / math.Max(MinAttenuationDistance, d) * LoudnessMultiplier,
	}
}

// Configure derives the full graph configuration for s.
func Configure(s scene.Scene, vp scene.Viewport) Configuration {
	cfg := Configuration{
		Filter: FilterFor(s.Params),
		Paths:  make([]Path, len(s.Sources)),
	}
	for i, src := range s.Sources {
		cfg.Paths[i] = PathFor(src, s.Observer, s.Scale, vp)
	}
	return cfg
}
