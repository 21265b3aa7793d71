package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/interfere/internal/audio"
	"github.com/san-kum/interfere/internal/spatial"
)

// ImpulseResponse renders n samples of a unit impulse through a fresh
// playback graph configured by cfg.
func ImpulseResponse(cfg spatial.Configuration, sampleRate, n int) ([]float64, error) {
	if n <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("analysis: invalid impulse length %d at %d Hz", n, sampleRate)
	}
	impulse := &audio.Asset{
		Name:       "impulse",
		SampleRate: sampleRate,
		Channels:   1,
		Samples:    make([]float32, n),
	}
	impulse.Samples[0] = 1

	out, err := audio.Render(impulse, cfg, 1, 0)
	if err != nil {
		return nil, err
	}
	ir := make([]float64, len(out))
	for i, v := range out {
		ir[i] = float64(v)
	}
	return ir, nil
}

// Onset is the index of the first sample whose magnitude exceeds threshold,
// or -1.
func Onset(signal []float64, threshold float64) int {
	for i, v := range signal {
		if math.Abs(v) > threshold {
			return i
		}
	}
	return -1
}

// Downsample reduces values to at most width points, keeping the sample with
// the largest magnitude in each bucket so peaks survive.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		best := values[lo]
		for _, v := range values[lo+1 : hi] {
			if math.Abs(v) > math.Abs(best) {
				best = v
			}
		}
		out[i] = best
	}
	return out
}
