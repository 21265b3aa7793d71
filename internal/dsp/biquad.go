// Package dsp configures the playback graph's processing blocks: the
// band-pass coefficients and a fractional delay line in seconds. The
// filtering and delay kernels come from algo-dsp.
package dsp

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

const (
	// minQ keeps alpha finite when a caller passes Q <= 0.
	minQ = 1e-4

	// MaxCenterRatio is the highest band-pass center as a fraction of Nyquist.
	MaxCenterRatio = 0.99
)

// BandPass designs a constant 0 dB peak band-pass centered at center Hz with
// quality q. Centers above MaxCenterRatio of Nyquist are clamped to it. A
// non-positive center passes nothing.
func BandPass(center, q float64, sampleRate float64) biquad.Coefficients {
	if center <= 0 || sampleRate <= 0 {
		return biquad.Coefficients{}
	}
	center = math.Min(center, sampleRate/2*MaxCenterRatio)
	q = math.Max(q, minQ)

	w0 := 2 * math.Pi * center / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	return biquad.Coefficients{
		B0: alpha / a0,
		B1: 0,
		B2: -alpha / a0,
		A1: -2 * math.Cos(w0) / a0,
		A2: (1 - alpha) / a0,
	}
}
