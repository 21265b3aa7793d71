package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Bin is one frequency bin of a magnitude spectrum.
type Bin struct {
	Frequency float64 // Hz
	Magnitude float64
}

// DB is the bin magnitude in decibels, floored at -120.
func (b Bin) DB() float64 {
	if b.Magnitude <= 1e-6 {
		return -120
	}
	return 20 * math.Log10(b.Magnitude)
}

// Spectrum returns the Hann-windowed magnitude spectrum of samples from DC up
// to Nyquist. The input is zero-padded to a power of two.
func Spectrum(samples []float64, sampleRate float64) []Bin {
	if len(samples) == 0 {
		return nil
	}
	data := make([]float64, len(samples))
	copy(data, samples)
	window.Apply(data, window.Hann)
	// Hann has a coherent gain of 1/2, so a full-scale sine reads 1.
	return bins(pad(data), sampleRate, 4/float64(len(samples)))
}

// Response returns the magnitude response of an impulse response. No window
// is applied.
func Response(ir []float64, sampleRate float64) []Bin {
	if len(ir) == 0 {
		return nil
	}
	return bins(pad(ir), sampleRate, 1)
}

func bins(data []float64, sampleRate, scale float64) []Bin {
	n := len(data)
	x := fft.FFTReal(data)
	out := make([]Bin, n/2+1)
	for k := range out {
		out[k] = Bin{
			Frequency: float64(k) * sampleRate / float64(n),
			Magnitude: cmplx.Abs(x[k]) * scale,
		}
	}
	return out
}

func pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == len(data) {
		return data
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}

// Peak returns the bin with the largest magnitude, ignoring DC.
func Peak(spectrum []Bin) Bin {
	var best Bin
	for i, b := range spectrum {
		if i == 0 {
			continue
		}
		if b.Magnitude > best.Magnitude {
			best = b
		}
	}
	return best
}

// Magnitudes extracts the magnitude column, e.g. for plotting.
func Magnitudes(spectrum []Bin) []float64 {
	out := make([]float64, len(spectrum))
	for i, b := range spectrum {
		out[i] = b.Magnitude
	}
	return out
}
