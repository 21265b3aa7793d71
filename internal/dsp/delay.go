package dsp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/delay"
)

// DelayLine delays a stream by a fractional number of seconds.
type DelayLine struct {
	line       *delay.Line
	sampleRate float64
	delay      float64 // samples
	maxDelay   float64 // samples
}

// NewDelayLine allocates room for maxDelay seconds at sampleRate.
func NewDelayLine(maxDelay, sampleRate float64) (*DelayLine, error) {
	if maxDelay < 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("dsp: invalid delay line (max %gs at %gHz)", maxDelay, sampleRate)
	}
	samples := math.Ceil(maxDelay * sampleRate)
	// The read clamps at Len-3, and a zero delay reads one slot back.
	line, err := delay.New(int(samples) + 4)
	if err != nil {
		return nil, err
	}
	return &DelayLine{line: line, sampleRate: sampleRate, maxDelay: samples}, nil
}

// SetDelay changes the delay immediately, clamped to the line capacity.
func (d *DelayLine) SetDelay(seconds float64) {
	d.delay = math.Min(math.Max(seconds*d.sampleRate, 0), d.maxDelay)
}

// Process writes x and returns the sample delayed by the current delay.
// A zero delay passes x through unchanged.
func (d *DelayLine) Process(x float64) float64 {
	d.line.Write(x)
	return d.line.ReadFractional(d.delay + 1)
}
