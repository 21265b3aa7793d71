package audio

import "time"

// Asset is a decoded sound held in memory, resampled to the output rate.
type Asset struct {
	Name       string
	SampleRate int
	Channels   int
	Samples    []float32 // interleaved, [-1, 1]
}

func (a *Asset) Frames() int {
	if a == nil || a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

func (a *Asset) Duration() time.Duration {
	if a == nil || a.SampleRate == 0 {
		return 0
	}
	return time.Duration(a.Frames()) * time.Second / time.Duration(a.SampleRate)
}

// Sample returns channel ch of frame i; channels past the asset's count
// reuse the last channel, so mono assets feed every output channel.
func (a *Asset) Sample(i, ch int) float32 {
	if ch >= a.Channels {
		ch = a.Channels - 1
	}
	return a.Samples[i*a.Channels+ch]
}
