package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/san-kum/interfere/internal/spatial"
)

// Render plays asset through a fresh session without a device and returns
// interleaved output with the given channel count. tail extends the render
// past the end of the asset by that many frames of silence input, so
// delayed paths are not cut off.
func Render(asset *Asset, cfg spatial.Configuration, channels, tail int) ([]float32, error) {
	s, err := NewSession(asset, cfg)
	if err != nil {
		return nil, err
	}
	total := asset.Frames() + tail
	out := make([]float32, 0, total*channels)

	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, BufferSize)
	}
	for rendered := 0; rendered < total; {
		n := min(BufferSize, total-rendered)
		view := make([][]float32, channels)
		for ch := range view {
			view[ch] = block[ch][:n]
		}
		s.Process(view)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				out = append(out, view[ch][i])
			}
		}
		rendered += n
	}
	return out, nil
}

// TailFrames is the number of frames needed for the longest path in cfg to
// drain at sampleRate.
func TailFrames(cfg spatial.Configuration, sampleRate int) int {
	longest := 0.0
	for _, p := range cfg.Paths {
		longest = math.Max(longest, p.Delay)
	}
	return int(math.Ceil(longest*float64(sampleRate))) + 1
}

// WriteWAV encodes interleaved float samples as 16-bit PCM, clipping to [-1, 1].
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate, channels int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		f := math.Max(-1, math.Min(1, float64(v)))
		data[i] = int(math.Round(f * math.MaxInt16))
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav close: %w", err)
	}
	return nil
}

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float64 {
	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	return peak
}
