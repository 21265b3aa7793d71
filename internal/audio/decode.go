package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dh1tw/gosamplerate"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Format is the container detected for an asset.
type Format string

const (
	FormatWAV     Format = "wav"
	FormatOgg     Format = "ogg"
	FormatMP3     Format = "mp3"
	FormatUnknown Format = ""
)

// ResampleQuality is the libsamplerate converter used when the asset rate
// differs from the output rate.
var ResampleQuality = gosamplerate.SRC_SINC_MEDIUM_QUALITY

// Sniff detects the container from magic bytes, falling back to the file
// extension of name.
func Sniff(name string, data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("OggS")):
		return FormatOgg
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".ogg", ".oga":
		return FormatOgg
	case ".mp3":
		return FormatMP3
	}
	return FormatUnknown
}

// Decode turns raw file bytes into an Asset at targetRate. Every failure is
// a *DecodeError.
func Decode(name string, data []byte, targetRate int) (*Asset, error) {
	a, err := decode(name, data)
	if err != nil {
		return nil, &DecodeError{Name: name, Wrapped: err}
	}
	if a.Frames() == 0 {
		return nil, &DecodeError{Name: name, Wrapped: fmt.Errorf("no audio frames")}
	}
	if targetRate > 0 && a.SampleRate != targetRate {
		if err := a.resample(targetRate); err != nil {
			return nil, &DecodeError{Name: name, Wrapped: err}
		}
	}
	return a, nil
}

func decode(name string, data []byte) (*Asset, error) {
	switch Sniff(name, data) {
	case FormatWAV:
		return decodeWAV(name, data)
	case FormatOgg:
		return decodeOgg(name, data)
	case FormatMP3:
		return decodeMP3(name, data)
	}
	return nil, ErrUnsupportedFormat
}

func decodeWAV(name string, data []byte) (*Asset, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, fmt.Errorf("wav: invalid header")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("wav: missing format chunk")
	}

	depth := int(d.BitDepth)
	if buf.SourceBitDepth > 0 {
		depth = buf.SourceBitDepth
	}
	scale, offset, err := pcmScale(depth)
	if err != nil {
		return nil, err
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v-offset) / scale)
	}
	return &Asset{
		Name:       name,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    samples,
	}, nil
}

// pcmScale returns the divisor and offset that map integer PCM of the given
// depth into [-1, 1]. 8-bit WAV is unsigned.
func pcmScale(depth int) (float64, int, error) {
	switch depth {
	case 8:
		return 128, 128, nil
	case 16:
		return 1 << 15, 0, nil
	case 24:
		return 1 << 23, 0, nil
	case 32:
		return 1 << 31, 0, nil
	}
	return 0, 0, fmt.Errorf("wav: unsupported bit depth %d", depth)
}

func decodeOgg(name string, data []byte) (*Asset, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}
	return &Asset{
		Name:       name,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		Samples:    samples,
	}, nil
}

// decodeMP3 reads the decoder's 16-bit little-endian stereo stream.
func decodeMP3(name string, data []byte) (*Asset, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / (1 << 15)
	}
	return &Asset{
		Name:       name,
		SampleRate: d.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}

func (a *Asset) resample(targetRate int) error {
	ratio := float64(targetRate) / float64(a.SampleRate)
	out, err := gosamplerate.Simple(a.Samples, ratio, a.Channels, ResampleQuality)
	if err != nil {
		return fmt.Errorf("resample %d -> %d Hz: %w", a.SampleRate, targetRate, err)
	}
	a.Samples = out
	a.SampleRate = targetRate
	return nil
}
