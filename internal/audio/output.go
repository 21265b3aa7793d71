package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate     = 44100
	BufferSize     = 1024
	OutputChannels = 2
)

// RenderFunc fills one block of non-interleaved output.
type RenderFunc func(out [][]float32)

// Output is a live audio device stream.
type Output interface {
	Start(render RenderFunc) error
	Close() error
}

// OutputFactory opens an output for the given stream format.
type OutputFactory func(sampleRate, channels, bufferSize int) (Output, error)

var backends = map[string]OutputFactory{
	"portaudio": newPortAudioOutput,
	"oto":       newOtoOutput,
}

// Backend looks up an output factory by name.
func Backend(name string) (OutputFactory, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return f, nil
}

func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// portAudioOutput drives a callback stream on the default output device.
type portAudioOutput struct {
	sampleRate, channels, bufferSize int
	stream                           *portaudio.Stream
}

func newPortAudioOutput(sampleRate, channels, bufferSize int) (Output, error) {
	return &portAudioOutput{sampleRate: sampleRate, channels: channels, bufferSize: bufferSize}, nil
}

func (o *portAudioOutput) Start(render RenderFunc) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, o.channels, float64(o.sampleRate), o.bufferSize, func(out [][]float32) {
		render(out)
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio start: %w", err)
	}
	o.stream = stream
	return nil
}

func (o *portAudioOutput) Close() error {
	if o.stream == nil {
		return nil
	}
	stopErr := o.stream.Stop()
	closeErr := o.stream.Close()
	o.stream = nil
	termErr := portaudio.Terminate()
	for _, err := range []error{stopErr, closeErr, termErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
)

func otoContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx, otoRate = ctx, sampleRate
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("oto: context already running at %d Hz", otoRate)
	}
	return otoCtx, nil
}

// otoOutput pulls blocks from the render func through an io.Reader.
type otoOutput struct {
	sampleRate, channels, bufferSize int
	player                           *oto.Player
}

func newOtoOutput(sampleRate, channels, bufferSize int) (Output, error) {
	return &otoOutput{sampleRate: sampleRate, channels: channels, bufferSize: bufferSize}, nil
}

func (o *otoOutput) Start(render RenderFunc) error {
	ctx, err := otoContext(o.sampleRate, o.channels)
	if err != nil {
		return fmt.Errorf("oto: %w", err)
	}
	o.player = ctx.NewPlayer(newBlockReader(render, o.channels, o.bufferSize))
	o.player.Play()
	return nil
}

func (o *otoOutput) Close() error {
	if o.player == nil {
		return nil
	}
	o.player.Pause()
	err := o.player.Close()
	o.player = nil
	return err
}

// blockReader adapts a RenderFunc to interleaved float32 little-endian bytes.
type blockReader struct {
	render   RenderFunc
	channels int
	block    [][]float32
}

func newBlockReader(render RenderFunc, channels, bufferSize int) *blockReader {
	block := make([][]float32, channels)
	for ch := range block {
		block[ch] = make([]float32, bufferSize)
	}
	return &blockReader{render: render, channels: channels, block: block}
}

func (r *blockReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := min(len(p)/frameBytes, len(r.block[0]))
	if frames == 0 {
		return 0, nil
	}
	view := make([][]float32, r.channels)
	for ch := range view {
		view[ch] = r.block[ch][:frames]
	}
	r.render(view)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			binary.LittleEndian.PutUint32(p[(i*r.channels+ch)*4:], math.Float32bits(view[ch][i]))
		}
	}
	return frames * frameBytes, nil
}
