package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/interfere/internal/spatial"
)

// fakeOutput records the render func instead of opening a device.
type fakeOutput struct {
	mu     sync.Mutex
	render RenderFunc
	closed bool
}

func (o *fakeOutput) Start(render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.render = render
	return nil
}

func (o *fakeOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

func (o *fakeOutput) pull(frames int) {
	o.mu.Lock()
	render := o.render
	o.mu.Unlock()
	render(block(OutputChannels, frames))
}

type fakeDevice struct {
	mu      sync.Mutex
	outputs []*fakeOutput
}

func (d *fakeDevice) factory(int, int, int) (Output, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o := &fakeOutput{}
	d.outputs = append(d.outputs, o)
	return o, nil
}

func (d *fakeDevice) last() *fakeOutput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outputs[len(d.outputs)-1]
}

func newTestPlayer(t *testing.T) (*Player, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	p := NewPlayer(
		WithOutput(dev.factory),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithFormat(testRate, 64),
	)
	p.decode = func(name string, data []byte, rate int) (*Asset, error) {
		if string(data) == "bad" {
			return nil, &DecodeError{Name: name, Wrapped: ErrUnsupportedFormat}
		}
		return impulseAsset(len(data), 1), nil
	}
	return p, dev
}

func waitForState(t *testing.T, p *Player, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", p.State(), want)
}

func TestPlayer_PlayWithoutAsset(t *testing.T) {
	p, dev := newTestPlayer(t)
	if err := p.Play(); !errors.Is(err, ErrNoAsset) {
		t.Fatalf("expected ErrNoAsset, got %v", err)
	}
	if err := p.Toggle(); err != nil {
		t.Fatalf("Toggle without asset should be ignored, got %v", err)
	}
	if p.State() != Idle || len(dev.outputs) != 0 {
		t.Errorf("state %v with %d outputs", p.State(), len(dev.outputs))
	}
}

func TestPlayer_Lifecycle(t *testing.T) {
	p, dev := newTestPlayer(t)
	ctx := context.Background()

	if err := p.Load(ctx, "clip.wav", make([]byte, 1000)); err != nil {
		t.Fatal(err)
	}
	if p.State() != Loaded {
		t.Fatalf("after load: %v", p.State())
	}
	p.Apply(spatial.Configuration{Filter: spatial.Filter{Center: 440, Q: 1}, Paths: []spatial.Path{{Gain: 1}}})

	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	if p.State() != Playing {
		t.Fatalf("after play: %v", p.State())
	}
	first := dev.last()
	if err := p.Play(); err != nil || len(dev.outputs) != 1 {
		t.Fatalf("second Play should be a no-op: %v, %d outputs", err, len(dev.outputs))
	}

	if err := p.Stop(); err != nil {
		t.Fatal(err)
	}
	if p.State() != Idle || !first.closed {
		t.Fatalf("after stop: %v, closed=%v", p.State(), first.closed)
	}

	// The asset survives a stop; a new session starts from the beginning.
	if err := p.Toggle(); err != nil {
		t.Fatal(err)
	}
	if p.State() != Playing || len(dev.outputs) != 2 {
		t.Fatalf("replay: %v with %d outputs", p.State(), len(dev.outputs))
	}
	if err := p.Toggle(); err != nil {
		t.Fatal(err)
	}
	if p.State() != Idle {
		t.Fatalf("toggle off: %v", p.State())
	}
}

func TestPlayer_ExhaustionReturnsToIdle(t *testing.T) {
	p, dev := newTestPlayer(t)
	if err := p.Load(context.Background(), "short.wav", make([]byte, 100)); err != nil {
		t.Fatal(err)
	}
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	out := dev.last()
	out.pull(64)
	if p.State() != Playing {
		t.Fatalf("ended early: %v", p.State())
	}
	out.pull(64)
	waitForState(t, p, Idle)
	if !out.closed {
		t.Error("output not closed after the asset ended")
	}
	if p.Asset() == nil {
		t.Error("asset dropped after natural end")
	}
}

func TestPlayer_DecodeFailure(t *testing.T) {
	p, _ := newTestPlayer(t)
	ctx := context.Background()
	if err := p.Load(ctx, "clip.wav", make([]byte, 500)); err != nil {
		t.Fatal(err)
	}
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}

	err := p.Load(ctx, "notes.txt", []byte("bad"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if p.State() != Idle || p.Asset() != nil {
		t.Errorf("after failed load: %v, asset=%v", p.State(), p.Asset())
	}
	if err := p.Play(); !errors.Is(err, ErrNoAsset) {
		t.Errorf("play after failed load: %v", err)
	}
}

func TestPlayer_LoadWhilePlayingStops(t *testing.T) {
	p, dev := newTestPlayer(t)
	ctx := context.Background()
	_ = p.Load(ctx, "a.wav", make([]byte, 500))
	_ = p.Play()
	if err := p.Load(ctx, "b.wav", make([]byte, 700)); err != nil {
		t.Fatal(err)
	}
	if p.State() != Loaded || !dev.last().closed {
		t.Errorf("state %v, closed=%v", p.State(), dev.last().closed)
	}
	if got := p.Asset().Frames(); got != 700 {
		t.Errorf("asset frames = %d", got)
	}
}

func TestPlayer_StaleLoadIsSuperseded(t *testing.T) {
	p, _ := newTestPlayer(t)
	started := make(chan struct{})
	release := make(chan struct{})
	p.decode = func(name string, data []byte, rate int) (*Asset, error) {
		if name == "slow.wav" {
			close(started)
			<-release
		}
		return impulseAsset(len(data), 1), nil
	}

	errc := make(chan error, 1)
	go func() { errc <- p.Load(context.Background(), "slow.wav", make([]byte, 10)) }()
	<-started

	if err := p.Load(context.Background(), "fast.wav", make([]byte, 20)); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-errc; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if got := p.Asset().Frames(); got != 20 {
		t.Errorf("stale decode replaced the newer asset: %d frames", got)
	}
}

func TestPlayer_CanceledLoad(t *testing.T) {
	p, _ := newTestPlayer(t)
	release := make(chan struct{})
	defer close(release)
	p.decode = func(string, []byte, int) (*Asset, error) {
		<-release
		return nil, errors.New("unreachable")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Load(ctx, "x.wav", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if p.State() != Idle {
		t.Errorf("state = %v", p.State())
	}
}

func TestBackend(t *testing.T) {
	for _, name := range Backends() {
		if _, err := Backend(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := Backend("alsa"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestBlockReader_EncodesFloat32LE(t *testing.T) {
	r := newBlockReader(func(out [][]float32) {
		for i := range out[0] {
			out[0][i], out[1][i] = 1, -0.5
		}
	}, 2, 16)
	buf := make([]byte, 8*4)
	n, err := r.Read(buf)
	if err != nil || n != 32 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	// 1.0 = 0x3F800000, -0.5 = 0xBF000000
	if buf[3] != 0x3F || buf[2] != 0x80 || buf[7] != 0xBF || buf[6] != 0x00 {
		t.Errorf("unexpected bytes % x", buf[:8])
	}
}
