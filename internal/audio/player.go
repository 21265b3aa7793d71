package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/san-kum/interfere/internal/spatial"
)

type State int

const (
	Idle State = iota
	Loaded
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Player owns the decoded asset and at most one active Session.
//
// Idle -> Loaded on a successful decode, Loaded -> Playing on Play,
// Playing -> Idle on Stop or when the asset runs out. The asset survives a
// stop, so Play from Idle works again once something has been decoded.
//
// Loads are tagged with a generation number; only the newest load may
// install its result. All methods are safe for concurrent use.
type Player struct {
	mu sync.Mutex

	state   State
	asset   *Asset
	cfg     spatial.Configuration
	session *Session
	out     Output

	loadGen uint64
	playGen uint64

	newOutput  OutputFactory
	decode     func(name string, data []byte, rate int) (*Asset, error)
	sampleRate int
	channels   int
	bufferSize int
	logger     *slog.Logger
}

type PlayerOption func(*Player)

func WithOutput(f OutputFactory) PlayerOption {
	return func(p *Player) { p.newOutput = f }
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(p *Player) { p.logger = l }
}

func WithFormat(sampleRate, bufferSize int) PlayerOption {
	return func(p *Player) {
		if sampleRate > 0 {
			p.sampleRate = sampleRate
		}
		if bufferSize > 0 {
			p.bufferSize = bufferSize
		}
	}
}

func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		newOutput:  newPortAudioOutput,
		decode:     Decode,
		sampleRate: SampleRate,
		channels:   OutputChannels,
		bufferSize: BufferSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) Asset() *Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.asset
}

func (p *Player) SampleRate() int { return p.sampleRate }

// LoadFile reads path and decodes it with Load.
func (p *Player) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: failed to open: %w", path, err)
	}
	return p.Load(ctx, filepath.Base(path), data)
}

// Load decodes data and, if no newer load was started meanwhile, installs
// it as the current asset. A newer load makes this one return
// ErrSuperseded. A successful load stops any active playback.
func (p *Player) Load(ctx context.Context, name string, data []byte) error {
	p.mu.Lock()
	p.loadGen++
	gen := p.loadGen
	p.mu.Unlock()

	type result struct {
		asset *Asset
		err   error
	}
	done := make(chan result, 1)
	go func() {
		a, err := p.decode(name, data, p.sampleRate)
		done <- result{a, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r = <-done:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.loadGen {
		p.logger.Debug("discarding stale decode", "name", name, "generation", gen)
		return ErrSuperseded
	}
	if r.err != nil {
		p.logger.Error("error decoding audio data", "name", name, "err", r.err)
		p.discardLocked()
		p.asset, p.state = nil, Idle
		return r.err
	}

	p.discardLocked()
	p.asset = r.asset
	p.state = Loaded
	p.logger.Info("audio loaded", "name", name, "channels", r.asset.Channels,
		"rate", r.asset.SampleRate, "duration", r.asset.Duration())
	return nil
}

// Apply records the latest graph configuration and pushes it into the
// active session, if any.
func (p *Player) Apply(cfg spatial.Configuration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	if p.session != nil {
		p.session.Apply(cfg)
	}
}

// Play builds a new session from the current asset and configuration and
// starts the output. It returns ErrNoAsset when nothing is decoded. Play
// while playing is a no-op.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Playing {
		return nil
	}
	if p.asset == nil {
		return ErrNoAsset
	}
	session, err := NewSession(p.asset, p.cfg)
	if err != nil {
		return err
	}
	out, err := p.newOutput(p.sampleRate, p.channels, p.bufferSize)
	if err != nil {
		return err
	}
	if err := out.Start(func(buf [][]float32) { session.Process(buf) }); err != nil {
		return err
	}

	p.playGen++
	p.session, p.out, p.state = session, out, Playing
	go p.watch(p.playGen, session)
	return nil
}

// watch returns the player to Idle when the session runs out.
func (p *Player) watch(gen uint64, s *Session) {
	<-s.Done()
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.playGen || p.state != Playing {
		return
	}
	p.logger.Debug("playback finished")
	p.discardLocked()
}

// Stop discards the active session and returns to Idle.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *Player) stopLocked() error {
	if p.state != Playing {
		return nil
	}
	p.playGen++
	p.session.Close()
	err := p.out.Close()
	p.session, p.out, p.state = nil, nil, Idle
	if err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// discardLocked stops playback where the caller has nothing to report the
// error to.
func (p *Player) discardLocked() {
	if err := p.stopLocked(); err != nil {
		p.logger.Warn("stopping playback", "err", err)
	}
}

// Toggle stops when playing and plays otherwise. A missing asset is not an
// error here: the request is ignored.
func (p *Player) Toggle() error {
	if p.State() == Playing {
		return p.Stop()
	}
	if err := p.Play(); err != nil {
		if errors.Is(err, ErrNoAsset) {
			p.logger.Info("audio not loaded")
			return nil
		}
		return err
	}
	return nil
}

// Close stops playback.
func (p *Player) Close() error {
	return p.Stop()
}
