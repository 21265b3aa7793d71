package audio

import (
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"github.com/san-kum/interfere/internal/dsp"
	"github.com/san-kum/interfere/internal/spatial"
)

// Session is one playback of an asset through the graph
//
//	source -> band-pass -> per-source delay -> per-source gain -> mix
//
// A Session is built on play and discarded on stop; it is never restarted.
// Process runs on the output callback while Apply runs on the UI thread.
type Session struct {
	mu sync.Mutex

	asset      *Asset
	pos        int
	channels   int // graph channels: 1 for mono assets, 2 otherwise
	sampleRate float64

	filters []*biquad.Section   // per graph channel
	delays  [][]*dsp.DelayLine // [path][graph channel]
	gains   []float64

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession builds the graph for asset with one path per configured source.
func NewSession(asset *Asset, cfg spatial.Configuration) (*Session, error) {
	if asset == nil || asset.Frames() == 0 {
		return nil, ErrNoAsset
	}
	channels := min(asset.Channels, 2)
	rate := float64(asset.SampleRate)

	s := &Session{
		asset:      asset,
		channels:   channels,
		sampleRate: rate,
		filters:    make([]*biquad.Section, channels),
		delays:     make([][]*dsp.DelayLine, len(cfg.Paths)),
		gains:      make([]float64, len(cfg.Paths)),
		done:       make(chan struct{}),
	}
	for ch := range s.filters {
		s.filters[ch] = biquad.NewSection(biquad.Coefficients{})
	}
	for i := range s.delays {
		s.delays[i] = make([]*dsp.DelayLine, channels)
		for ch := range s.delays[i] {
			line, err := dsp.NewDelayLine(spatial.MaxDelay, rate)
			if err != nil {
				return nil, err
			}
			s.delays[i][ch] = line
		}
	}
	s.apply(cfg)
	return s, nil
}

// Apply pushes new filter, delay and gain values. Changes take effect on the
// next sample without ramping.
func (s *Session) Apply(cfg spatial.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(cfg)
}

func (s *Session) apply(cfg spatial.Configuration) {
	coeffs := dsp.BandPass(cfg.Filter.Center, cfg.Filter.Q, s.sampleRate)
	// Swapping coefficients keeps the filter state.
	for _, f := range s.filters {
		f.Coefficients = coeffs
	}
	for i := 0; i < len(s.delays) && i < len(cfg.Paths); i++ {
		for _, line := range s.delays[i] {
			line.SetDelay(cfg.Paths[i].Delay)
		}
		s.gains[i] = cfg.Paths[i].Gain
	}
}

// Process renders one block into out (one slice per output channel, equal
// lengths). It returns false once the asset is exhausted; the rest of that
// block is filled from silence.
func (s *Session) Process(out [][]float32) bool {
	if len(out) == 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := s.asset.Frames()
	var in, mixed [2]float64
	for i := range out[0] {
		playing := s.pos < frames
		for ch := 0; ch < s.channels; ch++ {
			x := 0.0
			if playing {
				x = float64(s.asset.Sample(s.pos, ch))
			}
			in[ch] = s.filters[ch].ProcessSample(x)
			mixed[ch] = 0
		}
		for p, lines := range s.delays {
			g := s.gains[p]
			for ch, line := range lines {
				mixed[ch] += line.Process(in[ch]) * g
			}
		}
		for oc := range out {
			out[oc][i] = float32(mixed[min(oc, s.channels-1)])
		}
		if playing {
			s.pos++
		}
	}

	if s.pos >= frames {
		s.finish()
		return false
	}
	return true
}

// Done is closed when the asset is exhausted or the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Close() {
	s.finish()
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
