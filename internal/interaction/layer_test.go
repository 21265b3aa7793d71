package interaction_test

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/interfere/internal/interaction"
	"github.com/san-kum/interfere/internal/scene"
	"github.com/san-kum/interfere/internal/spatial"
)

type recordingSink struct {
	mu      sync.Mutex
	applied []spatial.Configuration
}

func (s *recordingSink) Apply(cfg spatial.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, cfg)
}

func (s *recordingSink) last() spatial.Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[len(s.applied)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

var _ = Describe("Layer", func() {
	var (
		layer *interaction.Layer
		sink  *recordingSink
	)

	BeforeEach(func() {
		layer = interaction.New(scene.Default(), scene.DefaultViewport)
		sink = &recordingSink{}
		layer.SetSink(sink)
	})

	It("sends the initial configuration when a sink is attached", func() {
		Expect(sink.count()).To(Equal(1))
		cfg := sink.last()
		Expect(cfg.Paths).To(HaveLen(2))
		Expect(cfg.Filter.Center).To(Equal(440.0))
		Expect(cfg.Filter.Q).To(BeNumerically("~", 4.4, 1e-12))
	})

	Describe("dragging", func() {
		It("picks up a source inside the hit box", func() {
			Expect(layer.Press(205, 200)).To(BeTrue())
			t, ok := layer.Dragging()
			Expect(ok).To(BeTrue())
			Expect(t).To(Equal(interaction.Target{Kind: interaction.SourceTarget, Index: 0}))
		})

		It("misses outside the hit box", func() {
			// 5% of 800px is 40px; 41px away on x is a miss.
			Expect(layer.Press(241, 198)).To(BeFalse())
			_, ok := layer.Dragging()
			Expect(ok).To(BeFalse())
		})

		It("picks up the observer", func() {
			Expect(layer.Press(600, 300)).To(BeTrue())
			t, _ := layer.Dragging()
			Expect(t.Kind).To(Equal(interaction.ObserverTarget))
		})

		It("prefers sources over the observer when both are hit", func() {
			s := scene.Default()
			s.Observer = scene.Point{X: 26, Y: 34}
			layer.Reset(s)
			Expect(layer.Press(200, 198)).To(BeTrue())
			t, _ := layer.Dragging()
			Expect(t.Kind).To(Equal(interaction.SourceTarget))
		})

		It("moves the target without clamping and updates the audio paths", func() {
			before := sink.last().Paths[0].Distance
			layer.Press(200, 198)
			Expect(layer.Move(-80, 198)).To(BeTrue())
			Expect(layer.Scene().Sources[0].Point.X).To(BeNumerically("~", -10, 1e-9))
			Expect(sink.last().Paths[0].Distance).To(BeNumerically(">", before))
		})

		It("ignores moves after release", func() {
			layer.Press(200, 198)
			layer.Release()
			v := layer.Version()
			Expect(layer.Move(400, 300)).To(BeFalse())
			Expect(layer.Version()).To(Equal(v))
		})
	})

	Describe("zoom", func() {
		It("applies the wheel factor", func() {
			Expect(layer.Wheel(-100)).To(BeNumerically("~", 6, 1e-12))
		})

		It("clamps at both ends", func() {
			Expect(layer.Wheel(1e6)).To(Equal(scene.MinScale))
			Expect(layer.Wheel(-1e6)).To(Equal(scene.MaxScale))
		})

		It("does not bump the version when pinned", func() {
			layer.Wheel(1e6)
			v := layer.Version()
			layer.Wheel(100)
			Expect(layer.Version()).To(Equal(v))
		})
	})

	Describe("controls", func() {
		It("snaps frequency and span to their sliders", func() {
			Expect(layer.SetFrequency(5000)).To(Equal(2000.0))
			Expect(layer.SetFrequency(440.4)).To(Equal(440.0))
			Expect(layer.SetSpan(3)).To(Equal(10.0))
			Expect(layer.SetSpan(124)).To(Equal(120.0))
			Expect(sink.last().Filter.Q).To(BeNumerically("~", 440.0/120, 1e-12))
		})

		It("flips the sign of a source path", func() {
			gain := sink.last().Paths[1].Gain
			inverted, err := layer.ToggleInvert(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(inverted).To(BeTrue())
			Expect(sink.last().Paths[1].Gain).To(Equal(-gain))
		})

		It("rejects unknown sources", func() {
			_, err := layer.ToggleInvert(2)
			Expect(errors.Is(err, scene.ErrSourceIndex)).To(BeTrue())
		})
	})

	Describe("keyboard selection", func() {
		It("cycles sources then the observer", func() {
			Expect(layer.Selected().Index).To(Equal(0))
			Expect(layer.SelectNext()).To(Equal(interaction.Target{Kind: interaction.SourceTarget, Index: 1}))
			Expect(layer.SelectNext().Kind).To(Equal(interaction.ObserverTarget))
			Expect(layer.SelectNext()).To(Equal(interaction.Target{Kind: interaction.SourceTarget}))
		})

		It("nudges the selected point", func() {
			layer.SelectNext()
			layer.SelectNext()
			layer.Nudge(-5, 2)
			Expect(layer.Scene().Observer).To(Equal(scene.Point{X: 70, Y: 52}))
		})
	})

	It("returns copies of the scene", func() {
		s := layer.Scene()
		s.Sources[0].Inverted = true
		Expect(layer.Scene().Sources[0].Inverted).To(BeFalse())
	})
})
