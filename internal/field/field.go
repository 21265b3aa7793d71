package field

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"

	"github.com/san-kum/interfere/internal/scene"
	"golang.org/x/sync/errgroup"
)

// minBandRows keeps bands large enough that goroutine startup stays cheap
// relative to the per-pixel work.
const minBandRows = 16

// Wavelength in meters for the field's speed of sound.
func Wavelength(freq float64) float64 {
	return scene.FieldSpeedOfSound / freq
}

// Amplitude of a single uninverted source at distance d meters:
// sin(d/λ·2π) / max(1, d).
func Amplitude(d, freq float64) float64 {
	phase := d / Wavelength(freq) * 2 * math.Pi
	return math.Sin(phase) / math.Max(1, d)
}

// Contribution of one source at pixel (px, py), negated for inverted sources.
func Contribution(src scene.Source, px, py float64, p scene.Params, vp scene.Viewport) float64 {
	d := scene.PixelDistance(px, py, src.Point, vp, p.Scale)
	return src.Sign() * Amplitude(d, p.Frequency)
}

// Total sums every source's contribution at pixel (px, py).
func Total(s scene.Scene, vp scene.Viewport, px, py float64) float64 {
	total := 0.0
	for _, src := range s.Sources {
		total += Contribution(src, px, py, s.Params, vp)
	}
	return total
}

// Intensity maps a summed amplitude to [0, 1] for in-range fields; values
// outside are clipped by Green.
func Intensity(total float64) float64 {
	return (total + 1) / 2
}

// Green converts an intensity to an 8-bit channel value the way a clamped
// byte array would: round half to even, then clip to 0..255.
func Green(intensity float64) uint8 {
	v := math.RoundToEven(intensity * 255)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Color is the pixel color for a summed amplitude.
func Color(total float64) color.RGBA {
	return color.RGBA{R: 0, G: Green(Intensity(total)), B: 0, A: 255}
}

// Render computes the interference field for the whole viewport into a new
// image. Every call is a full recompute.
func Render(s scene.Scene, vp scene.Viewport) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	// A background context never cancels, so the error is always nil.
	_ = RenderInto(context.Background(), img, s, vp)
	return img
}

// RenderInto writes the field into dst, which must cover the viewport. Rows
// are split into bands rendered concurrently; the output is identical to a
// serial pass. A canceled ctx stops unstarted bands and returns ctx.Err().
func RenderInto(ctx context.Context, dst *image.RGBA, s scene.Scene, vp scene.Viewport) error {
	if dst.Bounds().Dx() < vp.Width || dst.Bounds().Dy() < vp.Height {
		return ErrBufferTooSmall
	}
	workers := runtime.GOMAXPROCS(0)
	if vp.Height/minBandRows < workers {
		workers = vp.Height / minBandRows
	}
	if workers < 1 {
		workers = 1
	}
	rowsPer := (vp.Height + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < vp.Height; y0 += rowsPer {
		y1 := min(y0+rowsPer, vp.Height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			renderRows(dst, s, vp, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func renderRows(dst *image.RGBA, s scene.Scene, vp scene.Viewport, y0, y1 int) {
	b := dst.Bounds()
	for y := y0; y < y1; y++ {
		off := dst.PixOffset(b.Min.X, b.Min.Y+y)
		row := dst.Pix[off : off+vp.Width*4]
		for x := 0; x < vp.Width; x++ {
			c := Color(Total(s, vp, float64(x), float64(y)))
			i := x * 4
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}

// Profile samples the total amplitude at n evenly spaced points from a to b
// (inclusive).
func Profile(s scene.Scene, vp scene.Viewport, a, b scene.Point, n int) []float64 {
	if n < 2 {
		n = 2
	}
	ax, ay := a.Pixel(vp)
	bx, by := b.Pixel(vp)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = Total(s, vp, ax+(bx-ax)*t, ay+(by-ay)*t)
	}
	return out
}
