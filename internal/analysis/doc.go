// Package analysis measures what the observer hears.
//
//   - [ImpulseResponse]: a unit impulse rendered through the playback graph
//   - [Spectrum]: Hann-windowed magnitude spectrum of a signal
//   - [Response]: unwindowed magnitude response of an impulse response
//   - [Downsample]: reduce a series to a plot width
//
// The impulse response at the observer is the band-pass response repeated
// once per source, shifted by each path delay and scaled by its signed gain:
//
//	ir, _ := analysis.ImpulseResponse(spatial.Configure(s, vp), 44100, 4096)
//	peak := analysis.Peak(analysis.Response(ir, 44100))
package analysis
