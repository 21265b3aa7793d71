// Package scene holds the value types shared by the field renderer, the
// audio spatializer and the interaction layer.
//
//   - [Point]: position in percentage coordinates (0-100) of the viewport
//   - [Source]: a point source with a phase inversion flag
//   - [Params]: frequency, frequency span and zoom scale
//   - [Scene]: an immutable snapshot of sources, observer and params
//
// Every mutation helper returns a modified copy, so a Scene can be handed to
// a renderer or an audio callback without further synchronization.
//
// # Coordinates
//
// Points are stored as percentages of the viewport. They are converted to
// pixels with the viewport size and then to meters by dividing by
// [Params.Scale] (pixels per meter):
//
//	d := scene.Distance(a, b, scene.DefaultViewport, 5)
package scene
