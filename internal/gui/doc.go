// Package gui is the raylib window: the field as a texture with its overlay,
// pointer dragging and wheel zoom on the canvas, and a side panel with the
// frequency and span sliders, polarity toggles, play button and a drop
// target for audio files.
package gui
