// Package tui is the terminal front end: the field drawn in braille dots,
// keyboard and mouse control of the scene, and a progress line for
// headless playback.
package tui
