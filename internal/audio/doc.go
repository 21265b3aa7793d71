// Package audio plays a decoded sound through the simulated geometry.
//
// The pieces are:
//
//   - [Decode]: WAV, Ogg Vorbis and MP3 bytes to an [Asset] at the output rate
//   - [Session]: one playback graph (band-pass, per-source delay and gain, mix)
//   - [Player]: the Idle/Loaded/Playing state machine around sessions
//   - [Output]: a device stream; "portaudio" and "oto" backends are registered
//
// Parameter changes go through [Player.Apply] and reach the running session
// immediately. There is no ramping, so large jumps can click.
package audio
