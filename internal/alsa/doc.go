// Package alsa exposes ALSA sound cards through the standard command-line
// utilities (aplay, amixer, speaker-test) instead of a native audio API.
//
// The package is organized as a small pipeline:
//
//	Enumerator → Resolver → state parser → Mixer
//
// Enumerator lists playback cards and devices by parsing `aplay -l`.
// Resolver picks the mixer control that governs playback volume on a card
// using a prioritized matcher chain (exact names, substring names, USB
// fallbacks, capability-based last resort). Mixer reads and mutates volume
// and mute state through that resolved control, re-reading hardware state
// after every mutation.
//
// All subprocess creation goes through Runner, which enforces a timeout and
// kills the whole process group on expiry. Nothing in this package caches
// hardware state: cards, devices, and controls are re-probed on every call
// because USB devices come and go between calls.
package alsa
