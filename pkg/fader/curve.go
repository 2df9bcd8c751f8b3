// Package fader maps between a normalized fader position and decibels
// using the X32's piecewise-linear fader law. Both processes depend on
// it: the brain converts dB targets to wire values, and the same
// segments describe what the console does with them on the other end.
package fader

// SilenceFloorDB is the level reported for a fully closed fader. It is
// also the initial loudness reading for every channel before the first
// telemetry arrives.
const SilenceFloorDB = -90.0

// ToDB converts a normalized fader position in [0, 1] to decibels.
//
// The four segments meet at (0.0625, -60), (0.25, -30), (0.5, -10) and
// continue through (0.75, 0) to (1.0, +10). Anything below 0.0625 is
// treated as closed. The segment boundaries are inclusive on the lower
// end so that ToDB and ToFader agree exactly at every breakpoint.
func ToDB(fader float64) float64 {
	switch {
	case fader >= 0.5:
		return fader*40.0 - 30.0
	case fader >= 0.25:
		return fader*80.0 - 50.0
	case fader >= 0.0625:
		return fader*160.0 - 70.0
	default:
		return SilenceFloorDB
	}
}

// ToFader converts decibels to a normalized fader position in [0, 1].
// It is the algebraic inverse of ToDB per segment; anything below
// -60 dB maps to a closed fader.
func ToFader(db float64) float64 {
	switch {
	case db >= -10.0:
		return (db + 30.0) / 40.0
	case db >= -30.0:
		return (db + 50.0) / 80.0
	case db >= -60.0:
		return (db + 70.0) / 160.0
	default:
		return 0.0
	}
}
