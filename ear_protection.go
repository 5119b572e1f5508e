package arcodec

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// earProtection scales a whole signal down when its peak passes full scale.
// A signal x dB over full scale loses 2x dB, so large excursions (usually a
// filter blowing up on a bad frame) are pulled in harder than small ones.
// It returns the gain applied.
func earProtection(x []float64) float64 {
	if len(x) == 0 {
		return 1
	}

	// find peak magnitude

	peak := math.Max(floats.Max(x), -floats.Min(x))

	// full scale is 1, so the peak is the overshoot

	over := peak
	if !(over > 1.0) {
		return 1
	}
	gain := 1.0 / (over * over)
	floats.Scale(gain, x)
	return gain
}
