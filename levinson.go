package arcodec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LevinsonDurbin solves for the AR polynomial of the given order from the
// autocorrelation ac (at least order+1 lags). prior is added to the lag-0
// term. It returns the polynomial, with a[0] == 1, and the final prediction
// error.
//
// The recursion stores the negated reflection coefficient directly in the
// polynomial; Gain, Spectrum and the filters all expect that sign.
//
// A non-positive or non-finite prediction error reports ErrDegenerateFrame.
func LevinsonDurbin(ac []float64, order int, prior float64) ([]float64, float64, error) {
	if order < 0 || len(ac) < order+1 {
		return nil, 0, fmt.Errorf("%w: %d lags for order %d", ErrShape, len(ac), order)
	}

	curr := make([]float64, order+1)
	prev := make([]float64, order+1)
	curr[0], prev[0] = 1, 1

	e := ac[0] + prior
	for i := 1; i <= order; i++ {
		if !(e > 0) || math.IsInf(e, 0) {
			return nil, 0, fmt.Errorf("%w: prediction error %g at step %d", ErrDegenerateFrame, e, i)
		}
		curr, prev = prev, curr

		k := ac[i]
		for j := 1; j < i; j++ {
			k += prev[j] * ac[i-j]
		}
		curr[i] = -k / e
		e *= 1 - curr[i]*curr[i]
		for j := 1; j < i; j++ {
			curr[j] = prev[j] + curr[i]*prev[i-j]
		}
	}

	if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 || !finite(curr) {
		return nil, 0, fmt.Errorf("%w: prediction error %g", ErrDegenerateFrame, e)
	}
	return curr, e, nil
}

// Gain returns the residual energy of the AR polynomial ar against the
// autocorrelation ac, the dot product over len(ar) terms.
func Gain(ac, ar []float64) float64 {
	return floats.Dot(ac[:len(ar)], ar)
}

// GainPrior is Gain with prior added to the lag-0 term, matching the
// regularisation LevinsonDurbin applied. ac is not modified.
func GainPrior(ac, ar []float64, prior float64) float64 {
	return Gain(ac, ar) + prior*ar[0]
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
