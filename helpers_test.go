package arcodec

import (
	"math"
	"math/rand/v2"
)

// voiced returns n samples of a ten-harmonic tone at f0 with a little white
// noise, peaking around 0.5.
func voiced(n int, f0 float64, rate int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	x := make([]float64, n)
	for i := range x {
		t := float64(i) / float64(rate)
		for h := 1; h <= 10; h++ {
			x[i] += 0.1 / float64(h) * math.Sin(2*math.Pi*f0*float64(h)*t)
		}
		x[i] += 0.01 * rng.NormFloat64()
	}
	return x
}

func whiteNoise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}

// arFromNoise fits a minimum phase AR polynomial of the given order to a
// Hann-windowed noise frame coloured by a short resonant filter.
func arFromNoise(order int, seed uint64) []float64 {
	x := NewFilter(nil, []float64{1, -1.2, 0.8}).Apply(whiteNoise(512, seed))
	x = applyWindow(x, HannPeriodic(len(x)))
	ac := NewAutocorrelator(nil).Lags(x, order)
	ar, _, err := LevinsonDurbin(ac, order, 0)
	if err != nil {
		panic(err)
	}
	return ar
}
