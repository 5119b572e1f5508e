package arcodec

import (
	dspwindow "github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// HannPeriodic returns the periodic Hann window of length n. At 50% overlap
// successive copies sum to exactly one.
func HannPeriodic(n int) []float64 {
	return dspwindow.Hann(n + 1)[:n]
}

// HannSymmetric returns the symmetric Hann window of length n.
func HannSymmetric(n int) []float64 {
	return dspwindow.Hann(n)
}

// HammingPeriodic returns the periodic Hamming window of length n.
func HammingPeriodic(n int) []float64 {
	return dspwindow.Hamming(n + 1)[:n]
}

// HammingSymmetric returns the symmetric Hamming window of length n.
func HammingSymmetric(n int) []float64 {
	return dspwindow.Hamming(n)
}

// Gaussian returns a Gaussian window of length n whose width is sigma times
// half the window length.
func Gaussian(n int, sigma float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return window.Gaussian{Sigma: sigma}.Transform(w)
}

// applyWindow returns x multiplied elementwise by w.
func applyWindow(x, w []float64) []float64 {
	return floats.MulTo(make([]float64, len(x)), x, w)
}
