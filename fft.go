package arcodec

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// FFT is our FFT interface.
type FFT interface {
	Forward(in []float64) []complex128
	Inverse(in []complex128) []float64
}

// defaultFFT implements FFT using go-dsp/fft.
type defaultFFT struct{}

// NewFFT returns the go-dsp backed transform.
func NewFFT() FFT {
	return defaultFFT{}
}

// Forward returns the FFT of a real-valued input.
func (defaultFFT) Forward(in []float64) []complex128 {
	return fft.FFTReal(in)
}

// Inverse returns the real part of the scaled inverse FFT.
func (defaultFFT) Inverse(in []complex128) []float64 {
	complexOut := fft.IFFT(in)
	realOut := make([]float64, len(complexOut))
	for i, v := range complexOut {
		realOut[i] = real(v)
	}
	return realOut
}

// Autocorrelator computes biased linear autocorrelation through a
// zero-padded transform. It holds no per-call state and may be shared.
type Autocorrelator struct {
	fft FFT
}

// NewAutocorrelator wraps t. A nil t selects go-dsp.
func NewAutocorrelator(t FFT) *Autocorrelator {
	if t == nil {
		t = NewFFT()
	}
	return &Autocorrelator{fft: t}
}

// Lags returns r[0..maxLag] of x, each divided by len(x). Lags beyond
// len(x)-1 are zero.
func (a *Autocorrelator) Lags(x []float64, maxLag int) []float64 {
	out := make([]float64, maxLag+1)
	n := len(x)
	if n == 0 {
		return out
	}

	// pad to at least 2n so the circular correlation does not wrap
	padded := dsputils.ZeroPadF(x, dsputils.NextPowerOf2(2*n))
	spec := a.fft.Forward(padded)
	for i, v := range spec {
		m := cmplx.Abs(v)
		spec[i] = complex(m*m, 0)
	}
	r := a.fft.Inverse(spec)

	scale := 1.0 / float64(n)
	for k := 0; k <= maxLag && k < n; k++ {
		out[k] = r[k] * scale
	}
	return out
}

// Normalized returns r[0..maxLag] divided by r[0]. A silent frame yields
// all zeros.
func (a *Autocorrelator) Normalized(x []float64, maxLag int) []float64 {
	r := a.Lags(x, maxLag)
	if r[0] <= 0 {
		for i := range r {
			r[i] = 0
		}
		return r
	}
	floats.Scale(1/r[0], r)
	return r
}
