package arcodec

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Spectrum evaluates the power envelope gain/|A(f)|² of an AR model on a
// fixed grid of Bins frequencies spanning [0, π). The twiddle table is built
// once and is read-only afterwards, so one Spectrum may serve many goroutines.
type Spectrum struct {
	Order int
	Bins  int

	twiddle [][]complex128 // [bin][k] = exp(-jπ·bin·k/Bins)
}

// NewSpectrum precomputes the twiddle table for polynomials of the given
// order evaluated at bins frequencies.
func NewSpectrum(order, bins int) *Spectrum {
	s := &Spectrum{Order: order, Bins: bins, twiddle: make([][]complex128, bins)}
	for i := range s.twiddle {
		row := make([]complex128, order+1)
		for k := range row {
			row[k] = cmplx.Exp(complex(0, -PI*float64(i*k)/float64(bins)))
		}
		s.twiddle[i] = row
	}
	return s
}

// Eval returns the power spectrum of ar (length Order+1) scaled by gain.
func (s *Spectrum) Eval(ar []float64, gain float64) ([]float64, error) {
	if len(ar) != s.Order+1 {
		return nil, fmt.Errorf("%w: %d coefficients for order %d", ErrShape, len(ar), s.Order)
	}
	out := make([]float64, s.Bins)
	for i, row := range s.twiddle {
		var sum complex128
		for k, w := range row {
			sum += w * complex(ar[k], 0)
		}
		m := cmplx.Abs(sum)
		out[i] = gain / (m * m)
	}
	return out, nil
}

// LogEval is Eval followed by log(p + eps), the form printed by diagnostics.
func (s *Spectrum) LogEval(ar []float64, gain float64) ([]float64, error) {
	p, err := s.Eval(ar, gain)
	if err != nil {
		return nil, err
	}
	for i, v := range p {
		p[i] = math.Log(v + logSpectrumEps)
	}
	return p, nil
}
