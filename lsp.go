package arcodec

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
)

// ToLSP converts the AR polynomial a (length order+1, a[0] == 1) into its
// line spectral pair, order+2 ascending angles in [0, π] with the first
// exactly 0 and the last exactly π.
//
// P(z) = A(z) + z^-(p+1)·A(1/z) and Q(z) = A(z) - z^-(p+1)·A(1/z) are
// factored and one root from each conjugate pair is kept. A minimum phase
// A(z) yields exactly order+2 angles; anything else reports ErrRootCount.
func ToLSP(a []float64) ([]float64, error) {
	order := len(a) - 1
	if order < 0 {
		return nil, fmt.Errorf("%w: empty AR polynomial", ErrShape)
	}

	p := make([]float64, order+2)
	q := make([]float64, order+2)
	p[0], q[0] = 1, 1
	p[order+1], q[order+1] = 1, -1
	for i := 0; i < order; i++ {
		p[i+1] = a[i+1] + a[order-i]
		q[i+1] = a[i+1] - a[order-i]
	}

	pr, err := Roots(p)
	if err != nil {
		return nil, err
	}
	qr, err := Roots(q)
	if err != nil {
		return nil, err
	}

	lsp := make([]float64, 0, order+2)
	for _, r := range append(qr, pr...) {
		switch {
		case math.Abs(imag(r)) < realRootTol:
			if real(r) > 0 {
				lsp = append(lsp, 0)
			} else {
				lsp = append(lsp, PI)
			}
		case imag(r) > 0:
			lsp = append(lsp, cmplx.Phase(r))
		}
	}
	if len(lsp) != order+2 {
		return nil, fmt.Errorf("%w: %d angles for order %d", ErrRootCount, len(lsp), order)
	}

	sort.Float64s(lsp)
	return lsp, nil
}

// FromLSP converts an LSP vector of length order+2 back into the AR
// polynomial of length order+1. Interior angles are dealt alternately to P
// and Q, each contributing a conjugate pair; Q always holds the root at 1
// and the root at -1 goes to whichever polynomial is due next.
func FromLSP(lsp []float64) ([]float64, error) {
	order := len(lsp) - 2
	if order < 0 {
		return nil, fmt.Errorf("%w: LSP vector of length %d", ErrShape, len(lsp))
	}

	pr := make([]complex128, 0, order+1)
	qr := make([]complex128, 0, order+2)
	qr = append(qr, 1)
	toQ := false
	for _, w := range lsp[1 : order+1] {
		z := cmplx.Rect(1, w)
		if toQ {
			qr = append(qr, z, cmplx.Conj(z))
		} else {
			pr = append(pr, z, cmplx.Conj(z))
		}
		toQ = !toQ
	}
	if toQ {
		qr = append(qr, -1)
	} else {
		pr = append(pr, -1)
	}

	pc := Poly(pr)
	qc := Poly(qr)
	a := make([]float64, order+1)
	for i := range a {
		a[i] = 0.5 * real(pc[i]+qc[i])
	}
	return a, nil
}
