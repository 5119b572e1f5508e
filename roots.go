package arcodec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Roots returns the complex roots of the real polynomial
// c[0]·x^n + c[1]·x^(n-1) + ... + c[n], found as the eigenvalues of its
// companion matrix. c[0] must be non-zero.
func Roots(c []float64) ([]complex128, error) {
	if len(c) == 0 || c[0] == 0 {
		return nil, fmt.Errorf("%w: leading coefficient of %v", ErrShape, c)
	}
	n := len(c) - 1
	if n == 0 {
		return nil, nil
	}

	companion := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		companion.Set(0, j, -c[j+1]/c[0])
	}
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, ErrNoConvergence
	}
	return eig.Values(nil), nil
}

// Poly expands a list of roots into the coefficients of the monic polynomial
// having them, highest power first.
func Poly(roots []complex128) []complex128 {
	c := make([]complex128, len(roots)+1)
	c[0] = 1
	for k, r := range roots {
		for j := k + 1; j > 0; j-- {
			c[j] -= r * c[j-1]
		}
	}
	return c
}
