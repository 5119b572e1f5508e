package arcodec

// Filter is a direct form II IIR filter. The denominator is stored negated
// without its leading 1, so the recursion is y = x + state·den. Its state is
// owned by the filter and sized once at construction.
type Filter struct {
	num   []float64
	den   []float64
	state []float64
}

// NewFilter builds a filter with transfer function num(z)/den(z). den[0] is
// taken to be 1 and ignored; an empty num means a pure all-pole filter and
// an empty den a pure all-zero one.
func NewFilter(num, den []float64) *Filter {
	f := &Filter{num: append([]float64(nil), num...)}
	if len(den) > 1 {
		f.den = make([]float64, len(den)-1)
		for i, v := range den[1:] {
			f.den[i] = -v
		}
	}
	f.state = make([]float64, max(len(f.num), len(f.den)))
	return f
}

// Reset zeroes the delay line.
func (f *Filter) Reset() {
	clear(f.state)
}

// Step filters a single sample.
func (f *Filter) Step(x float64) float64 {
	y := x
	for i, d := range f.den {
		y += f.state[i] * d
	}
	if len(f.state) > 0 {
		copy(f.state[1:], f.state[:len(f.state)-1])
		f.state[0] = y
	}
	if len(f.num) == 0 {
		return y
	}
	var out float64
	for i, b := range f.num {
		out += f.state[i] * b
	}
	return out
}

// Apply filters x into a new slice, continuing from the current state.
func (f *Filter) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = f.Step(v)
	}
	return out
}
