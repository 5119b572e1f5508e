package arcodec

import (
	"fmt"

	"github.com/mjibson/go-dsp/spectral"
)

// Framer slices a signal into overlapping frames of Size samples advancing by
// Period samples. The signal is centred first: Size/2 copies of the first
// sample go in front and the rest of Size copies of the last sample behind,
// so any two framers sharing a Period produce len(x)/Period + 1 frames.
type Framer struct {
	Size   int
	Period int
}

// NewFramer returns a Framer for frames of size samples with hop period.
func NewFramer(size, period int) Framer {
	return Framer{Size: size, Period: period}
}

// Count returns the number of frames produced for a signal of n samples.
func (f Framer) Count(n int) int {
	return n/f.Period + 1
}

// Frames returns freshly allocated frames of x.
func (f Framer) Frames(x []float64) [][]float64 {
	return spectral.Segment(f.pad(x), f.Size, f.Size-f.Period)
}

func (f Framer) pad(x []float64) []float64 {
	front := f.Size / 2
	back := f.Size - front
	out := make([]float64, front+len(x)+back)
	if len(x) == 0 {
		return out
	}
	for i := 0; i < front; i++ {
		out[i] = x[0]
	}
	copy(out[front:], x)
	last := x[len(x)-1]
	for i := front + len(x); i < len(out); i++ {
		out[i] = last
	}
	return out
}

// OverlapAdd sums frames of equal even length at a hop of half the frame
// length. The output holds (len(frames)+1)*hop samples.
func OverlapAdd(frames [][]float64) ([]float64, error) {
	if len(frames) == 0 {
		return nil, nil
	}
	size := len(frames[0])
	if size == 0 || size%2 != 0 {
		return nil, fmt.Errorf("%w: overlap-add frame size %d", ErrShape, size)
	}
	hop := size / 2

	out := make([]float64, (len(frames)+1)*hop)
	for i, frame := range frames {
		if len(frame) != size {
			return nil, fmt.Errorf("%w: frame %d has %d samples, want %d", ErrShape, i, len(frame), size)
		}
		seg := out[i*hop : i*hop+size]
		for j, v := range frame {
			seg[j] += v
		}
	}
	return out, nil
}
