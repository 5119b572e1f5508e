package arcodec

import (
	"fmt"
	"math"
)

// Params is the per-frame parameter set exchanged between Encode, Decode and
// the file layer. Every slice is owned by the Params value.
//
// LSP and Gain are present in both modes. A mixed-mode set carries Pitch
// and HNR; an oracle set carries Residual instead. Pitch is the
// Kalman-smoothed track, while HNR is the raw per-frame harmonics-to-noise
// estimate, unsmoothed, and the .hnr file carries it as is.
type Params struct {
	Mode     Mode
	LSP      [][]float64 // frames × (order+2), 0 and π included
	Gain     []float64
	Pitch    []float64   // Hz, smoothed
	HNR      []float64   // raw, not smoothed
	Residual [][]float64 // frames × frame size
}

// Frames returns the number of frames.
func (p *Params) Frames() int {
	return len(p.Gain)
}

// Order returns the AR order implied by the LSP rows.
func (p *Params) Order() int {
	if len(p.LSP) == 0 {
		return 0
	}
	return len(p.LSP[0]) - 2
}

// Validate checks that the set is consistently shaped for the given AR order
// and frame size.
func (p *Params) Validate(order, frameSize int) error {
	n := len(p.Gain)
	if len(p.LSP) != n {
		return fmt.Errorf("%w: %d LSP rows for %d frames", ErrShape, len(p.LSP), n)
	}
	for i, row := range p.LSP {
		if len(row) != order+2 {
			return &FrameError{Frame: i, Err: fmt.Errorf("%w: LSP row of %d, want %d", ErrShape, len(row), order+2)}
		}
	}
	for i, g := range p.Gain {
		if !(g > 0) || math.IsInf(g, 0) {
			return &FrameError{Frame: i, Err: fmt.Errorf("%w: gain %g", ErrDegenerateFrame, g)}
		}
	}

	switch p.Mode {
	case ModeOracle:
		if p.Residual == nil {
			return ErrOracleParams
		}
		if len(p.Residual) != n {
			return fmt.Errorf("%w: %d residual rows for %d frames", ErrShape, len(p.Residual), n)
		}
		for i, row := range p.Residual {
			if len(row) != frameSize {
				return &FrameError{Frame: i, Err: fmt.Errorf("%w: residual row of %d, want %d", ErrShape, len(row), frameSize)}
			}
		}
	case ModeMixed:
		if len(p.Pitch) != n || len(p.HNR) != n {
			return fmt.Errorf("%w: %d pitch and %d HNR values for %d frames", ErrShape, len(p.Pitch), len(p.HNR), n)
		}
		for i := range p.Pitch {
			if !(p.Pitch[i] > 0) || math.IsInf(p.Pitch[i], 0) {
				return &FrameError{Frame: i, Err: fmt.Errorf("%w: pitch %g", ErrShape, p.Pitch[i])}
			}
			if !(p.HNR[i] >= 0) || math.IsInf(p.HNR[i], 0) {
				return &FrameError{Frame: i, Err: fmt.Errorf("%w: HNR %g", ErrShape, p.HNR[i])}
			}
		}
	default:
		return fmt.Errorf("%w: mode %v", ErrShape, p.Mode)
	}
	return nil
}
