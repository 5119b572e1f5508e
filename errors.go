package arcodec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("arcodec: invalid config")

	// ErrDegenerateFrame indicates the Levinson-Durbin recursion ran out of
	// prediction error (silent or perfectly predictable frame) and produced
	// non-finite coefficients.
	ErrDegenerateFrame = errors.New("arcodec: degenerate frame")

	// ErrRootCount indicates the LSP root search produced a number of angles
	// other than order+2.
	ErrRootCount = errors.New("arcodec: unexpected LSP root count")

	// ErrUnsupportedType indicates a sample or element type the numeric
	// kernels cannot handle.
	ErrUnsupportedType = errors.New("arcodec: unsupported sample type")

	// ErrShape indicates parameter vectors whose lengths disagree.
	ErrShape = errors.New("arcodec: parameter shape mismatch")

	// ErrNoConvergence indicates the eigenvalue solver behind Roots failed.
	ErrNoConvergence = errors.New("arcodec: root finder did not converge")

	// ErrOracleParams indicates oracle-only parameters were handed to a mixed
	// codec or the reverse.
	ErrOracleParams = errors.New("arcodec: parameters do not match codec mode")
)

// FrameError reports a numeric failure in one analysis or synthesis frame.
type FrameError struct {
	Frame int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
