package arcodec

import "math"

// PI is the upper LSP endpoint.
const PI = math.Pi

// Analysis defaults (seconds and Hz).
const (
	FramePeriodS   = 0.005 // analysis hop
	PitchWindowS   = 0.025 // pitch analysis window
	MinPitchHz     = 40.0
	MaxPitchHz     = 500.0
	DefaultRate    = 16000
	SpectrumBins   = 129  // bins of the diagnostic AR spectrum
	SequenceVar    = 1e3  // Kalman process variance
	LevinsonPrior  = 1e-10
	GaussianSigma  = 0.5  // pitch window width relative to half length
	UnvoicedHNR    = 1e-8 // HNR assigned when no autocorrelation peak is found
	minPeak        = 1e-6 // floor on the normalised autocorrelation peak
	realRootTol    = 1e-8 // |imag| below which a root is taken as ±1
	noiseZero      = -0.5 // single zero of the noise colouring filter
	logSpectrumEps = 1e-8
)

// HTK_USER is the HTK parameter kind written to the .prm and .res tables.
const HTK_USER = 9

// Mode selects where the decoder gets its excitation from. It is fixed when
// a Codec is built and determines the shape of Params.
type Mode int

const (
	// ModeMixed transmits pitch and HNR and synthesises a pulse/noise mix.
	ModeMixed Mode = iota
	// ModeOracle transmits the LPC residual of the true signal.
	ModeOracle
)

func (m Mode) String() string {
	switch m {
	case ModeMixed:
		return "mixed"
	case ModeOracle:
		return "oracle"
	default:
		return "unknown"
	}
}
