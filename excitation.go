package arcodec

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Residual inverse-filters one windowed frame through its AR polynomial
// after normalising it by the gain. The result is the frame's excitation.
func Residual(frame, ar []float64, gain float64) []float64 {
	scaled := make([]float64, len(frame))
	s := 1 / math.Sqrt(gain)
	for i, v := range frame {
		scaled[i] = v * s
	}
	return NewFilter(ar, nil).Apply(scaled)
}

// Resynthesis drives the all-pole filter 1/A(z) with one frame of
// excitation scaled by the square root of the gain.
func Resynthesis(exc, ar []float64, gain float64) []float64 {
	scaled := make([]float64, len(exc))
	s := math.Sqrt(gain)
	for i, v := range exc {
		scaled[i] = v * s
	}
	return NewFilter(nil, ar).Apply(scaled)
}

// MixedExcitation builds windowed excitation frames from a pitch track and
// HNR track of equal length. A pulse train at the pitch period and coloured
// Gaussian noise are framed and mixed per frame in proportion
// HNR/(HNR+1) : 1/(HNR+1) of energy.
type MixedExcitation struct {
	rate   float64
	framer Framer
	window []float64
	seed   uint64
}

// NewMixedExcitation returns a generator whose noise is seeded from seed.
// Every call to Frames replays the same noise sequence.
func NewMixedExcitation(cfg *Config, seed uint64) *MixedExcitation {
	hop := cfg.FramePeriodSamples()
	return &MixedExcitation{
		rate:   float64(cfg.Rate),
		framer: NewFramer(2*hop, hop),
		window: HannPeriodic(2 * hop),
		seed:   seed,
	}
}

// Frames returns len(pitch) windowed excitation frames.
func (m *MixedExcitation) Frames(pitch, hnr []float64) ([][]float64, error) {
	if len(pitch) != len(hnr) {
		return nil, fmt.Errorf("%w: %d pitch values, %d HNR values", ErrShape, len(pitch), len(hnr))
	}
	nFrames := len(pitch)
	if nFrames == 0 {
		return nil, nil
	}
	hop := m.framer.Period
	nSamples := hop * (nFrames - 1)

	pulses := make([]float64, nSamples)
	for i, f := 0, 0; i < nSamples && f < nFrames; f = i / hop {
		period := max(1, int(math.Round(m.rate/pitch[f])))
		if i+period > nSamples {
			break
		}
		pulses[i] = math.Sqrt(float64(period))
		i += period
	}

	rng := rand.New(rand.NewPCG(m.seed, m.seed))
	noise := make([]float64, nSamples)
	for i := range noise {
		noise[i] = rng.NormFloat64()
	}
	noise = NewFilter([]float64{noiseZero, 1}, nil).Apply(noise)

	fp := m.framer.Frames(pulses)
	fn := m.framer.Frames(noise)
	out := make([][]float64, nFrames)
	for f := range out {
		sn := math.Sqrt(1 / (hnr[f] + 1))
		sh := math.Sqrt(hnr[f] / (hnr[f] + 1))
		frame := make([]float64, len(fn[f]))
		for j := range frame {
			frame[j] = (fn[f][j]*sn + fp[f][j]*sh) * m.window[j]
		}
		out[f] = frame
	}
	return out, nil
}
