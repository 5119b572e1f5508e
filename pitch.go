package arcodec

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Observation is one frame's raw pitch estimate. Variance is the
// observation noise handed to the Kalman smoother; it grows as the frame
// looks less periodic.
type Observation struct {
	Pitch    float64 // Hz
	HNR      float64
	Variance float64
}

// PitchTracker estimates pitch and harmonics-to-noise ratio from the
// normalised autocorrelation of Gaussian-windowed frames.
type PitchTracker struct {
	rate     float64
	minPitch float64
	maxPitch float64
	loBin    int
	hiBin    int
	seqVar   float64

	framer Framer
	window []float64
	invWAC []float64 // reciprocal of the window's own normalised autocorrelation
	acorr  *Autocorrelator
}

// NewPitchTracker builds a tracker for frames of cfg.PitchSize() samples.
func NewPitchTracker(cfg *Config, acorr *Autocorrelator) *PitchTracker {
	size := cfg.PitchSize()
	t := &PitchTracker{
		rate:     float64(cfg.Rate),
		minPitch: cfg.MinPitch,
		maxPitch: cfg.MaxPitch,
		seqVar:   cfg.SequenceVariance,
		framer:   NewFramer(size, cfg.FramePeriodSamples()),
		window:   Gaussian(size, GaussianSigma),
		acorr:    acorr,
	}

	t.loBin = max(cfg.SecondsToSamples(1/cfg.MaxPitch), 1)
	t.hiBin = min(cfg.SecondsToSamples(1/cfg.MinPitch), size-2)

	wac := acorr.Normalized(t.window, size-1)
	t.invWAC = make([]float64, size)
	for i, v := range wac {
		if v != 0 {
			t.invWAC[i] = 1 / v
		}
	}
	return t
}

// Observe returns the raw pitch and HNR of a single frame.
func (t *PitchTracker) Observe(frame []float64) Observation {
	nac := t.acorr.Normalized(applyWindow(frame, t.window), len(frame)-1)
	floats.Mul(nac, t.invWAC)

	pit := peakIndex(nac, t.loBin, t.hiBin)
	peak := nac[pit]

	hnr := UnvoicedHNR
	if nac[pit-1] <= peak && nac[pit+1] <= peak {
		fnac := min(max(peak, minPeak), 1-minPeak)
		hnr = fnac / (1 - fnac)
	}

	r := t.maxPitch - t.minPitch
	return Observation{
		Pitch:    t.rate / float64(pit),
		HNR:      hnr,
		Variance: r * r / hnr,
	}
}

// Track observes every frame of x and smooths the pitch trajectory. It
// returns the smoothed pitch and the raw HNR, one value per frame.
func (t *PitchTracker) Track(x []float64) (pitch, hnr []float64) {
	frames := t.framer.Frames(x)
	obs := make([]Observation, len(frames))
	for i, f := range frames {
		obs[i] = t.Observe(f)
	}

	r := t.maxPitch - t.minPitch
	k := NewKalman(t.seqVar, t.minPitch+r/2, r*r)
	pitch, _ = k.Smooth(obs)

	hnr = make([]float64, len(obs))
	for i, o := range obs {
		hnr[i] = o.HNR
	}
	return pitch, hnr
}

// peakIndex returns the index of the largest value of x in [lo, hi]. While
// the maximum sits on an edge of the range, that edge moves inward one bin,
// so a slope running off either end of the range is not taken as a peak.
func peakIndex(x []float64, lo, hi int) int {
	m := lo + floats.MaxIdx(x[lo:hi+1])
	for (m == lo || m == hi) && lo < hi {
		if m == lo {
			lo++
		}
		if m == hi {
			hi--
		}
		m = lo + floats.MaxIdx(x[lo:hi+1])
	}
	return m
}

// PitchToLogF0 converts a pitch track in Hz to natural log.
func PitchToLogF0(pitch []float64) []float64 {
	out := make([]float64, len(pitch))
	for i, p := range pitch {
		out[i] = math.Log(p)
	}
	return out
}

// LogF0ToPitch is the inverse of PitchToLogF0.
func LogF0ToPitch(lf0 []float64) []float64 {
	out := make([]float64, len(lf0))
	for i, v := range lf0 {
		out[i] = math.Exp(v)
	}
	return out
}
