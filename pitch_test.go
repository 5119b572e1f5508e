package arcodec

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func narrowPitchConfig() *Config {
	cfg := DefaultConfig()
	// keep a single multiple of a 200 Hz period inside the search range
	cfg.MinPitch = 150
	return cfg
}

func TestPitchTrackerObserve(t *testing.T) {
	cfg := narrowPitchConfig()
	tracker := NewPitchTracker(cfg, NewAutocorrelator(nil))
	frame := voiced(cfg.PitchSize(), 200, cfg.Rate, 1)

	obs := tracker.Observe(frame)
	if obs.Pitch != 200 {
		t.Fatalf("pitch = %g, want 200", obs.Pitch)
	}
	if obs.HNR < 1 {
		t.Fatalf("HNR = %g for a strongly voiced frame", obs.HNR)
	}
	r := cfg.MaxPitch - cfg.MinPitch
	if !scalar.EqualWithinRel(obs.Variance, r*r/obs.HNR, 1e-12) {
		t.Fatalf("variance = %g, want %g", obs.Variance, r*r/obs.HNR)
	}
}

func TestPitchTrackerNoise(t *testing.T) {
	cfg := DefaultConfig()
	tracker := NewPitchTracker(cfg, NewAutocorrelator(nil))
	obs := tracker.Observe(whiteNoise(cfg.PitchSize(), 5))
	if !(obs.HNR > 0) || math.IsInf(obs.Variance, 0) {
		t.Fatalf("observation %+v", obs)
	}
	if obs.Pitch < cfg.MinPitch-1 || obs.Pitch > cfg.MaxPitch+1 {
		t.Fatalf("pitch %g outside the search range", obs.Pitch)
	}
}

func TestPitchTrackerTrack(t *testing.T) {
	cfg := narrowPitchConfig()
	tracker := NewPitchTracker(cfg, NewAutocorrelator(nil))
	x := voiced(8000, 200, cfg.Rate, 3)

	pitch, hnr := tracker.Track(x)
	want := len(x)/cfg.FramePeriodSamples() + 1
	if len(pitch) != want || len(hnr) != want {
		t.Fatalf("%d pitch and %d HNR values, want %d", len(pitch), len(hnr), want)
	}
	for i := 10; i < len(pitch)-10; i++ {
		if math.Abs(pitch[i]-200) > 1 {
			t.Errorf("frame %d: pitch %g, want 200", i, pitch[i])
		}
	}
}

func TestPeakIndex(t *testing.T) {
	tests := []struct {
		name   string
		x      []float64
		lo, hi int
		want   int
	}{
		{"interior", []float64{0, 1, 3, 2, 1, 0}, 1, 4, 2},
		{"falling from low edge", []float64{9, 8, 7, 6, 7, 5, 0}, 1, 5, 4},
		{"rising to high edge", []float64{0, 1, 5, 2, 3, 4, 9}, 1, 6, 2},
		{"monotonic collapses", []float64{0, 1, 2, 3, 4, 5}, 1, 4, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := peakIndex(tc.x, tc.lo, tc.hi); got != tc.want {
				t.Fatalf("peakIndex = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestKalmanZeroProcessVariance(t *testing.T) {
	obs := []Observation{
		{Pitch: 100, Variance: 1e6},
		{Pitch: 200, Variance: 1e-9},
		{Pitch: 150, Variance: 1e6},
		{Pitch: 300, Variance: 1e5},
	}
	mean, _ := NewKalman(0, 270, 1e12).Smooth(obs)
	for i, m := range mean {
		if !scalar.EqualWithinAbs(m, 200, 1e-6) {
			t.Errorf("frame %d: mean %g, want 200", i, m)
		}
	}
}

func TestKalmanTrustsConfidentObservations(t *testing.T) {
	obs := make([]Observation, 20)
	for i := range obs {
		obs[i] = Observation{Pitch: 120, Variance: 1e-3}
	}
	// an unvoiced frame with a wild estimate
	obs[10] = Observation{Pitch: 480, Variance: 1e12}

	mean, variance := NewKalman(SequenceVar, 270, 460*460).Smooth(obs)
	for i, m := range mean {
		if math.Abs(m-120) > 0.5 {
			t.Errorf("frame %d: mean %g, want about 120", i, m)
		}
	}
	if variance[10] <= variance[9] {
		t.Errorf("unvoiced frame variance %g not above its neighbour %g", variance[10], variance[9])
	}
}

func TestKalmanEmpty(t *testing.T) {
	mean, variance := NewKalman(1, 0, 1).Smooth(nil)
	if len(mean) != 0 || len(variance) != 0 {
		t.Fatal("expected empty output")
	}
}

func TestTrackHNRIsRaw(t *testing.T) {
	cfg := DefaultConfig()
	tracker := NewPitchTracker(cfg, NewAutocorrelator(nil))
	x := voiced(1600, 190, DefaultRate, 4)

	_, hnr := tracker.Track(x)
	frames := tracker.framer.Frames(x)
	if len(hnr) != len(frames) {
		t.Fatalf("%d HNR values for %d frames", len(hnr), len(frames))
	}
	for i, f := range frames {
		if want := tracker.Observe(f).HNR; hnr[i] != want {
			t.Fatalf("frame %d: HNR %g, want raw %g", i, hnr[i], want)
		}
	}
}
