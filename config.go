package arcodec

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	yaml "go.yaml.in/yaml/v2"
)

// Config holds the tunable parameters of the codec. Durations are in
// seconds and frequencies in Hz.
type Config struct {
	Rate             int     `yaml:"rate" json:"rate"`
	FramePeriod      float64 `yaml:"frame_period" json:"frame_period"`
	PitchWindow      float64 `yaml:"pitch_window" json:"pitch_window"`
	Order            int     `yaml:"order" json:"order"` // 0 picks the rule of thumb
	MinPitch         float64 `yaml:"min_pitch" json:"min_pitch"`
	MaxPitch         float64 `yaml:"max_pitch" json:"max_pitch"`
	SequenceVariance float64 `yaml:"sequence_variance" json:"sequence_variance"`
	Prior            float64 `yaml:"prior" json:"prior"`
	SpectrumBins     int     `yaml:"spectrum_bins" json:"spectrum_bins"`
	Workers          int     `yaml:"workers" json:"workers"` // 0 means GOMAXPROCS
	Seed             uint64  `yaml:"seed" json:"seed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Rate:             DefaultRate,
		FramePeriod:      FramePeriodS,
		PitchWindow:      PitchWindowS,
		MinPitch:         MinPitchHz,
		MaxPitch:         MaxPitchHz,
		SequenceVariance: SequenceVar,
		Prior:            LevinsonPrior,
		SpectrumBins:     SpectrumBins,
		Seed:             1,
	}
}

// LoadConfig loads configuration from a YAML or JSON file on top of the
// defaults. If path is empty, it attempts to read ARCODEC_CONFIG; if still
// empty, defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("ARCODEC_CONFIG")
	}
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = DefaultConfig()
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unsupported config format: %s", path)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field is usable.
func (c *Config) Validate() error {
	switch {
	case c.Rate <= 0:
		return fmt.Errorf("%w: rate %d", ErrInvalidConfig, c.Rate)
	case !(c.FramePeriod > 0) || c.FramePeriodSamples() < 1:
		return fmt.Errorf("%w: frame period %gs", ErrInvalidConfig, c.FramePeriod)
	case c.PitchSize() < c.FrameSize():
		return fmt.Errorf("%w: pitch window %gs shorter than the analysis frame", ErrInvalidConfig, c.PitchWindow)
	case c.Order < 0:
		return fmt.Errorf("%w: order %d", ErrInvalidConfig, c.Order)
	case c.ARCodecOrder() >= c.FrameSize():
		return fmt.Errorf("%w: order %d not below frame size %d", ErrInvalidConfig, c.ARCodecOrder(), c.FrameSize())
	case !(c.MinPitch > 0) || !(c.MaxPitch > c.MinPitch):
		return fmt.Errorf("%w: pitch range [%g, %g]", ErrInvalidConfig, c.MinPitch, c.MaxPitch)
	case c.SecondsToSamples(1/c.MaxPitch) < 1:
		return fmt.Errorf("%w: max pitch %g above the sample rate", ErrInvalidConfig, c.MaxPitch)
	case c.SecondsToSamples(1/c.MaxPitch) > c.PitchSize()-2:
		return fmt.Errorf("%w: pitch window %gs too short for max pitch %g", ErrInvalidConfig, c.PitchWindow, c.MaxPitch)
	case c.SequenceVariance < 0 || math.IsNaN(c.SequenceVariance):
		return fmt.Errorf("%w: sequence variance %g", ErrInvalidConfig, c.SequenceVariance)
	case c.Prior < 0 || math.IsNaN(c.Prior):
		return fmt.Errorf("%w: prior %g", ErrInvalidConfig, c.Prior)
	case c.SpectrumBins < 1:
		return fmt.Errorf("%w: spectrum bins %d", ErrInvalidConfig, c.SpectrumBins)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// SecondsToSamples converts a duration to the nearest whole number of samples.
func (c *Config) SecondsToSamples(s float64) int {
	return int(math.Round(s * float64(c.Rate)))
}

// SamplesToSeconds converts a sample count to seconds.
func (c *Config) SamplesToSeconds(n int) float64 {
	return float64(n) / float64(c.Rate)
}

// FramePeriodSamples is the analysis hop in samples.
func (c *Config) FramePeriodSamples() int { return c.SecondsToSamples(c.FramePeriod) }

// FrameSize is the analysis frame length: two hops, for 50% overlap.
func (c *Config) FrameSize() int { return 2 * c.FramePeriodSamples() }

// PitchSize is the length of the wider pitch analysis frame.
func (c *Config) PitchSize() int { return c.SecondsToSamples(c.PitchWindow) }

// ARCodecOrder is the AR order in use: the configured one, or rate/1000 + 2.
func (c *Config) ARCodecOrder() int {
	if c.Order > 0 {
		return c.Order
	}
	return AROrder(c.Rate)
}

// AROrder is the rule-of-thumb AR order for a sample rate.
func AROrder(rate int) int {
	return rate/1000 + 2
}

// workers resolves the size of the per-frame worker pool.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
