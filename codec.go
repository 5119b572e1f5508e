package arcodec

import (
	"fmt"
	"log/slog"
)

// Codec encodes whole utterances into per-frame AR parameters and decodes
// them back. Its mode is fixed at construction. A Codec holds no per-call
// state and may be used from several goroutines.
type Codec struct {
	cfg       *Config
	mode      Mode
	log       *slog.Logger
	order     int
	hop       int
	frameSize int

	framer Framer
	window []float64
	acorr  *Autocorrelator
	source excitationSource
}

// excitationSource is where a Codec's excitation comes from on decode and
// what, besides the AR envelope, it keeps on encode.
type excitationSource interface {
	analyse(x []float64, frames [][]float64, models []arModel, p *Params) error
	synthesise(p *Params) ([][]float64, error)
}

// New builds a Codec for cfg. A nil cfg uses DefaultConfig and a nil logger
// uses slog.Default.
func New(cfg *Config, mode Mode, logger *slog.Logger) (*Codec, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Codec{
		cfg:       cfg,
		mode:      mode,
		log:       logger,
		order:     cfg.ARCodecOrder(),
		hop:       cfg.FramePeriodSamples(),
		frameSize: cfg.FrameSize(),
		acorr:     NewAutocorrelator(nil),
	}
	c.framer = NewFramer(c.frameSize, c.hop)
	c.window = HannPeriodic(c.frameSize)

	switch mode {
	case ModeOracle:
		c.source = oracleSource{}
	case ModeMixed:
		c.source = &mixedSource{
			tracker: NewPitchTracker(cfg, c.acorr),
			gen:     NewMixedExcitation(cfg, cfg.Seed),
		}
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidConfig, int(mode))
	}
	return c, nil
}

// Mode returns the excitation mode fixed at construction.
func (c *Codec) Mode() Mode { return c.mode }

// Config returns the configuration in use.
func (c *Codec) Config() *Config { return c.cfg }

// Order returns the AR order.
func (c *Codec) Order() int { return c.order }

// FrameSize returns the analysis frame length in samples.
func (c *Codec) FrameSize() int { return c.frameSize }

// Encode analyses x into one parameter row per hop, len(x)/hop + 1 rows.
func (c *Codec) Encode(x []float64) (*Params, error) {
	frames := c.framer.Frames(x)
	for i, f := range frames {
		frames[i] = applyWindow(f, c.window)
	}

	models, err := c.analyseFrames(frames)
	if err != nil {
		return nil, err
	}

	p := &Params{
		Mode: c.mode,
		LSP:  make([][]float64, len(models)),
		Gain: make([]float64, len(models)),
	}
	for i, m := range models {
		p.LSP[i] = m.lsp
		p.Gain[i] = m.gain
	}
	if err := c.source.analyse(x, frames, models, p); err != nil {
		return nil, err
	}

	c.log.Debug("encoded", "samples", len(x), "frames", p.Frames(), "order", c.order, "mode", c.mode)
	return p, nil
}

// Decode reconstructs a signal from p. Output sample i lines up with input
// sample i of the encoded signal; the result holds (frames-1)*hop samples.
func (c *Codec) Decode(p *Params) ([]float64, error) {
	if p.Mode != c.mode {
		return nil, fmt.Errorf("%w: %v parameters for a %v codec", ErrOracleParams, p.Mode, c.mode)
	}
	if err := p.Validate(c.order, c.frameSize); err != nil {
		return nil, err
	}
	if p.Frames() == 0 {
		return nil, nil
	}

	ar, err := c.lspToAR(p.LSP)
	if err != nil {
		return nil, err
	}
	exc, err := c.source.synthesise(p)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(exc))
	for i := range exc {
		out[i] = Resynthesis(exc[i], ar[i], p.Gain[i])
	}
	y, err := OverlapAdd(out)
	if err != nil {
		return nil, err
	}

	c.log.Debug("decoded", "frames", p.Frames(), "order", c.order, "mode", c.mode)
	// drop the half frame of centring padding at either end
	return y[c.hop : len(y)-c.hop], nil
}

// oracleSource keeps the true LPC residual of each frame.
type oracleSource struct{}

func (oracleSource) analyse(_ []float64, frames [][]float64, models []arModel, p *Params) error {
	p.Residual = make([][]float64, len(frames))
	for i, f := range frames {
		p.Residual[i] = Residual(f, models[i].ar, models[i].gain)
	}
	return nil
}

func (oracleSource) synthesise(p *Params) ([][]float64, error) {
	if p.Residual == nil {
		return nil, ErrOracleParams
	}
	return p.Residual, nil
}

// mixedSource tracks pitch and HNR on encode and synthesises a pulse and
// noise mix from them on decode.
type mixedSource struct {
	tracker *PitchTracker
	gen     *MixedExcitation
}

func (s *mixedSource) analyse(x []float64, frames [][]float64, _ []arModel, p *Params) error {
	pitch, hnr := s.tracker.Track(x)
	if len(pitch) != len(frames) {
		return fmt.Errorf("%w: %d pitch frames for %d analysis frames", ErrShape, len(pitch), len(frames))
	}
	p.Pitch = pitch
	p.HNR = hnr
	return nil
}

func (s *mixedSource) synthesise(p *Params) ([][]float64, error) {
	return s.gen.Frames(p.Pitch, p.HNR)
}
