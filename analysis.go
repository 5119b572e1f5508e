package arcodec

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// arModel is the AR fit of one analysis frame.
type arModel struct {
	ar   []float64
	gain float64
	lsp  []float64
}

// analyseFrames fits an AR model to every windowed frame and converts it to
// LSPs. Frames are independent and are spread over the worker pool; the
// result and the reported error do not depend on scheduling.
func (c *Codec) analyseFrames(frames [][]float64) ([]arModel, error) {
	models := make([]arModel, len(frames))
	errs := make([]error, len(frames))

	var g errgroup.Group
	g.SetLimit(c.cfg.workers())
	for i, frame := range frames {
		g.Go(func() error {
			models[i], errs[i] = c.analyseFrame(frame)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, ErrRootCount) {
			c.log.Warn("LSP root count mismatch", "frame", i, "err", err)
		}
		return nil, &FrameError{Frame: i, Err: err}
	}
	return models, nil
}

func (c *Codec) analyseFrame(frame []float64) (arModel, error) {
	ac := c.acorr.Lags(frame, c.order)
	ar, _, err := LevinsonDurbin(ac, c.order, c.cfg.Prior)
	if err != nil {
		return arModel{}, err
	}

	gain := GainPrior(ac, ar, c.cfg.Prior)
	if !(gain > 0) {
		return arModel{}, fmt.Errorf("%w: gain %g", ErrDegenerateFrame, gain)
	}

	lsp, err := ToLSP(ar)
	if err != nil {
		return arModel{}, err
	}
	return arModel{ar: ar, gain: gain, lsp: lsp}, nil
}

// lspToAR inverts every LSP row on the worker pool.
func (c *Codec) lspToAR(lsp [][]float64) ([][]float64, error) {
	ar := make([][]float64, len(lsp))
	errs := make([]error, len(lsp))

	var g errgroup.Group
	g.SetLimit(c.cfg.workers())
	for i, row := range lsp {
		g.Go(func() error {
			ar[i], errs[i] = FromLSP(row)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &FrameError{Frame: i, Err: err}
		}
	}
	return ar, nil
}
