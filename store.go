package arcodec

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Sibling extensions written next to the parameter table.
const (
	ExtLogF0    = ".lf0"
	ExtHNR      = ".hnr"
	ExtResidual = ".res"
)

// SiblingPath replaces the extension of path with ext.
func SiblingPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// Write stores p at path as an HTK table of LSPs and log gain. Mixed-mode
// pitch and HNR go to .lf0 and .hnr text files beside it; an oracle
// residual goes to a .res HTK table.
func (c *Codec) Write(path string, p *Params) error {
	if err := p.Validate(c.order, c.frameSize); err != nil {
		return err
	}

	rows := make([][]float64, p.Frames())
	for i, lsp := range p.LSP {
		row := make([]float64, c.order+1)
		copy(row, lsp[1:c.order+1])
		row[c.order] = math.Log(p.Gain[i])
		rows[i] = row
	}
	period := c.period100ns()
	if err := writeFile(path, func(f *os.File) error { return WriteHTK(f, period, rows) }); err != nil {
		return err
	}

	switch p.Mode {
	case ModeOracle:
		return writeFile(SiblingPath(path, ExtResidual), func(f *os.File) error {
			return WriteHTK(f, period, p.Residual)
		})
	default:
		if err := writeFile(SiblingPath(path, ExtLogF0), func(f *os.File) error {
			return WriteColumn(f, PitchToLogF0(p.Pitch))
		}); err != nil {
			return err
		}
		return writeFile(SiblingPath(path, ExtHNR), func(f *os.File) error {
			return WriteColumn(f, p.HNR)
		})
	}
}

// Read loads parameters stored by Write, in the Codec's mode. A table
// written at a different frame period is rejected with ErrInvalidConfig.
func (c *Codec) Read(path string) (*Params, error) {
	var (
		hdr  HTKHeader
		rows [][]float64
	)
	if err := readFile(path, func(f *os.File) (err error) {
		hdr, rows, err = ReadHTK(f)
		return err
	}); err != nil {
		return nil, err
	}
	if want := c.period100ns(); hdr.Period100ns != want {
		return nil, fmt.Errorf("%w: %s has a period of %d00ns, codec uses %d00ns", ErrInvalidConfig, path, hdr.Period100ns, want)
	}

	p := &Params{
		Mode: c.mode,
		LSP:  make([][]float64, len(rows)),
		Gain: make([]float64, len(rows)),
	}
	for i, row := range rows {
		if len(row) != c.order+1 {
			return nil, &FrameError{Frame: i, Err: fmt.Errorf("%w: %d columns, want %d", ErrShape, len(row), c.order+1)}
		}
		lsp := make([]float64, c.order+2)
		copy(lsp[1:], row[:c.order])
		lsp[c.order+1] = PI
		p.LSP[i] = lsp
		p.Gain[i] = math.Exp(row[c.order])
	}

	switch c.mode {
	case ModeOracle:
		if err := readFile(SiblingPath(path, ExtResidual), func(f *os.File) (err error) {
			_, p.Residual, err = ReadHTK(f)
			return err
		}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOracleParams, err)
		}
	default:
		var lf0 []float64
		if err := readFile(SiblingPath(path, ExtLogF0), func(f *os.File) (err error) {
			lf0, err = ReadColumn(f)
			return err
		}); err != nil {
			return nil, err
		}
		p.Pitch = LogF0ToPitch(lf0)
		if err := readFile(SiblingPath(path, ExtHNR), func(f *os.File) (err error) {
			p.HNR, err = ReadColumn(f)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(c.order, c.frameSize); err != nil {
		return nil, err
	}
	return p, nil
}

// period100ns is the hop in HTK time units.
func (c *Codec) period100ns() int32 {
	return int32(math.Round(c.cfg.SamplesToSeconds(c.hop) * 1e7))
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func readFile(path string, fn func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
