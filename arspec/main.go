package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strconv"

	"github.com/blues/arcodec"
)

// spectrogram returns one row of log power per frame of x, either the AR
// envelope ("ar") or the periodogram ("spec").
func spectrogram(x []float64, rate, size, period, bins int, kind string) ([][]float64, error) {
	framer := arcodec.NewFramer(size, period)
	window := arcodec.HannPeriodic(size)
	frames := framer.Frames(x)

	rows := make([][]float64, len(frames))
	switch kind {
	case "ar":
		order := arcodec.AROrder(rate)
		acorr := arcodec.NewAutocorrelator(nil)
		spec := arcodec.NewSpectrum(order, bins)
		for i, f := range frames {
			for j := range f {
				f[j] *= window[j]
			}
			ac := acorr.Lags(f, order)
			ar, _, err := arcodec.LevinsonDurbin(ac, order, arcodec.LevinsonPrior)
			if err != nil {
				return nil, &arcodec.FrameError{Frame: i, Err: err}
			}
			if rows[i], err = spec.LogEval(ar, arcodec.GainPrior(ac, ar, arcodec.LevinsonPrior)); err != nil {
				return nil, err
			}
		}
	case "spec":
		t := arcodec.NewFFT()
		for i, f := range frames {
			for j := range f {
				f[j] *= window[j]
			}
			s := t.Forward(f)
			row := make([]float64, min(bins, len(s)))
			for k := range row {
				m := cmplx.Abs(s[k])
				row[k] = math.Log(m*m + 1e-8)
			}
			rows[i] = row
		}
	default:
		return nil, fmt.Errorf("unknown spectrum type %q", kind)
	}
	return rows, nil
}

func writeMatrix(w io.Writer, rows [][]float64) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func runMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("arspec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("t", "ar", "spectrum type: ar or spec")
	size := fs.Int("n", 256, "frame size in samples")
	period := fs.Int("p", 128, "frame period in samples")
	bins := fs.Int("b", arcodec.SpectrumBins, "frequency bins")
	rate := fs.Int("r", arcodec.DefaultRate, "sample rate of raw input")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-t ar|spec] input.wav\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 || *size < 2 || *period < 1 || *bins < 1 {
		fs.Usage()
		return 2
	}

	x, r, err := arcodec.ReadPCM(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "arspec: %v\n", err)
		return 1
	}
	if r == 0 {
		r = *rate
	}

	rows, err := spectrogram(x, r, *size, *period, *bins, *kind)
	if err != nil {
		fmt.Fprintf(stderr, "arspec: %v\n", err)
		return 1
	}
	if err := writeMatrix(stdout, rows); err != nil {
		fmt.Fprintf(stderr, "arspec: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}
