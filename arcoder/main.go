package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blues/arcodec"
)

func usage(fs *flag.FlagSet, stderr io.Writer) func() {
	return func() {
		fmt.Fprintf(stderr, "usage: %s [-e|-d] [-o] [-C config] input output\n", fs.Name())
		fmt.Fprintf(stderr, "e.g. (encode)          %s -e speech.wav speech.prm\n", fs.Name())
		fmt.Fprintf(stderr, "e.g. (decode)          %s -d speech.prm speech.wav\n", fs.Name())
		fmt.Fprintf(stderr, "e.g. (copy synthesis)  %s speech.wav copy.wav\n", fs.Name())
		fs.PrintDefaults()
	}
}

type options struct {
	encode  bool
	decode  bool
	oracle  bool
	config  string
	verbose bool
	input   string
	output  string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("arcoder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	opts := &options{}
	fs.BoolVar(&opts.encode, "e", false, "encode a waveform into parameter files")
	fs.BoolVar(&opts.decode, "d", false, "decode parameter files into a waveform")
	fs.BoolVar(&opts.oracle, "o", false, "use the true LPC residual as excitation")
	fs.StringVar(&opts.config, "C", "", "YAML or JSON configuration file")
	fs.BoolVar(&opts.verbose, "v", false, "log debug detail")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.encode && opts.decode {
		fs.Usage()
		return nil, errors.New("-e and -d are exclusive")
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, errors.New("need an input and an output file")
	}
	opts.input, opts.output = fs.Arg(0), fs.Arg(1)
	return opts, nil
}

func run(opts *options, logger *slog.Logger) error {
	cfg, err := arcodec.LoadConfig(opts.config)
	if err != nil {
		return err
	}
	mode := arcodec.ModeMixed
	if opts.oracle {
		mode = arcodec.ModeOracle
	}
	codec, err := arcodec.New(cfg, mode, logger)
	if err != nil {
		return err
	}

	var params *arcodec.Params
	if opts.decode {
		if params, err = codec.Read(opts.input); err != nil {
			return err
		}
	} else {
		x, rate, err := arcodec.ReadPCM(opts.input)
		if err != nil {
			return err
		}
		if rate != 0 && rate != cfg.Rate {
			return fmt.Errorf("%w: %s is %d Hz, configured for %d Hz", arcodec.ErrInvalidConfig, opts.input, rate, cfg.Rate)
		}
		if params, err = codec.Encode(x); err != nil {
			return err
		}
	}

	if opts.encode {
		return codec.Write(opts.output, params)
	}

	// decode, or best effort copy synthesis
	y, err := codec.Decode(params)
	if err != nil {
		return err
	}
	gain, err := arcodec.WritePCM(opts.output, y, cfg.Rate)
	if err != nil {
		return err
	}
	if gain < 1 {
		logger.Debug("ear protection", "gain", gain)
	}
	logger.Debug("wrote", "file", opts.output, "samples", len(y))
	return nil
}

func runMain(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "arcoder: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := run(opts, logger); err != nil {
		fmt.Fprintf(stderr, "arcoder: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stderr))
}
