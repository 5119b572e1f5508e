package arcodec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	gawav "github.com/go-audio/wav"
)

// Samples are handled as float64 in [-1, 1).
const fullScale = 32768.0

// ReadPCM reads a mono WAV file (8, 16, 24 or 32-bit PCM, or 32-bit float),
// or headerless 16-bit little-endian PCM if the name ends in .raw. The
// returned rate is 0 for raw input.
func ReadPCM(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if isRaw(path) {
		x, err := readRaw(f)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		return x, 0, nil
	}
	x, rate, err := readWav(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return x, rate, nil
}

// WAVE format tags.
const (
	wavePCM   = 1
	waveFloat = 3
)

func readWav(r io.ReadSeeker) ([]float64, int, error) {
	d := gawav.NewDecoder(r)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, 0, fmt.Errorf("read wav header: %w", err)
	}
	if d.NumChans == 0 {
		return nil, 0, errors.New("read wav header: no fmt chunk")
	}
	if d.NumChans != 1 {
		return nil, 0, fmt.Errorf("%w: %d channels", ErrUnsupportedType, d.NumChans)
	}
	if d.WavAudioFormat != wavePCM && d.WavAudioFormat != waveFloat {
		return nil, 0, fmt.Errorf("%w: wav format %d", ErrUnsupportedType, d.WavAudioFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav samples: %w", err)
	}
	if buf == nil {
		return nil, 0, errors.New("read wav samples: no data chunk")
	}
	x, err := toFloat(buf.Data, int(d.BitDepth), d.WavAudioFormat == waveFloat)
	if err != nil {
		return nil, 0, err
	}
	return x, int(d.SampleRate), nil
}

// toFloat scales decoded WAV samples of the given bit depth to [-1, 1).
// 8-bit samples are unsigned; 32-bit float samples arrive as their raw bits.
func toFloat(data []int, bits int, float bool) ([]float64, error) {
	x := make([]float64, len(data))
	switch {
	case float && bits == 32:
		for i, v := range data {
			x[i] = float64(math.Float32frombits(uint32(v)))
		}
	case float:
		return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedType, bits)
	case bits == 8:
		for i, v := range data {
			x[i] = (float64(v) - 128) / 128
		}
	case bits == 16 || bits == 24 || bits == 32:
		scale := float64(int64(1) << (bits - 1))
		for i, v := range data {
			x[i] = float64(v) / scale
		}
	default:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedType, bits)
	}
	return x, nil
}

func readRaw(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read raw samples: %w", err)
	}
	x := make([]float64, len(data)/2)
	for i := range x {
		x[i] = float64(int16(binary.LittleEndian.Uint16(data[2*i:]))) / fullScale
	}
	return x, nil
}

// WritePCM writes x as 16-bit mono at rate, WAV unless the name ends in .raw.
// The signal is ear-protected and clipped on the way out; the returned gain
// is the attenuation that was applied.
func WritePCM(path string, x []float64, rate int) (float64, error) {
	pcm, gain := ToInt16(x)

	f, err := os.Create(path)
	if err != nil {
		return gain, fmt.Errorf("create %s: %w", path, err)
	}
	if isRaw(path) {
		err = writeRaw(f, pcm)
	} else {
		err = writeWav(f, pcm, rate)
	}
	if err != nil {
		f.Close()
		return gain, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return gain, fmt.Errorf("close %s: %w", path, err)
	}
	return gain, nil
}

func writeWav(w io.WriteSeeker, pcm []int16, rate int) error {
	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(v)
	}
	enc := gawav.NewEncoder(w, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}

func writeRaw(w io.Writer, pcm []int16) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("write raw samples: %w", err)
	}
	return bw.Flush()
}

// ToInt16 ear-protects a copy of x and converts it to clipped 16-bit PCM.
// It also returns the ear-protection gain.
func ToInt16(x []float64) ([]int16, float64) {
	y := append([]float64(nil), x...)
	gain := earProtection(y)

	out := make([]int16, len(y))
	for i, v := range y {
		s := math.Round(v * fullScale)
		if s > math.MaxInt16 {
			out[i] = math.MaxInt16
		} else if s < -math.MaxInt16 {
			out[i] = -math.MaxInt16
		} else {
			out[i] = int16(s)
		}
	}
	return out, gain
}

func isRaw(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".raw")
}
