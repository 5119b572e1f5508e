package arcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestHTKHeader(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]float64{{1, 2, 3}, {-1, 0.5, 4}}
	if err := WriteHTK(&buf, 50000, rows); err != nil {
		t.Fatalf("WriteHTK: %v", err)
	}
	b := buf.Bytes()
	if len(b) != 12+2*12 {
		t.Fatalf("%d bytes, want 36", len(b))
	}
	if got := binary.LittleEndian.Uint32(b[0:]); got != 2 {
		t.Errorf("frames = %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[4:]); got != 50000 {
		t.Errorf("period = %d", got)
	}
	if got := binary.LittleEndian.Uint16(b[8:]); got != 12 {
		t.Errorf("row bytes = %d", got)
	}
	if got := binary.LittleEndian.Uint16(b[10:]); got != HTK_USER {
		t.Errorf("kind = %d", got)
	}

	hdr, back, err := ReadHTK(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("ReadHTK: %v", err)
	}
	if hdr.Columns() != 3 || len(back) != 2 {
		t.Fatalf("header %+v, %d rows", hdr, len(back))
	}
	for i := range rows {
		if !floats.Equal(back[i], rows[i]) {
			t.Errorf("row %d = %v, want %v", i, back[i], rows[i])
		}
	}
}

func TestHTKErrors(t *testing.T) {
	if err := WriteHTK(&bytes.Buffer{}, 1, [][]float64{{1, 2}, {1}}); !errors.Is(err, ErrShape) {
		t.Fatalf("ragged rows: got %v", err)
	}
	var buf bytes.Buffer
	if err := WriteHTK(&buf, 1, [][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("WriteHTK: %v", err)
	}
	if _, _, err := ReadHTK(bytes.NewReader(buf.Bytes()[:20])); err == nil {
		t.Fatal("truncated table read without error")
	}

	headers := []struct {
		name string
		hdr  HTKHeader
		want error
	}{
		{"huge frame count", HTKHeader{Frames: 1<<31 - 1, Period100ns: 50000, RowBytes: 4, Kind: HTK_USER}, io.EOF},
		{"empty rows", HTKHeader{Frames: 3, Period100ns: 50000, Kind: HTK_USER}, ErrShape},
		{"odd row width", HTKHeader{Frames: 1, Period100ns: 50000, RowBytes: 6, Kind: HTK_USER}, ErrShape},
		{"negative frames", HTKHeader{Frames: -1, Period100ns: 50000, RowBytes: 4, Kind: HTK_USER}, ErrShape},
	}
	for _, tc := range headers {
		var b bytes.Buffer
		if err := binary.Write(&b, binary.LittleEndian, tc.hdr); err != nil {
			t.Fatal(err)
		}
		if _, _, err := ReadHTK(&b); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteColumn(&buf, []float64{5.25, -1, 1e-8}); err != nil {
		t.Fatalf("WriteColumn: %v", err)
	}
	got, err := ReadColumn(strings.NewReader(buf.String() + "\n  \n"))
	if err != nil {
		t.Fatalf("ReadColumn: %v", err)
	}
	if !floats.EqualApprox(got, []float64{5.25, -1, 1e-8}, 1e-12) {
		t.Fatalf("got %v", got)
	}
	if _, err := ReadColumn(strings.NewReader("1\nx\n")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSiblingPath(t *testing.T) {
	if got := SiblingPath("/tmp/a.b/speech.prm", ExtLogF0); got != "/tmp/a.b/speech.lf0" {
		t.Fatalf("got %s", got)
	}
	if got := SiblingPath("speech", ExtHNR); got != "speech.hnr" {
		t.Fatalf("got %s", got)
	}
}

func TestStoreMixed(t *testing.T) {
	c := testCodec(t, nil, ModeMixed)
	p, err := c.Encode(voiced(2000, 160, DefaultRate, 6))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "speech.prm")
	if err := c.Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, ext := range []string{ExtLogF0, ExtHNR} {
		if _, err := os.Stat(SiblingPath(path, ext)); err != nil {
			t.Fatalf("missing %s file: %v", ext, err)
		}
	}

	back, err := c.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if back.Frames() != p.Frames() || back.Mode != ModeMixed {
		t.Fatalf("read %d frames, want %d", back.Frames(), p.Frames())
	}
	for i := range p.LSP {
		if back.LSP[i][0] != 0 || back.LSP[i][len(back.LSP[i])-1] != math.Pi {
			t.Fatalf("frame %d: LSP ends not restored", i)
		}
		if !floats.EqualApprox(back.LSP[i], p.LSP[i], 1e-6) {
			t.Fatalf("frame %d: LSP %v, want %v", i, back.LSP[i], p.LSP[i])
		}
		if !scalar.EqualWithinRel(back.Gain[i], p.Gain[i], 1e-5) {
			t.Fatalf("frame %d: gain %g, want %g", i, back.Gain[i], p.Gain[i])
		}
		if !scalar.EqualWithinRel(back.Pitch[i], p.Pitch[i], 1e-5) {
			t.Fatalf("frame %d: pitch %g, want %g", i, back.Pitch[i], p.Pitch[i])
		}
		if !scalar.EqualWithinRel(back.HNR[i], p.HNR[i], 1e-6) {
			t.Fatalf("frame %d: HNR %g, want %g", i, back.HNR[i], p.HNR[i])
		}
	}

	if _, err := c.Decode(back); err != nil {
		t.Fatalf("Decode after Read: %v", err)
	}
}

func TestStoreOracle(t *testing.T) {
	c := testCodec(t, nil, ModeOracle)
	p, err := c.Encode(voiced(1200, 220, DefaultRate, 8))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	path := filepath.Join(t.TempDir(), "speech.prm")
	if err := c.Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := c.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(back.Residual) != p.Frames() || back.Pitch != nil {
		t.Fatalf("oracle parameters have the wrong shape")
	}
	for i := range p.Residual {
		for j, v := range p.Residual[i] {
			if !scalar.EqualWithinAbsOrRel(back.Residual[i][j], v, 1e-6, 1e-6) {
				t.Fatalf("residual[%d][%d] = %g, want %g", i, j, back.Residual[i][j], v)
			}
		}
	}

	if err := os.Remove(SiblingPath(path, ExtResidual)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Read(path); !errors.Is(err, ErrOracleParams) {
		t.Fatalf("missing residual: got %v, want ErrOracleParams", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	c := testCodec(t, nil, ModeMixed)
	_, err := c.Read(filepath.Join(t.TempDir(), "absent.prm"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want a not-exist error", err)
	}
}

func TestReadFramePeriodMismatch(t *testing.T) {
	c := testCodec(t, nil, ModeMixed)
	p, err := c.Encode(voiced(1600, 160, DefaultRate, 2))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "speech.prm")
	if err := c.Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	cfg := DefaultConfig()
	cfg.FramePeriod = 2 * FramePeriodS
	slow := testCodec(t, cfg, ModeMixed)
	if _, err := slow.Read(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
	if _, err := c.Read(path); err != nil {
		t.Fatalf("same period: %v", err)
	}
}
