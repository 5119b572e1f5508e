package main

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blues/arcodec"
)

func TestSpectrogram(t *testing.T) {
	x := make([]float64, 1024)
	for i := range x {
		x[i] = 0.5*math.Sin(2*math.Pi*500*float64(i)/16000) + 0.01*math.Cos(float64(i)*1.3) + 0.002*math.Sin(float64(i*i)*0.37)
	}

	for _, kind := range []string{"ar", "spec"} {
		rows, err := spectrogram(x, 16000, 256, 128, 129, kind)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if len(rows) != len(x)/128+1 {
			t.Fatalf("%s: %d rows", kind, len(rows))
		}
		// 500 Hz falls in bin 8 of a 256 point frame
		mid := rows[len(rows)/2]
		if len(mid) != 129 {
			t.Fatalf("%s: %d bins", kind, len(mid))
		}
		if mid[8] < mid[100] {
			t.Errorf("%s: no energy at the tone: %g vs %g", kind, mid[8], mid[100])
		}
	}

	if _, err := spectrogram(x, 16000, 256, 128, 129, "nope"); err == nil {
		t.Fatal("unknown type accepted")
	}
}

func TestRunMain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.raw")
	x := make([]float64, 640)
	for i := range x {
		x[i] = 0.4*math.Sin(float64(i)/3) + 0.002*math.Sin(float64(i*i)*0.37)
	}
	if _, err := arcodec.WritePCM(path, x, 16000); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := runMain([]string{"-b", "16", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 640/128+1 || len(strings.Fields(lines[0])) != 16 {
		t.Fatalf("unexpected matrix shape: %d lines", len(lines))
	}
}
