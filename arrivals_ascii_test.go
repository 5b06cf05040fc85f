package woss

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeArrivalsASCIIFixture(t *testing.T) string {
	t.Helper()
	content := "" +
		"50.0\n" +
		"1\n" +
		"0.0\n" +
		"1\n" +
		"10.0\n" +
		"1\n" +
		"100.0\n" +
		"1\n" +
		"1.0 0.0 0.001\n"

	dir := t.TempDir()
	path := filepath.Join(dir, "arr.arr")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestArrivalsASCIIReaderParsesSingleCell(t *testing.T) {
	path := writeArrivalsASCIIFixture(t)

	r, err := NewArrivalsASCIIReader([]string{path}, 50.0)
	if err != nil {
		t.Fatalf("NewArrivalsASCIIReader: %v", err)
	}
	defer r.Close()

	p := r.Pressure(0.0, 10.0, 100.0)
	if !p.Valid() {
		t.Fatal("expected a valid pressure at the sampled cell")
	}
	if math.Abs(p.Amplitude()-1.0) > 1e-9 {
		t.Fatalf("amplitude: got %v, want 1.0", p.Amplitude())
	}

	ta := r.TimeArr(0.0, 10.0, 100.0)
	if ta.Len() != 1 {
		t.Fatalf("expected a single arrival, got %d", ta.Len())
	}
}

func TestArrivalsASCIIReaderQuantizesToNearestCell(t *testing.T) {
	path := writeArrivalsASCIIFixture(t)

	r, err := NewArrivalsASCIIReader([]string{path}, 50.0)
	if err != nil {
		t.Fatalf("NewArrivalsASCIIReader: %v", err)
	}
	defer r.Close()

	p := r.Pressure(0.3, 10.4, 99.5)
	if !p.Valid() {
		t.Fatal("off-grid query should quantize to the nearest cell, not miss")
	}
}

func TestArrivalsASCIIReaderSumsAcrossRuns(t *testing.T) {
	pathA := writeArrivalsASCIIFixture(t)
	pathB := writeArrivalsASCIIFixture(t)

	r, err := NewArrivalsASCIIReader([]string{pathA, pathB}, 50.0)
	if err != nil {
		t.Fatalf("NewArrivalsASCIIReader: %v", err)
	}
	defer r.Close()

	p := r.Pressure(0.0, 10.0, 100.0).DivScalar(2)
	if math.Abs(p.Amplitude()-1.0) > 1e-9 {
		t.Fatalf("two identical runs averaged should reproduce the single-run amplitude: got %v, want 1.0", p.Amplitude())
	}
}

func TestFixGlitchedLineInsertsSpaceBeforeRunTogetherNegative(t *testing.T) {
	got := fixGlitchedLine("1.5-2.25 0.001")
	want := "1.5 -2.25 0.001"
	if got != want {
		t.Fatalf("fixGlitchedLine: got %q, want %q", got, want)
	}
}

func TestParseArrivalFieldsRecoversFromGlitch(t *testing.T) {
	fields, err := parseArrivalFields("1.0-90.0 0.002")
	if err != nil {
		t.Fatalf("parseArrivalFields should recover from the glitch: %v", err)
	}
	if len(fields) < 3 {
		t.Fatalf("expected at least 3 fields after glitch recovery, got %v", fields)
	}
	if fields[0] != 1.0 || fields[1] != -90.0 || fields[2] != 0.002 {
		t.Fatalf("unexpected recovered fields: %v", fields)
	}
}

func TestParseArrivalFieldsRejectsTrulyMalformedLine(t *testing.T) {
	if _, err := parseArrivalFields("not a number"); err == nil {
		t.Fatal("expected an error for a non-numeric arrival line")
	}
}
