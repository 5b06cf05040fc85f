package woss

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeSHDFixture builds a minimal irregular-grid .shd file with a single
// source depth, receiver depth, and receiver range, matching the record
// layout documented on SHDReader.
func writeSHDFixture(t *testing.T, rangeVal float32) string {
	t.Helper()

	const recWords = 32
	const recBytes = recWords * 4

	record := func(fill func([]byte)) []byte {
		buf := make([]byte, recBytes)
		if fill != nil {
			fill(buf)
		}
		return buf
	}

	var out bytes.Buffer

	out.Write(record(func(b []byte) { binary.LittleEndian.PutUint32(b, uint32(recWords)) })) // record 0: lrecl
	out.Write(record(nil))                                                                   // record 1: title (unused)
	out.Write(record(func(b []byte) { copy(b, "irregular") }))                                // record 2: plot type
	out.Write(record(func(b []byte) {
		binary.LittleEndian.PutUint32(b[16:20], 1) // nsd
		binary.LittleEndian.PutUint32(b[20:24], 1) // nrd
		binary.LittleEndian.PutUint32(b[24:28], 1) // nrr
	})) // record 3: dims
	out.Write(record(nil)) // record 4: freq0/atten (unused by the reader)
	out.Write(record(func(b []byte) { binary.LittleEndian.PutUint32(b, math.Float32bits(0.0)) }))    // record 5: source depths
	out.Write(record(func(b []byte) { binary.LittleEndian.PutUint32(b, math.Float32bits(50.0)) }))   // record 6: receiver depths
	out.Write(record(func(b []byte) { binary.LittleEndian.PutUint32(b, math.Float32bits(rangeVal)) })) // record 7: receiver ranges
	out.Write(record(func(b []byte) {
		binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(2.0))  // re
		binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(-1.0)) // im
	})) // record 8: data for the single (sd, rd, rr) cell

	dir := t.TempDir()
	path := filepath.Join(dir, "bellhop.shd")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSHDReaderParsesSingleCell(t *testing.T) {
	path := writeSHDFixture(t, 1000.0)

	r, err := NewSHDReader(path)
	if err != nil {
		t.Fatalf("NewSHDReader: %v", err)
	}
	defer r.Close()

	p := r.Pressure(0.0, 50.0, 1000.0)
	if !p.Valid() {
		t.Fatal("expected a valid pressure at the sampled cell")
	}
	if got := p.Complex(); got != complex(2, -1) {
		t.Fatalf("Pressure: got %v, want (2-1i)", got)
	}
}

func TestSHDReaderTimeArrIsNotMeaningful(t *testing.T) {
	path := writeSHDFixture(t, 1000.0)

	r, err := NewSHDReader(path)
	if err != nil {
		t.Fatalf("NewSHDReader: %v", err)
	}
	defer r.Close()

	if r.TimeArr(0.0, 50.0, 1000.0).Valid() {
		t.Fatal("TimeArr on a transmission-loss field reader should be the not-valid sentinel")
	}
}

func TestSHDReaderRejectsNonPositiveRecordLength(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, int32(0))

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.shd")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewSHDReader(path); err == nil {
		t.Fatal("expected an error for a non-positive record length")
	}
}
