package woss

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// SHDReader parses the binary `.shd` transmission-loss field produced by
// the engine in ModeTransmissionLoss, per spec.md §4.4. The file is a
// fixed-record-length direct-access binary, little-endian:
//
//	record 0:  int32 recordLength (in 4-byte words)
//	record 1:  80-byte title
//	record 2:  10-byte plot type tag ("rectilin " or "irregular")
//	record 3:  int32 Nfreq, int32 Ntheta, int32 Nsx, int32 Nsy, int32 Nsd, int32 Nrd, int32 Nrr
//	record 4:  float64 freq0, float64 atten
//	record 5:  Nsd x float32 source depths
//	record 6:  Nrd x float32 receiver depths
//	record 7:  Nrr x float32 receiver ranges
//	(when plot type is "rectilin ", two extra header records 8/9 carry
//	the Sx/Sy source-grid coordinates and data starts at record 10;
//	otherwise the data records start directly at record 8)
//
// Each subsequent record holds Nrd*Nrr interleaved (float32 re, float32
// im) pressure samples for one (frequency, source) pair, in row-major
// (depth, range) order.
type SHDReader struct {
	grid *shdGrid
	f    *os.File
}

func NewSHDReader(path string) (*SHDReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("woss: open shd file: %w", err)
	}

	var lrecl int32
	if err := binary.Read(f, binary.LittleEndian, &lrecl); err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: record length header: %w", err)
	}
	recBytes := int64(lrecl) * 4
	if recBytes <= 0 {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: %w: non-positive record length", ErrRecordMalformed)
	}

	readRecord := func(rec int64, n int) ([]byte, error) {
		buf := make([]byte, n)
		_, err := f.ReadAt(buf, rec*recBytes)
		if err != nil && err != io.EOF {
			return nil, err
		}
		return buf, nil
	}

	plotBuf, err := readRecord(2, 10)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: plot type record: %w", err)
	}
	rectilinear := string(plotBuf[:9]) == "rectilin "

	dimsBuf, err := readRecord(3, 28)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: dimensions record: %w", err)
	}
	nfreq := int32LE(dimsBuf[0:4])
	_ = nfreq
	nsd := int32LE(dimsBuf[16:20])
	nrd := int32LE(dimsBuf[20:24])
	nrr := int32LE(dimsBuf[24:28])

	sdBuf, err := readRecord(5, int(nsd)*4)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: source depths record: %w", err)
	}
	rdBuf, err := readRecord(6, int(nrd)*4)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: receiver depths record: %w", err)
	}
	rrBuf, err := readRecord(7, int(nrr)*4)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("woss: shd file: receiver ranges record: %w", err)
	}

	sd := float32LEAxis(sdBuf)
	rd := float32LEAxis(rdBuf)
	rr := float32LEAxis(rrBuf)

	dataStart := int64(8)
	if rectilinear {
		dataStart = int64(10)
	}

	grid := newShdGrid(sd, rd, rr)

	for ti := 0; ti < int(nsd); ti++ {
		recBuf, err := readRecord(dataStart+int64(ti), int(nrd)*int(nrr)*8)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("woss: shd file: data record %d: %w", ti, err)
		}

		off := 0
		for di := 0; di < int(nrd); di++ {
			for ri := 0; ri < int(nrr); ri++ {
				re := float64(math.Float32frombits(binary.LittleEndian.Uint32(recBuf[off : off+4])))
				im := float64(math.Float32frombits(binary.LittleEndian.Uint32(recBuf[off+4 : off+8])))
				off += 8

				if math.IsNaN(re) || math.IsInf(re, 0) {
					re = 0
				}
				if math.IsNaN(im) || math.IsInf(im, 0) {
					im = 0
				}
				grid.set(ti, di, ri, NewPressure(complex(re, im)))
			}
		}
	}

	return &SHDReader{grid: grid, f: f}, nil
}

func int32LE(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func float32LEAxis(b []byte) []float64 {
	n := len(b) / 4
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4])))
	}
	return out
}

func (r *SHDReader) Pressure(txDepth, rxDepth, rxRange float64) Pressure {
	return r.grid.pressureAt(txDepth, rxDepth, rxRange)
}

func (r *SHDReader) AvgPressure(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi float64) Pressure {
	return r.grid.avgPressureAt(txDepth, rxDepthLo, rxDepthHi, rxRangeLo, rxRangeHi)
}

// TimeArr is not meaningful for a transmission-loss field reader: it
// returns the not-valid sentinel, per ResultReader's contract.
func (r *SHDReader) TimeArr(txDepth, rxDepth, rxRange float64) TimeArr {
	return CreateNotValid()
}

func (r *SHDReader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}
