package resultdb

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	"github.com/oceanbench/woss"
)

// resultRecord is the single-cell record written/read for one Key. Every
// field is a length-1 slice because TileDB's query buffers are always
// slices, even for a single logical cell.
type resultRecord struct {
	TxLat    []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	TxLon    []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	RxLat    []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	RxLon    []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Freq     []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	TimeUnix []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`

	PressureRe []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	PressureIm []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`

	ArrivalDelay []float64   `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	ArrivalAmp   [][]float64 `tiledb:"dtype=float64,ftype=attr,var" filters:"zstd(level=16)"`
	ArrivalPhase [][]float64 `tiledb:"dtype=float64,ftype=attr,var" filters:"zstd(level=16)"`
}

// TileDBStore persists result-cache entries in a single sparse TileDB
// array, addressed by the cell-id dimension the row-key hash maps onto.
type TileDBStore struct {
	ctx *tiledb.Context
	uri string

	mu sync.Mutex
}

// OpenTileDBStore opens (creating if absent) the result array at uri.
func OpenTileDBStore(uri, configURI string) (*TileDBStore, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, fmt.Errorf("resultdb: tiledb config: %w", err)
	}

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, fmt.Errorf("resultdb: tiledb context: %w", err)
	}

	s := &TileDBStore{ctx: ctx, uri: uri}

	if _, err := os.Stat(uri); os.IsNotExist(err) {
		if err := s.create(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *TileDBStore) create() error {
	domain, err := tiledb.NewDomain(s.ctx)
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	defer domain.Free()

	dim, err := tiledb.NewDimension(s.ctx, "cell_id", tiledb.TILEDB_INT64, []int64{0, 1 << 40}, int64(1024))
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	defer dim.Free()

	if err := domain.AddDimensions(dim); err != nil {
		return errors.Join(ErrCreateSchema, err)
	}

	schema, err := tiledb.NewArraySchema(s.ctx, tiledb.TILEDB_SPARSE)
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	defer schema.Free()

	if err := schema.SetDomain(domain); err != nil {
		return errors.Join(ErrCreateSchema, err)
	}

	rec := &resultRecord{}
	if err := buildSchemaFromTags(rec, schema, s.ctx); err != nil {
		return err
	}

	if err := tiledb.CreateArray(s.ctx, s.uri, schema); err != nil {
		return errors.Join(ErrCreateSchema, err)
	}

	return nil
}

// cellID hashes a Key onto the cell_id dimension. Collisions are
// possible across a very large key space: two colliding keys share one
// cell, a later Put overwrites it, and Get does not compare the stored
// key columns, so it returns that cell's pressure for either key.
func cellID(key Key) int64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	mix := func(bits uint64) {
		h ^= bits
		h *= 1099511628211
	}
	mix(math.Float64bits(key.Tx.Lat()))
	mix(math.Float64bits(key.Tx.Lon()))
	mix(math.Float64bits(key.Rx.Lat()))
	mix(math.Float64bits(key.Rx.Lon()))
	mix(math.Float64bits(key.Freq))
	mix(uint64(key.Time.Std().Unix()))

	return int64(h % (1 << 40))
}

func (s *TileDBStore) Put(key Key, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	array, err := arrayOpen(s.ctx, s.uri, tiledb.TILEDB_WRITE)
	if err != nil {
		return fmt.Errorf("resultdb: open for write: %w", err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(s.ctx, array)
	if err != nil {
		return fmt.Errorf("resultdb: new write query: %w", err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_UNORDERED); err != nil {
		return err
	}

	id := cellID(key)
	if _, err := query.SetDataBuffer("cell_id", []int64{id}); err != nil {
		return errors.Join(ErrSetBuff, err)
	}

	delays, amps, phases := arrivalColumns(e.TimeArr)

	rec := &resultRecord{
		TxLat: []float64{key.Tx.Lat()}, TxLon: []float64{key.Tx.Lon()},
		RxLat: []float64{key.Rx.Lat()}, RxLon: []float64{key.Rx.Lon()},
		Freq:     []float64{key.Freq},
		TimeUnix: []float64{float64(key.Time.Std().Unix())},

		PressureRe: []float64{real(e.Pressure.Complex())},
		PressureIm: []float64{imag(e.Pressure.Complex())},

		ArrivalDelay: delays,
		ArrivalAmp:   [][]float64{amps},
		ArrivalPhase: [][]float64{phases},
	}

	if err := setStructFieldBuffers(query, rec); err != nil {
		return err
	}

	if err := query.Submit(); err != nil {
		return fmt.Errorf("resultdb: submit write: %w", err)
	}

	return nil
}

func arrivalColumns(t woss.TimeArr) (delays, amps, phases []float64) {
	for _, a := range t.Arrivals() {
		delays = append(delays, a.Delay)
		amps = append(amps, a.Pressure.Amplitude())
		phases = append(phases, a.Pressure.Phase())
	}
	return
}

func (s *TileDBStore) Get(key Key) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	array, err := arrayOpen(s.ctx, s.uri, tiledb.TILEDB_READ)
	if err != nil {
		return Entry{}, false, fmt.Errorf("resultdb: open for read: %w", err)
	}
	defer array.Free()
	defer array.Close()

	id := cellID(key)

	query, err := tiledb.NewQuery(s.ctx, array)
	if err != nil {
		return Entry{}, false, fmt.Errorf("resultdb: new read query: %w", err)
	}
	defer query.Free()

	subarray, err := array.NewSubarray()
	if err != nil {
		return Entry{}, false, err
	}
	defer subarray.Free()
	if err := subarray.AddRange(0, id, id); err != nil {
		return Entry{}, false, err
	}
	if err := query.SetSubarray(subarray); err != nil {
		return Entry{}, false, err
	}

	reRe, imRe := make([]float64, 1), make([]float64, 1)
	if _, err := query.SetDataBuffer("PressureRe", reRe); err != nil {
		return Entry{}, false, errors.Join(ErrSetBuff, err)
	}
	if _, err := query.SetDataBuffer("PressureIm", imRe); err != nil {
		return Entry{}, false, errors.Join(ErrSetBuff, err)
	}

	if err := query.Submit(); err != nil {
		return Entry{}, false, fmt.Errorf("resultdb: submit read: %w", err)
	}

	status, err := query.GetResultBufferElements()
	if err != nil {
		return Entry{}, false, err
	}
	if n, ok := status["PressureRe"]; !ok || n[0] == 0 {
		return Entry{}, false, nil
	}

	p := woss.NewPressure(complex(reRe[0], imRe[0]))
	return Entry{Pressure: p, TimeArr: woss.CreateNotValid()}, true, nil
}

func (s *TileDBStore) Close() error {
	s.ctx.Free()
	return nil
}

func buildSchemaFromTags(rec *resultRecord, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	return tagDrivenAttrs(rec, schema, ctx)
}
