package resultdb

import (
	"errors"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
	stgpsr "github.com/yuin/stagparser"
)

var (
	ErrAddFilters    = errors.New("resultdb: error adding filter to filter list")
	ErrCreateSchema  = errors.New("resultdb: error building result array schema")
	ErrDims          = errors.New("resultdb: slice field has unsupported dimensionality")
	ErrDtype         = errors.New("resultdb: slice field has unsupported element type")
	ErrSetBuff       = errors.New("resultdb: error setting tiledb query buffer")
)

// arrayOpen opens a TileDB array at uri in the given mode.
func arrayOpen(ctx *tiledb.Context, uri string, mode tiledb.QueryType) (*tiledb.Array, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, err
	}

	if err := array.Open(mode); err != nil {
		array.Free()
		return nil, err
	}

	return array, nil
}

func addFilters(filterList *tiledb.FilterList, filters ...*tiledb.Filter) error {
	for _, filt := range filters {
		if err := filterList.AddFilter(filt); err != nil {
			return err
		}
	}
	return nil
}

func zstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// createAttr builds a TileDB attribute (datatype, variable-length flag,
// compression pipeline) from struct-tag definitions and attaches it to
// schema, driven by stagparser-parsed struct tags:
// tags are `tiledb:"dtype=...,ftype=attr[,var]"` with an optional
// `filters:"zstd(level=N)"` pipeline. Only zstd is wired here since every
// result-cache field is a compressible numeric array.
func createAttr(fieldName string, filterDefs []stgpsr.Definition, tiledbDefs map[string]stgpsr.Definition, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	def, ok := tiledbDefs["dtype"]
	if !ok {
		return errors.Join(ErrCreateSchema, errors.New("dtype tag not found for "+fieldName))
	}
	dtype, _ := def.Attribute("dtype")

	var tdbType tiledb.Datatype
	switch dtype {
	case "float32":
		tdbType = tiledb.TILEDB_FLOAT32
	case "float64":
		tdbType = tiledb.TILEDB_FLOAT64
	case "int64":
		tdbType = tiledb.TILEDB_INT64
	case "uint64":
		tdbType = tiledb.TILEDB_UINT64
	case "datetime_ns":
		tdbType = tiledb.TILEDB_DATETIME_NS
	default:
		return errors.Join(ErrDtype, errors.New(dtype.(string)))
	}

	filts, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	defer filts.Free()

	for _, filter := range filterDefs {
		if filter.Name() != "zstd" {
			continue
		}
		level, ok := filter.Attribute("level")
		if !ok {
			return errors.Join(ErrCreateSchema, errors.New("zstd level not defined"))
		}
		filt, err := zstdFilter(ctx, int32(level.(int64)))
		if err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
		defer filt.Free()
		if err := addFilters(filts, filt); err != nil {
			return errors.Join(ErrAddFilters, err)
		}
	}

	attr, err := tiledb.NewAttribute(ctx, fieldName, tdbType)
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	defer attr.Free()

	_, isVar := tiledbDefs["var"]
	if isVar {
		if err := attr.SetCellValNum(tiledb.TILEDB_VAR_NUM); err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
	}

	if err := attr.SetFilterList(filts); err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	if err := schema.AddAttributes(attr); err != nil {
		return errors.Join(ErrCreateSchema, err)
	}

	if isVar {
		offsetFilts, err := tiledb.NewFilterList(ctx)
		if err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
		ddFilt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
		if err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
		zFilt, err := zstdFilter(ctx, 16)
		if err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
		if err := addFilters(offsetFilts, ddFilt, zFilt); err != nil {
			return errors.Join(ErrAddFilters, err)
		}
		if err := schema.SetOffsetsFilterList(offsetFilts); err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
	}

	return nil
}

// sliceDimsType walks nested slice types to their element type, counting
// dimensionality as it goes.
func sliceDimsType(typ reflect.Type, dims *int) reflect.Type {
	if typ.Kind() == reflect.Slice {
		*dims++
		return sliceDimsType(typ.Elem(), dims)
	}
	return typ
}

func sliceOffsets[T any](s [][]T, byteSize uint64) []uint64 {
	offsets := make([]uint64, len(s))
	offset := uint64(0)
	for i := range s {
		offsets[i] = offset
		offset += uint64(len(s[i])) * byteSize
	}
	return offsets
}

// tagDrivenAttrs walks every exported field of t and creates the
// matching TileDB attribute from its `tiledb`/`filters` struct tags.
// Fields tagged `ftype=dim` are skipped since dimensions are added to
// the domain separately by the caller.
func tagDrivenAttrs(t any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	values := reflect.ValueOf(t).Elem()
	types := values.Type()

	filtDefs, err := stgpsr.ParseStruct(t, "filters")
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}
	tdbDefs, err := stgpsr.ParseStruct(t, "tiledb")
	if err != nil {
		return errors.Join(ErrCreateSchema, err)
	}

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		fieldTdbDefs := make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		def, ok := fieldTdbDefs["ftype"]
		if !ok {
			return errors.Join(ErrCreateSchema, errors.New("ftype tag not found for "+name))
		}
		if ftype, _ := def.Attribute("ftype"); ftype == "dim" {
			continue
		}

		if err := createAttr(name, filtDefs[name], fieldTdbDefs, schema, ctx); err != nil {
			return errors.Join(ErrCreateSchema, err)
		}
	}

	return nil
}

// setStructFieldBuffers attaches a tiledb query data/offsets buffer for
// every exported field of t, dispatching on field dimensionality and
// element type. Only the element types the result-record schema
// actually uses are handled; an unexpected type is a programmer error,
// not a runtime one.
func setStructFieldBuffers(query *tiledb.Query, t any) error {
	values := reflect.ValueOf(t).Elem()
	types := reflect.TypeOf(t).Elem()

	for i := 0; i < values.NumField(); i++ {
		if !types.Field(i).IsExported() {
			continue
		}
		fld := values.Field(i)
		name := types.Field(i).Name
		dims := 0
		stype := sliceDimsType(fld.Type(), &dims)

		switch dims {
		case 1:
			switch stype.Kind() {
			case reflect.Float64:
				if _, err := query.SetDataBuffer(name, fld.Interface().([]float64)); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			case reflect.Float32:
				if _, err := query.SetDataBuffer(name, fld.Interface().([]float32)); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			case reflect.Int64:
				if _, err := query.SetDataBuffer(name, fld.Interface().([]int64)); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			case reflect.Uint64:
				if _, err := query.SetDataBuffer(name, fld.Interface().([]uint64)); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			default:
				return errors.Join(ErrDtype, errors.New(stype.Name()))
			}
		case 2:
			switch stype.Kind() {
			case reflect.Float64:
				slc := fld.Interface().([][]float64)
				flt := lo.Flatten(slc)
				offsets := sliceOffsets(slc, 8)
				if _, err := query.SetOffsetsBuffer(name, offsets); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
				if _, err := query.SetDataBuffer(name, flt); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			case reflect.Float32:
				slc := fld.Interface().([][]float32)
				flt := lo.Flatten(slc)
				offsets := sliceOffsets(slc, 4)
				if _, err := query.SetOffsetsBuffer(name, offsets); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
				if _, err := query.SetDataBuffer(name, flt); err != nil {
					return errors.Join(ErrSetBuff, err, errors.New(name))
				}
			default:
				return errors.Join(ErrDtype, errors.New(stype.Name()))
			}
		default:
			return errors.Join(ErrDims, errors.New(name))
		}
	}

	return nil
}
