// Package arrowtab adapts Apache Arrow record batches to the tablemap
// source contracts, so columnar data can be mapped onto business objects
// with the same machinery as database rows. Values are extracted in their
// native Go form, null slots surface as nil. Neither adapter retains the
// record, the caller keeps ownership and releases it.
package arrowtab

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/shopspring/decimal"

	"github.com/user/tablemap"
)

// Reader iterates the rows of a record batch as a tablemap.Reader.
type Reader struct {
	rec      arrow.Record
	names    []string
	ordinals map[string]int
	row      int
}

var _ tablemap.Reader = (*Reader)(nil)

// NewReader returns a Reader positioned before the first row of rec.
func NewReader(rec arrow.Record) (*Reader, error) {
	if rec == nil {
		return nil, &tablemap.ArgumentError{Arg: "rec", Reason: "record is nil"}
	}
	schema := rec.Schema()
	names := make([]string, rec.NumCols())
	ordinals := make(map[string]int, len(names))
	for i := range names {
		names[i] = schema.Field(i).Name
		key := strings.ToLower(names[i])
		if _, ok := ordinals[key]; !ok {
			ordinals[key] = i
		}
	}
	return &Reader{rec: rec, names: names, ordinals: ordinals, row: -1}, nil
}

func (r *Reader) Next() bool {
	r.row++
	return r.row < int(r.rec.NumRows())
}

func (r *Reader) FieldCount() int { return len(r.names) }

func (r *Reader) FieldName(i int) string {
	if i < 0 || i >= len(r.names) {
		return ""
	}
	return r.names[i]
}

func (r *Reader) Ordinal(name string) int {
	if i, ok := r.ordinals[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

func (r *Reader) Value(i int) any {
	if i < 0 || i >= len(r.names) || r.row < 0 {
		return nil
	}
	return columnValue(r.rec.Column(i), r.row)
}

func (r *Reader) Err() error { return nil }

// Source exposes a single row of a record batch as a tablemap.DataSource.
type Source struct {
	rec arrow.Record
	row int
}

var _ tablemap.DataSource = (*Source)(nil)

// NewSource returns a source over row number row of rec.
func NewSource(rec arrow.Record, row int) (*Source, error) {
	if rec == nil {
		return nil, &tablemap.ArgumentError{Arg: "rec", Reason: "record is nil"}
	}
	if row < 0 || row >= int(rec.NumRows()) {
		return nil, &tablemap.ArgumentError{Arg: "row", Reason: "row index out of range"}
	}
	return &Source{rec: rec, row: row}, nil
}

func (s *Source) FieldCount() int { return int(s.rec.NumCols()) }

func (s *Source) FieldName(i int) string {
	if i < 0 || i >= int(s.rec.NumCols()) {
		return ""
	}
	return s.rec.Schema().Field(i).Name
}

func (s *Source) Value(i int, _ any) any {
	if i < 0 || i >= int(s.rec.NumCols()) {
		return nil
	}
	return columnValue(s.rec.Column(i), s.row)
}

// columnValue extracts the Go value at pos from an Arrow column. Types
// outside the supported set come back nil and map as null.
func columnValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}

	switch col.DataType().ID() {
	case arrow.BOOL:
		return col.(*array.Boolean).Value(pos)
	case arrow.INT8:
		return col.(*array.Int8).Value(pos)
	case arrow.INT16:
		return col.(*array.Int16).Value(pos)
	case arrow.INT32:
		return col.(*array.Int32).Value(pos)
	case arrow.INT64:
		return col.(*array.Int64).Value(pos)
	case arrow.UINT8:
		return col.(*array.Uint8).Value(pos)
	case arrow.UINT16:
		return col.(*array.Uint16).Value(pos)
	case arrow.UINT32:
		return col.(*array.Uint32).Value(pos)
	case arrow.UINT64:
		return col.(*array.Uint64).Value(pos)
	case arrow.FLOAT16:
		return col.(*array.Float16).Value(pos).Float32()
	case arrow.FLOAT32:
		return col.(*array.Float32).Value(pos)
	case arrow.FLOAT64:
		return col.(*array.Float64).Value(pos)
	case arrow.STRING:
		return col.(*array.String).Value(pos)
	case arrow.LARGE_STRING:
		return col.(*array.LargeString).Value(pos)
	case arrow.BINARY:
		// Copied because the backing buffer dies with the record.
		return append([]byte(nil), col.(*array.Binary).Value(pos)...)
	case arrow.DATE32:
		return col.(*array.Date32).Value(pos).ToTime()
	case arrow.DATE64:
		return col.(*array.Date64).Value(pos).ToTime()
	case arrow.TIMESTAMP:
		dt := col.DataType().(*arrow.TimestampType)
		return col.(*array.Timestamp).Value(pos).ToTime(dt.Unit)
	case arrow.DECIMAL128:
		dt := col.DataType().(*arrow.Decimal128Type)
		num := col.(*array.Decimal128).Value(pos)
		return decimal.NewFromBigInt(num.BigInt(), -dt.Scale)
	default:
		return nil
	}
}
