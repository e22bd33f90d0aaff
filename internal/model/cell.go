// Package model holds the wire-level entities exchanged over the HTTP
// boundary: datasets, tables, jobs, rows and schemas. Nothing in this
// package executes anything; it is a typed contract, serializable to
// the JSON shape a real cloud client library expects, byte-compatible
// down to the unset-vs-null distinction on optional fields.
package model

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// A Row is an ordered sequence of Cells: the warehouse's native "f/v"
// wire nesting.
type Row struct {
	F []Cell `json:"f"`
}

// NewRow builds a Row from the given cell values, in column order.
func NewRow(cells ...CellValue) Row {
	r := Row{F: make([]Cell, len(cells))}
	for i, c := range cells {
		r.F[i] = Cell{V: c}
	}
	return r
}

// A Cell holds one value in a Row. Its zero value serializes as an
// empty object, matching a BigQuery cell whose "v" member was never
// set (as opposed to one explicitly carrying a JSON null).
type Cell struct {
	V CellValue
}

// MarshalJSON implements json.Marshaler. An unset CellValue serializes
// to "{}" — the "v" key is omitted entirely rather than set to null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.V.isUnset() {
		return []byte(`{}`), nil
	}
	raw, err := c.V.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"v":`)
	buf.Write(raw)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return errors.WithStack(err)
	}
	if wrapper.V == nil {
		c.V = CellValue{}
		return nil
	}
	v, err := unmarshalCellValue(wrapper.V)
	if err != nil {
		return err
	}
	c.V = v
	return nil
}

// A CellValue is a tagged union: unset, a scalar string, a nested Row,
// or an array of Cells. Scalars are always carried as strings on the
// wire — integers, floats, microsecond timestamps, "true"/"false"
// booleans, and base64-encoded bytes alike — per the bridge in
// internal/bridge.
type CellValue struct {
	kind   cellKind
	scalar string
	row    *Row
	array  []Cell
}

type cellKind uint8

const (
	cellUnset cellKind = iota
	cellNull
	cellScalar
	cellRow
	cellArray
)

// Unset is the zero CellValue: no "v" member at all.
var Unset = CellValue{}

// Null represents an explicit SQL NULL: per spec this also omits "v",
// since the wire format does not distinguish "absent" from
// "present-but-null" for scalar cells — both drop the key.
var Null = CellValue{kind: cellNull}

// Scalar wraps a string value, e.g. "45", "true", a base64 blob, or a
// microsecond-timestamp integer rendered as a decimal string.
func Scalar(s string) CellValue { return CellValue{kind: cellScalar, scalar: s} }

// NestedRow wraps a STRUCT/RECORD value.
func NestedRow(r Row) CellValue { return CellValue{kind: cellRow, row: &r} }

// Array wraps a REPEATED value.
func Array(cells []Cell) CellValue { return CellValue{kind: cellArray, array: cells} }

func (v CellValue) isUnset() bool { return v.kind == cellUnset || v.kind == cellNull }

// IsNull reports whether the value is unset or an explicit null.
func (v CellValue) IsNull() bool { return v.isUnset() }

// Kind constants exposed for callers inspecting a decoded value.
const (
	KindScalar = cellScalar
	KindRow    = cellRow
	KindArray  = cellArray
)

// Kind reports which variant is populated.
func (v CellValue) Kind() cellKind { return v.kind }

// AsScalar returns the scalar string and true, or "", false if this
// value is not a scalar.
func (v CellValue) AsScalar() (string, bool) {
	if v.kind != cellScalar {
		return "", false
	}
	return v.scalar, true
}

// AsRow returns the nested row and true, or a zero Row, false.
func (v CellValue) AsRow() (Row, bool) {
	if v.kind != cellRow {
		return Row{}, false
	}
	return *v.row, true
}

// AsArray returns the nested cells and true, or nil, false.
func (v CellValue) AsArray() ([]Cell, bool) {
	if v.kind != cellArray {
		return nil, false
	}
	return v.array, true
}

// MarshalJSON implements json.Marshaler.
func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case cellScalar:
		return json.Marshal(v.scalar)
	case cellRow:
		return json.Marshal(v.row)
	case cellArray:
		return json.Marshal(v.array)
	default:
		return []byte(`null`), nil
	}
}

func unmarshalCellValue(raw json.RawMessage) (CellValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return Null, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return CellValue{}, errors.WithStack(err)
		}
		return Scalar(s), nil
	case '[':
		var arr []Cell
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return CellValue{}, errors.WithStack(err)
		}
		return Array(arr), nil
	case '{':
		var row Row
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return CellValue{}, errors.WithStack(err)
		}
		return NestedRow(row), nil
	default:
		// Bare numeric/boolean literal: treat it like a scalar string,
		// tolerating clients that don't quote it.
		return Scalar(string(trimmed)), nil
	}
}
