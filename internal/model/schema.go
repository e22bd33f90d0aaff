package model

// FieldType is the wire-level type tag for a schema field.
type FieldType string

// The exhaustive set of wire field types, per spec §3.
const (
	TypeString    FieldType = "STRING"
	TypeBytes     FieldType = "BYTES"
	TypeInteger   FieldType = "INTEGER"
	TypeFloat     FieldType = "FLOAT"
	TypeNumeric   FieldType = "NUMERIC"
	TypeBigNumeric FieldType = "BIGNUMERIC"
	TypeBoolean   FieldType = "BOOLEAN"
	TypeTimestamp FieldType = "TIMESTAMP"
	TypeDate      FieldType = "DATE"
	TypeTime      FieldType = "TIME"
	TypeDatetime  FieldType = "DATETIME"
	TypeGeography FieldType = "GEOGRAPHY"
	TypeJSON      FieldType = "JSON"
	TypeRecord    FieldType = "RECORD"
	TypeRange     FieldType = "RANGE"
)

// FieldMode is the wire-level repetition tag for a schema field.
type FieldMode string

// The three field modes.
const (
	ModeNullable FieldMode = "NULLABLE"
	ModeRequired FieldMode = "REQUIRED"
	ModeRepeated FieldMode = "REPEATED"
)

// A Field describes one column of a Table's schema. Nested fields are
// populated only for RECORD/STRUCT columns; RangeElementType only for
// RANGE columns.
type Field struct {
	Name             string     `json:"name"`
	Type             FieldType  `json:"type"`
	Mode             FieldMode  `json:"mode,omitempty"`
	Description      string     `json:"description,omitempty"`
	Fields           []Field    `json:"fields,omitempty"`
	RangeElementType *RangeType `json:"rangeElementType,omitempty"`
}

// RangeType names the scalar type carried by a RANGE field.
type RangeType struct {
	Type FieldType `json:"type"`
}

// TableSchema is the safe-named alias of the wire "schema" member: the
// key `schema` collides with reserved identifiers in several of the
// client languages this format also targets, so models embedding it
// expose it under a non-colliding Go field name while still
// serializing under the original wire key (see Table.Schema_ below).
type TableSchema struct {
	Fields []Field `json:"fields"`
}
