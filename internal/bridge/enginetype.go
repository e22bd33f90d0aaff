// Package bridge implements the bidirectional conversion between the
// embedded engine's native value/column model and the warehouse wire
// schema (internal/model): engine type -> wire type, engine value ->
// wire cell, wire parameter tree -> engine-native parameter map, and
// schema inference from untyped result tuples.
package bridge

import (
	"strconv"
	"strings"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/model"
)

// EngineKind tags the logical shape of an EngineType, using the
// lower-cased engine tags from spec §4.2.
type EngineKind string

// The exhaustive set of engine kinds the bridge understands.
const (
	EngineInteger     EngineKind = "integer"
	EngineBigint      EngineKind = "bigint"
	EngineSmallint    EngineKind = "smallint"
	EngineTinyint     EngineKind = "tinyint"
	EngineFloat       EngineKind = "float"
	EngineDouble      EngineKind = "double"
	EngineDecimal     EngineKind = "decimal"
	EngineVarchar     EngineKind = "varchar"
	EngineBlob        EngineKind = "blob"
	EngineBoolean     EngineKind = "boolean"
	EngineDate        EngineKind = "date"
	EngineTime        EngineKind = "time"
	EngineTimestamp   EngineKind = "timestamp"
	EngineTimestampTZ EngineKind = "timestamp-with-tz"
	EngineJSON        EngineKind = "json"
	EngineList        EngineKind = "list"
	EngineStruct      EngineKind = "struct"
	EngineMap         EngineKind = "map"
	EngineRange       EngineKind = "range"
)

// EngineType is the engine's native column type, as produced by
// ParseEngineType from the driver's DatabaseTypeName() string.
type EngineType struct {
	Kind   EngineKind
	Elem   *EngineType        // LIST element type, or RANGE element type
	Fields []EngineStructField // STRUCT field types, in declaration order
}

// EngineStructField names one ordered field of a STRUCT EngineType.
type EngineStructField struct {
	Name string
	Type EngineType
}

// ParseEngineType parses a DuckDB DatabaseTypeName() string (e.g.
// "BIGINT", "VARCHAR", "DECIMAL(18,3)", "INTEGER[]",
// "STRUCT(a INTEGER, b VARCHAR)") into an EngineType.
func ParseEngineType(raw string) (EngineType, error) {
	p := &typeParser{s: strings.TrimSpace(raw)}
	t, err := p.parseType()
	if err != nil {
		return EngineType{}, apperr.Wrap(apperr.KindInvalidQuery, err, "unsupported engine type %q", raw)
	}
	return t, nil
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) rest() string { return p.s[p.pos:] }

func (p *typeParser) parseType() (EngineType, error) {
	base, err := p.parseBase()
	if err != nil {
		return EngineType{}, err
	}
	for strings.HasPrefix(p.rest(), "[]") {
		p.pos += 2
		elem := base
		base = EngineType{Kind: EngineList, Elem: &elem}
	}
	return base, nil
}

func (p *typeParser) parseBase() (EngineType, error) {
	name, rest := splitTypeName(p.rest())
	upper := strings.ToUpper(name)

	switch upper {
	case "INTEGER", "INT", "INT4":
		p.pos += len(name)
		return EngineType{Kind: EngineInteger}, nil
	case "BIGINT", "INT8", "HUGEINT":
		p.pos += len(name)
		return EngineType{Kind: EngineBigint}, nil
	case "SMALLINT", "INT2":
		p.pos += len(name)
		return EngineType{Kind: EngineSmallint}, nil
	case "TINYINT":
		p.pos += len(name)
		return EngineType{Kind: EngineTinyint}, nil
	case "FLOAT", "REAL", "FLOAT4":
		p.pos += len(name)
		return EngineType{Kind: EngineFloat}, nil
	case "DOUBLE", "FLOAT8":
		p.pos += len(name)
		return EngineType{Kind: EngineDouble}, nil
	case "DECIMAL", "NUMERIC":
		p.pos += len(name)
		p.skipParenArgs()
		return EngineType{Kind: EngineDecimal}, nil
	case "VARCHAR", "TEXT", "STRING", "CHAR", "BPCHAR":
		p.pos += len(name)
		p.skipParenArgs()
		return EngineType{Kind: EngineVarchar}, nil
	case "BLOB", "BYTEA", "BINARY", "VARBINARY":
		p.pos += len(name)
		return EngineType{Kind: EngineBlob}, nil
	case "BOOLEAN", "BOOL":
		p.pos += len(name)
		return EngineType{Kind: EngineBoolean}, nil
	case "DATE":
		p.pos += len(name)
		return EngineType{Kind: EngineDate}, nil
	case "TIME":
		p.pos += len(name)
		return EngineType{Kind: EngineTime}, nil
	case "TIMESTAMP", "DATETIME":
		p.pos += len(name)
		return EngineType{Kind: EngineTimestamp}, nil
	case "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP_TZ":
		p.pos += len(name)
		return EngineType{Kind: EngineTimestampTZ}, nil
	case "JSON":
		p.pos += len(name)
		return EngineType{Kind: EngineJSON}, nil
	case "MAP":
		p.pos += len(name)
		p.skipParenArgs()
		return EngineType{Kind: EngineMap}, nil
	case "STRUCT", "ROW":
		p.pos += len(name)
		return p.parseStructFields()
	}
	_ = rest
	return EngineType{}, apperr.InvalidQuery("unrecognized engine type token %q", name)
}

// splitTypeName returns the leading alphabetic-ish type keyword of s.
func splitTypeName(s string) (name string, rest string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '(' || c == '[' || c == ',' || c == ')' {
			break
		}
		i++
	}
	return strings.TrimSpace(s[:i]), s[i:]
}

// skipParenArgs consumes a balanced "(...)" immediately following the
// current position, if present.
func (p *typeParser) skipParenArgs() {
	rest := p.rest()
	if !strings.HasPrefix(rest, "(") {
		return
	}
	depth := 0
	for i, c := range rest {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos += i + 1
				return
			}
		}
	}
}

// parseStructFields parses "(name TYPE, name TYPE, ...)" immediately
// following the current position.
func (p *typeParser) parseStructFields() (EngineType, error) {
	rest := p.rest()
	if !strings.HasPrefix(rest, "(") {
		return EngineType{}, apperr.InvalidQuery("struct type missing field list")
	}
	p.pos++ // consume '('

	var fields []EngineStructField
	for {
		p.skipSpace()
		if strings.HasPrefix(p.rest(), ")") {
			p.pos++
			break
		}
		fieldName, rest := splitIdent(p.rest())
		p.pos += len(p.rest()) - len(rest)
		p.skipSpace()

		ft, err := p.parseFieldType()
		if err != nil {
			return EngineType{}, err
		}
		fields = append(fields, EngineStructField{Name: fieldName, Type: ft})

		p.skipSpace()
		if strings.HasPrefix(p.rest(), ",") {
			p.pos++
			continue
		}
		if strings.HasPrefix(p.rest(), ")") {
			p.pos++
			break
		}
		return EngineType{}, apperr.InvalidQuery("malformed struct type near %q", p.rest())
	}
	return EngineType{Kind: EngineStruct, Fields: fields}, nil
}

// parseFieldType parses a type up to the next top-level ',' or ')'.
func (p *typeParser) parseFieldType() (EngineType, error) {
	depth := 0
	start := p.pos
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				goto done
			}
			depth--
		case ',':
			if depth == 0 {
				goto done
			}
		}
		p.pos++
	}
done:
	segment := strings.TrimSpace(p.s[start:p.pos])
	sub := &typeParser{s: segment}
	t, err := sub.parseType()
	if err != nil {
		return EngineType{}, err
	}
	return t, nil
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func splitIdent(s string) (ident string, rest string) {
	i := 0
	for i < len(s) && s[i] != ' ' {
		i++
	}
	return s[:i], s[i:]
}

// ToWireType maps an EngineType to its wire FieldType and Mode, per
// the exhaustive table in spec §4.2. jsonLogical marks a VARCHAR
// column whose logical type tag is JSON (the engine stores JSON
// columns as text but the catalog remembers the logical tag — see
// internal/catalog).
func (t EngineType) ToWireType(jsonLogical bool) (model.FieldType, model.FieldMode, []model.Field, error) {
	switch t.Kind {
	case EngineInteger, EngineBigint, EngineSmallint, EngineTinyint:
		return model.TypeInteger, model.ModeNullable, nil, nil
	case EngineFloat, EngineDouble, EngineDecimal:
		return model.TypeFloat, model.ModeNullable, nil, nil
	case EngineVarchar:
		if jsonLogical {
			return model.TypeJSON, model.ModeNullable, nil, nil
		}
		return model.TypeString, model.ModeNullable, nil, nil
	case EngineBlob:
		return model.TypeBytes, model.ModeNullable, nil, nil
	case EngineBoolean:
		return model.TypeBoolean, model.ModeNullable, nil, nil
	case EngineDate:
		return model.TypeDate, model.ModeNullable, nil, nil
	case EngineTime:
		return model.TypeTime, model.ModeNullable, nil, nil
	case EngineTimestamp, EngineTimestampTZ:
		return model.TypeTimestamp, model.ModeNullable, nil, nil
	case EngineJSON:
		return model.TypeJSON, model.ModeNullable, nil, nil
	case EngineList:
		if t.Elem == nil {
			return "", "", nil, apperr.InvalidQuery("list type missing element type")
		}
		elemWire, _, elemFields, err := t.Elem.ToWireType(jsonLogical)
		if err != nil {
			return "", "", nil, err
		}
		return elemWire, model.ModeRepeated, elemFields, nil
	case EngineStruct, EngineMap:
		fields := make([]model.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			wireType, mode, nested, err := f.Type.ToWireType(false)
			if err != nil {
				return "", "", nil, err
			}
			fields = append(fields, model.Field{
				Name:   f.Name,
				Type:   wireType,
				Mode:   mode,
				Fields: nested,
			})
		}
		return model.TypeRecord, model.ModeNullable, fields, nil
	case EngineRange:
		return model.TypeRange, model.ModeNullable, nil, nil
	default:
		return "", "", nil, apperr.InvalidQuery("unsupported engine type kind %q", t.Kind)
	}
}

// formatFloat renders a float64 without locale formatting or
// scientific notation for reasonably-sized values.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
