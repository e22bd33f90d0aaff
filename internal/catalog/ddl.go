package catalog

import (
	"strings"

	"github.com/novucs/local-bigquery/internal/model"
)

// schemaToDDL renders a CREATE TABLE statement for the given
// fully-qualified table name and wire schema, per spec §4.3's "schema
// -> DDL" rules: RECORD/STRUCT fields recurse into STRUCT<...>,
// REPEATED wraps the element type in ARRAY<...>, and REQUIRED emits
// NOT NULL.
func schemaToDDL(qualifiedName string, schema model.TableSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(qualifiedName)
	b.WriteString(" (")
	for i, f := range schema.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteColumn(f.Name))
		b.WriteString(" ")
		b.WriteString(fieldDDLType(f))
		if f.Mode == model.ModeRequired {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String()
}

func fieldDDLType(f model.Field) string {
	base := columnBaseType(f)
	if f.Mode == model.ModeRepeated {
		return "ARRAY<" + base + ">"
	}
	return base
}

func columnBaseType(f model.Field) string {
	if f.Type == model.TypeRecord {
		var b strings.Builder
		b.WriteString("STRUCT<")
		for i, child := range f.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteColumn(child.Name))
			b.WriteString(" ")
			b.WriteString(fieldDDLType(child))
		}
		b.WriteString(">")
		return b.String()
	}
	return engineTypeFor(f.Type)
}

// engineTypeFor maps a wire FieldType to the DuckDB type keyword used
// when generating DDL.
func engineTypeFor(t model.FieldType) string {
	switch t {
	case model.TypeString, model.TypeJSON, model.TypeGeography:
		return "VARCHAR"
	case model.TypeBytes:
		return "BLOB"
	case model.TypeInteger:
		return "BIGINT"
	case model.TypeFloat:
		return "DOUBLE"
	case model.TypeNumeric:
		return "DECIMAL(38,9)"
	case model.TypeBigNumeric:
		// DuckDB's DECIMAL caps total precision at 38 digits, so
		// BIGNUMERIC's nominal 76.38 can't be represented exactly;
		// this trades range for the same scale as NUMERIC.
		return "DECIMAL(38,9)"
	case model.TypeBoolean:
		return "BOOLEAN"
	case model.TypeTimestamp:
		return "TIMESTAMP"
	case model.TypeDate:
		return "DATE"
	case model.TypeTime:
		return "TIME"
	case model.TypeDatetime:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

func quoteColumn(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
