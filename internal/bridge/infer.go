package bridge

import (
	"time"

	"github.com/novucs/local-bigquery/internal/model"
)

// observedKind lists the types InferSchema tracks per column. A column
// whose values are all of one kind takes that kind; INTEGER+FLOAT
// together promote to FLOAT, and any other mix becomes STRING, per
// spec §4.2.
type observedKind int

const (
	obsNone observedKind = iota
	obsBoolean
	obsInteger
	obsFloat
	obsDatetime
	obsDate
	obsBytes
	obsString
)

// InferSchema derives a wire TableSchema from untyped result tuples:
// used when the engine gives a column name but no type hint (for
// example, values returned from a JS UDF with no declared return
// type). For each column, types are tracked across all rows: a column
// of booleans only is BOOLEAN, numeric mixes of INTEGER/FLOAT promote
// to FLOAT, and any other mix or any incompatible pairing falls back
// to STRING. A column is REQUIRED iff no row supplied a null for it.
func InferSchema(columnNames []string, rows [][]any) model.TableSchema {
	kinds := make([]observedKind, len(columnNames))
	required := make([]bool, len(columnNames))
	for i := range required {
		required[i] = true
	}

	for _, row := range rows {
		for i, v := range row {
			if i >= len(kinds) {
				continue
			}
			if v == nil {
				required[i] = false
				continue
			}
			kinds[i] = promote(kinds[i], classify(v))
		}
	}

	fields := make([]model.Field, len(columnNames))
	for i, name := range columnNames {
		mode := model.ModeNullable
		if required[i] {
			mode = model.ModeRequired
		}
		fields[i] = model.Field{Name: name, Type: wireTypeFor(kinds[i]), Mode: mode}
	}
	return model.TableSchema{Fields: fields}
}

func classify(v any) observedKind {
	switch v.(type) {
	case bool:
		return obsBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return obsInteger
	case float32, float64:
		return obsFloat
	case time.Time:
		return obsDatetime
	case []byte:
		return obsBytes
	default:
		return obsString
	}
}

// promote combines the running kind for a column with a newly
// observed kind.
func promote(running, next observedKind) observedKind {
	if running == obsNone {
		return next
	}
	if running == next {
		return running
	}
	// INTEGER + FLOAT => FLOAT.
	if (running == obsInteger && next == obsFloat) || (running == obsFloat && next == obsInteger) {
		return obsFloat
	}
	// Anything else mixed => STRING.
	return obsString
}

func wireTypeFor(k observedKind) model.FieldType {
	switch k {
	case obsBoolean:
		return model.TypeBoolean
	case obsInteger:
		return model.TypeInteger
	case obsFloat:
		return model.TypeFloat
	case obsDatetime:
		return model.TypeTimestamp
	case obsDate:
		return model.TypeDate
	case obsBytes:
		return model.TypeBytes
	default:
		return model.TypeString
	}
}
