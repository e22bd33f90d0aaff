package bridge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/model"
)

// FieldFor builds the wire Field for a named column of the given
// engine type. jsonLogical marks a VARCHAR column whose logical type
// is JSON.
func FieldFor(name string, t EngineType, jsonLogical bool) (model.Field, error) {
	wireType, mode, nested, err := t.ToWireType(jsonLogical)
	if err != nil {
		return model.Field{}, err
	}
	return model.Field{Name: name, Type: wireType, Mode: mode, Fields: nested}, nil
}

// ToCellValue converts one engine-native value, of the given
// EngineType, into a wire CellValue, per the conversion rules of
// spec §4.2. A nil value always yields model.Null regardless of type.
func ToCellValue(v any, t EngineType, jsonLogical bool) (model.CellValue, error) {
	if v == nil {
		return model.Null, nil
	}
	switch t.Kind {
	case EngineInteger, EngineBigint, EngineSmallint, EngineTinyint:
		return model.Scalar(formatInteger(v)), nil
	case EngineFloat, EngineDouble, EngineDecimal:
		return model.Scalar(formatNumeric(v)), nil
	case EngineVarchar:
		s := fmt.Sprintf("%v", v)
		if jsonLogical {
			return jsonCellValue(s)
		}
		return model.Scalar(s), nil
	case EngineJSON:
		return jsonCellValue(fmt.Sprintf("%v", v))
	case EngineBlob:
		return model.Scalar(toBase64(v)), nil
	case EngineBoolean:
		b, _ := v.(bool)
		if b {
			return model.Scalar("true"), nil
		}
		return model.Scalar("false"), nil
	case EngineDate:
		return model.Scalar(formatDate(v)), nil
	case EngineTime:
		return model.Scalar(formatTimeOfDay(v)), nil
	case EngineTimestamp, EngineTimestampTZ:
		micros, err := ToMicroseconds(v)
		if err != nil {
			return model.CellValue{}, err
		}
		return model.Scalar(strconv.FormatInt(micros, 10)), nil
	case EngineList:
		if t.Elem == nil {
			return model.CellValue{}, apperr.InvalidQuery("list value missing element type")
		}
		items, err := toSlice(v)
		if err != nil {
			return model.CellValue{}, err
		}
		cells := make([]model.Cell, 0, len(items))
		for _, item := range items {
			cv, err := ToCellValue(item, *t.Elem, jsonLogical)
			if err != nil {
				return model.CellValue{}, err
			}
			cells = append(cells, model.Cell{V: cv})
		}
		return model.Array(cells), nil
	case EngineStruct, EngineMap:
		fieldsMap, err := toFieldMap(v)
		if err != nil {
			return model.CellValue{}, err
		}
		var row model.Row
		if len(t.Fields) > 0 {
			for _, f := range t.Fields {
				cv, err := ToCellValue(fieldsMap[f.Name], f.Type, false)
				if err != nil {
					return model.CellValue{}, err
				}
				row.F = append(row.F, model.Cell{V: cv})
			}
		} else {
			// No declared field order (e.g. a bare MAP): fall back to
			// sorted key order so output is at least deterministic.
			names := make([]string, 0, len(fieldsMap))
			for k := range fieldsMap {
				names = append(names, k)
			}
			sort.Strings(names)
			for _, name := range names {
				row.F = append(row.F, model.Cell{V: model.Scalar(fmt.Sprintf("%v", fieldsMap[name]))})
			}
		}
		return model.NestedRow(row), nil
	default:
		return model.CellValue{}, apperr.InvalidQuery("unsupported engine type kind %q for value conversion", t.Kind)
	}
}

func formatInteger(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int:
		return strconv.Itoa(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumeric(v any) string {
	switch n := v.(type) {
	case float64:
		return formatFloat(n)
	case float32:
		return formatFloat(float64(n))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toBase64(v any) string {
	switch b := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(b)
	case string:
		return base64.StdEncoding.EncodeToString([]byte(b))
	default:
		return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%v", v)))
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatTimeOfDay(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToMicroseconds converts a temporal engine value into an integer
// count of microseconds since the Unix epoch. Per spec §9(b), this is
// always an integer — never a "seconds * 1e6" float stringified with
// a trailing ".0".
func ToMicroseconds(v any) (int64, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Unix()*1_000_000 + int64(t.Nanosecond())/1_000, nil
	case int64:
		return t, nil
	default:
		return 0, apperr.InvalidQuery("cannot convert %T to a timestamp", v)
	}
}

func jsonCellValue(s string) (model.CellValue, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return model.CellValue{}, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid JSON value")
	}
	compact, err := json.Marshal(v)
	if err != nil {
		return model.CellValue{}, apperr.Wrap(apperr.KindInvalidQuery, err, "could not re-encode JSON value")
	}
	return model.Scalar(string(compact)), nil
}

func toSlice(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case []map[string]any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, nil
	default:
		return nil, apperr.InvalidQuery("expected a list value, got %T", v)
	}
}

func toFieldMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	default:
		return nil, apperr.InvalidQuery("expected a struct/map value, got %T", v)
	}
}
