package bridge

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/model"
)

// NamedParameters assigns the synthetic name param<i> to each
// positional (nameless) parameter, where i is its index in the whole
// list (named parameters count toward i), leaving named parameters
// untouched. It returns a new slice; the input is not mutated.
func NamedParameters(params []model.QueryParameter) []model.QueryParameter {
	out := make([]model.QueryParameter, len(params))
	for i, p := range params {
		if p.Name == "" {
			p.Name = fmt.Sprintf("param%d", i)
		}
		out[i] = p
	}
	return out
}

// ToEngineParams converts a wire parameter list (already passed
// through NamedParameters) into an engine-native parameter map keyed
// by name, per the coercion rules of spec §4.2.
func ToEngineParams(params []model.QueryParameter) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for _, p := range params {
		v, err := ToEngineValue(p.ParameterType, p.ParameterValue)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "parameter %q", p.Name)
		}
		out[p.Name] = v
	}
	return out, nil
}

// ToEngineValue walks one (type, value) pair of the wire parameter
// tree and produces the corresponding engine-native Go value.
func ToEngineValue(t model.QueryParameterType, v model.QueryParameterValue) (any, error) {
	switch t.Type {
	case string(model.ParamTypeArray):
		if t.ArrayType == nil {
			return nil, apperr.InvalidQuery("ARRAY parameter missing arrayType")
		}
		out := make([]any, 0, len(v.ArrayValues))
		for _, elem := range v.ArrayValues {
			ev, err := ToEngineValue(*t.ArrayType, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil

	case string(model.ParamTypeStruct):
		out := make(map[string]any, len(t.StructTypes))
		for _, field := range t.StructTypes {
			fv, found := v.StructValues[field.Name]
			if !found {
				out[field.Name] = nil
				continue
			}
			ev, err := ToEngineValue(field.Type, fv)
			if err != nil {
				return nil, err
			}
			out[field.Name] = ev
		}
		return out, nil

	case string(model.ParamTypeRange):
		if t.RangeElementType == nil {
			return nil, apperr.InvalidQuery("RANGE parameter missing rangeElementType")
		}
		if v.RangeValue == nil {
			return nil, apperr.InvalidQuery("RANGE parameter missing rangeValue")
		}
		rangeOut := make(map[string]any, 2)
		if v.RangeValue.Start != nil {
			sv, err := ToEngineValue(*t.RangeElementType, *v.RangeValue.Start)
			if err != nil {
				return nil, err
			}
			rangeOut["start"] = sv
		}
		if v.RangeValue.End != nil {
			ev, err := ToEngineValue(*t.RangeElementType, *v.RangeValue.End)
			if err != nil {
				return nil, err
			}
			rangeOut["end"] = ev
		}
		return rangeOut, nil

	default:
		return scalarEngineValue(t.Type, v.Value)
	}
}

func scalarEngineValue(scalarType string, value *string) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw := *value
	switch strings.ToUpper(scalarType) {
	case "INT64", "INTEGER":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid INT64 value %q", raw)
		}
		return n, nil
	case "FLOAT64", "FLOAT":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid FLOAT64 value %q", raw)
		}
		return f, nil
	case "NUMERIC", "BIGNUMERIC":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid %s value %q", scalarType, raw)
		}
		return f, nil
	case "BOOL", "BOOLEAN":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid BOOL value %q", raw)
		}
		return b, nil
	case "BYTES":
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid BYTES value %q", raw)
		}
		return b, nil
	case "DATE", "TIME", "DATETIME", "TIMESTAMP":
		t, err := parseTemporal(raw)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidQuery, err, "invalid %s value %q", scalarType, raw)
		}
		return t, nil
	default:
		// STRING, GEOGRAPHY, JSON and anything unrecognized pass
		// through as-is; the engine's own parser rejects it if the
		// literal can't be coerced.
		return raw, nil
	}
}

// temporalLayouts are tried in order; the second and third are the
// warehouse's canonical "%Y-%m-%d %H:%M:%S" with and without an
// offset. A literal with no offset parses as UTC.
var temporalLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

func parseTemporal(raw string) (time.Time, error) {
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if t.Location() == time.UTC && !strings.ContainsAny(raw, "Zz+") {
				return t, nil
			}
			return t, nil
		}
	}
	return time.Time{}, apperr.InvalidQuery("unrecognized temporal literal %q", raw)
}
