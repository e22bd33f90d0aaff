package bridge_test

import (
	"testing"

	"github.com/novucs/local-bigquery/internal/bridge"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestNamedParametersFillsPositional(t *testing.T) {
	in := []model.QueryParameter{
		{Name: "", ParameterType: model.QueryParameterType{Type: "STRING"}},
		{Name: "explicit", ParameterType: model.QueryParameterType{Type: "STRING"}},
		{Name: "", ParameterType: model.QueryParameterType{Type: "STRING"}},
	}
	out := bridge.NamedParameters(in)
	require.Equal(t, "param0", out[0].Name)
	require.Equal(t, "explicit", out[1].Name)
	require.Equal(t, "param2", out[2].Name)
}

func TestToEngineValueScalarCoercion(t *testing.T) {
	v, err := bridge.ToEngineValue(
		model.QueryParameterType{Type: "INT64"},
		model.QueryParameterValue{Value: strp("42")},
	)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	v, err = bridge.ToEngineValue(
		model.QueryParameterType{Type: "BOOL"},
		model.QueryParameterValue{Value: strp("true")},
	)
	require.NoError(t, err)
	require.Equal(t, true, v)

	_, err = bridge.ToEngineValue(
		model.QueryParameterType{Type: "INT64"},
		model.QueryParameterValue{Value: strp("not-a-number")},
	)
	require.Error(t, err)
}

func TestToEngineValueArray(t *testing.T) {
	pt := model.QueryParameterType{
		Type:      string(model.ParamTypeArray),
		ArrayType: &model.QueryParameterType{Type: "INT64"},
	}
	pv := model.QueryParameterValue{
		ArrayValues: []model.QueryParameterValue{
			{Value: strp("1")},
			{Value: strp("2")},
		},
	}
	v, err := bridge.ToEngineValue(pt, pv)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2)}, v)
}

func TestToEngineValueStructFillsMissingWithNil(t *testing.T) {
	pt := model.QueryParameterType{
		Type: string(model.ParamTypeStruct),
		StructTypes: []model.QueryParameterStructType{
			{Name: "a", Type: model.QueryParameterType{Type: "STRING"}},
			{Name: "b", Type: model.QueryParameterType{Type: "STRING"}},
		},
	}
	pv := model.QueryParameterValue{
		StructValues: map[string]model.QueryParameterValue{
			"a": {Value: strp("hi")},
		},
	}
	v, err := bridge.ToEngineValue(pt, pv)
	require.NoError(t, err)
	m := v.(map[string]any)
	require.Equal(t, "hi", m["a"])
	require.Nil(t, m["b"])
}

func TestToEngineParamsBuildsNamedMap(t *testing.T) {
	params := bridge.NamedParameters([]model.QueryParameter{
		{ParameterType: model.QueryParameterType{Type: "INT64"}, ParameterValue: model.QueryParameterValue{Value: strp("7")}},
	})
	m, err := bridge.ToEngineParams(params)
	require.NoError(t, err)
	require.Equal(t, int64(7), m["param0"])
}
