package model_test

import (
	"encoding/json"
	"testing"

	"github.com/novucs/local-bigquery/internal/model"
	"github.com/stretchr/testify/require"
)

func TestCellUnsetOmitsV(t *testing.T) {
	data, err := json.Marshal(model.Cell{V: model.Unset})
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}

func TestCellScalarRoundTrip(t *testing.T) {
	c := model.Cell{V: model.Scalar("45")}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":"45"}`, string(data))

	var out model.Cell
	require.NoError(t, json.Unmarshal(data, &out))
	s, ok := out.V.AsScalar()
	require.True(t, ok)
	require.Equal(t, "45", s)
}

func TestCellArrayRoundTrip(t *testing.T) {
	c := model.Cell{V: model.Array([]model.Cell{
		{V: model.Scalar("1")},
		{V: model.Scalar("2")},
	})}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":["1","2"]}`, string(data))

	var out model.Cell
	require.NoError(t, json.Unmarshal(data, &out))
	arr, ok := out.V.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 2)
}

func TestCellNestedRowRoundTrip(t *testing.T) {
	inner := model.NewRow(model.Scalar("x"), model.Scalar("y"))
	c := model.Cell{V: model.NestedRow(inner)}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":{"f":[{"v":"x"},{"v":"y"}]}}`, string(data))

	var out model.Cell
	require.NoError(t, json.Unmarshal(data, &out))
	row, ok := out.V.AsRow()
	require.True(t, ok)
	require.Len(t, row.F, 2)
}

func TestRowMarshal(t *testing.T) {
	row := model.NewRow(model.Scalar("1"), model.Unset)
	data, err := json.Marshal(row)
	require.NoError(t, err)
	require.JSONEq(t, `{"f":[{"v":"1"},{}]}`, string(data))
}
