package bridge_test

import (
	"testing"

	"github.com/novucs/local-bigquery/internal/bridge"
	"github.com/stretchr/testify/require"
)

func TestFillMissingFieldsUnionsKeysInFirstSeenOrder(t *testing.T) {
	rows := []map[string]any{
		{"a": 1, "b": 2},
		{"b": 3, "c": 4},
	}
	keys, filled := bridge.FillMissingFields(rows)
	require.Equal(t, []string{"a", "b", "c"}, keys)
	require.Equal(t, map[string]any{"a": 1, "b": 2, "c": nil}, filled[0])
	require.Equal(t, map[string]any{"a": nil, "b": 3, "c": 4}, filled[1])
}

func TestFillMissingFieldsEmptyInput(t *testing.T) {
	keys, filled := bridge.FillMissingFields(nil)
	require.Empty(t, keys)
	require.Empty(t, filled)
}
