package udf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/translate"
)

func TestRegistryLookupReflectsBind(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("mul")
	require.False(t, ok)

	decl := &translate.UDFDecl{Name: "mul", Body: "return a * b;"}
	r.mu.Lock()
	r.byName["mul"] = decl
	r.mu.Unlock()

	got, ok := r.Lookup("mul")
	require.True(t, ok)
	require.Same(t, decl, got)
}

func TestEngineTypeInfoMapsKnownNames(t *testing.T) {
	info := engineTypeInfo("INT64")
	require.NotNil(t, info)
}

func TestEngineTypeInfoFallsBackToVarchar(t *testing.T) {
	info := engineTypeInfo("SOME_UNKNOWN_TYPE")
	require.NotNil(t, info)
}

func TestJoinCommaFormatsArgNames(t *testing.T) {
	require.Equal(t, "", joinComma(nil))
	require.Equal(t, "a", joinComma([]string{"a"}))
	require.Equal(t, "a, b, c", joinComma([]string{"a", "b", "c"}))
}
