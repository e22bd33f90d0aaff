package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/translate"
)

func TestSplitStatementsTopLevelOnly(t *testing.T) {
	sql := "SELECT 1; SELECT foo(1, 2); SELECT 3"
	stmts := translate.SplitStatements(translate.Lex(sql))
	require.Len(t, stmts, 3)
	assert.Equal(t, "SELECT", stmts[0][0].Text)
	assert.Equal(t, "SELECT", stmts[1][0].Text)
	assert.Equal(t, "SELECT", stmts[2][0].Text)
}

func TestSplitStatementsDropsEmptySegments(t *testing.T) {
	sql := "SELECT 1;;  ;SELECT 2;"
	stmts := translate.SplitStatements(translate.Lex(sql))
	require.Len(t, stmts, 2)
}

func TestSplitStatementsIgnoresSemicolonInsideStringLiteral(t *testing.T) {
	sql := "CREATE FUNCTION f() RETURNS INT64 LANGUAGE js AS \"return 1;\""
	stmts := translate.SplitStatements(translate.Lex(sql))
	require.Len(t, stmts, 1)
}
