package translate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/translate"
)

func detect(t *testing.T, sql string) (*translate.Statement, error) {
	t.Helper()
	tr := translate.New(nil, nil)
	stmts, err := tr.Translate(context.Background(), sql, "", "", nil)
	if err != nil {
		return nil, err
	}
	require.Len(t, stmts, 1)
	return &stmts[0], nil
}

func TestTranslateRecognizesJSUDF(t *testing.T) {
	stmt, err := detect(t, `CREATE TEMP FUNCTION double_it(x INT64) RETURNS INT64 LANGUAGE js AS "return x * 2;"`)
	require.NoError(t, err)
	require.Equal(t, translate.StmtUDF, stmt.Kind)
	assert.Equal(t, "double_it", stmt.UDF.Name)
	assert.True(t, stmt.UDF.Temp)
	require.Len(t, stmt.UDF.Params, 1)
	assert.Equal(t, "x", stmt.UDF.Params[0].Name)
	assert.Equal(t, "INT64", stmt.UDF.Params[0].Type)
	assert.Equal(t, "INT64", stmt.UDF.ReturnType)
	assert.Equal(t, "return x * 2;", stmt.UDF.Body)
}

func TestTranslateRejectsNonJSLanguage(t *testing.T) {
	_, err := detect(t, `CREATE FUNCTION f(x INT64) RETURNS INT64 LANGUAGE python AS "x"`)
	require.Error(t, err)
	var tagged *apperr.Error
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, apperr.KindNotImplemented, tagged.Kind())
}
