package translate_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/translate"
)

type fakeTables struct {
	names map[string][]string // "project.dataset" -> table names
}

func (f *fakeTables) ListTableNames(_ context.Context, project, dataset ident.Ident) ([]string, error) {
	names := f.names[project.Raw()+"."+dataset.Raw()]
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return sorted, nil
}

type fakeFederation struct {
	connectionID string
	alias        string
}

func (f *fakeFederation) Resolve(_ context.Context, connectionID string) (string, error) {
	if connectionID != f.connectionID {
		return "", apperr.NotFound("unknown connection %q", connectionID)
	}
	return f.alias, nil
}

func TestTranslateExpandsWildcardTables(t *testing.T) {
	tables := &fakeTables{names: map[string][]string{
		"proj.events": {"events_20240101", "events_20240102", "other"},
	}}
	tr := translate.New(tables, &fakeFederation{})

	stmts, err := tr.Translate(context.Background(), "SELECT * FROM `proj.events.events_*`", "proj", "events", nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	sql := stmts[0].SQL
	assert.Contains(t, sql, "_TABLE_SUFFIX")
	assert.Contains(t, sql, "UNION ALL")
	assert.Contains(t, sql, "20240101")
	assert.Contains(t, sql, "20240102")
	assert.NotContains(t, sql, "'other'")
}

func TestTranslateWildcardWithSingleMatchSkipsUnion(t *testing.T) {
	tables := &fakeTables{names: map[string][]string{
		"proj.events": {"events_20240101"},
	}}
	tr := translate.New(tables, &fakeFederation{})

	stmts, err := tr.Translate(context.Background(), "SELECT * FROM `proj.events.events_*`", "proj", "events", nil)
	require.NoError(t, err)
	assert.NotContains(t, stmts[0].SQL, "UNION")
}

func TestTranslateWildcardNoMatchIsInvalidQuery(t *testing.T) {
	tables := &fakeTables{names: map[string][]string{}}
	tr := translate.New(tables, &fakeFederation{})

	_, err := tr.Translate(context.Background(), "SELECT * FROM `proj.events.events_*`", "proj", "events", nil)
	require.Error(t, err)
	var tagged *apperr.Error
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, apperr.KindInvalidQuery, tagged.Kind())
}

func TestTranslateRewritesExternalQuery(t *testing.T) {
	tr := translate.New(&fakeTables{}, &fakeFederation{connectionID: "conn1", alias: "fed"})

	sql := `SELECT * FROM EXTERNAL_QUERY('conn1', 'SELECT id FROM accounts') AS ext`
	stmts, err := tr.Translate(context.Background(), sql, "proj", "ds", nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.True(t, stmts[0].UsesFederation)
	assert.Contains(t, stmts[0].SQL, `"fed"."public"."accounts"`)
	assert.Contains(t, stmts[0].SQL, "AS ext")
}

func TestTranslateExternalQueryRejectsUnknownConnection(t *testing.T) {
	tr := translate.New(&fakeTables{}, &fakeFederation{connectionID: "conn1", alias: "fed"})

	sql := `SELECT * FROM EXTERNAL_QUERY('nope', 'SELECT id FROM accounts') AS ext`
	_, err := tr.Translate(context.Background(), sql, "proj", "ds", nil)
	require.Error(t, err)
	var tagged *apperr.Error
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, apperr.KindNotFound, tagged.Kind())
}

func TestTranslateExternalQueryLeavesCTEAliasesAlone(t *testing.T) {
	tr := translate.New(&fakeTables{}, &fakeFederation{connectionID: "conn1", alias: "fed"})

	sql := `SELECT * FROM EXTERNAL_QUERY('conn1', 'WITH recent AS (SELECT id FROM accounts) SELECT * FROM recent') AS ext`
	stmts, err := tr.Translate(context.Background(), sql, "proj", "ds", nil)
	require.NoError(t, err)
	assert.Contains(t, stmts[0].SQL, `"fed"."public"."accounts"`)
	assert.Contains(t, stmts[0].SQL, "FROM recent")
}

func TestTranslateExternalQueryResolvesParameterArgument(t *testing.T) {
	tr := translate.New(&fakeTables{}, &fakeFederation{connectionID: "conn1", alias: "fed"})

	connID := "conn1"
	params := map[string]model.QueryParameterValue{
		"conn": {Value: &connID},
	}
	sql := `SELECT * FROM EXTERNAL_QUERY(@conn, 'SELECT id FROM accounts') AS ext`
	stmts, err := tr.Translate(context.Background(), sql, "proj", "ds", params)
	require.NoError(t, err)
	assert.Contains(t, stmts[0].SQL, `"fed"."public"."accounts"`)
}
