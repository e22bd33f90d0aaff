package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/federation"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/query"
	"github.com/novucs/local-bigquery/internal/stopper"
	"github.com/novucs/local-bigquery/internal/translate"
	"github.com/novucs/local-bigquery/internal/udf"
)

func newExecutor(t *testing.T) (*query.Executor, *catalog.Store, ident.Ident) {
	t.Helper()
	ctx := stopper.New(context.Background())
	t.Cleanup(ctx.Stop)

	pool, err := engine.Open(ctx, "")
	require.NoError(t, err)

	store, err := catalog.Open(ctx, pool, catalog.Config{
		DefaultProject:  ident.Strip("default-project"),
		DefaultDataset:  ident.Strip("default_dataset"),
		InternalProject: ident.Strip("local_bigquery_internal"),
		InternalDataset: ident.Strip("meta"),
	})
	require.NoError(t, err)

	fed := federation.New(federation.Config{}, pool)
	translator := translate.New(store, fed)
	executor := query.New(pool, store, translator, udf.NewRegistry())
	return executor, store, ident.Strip("proj1")
}

func TestRunSimpleSelect(t *testing.T) {
	executor, store, project := newExecutor(t)
	ctx := context.Background()

	_, err := store.CreateDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{ProjectID: project.Raw(), DatasetID: "sales"},
	})
	require.NoError(t, err)

	result, err := executor.Run(ctx, project, ident.Strip("sales"), "SELECT 1 AS n", nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Schema.Fields, 1)
	require.Equal(t, "n", result.Schema.Fields[0].Name)
}

func TestRunFallsBackToDefaultDatasetWhenMissing(t *testing.T) {
	executor, _, project := newExecutor(t)
	ctx := context.Background()

	result, err := executor.Run(ctx, project, ident.Strip("does_not_exist"), "SELECT 1 AS n", nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
}

func TestRunBindsAndCallsJSUDF(t *testing.T) {
	executor, _, project := newExecutor(t)
	ctx := context.Background()

	sql := `CREATE TEMP FUNCTION mul(x FLOAT64, y FLOAT64) RETURNS FLOAT64 LANGUAGE js AS "return x*y;"; SELECT mul(3,15) AS r`
	result, err := executor.Run(ctx, project, ident.Strip("default_dataset"), sql, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Schema.Fields, 1)
	require.Equal(t, "r", result.Schema.Fields[0].Name)
}
