package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/api"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/federation"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/jobs"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/query"
	"github.com/novucs/local-bigquery/internal/stopper"
	"github.com/novucs/local-bigquery/internal/translate"
	"github.com/novucs/local-bigquery/internal/udf"
)

func newService(t *testing.T) (*api.Service, ident.Ident) {
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
	manager := jobs.New(store, executor)
	return api.New(pool, store, manager), ident.Strip("proj1")
}

func TestServiceDatasetAndTableLifecycle(t *testing.T) {
	svc, project := newService(t)
	ctx := context.Background()

	ds, err := svc.InsertDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{ProjectID: project.Raw(), DatasetID: "sales"},
	})
	require.NoError(t, err)
	require.Equal(t, "sales", ds.DatasetReference.DatasetID)

	list, err := svc.ListDatasets(ctx, project)
	require.NoError(t, err)
	require.Len(t, list.Datasets, 1)

	table, err := svc.InsertTable(ctx, project, ident.Strip("sales"), "orders", model.TableSchema{
		Fields: []model.Field{{Name: "id", Type: model.TypeInteger, Mode: model.ModeRequired}},
	})
	require.NoError(t, err)
	require.Equal(t, "orders", table.TableReference.TableID)

	resp, err := svc.InsertAllRows(ctx, ident.NewTable(project.Raw(), "sales", "orders"), model.TableDataInsertAllRequest{
		Rows: []model.InsertAllRequestRow{{JSON: map[string]any{"id": 1}}},
	})
	require.NoError(t, err)
	require.Empty(t, resp.InsertErrors)

	require.NoError(t, svc.DeleteDataset(ctx, project, ident.Strip("sales")))
}

func TestServiceRunQueryAndFetchResults(t *testing.T) {
	svc, project := newService(t)
	ctx := context.Background()

	resp, err := svc.RunQuery(ctx, project, model.QueryRequest{Query: "SELECT 1 AS n"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	results, err := svc.GetQueryResults(ctx, project, resp.JobReference.JobID)
	require.NoError(t, err)
	require.True(t, results.JobComplete)
}

func TestServiceListProjectsReflectsAttachedProjects(t *testing.T) {
	svc, project := newService(t)
	ctx := context.Background()

	_, err := svc.InsertDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{ProjectID: project.Raw(), DatasetID: "sales"},
	})
	require.NoError(t, err)

	list, err := svc.ListProjects(ctx)
	require.NoError(t, err)

	var found bool
	for _, p := range list.Projects {
		if p.ID == project.Raw() {
			found = true
		}
	}
	require.True(t, found)
}
