package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/catalog"
	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
	"github.com/novucs/local-bigquery/internal/stopper"
)

func newStore(t *testing.T) *catalog.Store {
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
	return store
}

func TestCreateAndGetDataset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")

	ds, err := store.CreateDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{DatasetID: "ds1"},
	})
	require.NoError(t, err)
	require.Equal(t, "proj1", ds.DatasetReference.ProjectID)
	require.Equal(t, "LOGICAL", string(ds.StorageBillingModel))

	got, err := store.GetDataset(ctx, project, ident.Strip("ds1"))
	require.NoError(t, err)
	require.Equal(t, ds.DatasetReference, got.DatasetReference)
}

func TestCreateDatasetDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")
	req := model.Dataset{DatasetReference: model.DatasetReference{DatasetID: "ds1"}}

	_, err := store.CreateDataset(ctx, project, req)
	require.NoError(t, err)

	_, err = store.CreateDataset(ctx, project, req)
	require.Error(t, err)
	require.Equal(t, apperr.KindAlreadyExists, apperr.Of(err).Kind())
}

func TestListDatasetsBackfillsSyntheticRecord(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")

	_, err := store.Pool().DB().ExecContext(ctx, `ATTACH IF NOT EXISTS ':memory:' AS "proj1"`)
	require.NoError(t, err)
	_, err = store.Pool().DB().ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS "proj1"."raw_ds"`)
	require.NoError(t, err)

	list, err := store.ListDatasets(ctx, project)
	require.NoError(t, err)

	var found bool
	for _, ds := range list {
		if ds.DatasetReference.DatasetID == "raw_ds" {
			found = true
			require.Equal(t, "US", ds.Location)
		}
	}
	require.True(t, found)
}

func TestPatchDatasetMergesFields(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")

	_, err := store.CreateDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{DatasetID: "ds1"},
	})
	require.NoError(t, err)

	friendly := "Friendly"
	patched, err := store.PatchDataset(ctx, project, ident.Strip("ds1"), model.Dataset{FriendlyName: &friendly})
	require.NoError(t, err)
	require.Equal(t, "Friendly", *patched.FriendlyName)
}

func TestCreateTableAndInsertAll(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")
	dataset := ident.Strip("ds1")

	_, err := store.CreateDataset(ctx, project, model.Dataset{
		DatasetReference: model.DatasetReference{DatasetID: "ds1"},
	})
	require.NoError(t, err)

	table := ident.NewTable("proj1", "ds1", "t1")
	schema := model.TableSchema{Fields: []model.Field{
		{Name: "a", Type: model.TypeInteger, Mode: model.ModeNullable},
		{Name: "b", Type: model.TypeString, Mode: model.ModeNullable},
	}}
	_, err = store.CreateTable(ctx, table, schema)
	require.NoError(t, err)

	err = store.InsertAll(ctx, table, []map[string]any{
		{"a": int64(1), "b": "hi"},
		{"a": int64(2)},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, store.Pool().DB().QueryRowContext(ctx, `SELECT count(*) FROM "proj1"."ds1"."t1"`).Scan(&count))
	require.Equal(t, 2, count)
}

func TestDeleteTableThenGetTableNotFound(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")
	_, err := store.CreateDataset(ctx, project, model.Dataset{DatasetReference: model.DatasetReference{DatasetID: "ds1"}})
	require.NoError(t, err)

	table := ident.NewTable("proj1", "ds1", "t1")
	_, err = store.CreateTable(ctx, table, model.TableSchema{Fields: []model.Field{{Name: "a", Type: model.TypeInteger}}})
	require.NoError(t, err)

	require.NoError(t, store.DeleteTable(ctx, table))
	_, err = store.GetTable(ctx, table)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.Of(err).Kind())
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := ident.Strip("proj1")

	job := model.Job{
		JobReference: model.JobReference{ProjectID: "proj1", JobID: "job1"},
		Status:       model.JobStatus{State: model.JobStateDone},
	}
	require.NoError(t, store.PutJob(ctx, project, job))

	err := store.PutJob(ctx, project, job)
	require.Error(t, err)
	require.Equal(t, apperr.KindAlreadyExists, apperr.Of(err).Kind())

	got, err := store.GetJob(ctx, project, "job1")
	require.NoError(t, err)
	require.Equal(t, "job1", got.JobReference.JobID)

	list, err := store.ListJobs(ctx, project)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.DeleteJob(ctx, project, "job1"))
	_, err = store.GetJob(ctx, project, "job1")
	require.Error(t, err)
}
