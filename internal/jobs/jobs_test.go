package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

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

func newManager(t *testing.T) (*jobs.Manager, ident.Ident) {
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
	return jobs.New(store, executor), ident.Strip("proj1")
}

func TestSubmitQueryPersistsJobAndResults(t *testing.T) {
	manager, project := newManager(t)
	ctx := context.Background()

	job, err := manager.SubmitQuery(ctx, project, model.QueryRequest{Query: "SELECT 1 AS n"})
	require.NoError(t, err)
	require.Equal(t, model.JobStateDone, job.Status.State)
	require.NotEmpty(t, job.JobReference.JobID)

	got, err := manager.GetJob(ctx, project, job.JobReference.JobID)
	require.NoError(t, err)
	require.Equal(t, job.JobReference.JobID, got.JobReference.JobID)

	results, err := manager.GetQueryResults(ctx, project, job.JobReference.JobID)
	require.NoError(t, err)
	require.Equal(t, "1", results.TotalRows)
	require.True(t, results.JobComplete)
}

func TestGetJobNotFound(t *testing.T) {
	manager, project := newManager(t)
	_, err := manager.GetJob(context.Background(), project, "missing")
	require.Error(t, err)
}

func TestDeleteJobRemovesRecord(t *testing.T) {
	manager, project := newManager(t)
	ctx := context.Background()

	job, err := manager.SubmitQuery(ctx, project, model.QueryRequest{Query: "SELECT 1"})
	require.NoError(t, err)

	require.NoError(t, manager.DeleteJob(ctx, project, job.JobReference.JobID))
	_, err = manager.GetJob(ctx, project, job.JobReference.JobID)
	require.Error(t, err)
}
