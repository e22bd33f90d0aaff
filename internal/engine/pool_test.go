package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/engine"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/stopper"
)

func TestOpenInMemory(t *testing.T) {
	ctx := stopper.New(context.Background())
	defer ctx.Stop()

	pool, err := engine.Open(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, pool.DB())
}

func TestEnsureProjectAndDatasetIdempotent(t *testing.T) {
	ctx := stopper.New(context.Background())
	defer ctx.Stop()

	pool, err := engine.Open(ctx, "")
	require.NoError(t, err)

	project := ident.Strip("proj1")
	dataset := ident.Strip("ds1")

	require.NoError(t, pool.EnsureProject(ctx, project))
	require.NoError(t, pool.EnsureProject(ctx, project))
	require.NoError(t, pool.EnsureDataset(ctx, project, dataset))
	require.NoError(t, pool.EnsureDataset(ctx, project, dataset))

	row := pool.DB().QueryRowContext(ctx, `SELECT 1`)
	var got int
	require.NoError(t, row.Scan(&got))
	require.Equal(t, 1, got)
}

func TestDropDataset(t *testing.T) {
	ctx := stopper.New(context.Background())
	defer ctx.Stop()

	pool, err := engine.Open(ctx, "")
	require.NoError(t, err)

	project := ident.Strip("proj2")
	dataset := ident.Strip("ds2")
	require.NoError(t, pool.EnsureDataset(ctx, project, dataset))
	require.NoError(t, pool.DropDataset(ctx, project, dataset))
}
