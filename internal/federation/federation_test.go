package federation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/federation"
)

func TestConfigEnabled(t *testing.T) {
	require.False(t, federation.Config{}.Enabled())
	require.False(t, federation.Config{ConnectionID: "c1"}.Enabled())
	require.True(t, federation.Config{ConnectionID: "c1", SourceURI: "postgres://x"}.Enabled())
}

func TestResolveRejectsUnknownConnection(t *testing.T) {
	src := federation.New(federation.Config{ConnectionID: "proj.us.conn", SourceURI: "postgres://x"}, nil)
	_, err := src.Resolve(context.Background(), "other-connection")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.Of(err).Kind())
}

func TestResolveRejectsWhenDisabled(t *testing.T) {
	src := federation.New(federation.Config{}, nil)
	_, err := src.Resolve(context.Background(), "anything")
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidQuery, apperr.Of(err).Kind())
}
