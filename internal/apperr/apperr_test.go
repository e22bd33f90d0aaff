package apperr_test

import (
	"testing"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTaggedErrorStatus(t *testing.T) {
	err := apperr.NotFound("dataset %q not found", "d1")
	require.Equal(t, 404, err.HTTPStatus())
	require.Equal(t, "notFound", err.Reason())
}

func TestReclassifiesEngineMessages(t *testing.T) {
	cases := []struct {
		msg  string
		kind apperr.Kind
	}{
		{"table X does not exist", apperr.KindNotFound},
		{"relation \"y\" not found", apperr.KindNotFound},
		{"schema z already exists", apperr.KindAlreadyExists},
		{"syntax error near SELECT", apperr.KindInvalidQuery},
	}
	for _, c := range cases {
		got := apperr.Of(errors.New(c.msg))
		require.Equal(t, c.kind, got.Kind(), c.msg)
	}
}

func TestEnvelopeShape(t *testing.T) {
	env, status := apperr.ToEnvelope(apperr.AlreadyExists("dataset %q exists", "d1"))
	require.Equal(t, 409, status)
	require.Equal(t, 409, env.Error.Code)
	require.Equal(t, "duplicate", env.Error.Errors[0].Reason)
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := apperr.Wrap(apperr.KindInternal, cause, "context")
	require.ErrorIs(t, wrapped, cause)
}
