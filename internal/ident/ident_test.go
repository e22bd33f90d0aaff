package ident_test

import (
	"testing"

	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	cases := map[string]string{
		"`my-table`": "my-table",
		`"my-table"`: "my-table",
		"'my-table'": "my-table",
		"plain":      "plain",
		"a":          "a",
		"":           "",
	}
	for in, want := range cases {
		require.Equal(t, want, ident.Strip(in).Raw(), "input %q", in)
	}
}

func TestTableQualified(t *testing.T) {
	tbl := ident.NewTable("my-proj", "`d1`", "'t1'")
	require.Equal(t, `"my-proj"."d1"."t1"`, tbl.Qualified())
}

func TestSchemaQualifiedSkipsEmpty(t *testing.T) {
	s := ident.Schema{Project: "p"}
	require.Equal(t, `"p"`, s.Qualified())
}
