package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novucs/local-bigquery/internal/translate"
)

// Non-wildcard table references are emitted as written; the translator
// does not qualify them with a project or dataset.
func TestTranslateKeepsBareTableReferences(t *testing.T) {
	stmt, err := detect(t, "SELECT * FROM orders")
	assertSQLUnchangedExceptQuoting(t, err, stmt)
}

func assertSQLUnchangedExceptQuoting(t *testing.T, err error, stmt *translate.Statement) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, translate.StmtQuery, stmt.Kind)
	assert.Contains(t, stmt.SQL, "orders")
}

func TestTranslateRecordsReferencedParamNames(t *testing.T) {
	stmt, err := detect(t, "SELECT * FROM orders WHERE id = @id AND region = @region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.ElementsMatch(t, []string{"id", "region"}, stmt.ParamNames)
}
