package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novucs/local-bigquery/internal/translate"
)

func TestLexTokenizesBasicSelect(t *testing.T) {
	toks := translate.Lex("SELECT a, b FROM `proj.ds.tbl` WHERE x = @name")
	var kinds []translate.TokenKind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	require.Equal(t, translate.TokEOF, kinds[len(kinds)-1])
	assert.Contains(t, texts, "SELECT")
	assert.Contains(t, texts, "`proj.ds.tbl`")
	assert.Contains(t, texts, "@name")
}

func TestLexHandlesQuotedStringsAndComments(t *testing.T) {
	toks := translate.Lex("SELECT 'it''s fine' -- a comment\nFROM t")
	var found bool
	for _, tok := range toks {
		assert.NotContains(t, tok.Text, "comment")
		if tok.Kind == translate.TokString && tok.Text == "'it''s fine'" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLexClassifiesOperators(t *testing.T) {
	toks := translate.Lex("a <= b AND c != d")
	var ops []string
	for _, tok := range toks {
		if tok.Kind == translate.TokOp {
			ops = append(ops, tok.Text)
		}
	}
	assert.Contains(t, ops, "<=")
	assert.Contains(t, ops, "!=")
}
