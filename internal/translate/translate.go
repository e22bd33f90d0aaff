package translate

import (
	"context"
	"strings"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/metrics"
	"github.com/novucs/local-bigquery/internal/model"
)

// TableLister enumerates the tables of a (project, dataset) pair, for
// wildcard expansion. internal/catalog.Store satisfies this.
type TableLister interface {
	ListTableNames(ctx context.Context, project, dataset ident.Ident) ([]string, error)
}

// FederationResolver validates an EXTERNAL_QUERY connection id and
// returns the alias the federated catalog is attached under.
// internal/federation.Source satisfies this.
type FederationResolver interface {
	Resolve(ctx context.Context, connectionID string) (alias string, err error)
}

// StatementKind distinguishes a UDF declaration from everything else
// the translator hands back.
type StatementKind int

const (
	StmtQuery StatementKind = iota
	StmtUDF
)

// Statement is one translated statement out of a (possibly
// multi-statement) script.
type Statement struct {
	Kind           StatementKind
	SQL            string    // populated when Kind == StmtQuery
	UDF            *UDFDecl  // populated when Kind == StmtUDF
	ParamNames     []string  // names referenced in SQL, per spec §4.4 step 5
	UsesFederation bool
}

// Translator turns source-dialect SQL into target-dialect SQL the
// embedded engine can run, per spec §4.4.
type Translator struct {
	Tables     TableLister
	Federation FederationResolver
}

// New builds a Translator.
func New(tables TableLister, federation FederationResolver) *Translator {
	return &Translator{Tables: tables, Federation: federation}
}

// Translate splits sqlText into statements and rewrites each one:
// wildcard table expansion, EXTERNAL_QUERY federation, and parameter
// scoping. A CREATE FUNCTION ... LANGUAGE js statement is returned
// as-is for the caller to bind rather than execute.
func (t *Translator) Translate(ctx context.Context, sqlText string, defaultProject, defaultDataset ident.Ident, paramValues map[string]model.QueryParameterValue) ([]Statement, error) {
	tokens := Lex(sqlText)
	stmts := SplitStatements(tokens)
	if len(stmts) == 0 {
		metrics.TranslationFailures.WithLabelValues(defaultProject.Raw()).Inc()
		return nil, apperr.InvalidQuery("empty query")
	}

	out := make([]Statement, 0, len(stmts))
	for _, stmtTokens := range stmts {
		decl, ok, err := detectUDF(stmtTokens)
		if err != nil {
			metrics.TranslationFailures.WithLabelValues(defaultProject.Raw()).Inc()
			return nil, err
		}
		if ok {
			out = append(out, Statement{Kind: StmtUDF, UDF: decl})
			continue
		}

		sql, usesFederation, err := t.rewriteStatement(ctx, stmtTokens, defaultProject, defaultDataset, paramValues)
		if err != nil {
			metrics.TranslationFailures.WithLabelValues(defaultProject.Raw()).Inc()
			return nil, err
		}
		out = append(out, Statement{
			Kind:           StmtQuery,
			SQL:            sql,
			ParamNames:     referencedParamNames(sql),
			UsesFederation: usesFederation,
		})
	}
	return out, nil
}

// rewriteStatement applies the AST rewrite pass (spec §4.4 step 3) to
// one statement's tokens and emits the resulting SQL text.
func (t *Translator) rewriteStatement(ctx context.Context, tokens []Token, defaultProject, defaultDataset ident.Ident, paramValues map[string]model.QueryParameterValue) (string, bool, error) {
	replacements := map[int]replacement{}

	claimed, err := t.rewriteExternalQueries(ctx, tokens, paramValues, replacements)
	if err != nil {
		return "", false, err
	}

	if err := t.rewriteWildcardTables(ctx, tokens, defaultProject, defaultDataset, claimed, replacements); err != nil {
		return "", false, err
	}

	last := len(tokens) - 1
	for last >= 0 && tokens[last].Kind == TokEOF {
		last--
	}
	return emitRange(tokens, 0, last, replacements), len(claimed) > 0, nil
}

// referencedParamNames re-lexes the emitted SQL and returns the
// distinct named parameters it references, in first-seen order, per
// spec §4.4 step 5: only this subset is passed to execution.
func referencedParamNames(sql string) []string {
	seen := map[string]bool{}
	var names []string
	for _, tok := range Lex(sql) {
		if tok.Kind != TokParam || tok.Text == "?" {
			continue
		}
		name := strings.TrimPrefix(tok.Text, "@")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
