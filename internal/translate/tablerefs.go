package translate

import (
	"strings"

	"github.com/novucs/local-bigquery/internal/ident"
)

// tableRef is a recognized table reference span within a token
// stream, tokens[Start:End] inclusive of End. The rewrite passes
// replace wildcard references, and the references inside
// EXTERNAL_QUERY text, wholesale; every other reference is emitted as
// written, without qualification.
type tableRef struct {
	Project, Dataset, Table ident.Ident
	Start, End              int // token indices, inclusive
}

// findTableRefs scans tokens for table references: a single
// backtick-quoted dotted path (`project.dataset.table`, or a bare
// unqualified `table`) wherever it appears, or a bare dotted
// identifier chain following FROM, JOIN, UPDATE, or INTO. A CTE name
// that follows one of those keywords is returned like any table name;
// callers that must skip CTEs filter them with findCTEAliases.
func findTableRefs(tokens []Token) []tableRef {
	var refs []tableRef
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Kind == TokQuotedIdent {
			refs = append(refs, quotedTableRef(tok, i))
			continue
		}

		if upperKeyword(tok, "FROM") || upperKeyword(tok, "JOIN") || upperKeyword(tok, "UPDATE") || upperKeyword(tok, "INTO") {
			if ref, end, ok := bareTableRef(tokens, i+1); ok {
				refs = append(refs, ref)
				i = end
			}
		}
	}
	return refs
}

// quotedTableRef splits a backtick-quoted identifier on '.' into up to
// three path components, right-aligned as (project, dataset, table).
func quotedTableRef(tok Token, idx int) tableRef {
	inner := tok.Text
	if len(inner) >= 2 {
		inner = inner[1 : len(inner)-1]
	}
	parts := strings.Split(inner, ".")
	ref := tableRef{Start: idx, End: idx}
	switch len(parts) {
	case 1:
		ref.Table = ident.Strip(parts[0])
	case 2:
		ref.Dataset = ident.Strip(parts[0])
		ref.Table = ident.Strip(parts[1])
	default:
		ref.Project = ident.Strip(parts[0])
		ref.Dataset = ident.Strip(parts[1])
		ref.Table = ident.Strip(strings.Join(parts[2:], "."))
	}
	return ref
}

// bareTableRef reads a dotted chain of up to three plain identifiers
// starting at i (project.dataset.table, dataset.table, or table).
func bareTableRef(tokens []Token, i int) (tableRef, int, bool) {
	var idents []string
	j := i
	for {
		if at(tokens, j).Kind != TokIdent {
			break
		}
		idents = append(idents, at(tokens, j).Text)
		j++
		if at(tokens, j).Kind == TokPunct && at(tokens, j).Text == "." {
			j++
			continue
		}
		break
	}
	if len(idents) == 0 {
		return tableRef{}, i, false
	}

	ref := tableRef{Start: i, End: j - 1}
	switch len(idents) {
	case 1:
		ref.Table = ident.Ident(idents[0])
	case 2:
		ref.Dataset = ident.Ident(idents[0])
		ref.Table = ident.Ident(idents[1])
	default:
		ref.Project = ident.Ident(idents[0])
		ref.Dataset = ident.Ident(idents[1])
		ref.Table = ident.Ident(idents[len(idents)-1])
	}
	return ref, j - 1, true
}

// isWildcard reports whether the ref's table name is a wildcard
// pattern, per spec §4.4: ends with '*'.
func (r tableRef) isWildcard() bool {
	return strings.HasSuffix(r.Table.Raw(), "*")
}

// resolve fills in project/dataset from defaults when the reference
// omitted them.
func (r tableRef) resolve(defaultProject, defaultDataset ident.Ident) (project, dataset ident.Ident) {
	project = r.Project
	if project.Empty() {
		project = defaultProject
	}
	dataset = r.Dataset
	if dataset.Empty() {
		dataset = defaultDataset
	}
	return project, dataset
}
