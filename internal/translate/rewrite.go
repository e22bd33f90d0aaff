package translate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/novucs/local-bigquery/internal/apperr"
	"github.com/novucs/local-bigquery/internal/ident"
	"github.com/novucs/local-bigquery/internal/model"
)

// rewriteWildcardTables expands every wildcard table reference found
// outside of spans already claimed by rewriteExternalQueries, per spec
// §4.4: enumerate matching tables, build one SELECT per match with a
// synthetic _TABLE_SUFFIX column, and UNION ALL them in lexical order.
func (t *Translator) rewriteWildcardTables(ctx context.Context, tokens []Token, defaultProject, defaultDataset ident.Ident, claimed [][2]int, replacements map[int]replacement) error {
	for _, ref := range findTableRefs(tokens) {
		if withinSpans(ref.Start, claimed) || !ref.isWildcard() {
			continue
		}

		project, dataset := ref.resolve(defaultProject, defaultDataset)
		prefix := strings.TrimSuffix(ref.Table.Raw(), "*")

		names, err := t.Tables.ListTableNames(ctx, project, dataset)
		if err != nil {
			return err
		}
		var matches []string
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				matches = append(matches, n)
			}
		}
		sort.Strings(matches)
		if len(matches) == 0 {
			return apperr.InvalidQuery("no tables match wildcard %q in %s.%s", ref.Table.Raw(), project.Raw(), dataset.Raw())
		}

		parts := make([]string, 0, len(matches))
		for _, name := range matches {
			qualified := ident.Join(project, dataset, ident.Ident(name))
			suffix := strings.TrimPrefix(name, prefix)
			parts = append(parts, fmt.Sprintf("SELECT *, %s AS _TABLE_SUFFIX FROM %s", quoteLiteral(suffix), qualified))
		}
		replacements[ref.Start] = replacement{
			Text: "(" + strings.Join(parts, " UNION ALL ") + ")",
			End:  ref.End,
		}
	}
	return nil
}

// rewriteExternalQueries finds every EXTERNAL_QUERY(connection_id,
// sql_text) [AS alias] call in tokens, validates the connection id
// against the configured federation source, rewrites the nested SQL
// onto the attached federated catalog, and records a whole-span
// replacement for each call. It returns the claimed spans so the
// wildcard pass can skip scanning inside them.
func (t *Translator) rewriteExternalQueries(ctx context.Context, tokens []Token, paramValues map[string]model.QueryParameterValue, replacements map[int]replacement) ([][2]int, error) {
	var spans [][2]int

	for i := 0; i < len(tokens); i++ {
		if !upperKeyword(tokens[i], "EXTERNAL_QUERY") {
			continue
		}
		if !(at(tokens, i+1).Kind == TokPunct && at(tokens, i+1).Text == "(") {
			continue
		}

		open := i + 1
		depth := 0
		j := open
		for ; j < len(tokens); j++ {
			if tokens[j].Kind == TokPunct && tokens[j].Text == "(" {
				depth++
			}
			if tokens[j].Kind == TokPunct && tokens[j].Text == ")" {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if depth != 0 {
			return nil, apperr.InvalidQuery("unterminated EXTERNAL_QUERY call")
		}
		closeParen := j

		args := splitTopLevelArgs(tokens[open+1 : closeParen])
		if len(args) != 2 {
			return nil, apperr.InvalidQuery("EXTERNAL_QUERY takes exactly two arguments, a connection id and a SQL string")
		}

		connID, err := resolveArgString(args[0], paramValues)
		if err != nil {
			return nil, err
		}
		sqlText, err := resolveArgString(args[1], paramValues)
		if err != nil {
			return nil, err
		}

		alias, err := t.Federation.Resolve(ctx, connID)
		if err != nil {
			return nil, err
		}

		rewritten, err := rewriteFederatedSQL(sqlText, alias)
		if err != nil {
			return nil, err
		}

		end := closeParen
		explicitAlias := ""
		if upperKeyword(at(tokens, closeParen+1), "AS") && at(tokens, closeParen+2).Kind == TokIdent {
			explicitAlias = at(tokens, closeParen+2).Text
			end = closeParen + 2
		} else if at(tokens, closeParen+1).Kind == TokIdent {
			explicitAlias = at(tokens, closeParen+1).Text
			end = closeParen + 1
		}

		text := "(" + rewritten + ")"
		if explicitAlias != "" {
			text += " AS " + explicitAlias
		}
		replacements[i] = replacement{Text: text, End: end}
		spans = append(spans, [2]int{i, end})
		i = end
	}

	return spans, nil
}

// rewriteFederatedSQL parses sqlText in the federated source's own
// dialect and qualifies every table reference that is not a CTE alias
// under the attached catalog's public schema.
func rewriteFederatedSQL(sqlText, alias string) (string, error) {
	nested := Lex(sqlText)
	ctes := findCTEAliases(nested)
	reps := map[int]replacement{}

	for _, ref := range findTableRefs(nested) {
		if ref.Project.Empty() && ref.Dataset.Empty() && ctes[strings.ToUpper(ref.Table.Raw())] {
			continue
		}
		qualified := ident.Join(ident.Ident(alias), ident.Ident("public"), ref.Table)
		reps[ref.Start] = replacement{Text: qualified, End: ref.End}
	}

	last := len(nested) - 1
	for last >= 0 && nested[last].Kind == TokEOF {
		last--
	}
	return emitRange(nested, 0, last, reps), nil
}

// findCTEAliases collects the names bound by a leading WITH clause, so
// rewriteFederatedSQL can leave references to them unqualified.
func findCTEAliases(tokens []Token) map[string]bool {
	names := map[string]bool{}
	if !upperKeyword(at(tokens, 0), "WITH") {
		return names
	}

	i := 1
	for at(tokens, i).Kind == TokIdent {
		names[strings.ToUpper(at(tokens, i).Text)] = true
		i++

		if at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "(" {
			i = skipParenGroup(tokens, i)
		}
		if !upperKeyword(at(tokens, i), "AS") {
			break
		}
		i++
		if !(at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "(") {
			break
		}
		i = skipParenGroup(tokens, i)

		if at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "," {
			i++
			continue
		}
		break
	}
	return names
}

// skipParenGroup returns the index just past the closing paren that
// matches the opening paren at tokens[i].
func skipParenGroup(tokens []Token, i int) int {
	depth := 0
	for at(tokens, i).Kind != TokEOF {
		if at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "(" {
			depth++
		}
		if at(tokens, i).Kind == TokPunct && at(tokens, i).Text == ")" {
			depth--
			i++
			if depth == 0 {
				return i
			}
			continue
		}
		i++
	}
	return i
}

// splitTopLevelArgs splits a parenthesized argument list's inner
// tokens on top-level commas.
func splitTopLevelArgs(tokens []Token) [][]Token {
	var args [][]Token
	depth := 0
	start := 0
	for i, tok := range tokens {
		switch {
		case tok.Kind == TokPunct && tok.Text == "(":
			depth++
		case tok.Kind == TokPunct && tok.Text == ")":
			depth--
		case tok.Kind == TokPunct && tok.Text == "," && depth == 0:
			args = append(args, tokens[start:i])
			start = i + 1
		}
	}
	args = append(args, tokens[start:])
	return args
}

// resolveArgString resolves a single EXTERNAL_QUERY argument, which
// must be exactly one string literal or one named parameter
// reference, to its string value.
func resolveArgString(tokens []Token, paramValues map[string]model.QueryParameterValue) (string, error) {
	if len(tokens) != 1 {
		return "", apperr.InvalidQuery("EXTERNAL_QUERY arguments must be a single string literal or parameter")
	}
	tok := tokens[0]
	switch tok.Kind {
	case TokString:
		return unquoteString(tok.Text), nil
	case TokParam:
		name := strings.TrimPrefix(tok.Text, "@")
		val, ok := paramValues[name]
		if !ok || val.Value == nil {
			return "", apperr.InvalidQuery("parameter %q has no value for EXTERNAL_QUERY", name)
		}
		return *val.Value, nil
	default:
		return "", apperr.InvalidQuery("EXTERNAL_QUERY arguments must be a string literal or parameter")
	}
}

func withinSpans(idx int, spans [][2]int) bool {
	for _, s := range spans {
		if idx >= s[0] && idx <= s[1] {
			return true
		}
	}
	return false
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
