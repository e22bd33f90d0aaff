package translate

import (
	"strings"

	"github.com/novucs/local-bigquery/internal/apperr"
)

// UDFParam names one declared argument of a JS UDF.
type UDFParam struct {
	Name string
	Type string
}

// UDFDecl is the extracted shape of a `CREATE [TEMP] FUNCTION ...
// LANGUAGE js AS "..."` statement, per spec §4.5.
type UDFDecl struct {
	Name       string
	Temp       bool
	Params     []UDFParam
	ReturnType string
	Body       string
}

// at returns tokens[i], or a synthetic TokEOF if i runs past the end —
// every scan below reads one token past its last real check, and
// malformed input (an unterminated declaration) should fail cleanly
// rather than panic.
func at(tokens []Token, i int) Token {
	if i < 0 || i >= len(tokens) {
		return Token{Kind: TokEOF}
	}
	return tokens[i]
}

// detectUDF recognizes a JS UDF declaration at the start of a
// statement's token stream. It returns (nil, false, nil) for anything
// else, so callers can fall through to ordinary query handling.
func detectUDF(tokens []Token) (*UDFDecl, bool, error) {
	i := 0
	if !upperKeyword(at(tokens, i), "CREATE") {
		return nil, false, nil
	}
	i++

	temp := false
	if upperKeyword(at(tokens, i), "TEMP") || upperKeyword(at(tokens, i), "TEMPORARY") {
		temp = true
		i++
	}
	if !upperKeyword(at(tokens, i), "FUNCTION") {
		return nil, false, nil
	}
	i++

	if at(tokens, i).Kind != TokIdent {
		return nil, false, apperr.InvalidQuery("expected function name after CREATE FUNCTION")
	}
	name := at(tokens, i).Text
	i++

	if !(at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "(") {
		return nil, false, apperr.InvalidQuery("expected '(' in function declaration for %q", name)
	}
	i++

	var params []UDFParam
	for !(at(tokens, i).Kind == TokPunct && at(tokens, i).Text == ")") {
		if at(tokens, i).Kind == TokEOF {
			return nil, false, apperr.InvalidQuery("unterminated parameter list in function declaration for %q", name)
		}
		if at(tokens, i).Kind != TokIdent {
			return nil, false, apperr.InvalidQuery("expected parameter name in function declaration for %q", name)
		}
		pname := at(tokens, i).Text
		i++
		ptype, n := readTypeName(tokens, i)
		i = n
		params = append(params, UDFParam{Name: pname, Type: ptype})
		if at(tokens, i).Kind == TokPunct && at(tokens, i).Text == "," {
			i++
			continue
		}
	}
	i++ // consume ')'

	returnType := "STRING"
	if upperKeyword(at(tokens, i), "RETURNS") {
		i++
		rt, n := readTypeName(tokens, i)
		returnType = rt
		i = n
	}

	if !upperKeyword(at(tokens, i), "LANGUAGE") {
		return nil, false, apperr.InvalidQuery("expected LANGUAGE clause in function declaration for %q", name)
	}
	i++
	if !upperKeyword(at(tokens, i), "js") {
		return nil, false, apperr.NotImplemented("non-JavaScript UDF languages")
	}
	i++

	if !upperKeyword(at(tokens, i), "AS") {
		return nil, false, apperr.InvalidQuery("expected AS clause in function declaration for %q", name)
	}
	i++
	if at(tokens, i).Kind != TokString {
		return nil, false, apperr.InvalidQuery("expected a string literal function body for %q", name)
	}
	body := unquoteString(at(tokens, i).Text)

	return &UDFDecl{Name: name, Temp: temp, Params: params, ReturnType: returnType, Body: body}, true, nil
}

// readTypeName consumes a type name, which may be a simple identifier
// (INT64, STRING, ...) or ARRAY<...>; it returns the raw text and the
// next token index. Parenthesized type arguments such as NUMERIC(10, 2)
// are not consumed. An absent type yields STRING; an unrecognized name
// is returned as written.
func readTypeName(tokens []Token, i int) (string, int) {
	if at(tokens, i).Kind != TokIdent {
		return "STRING", i
	}
	var b strings.Builder
	b.WriteString(at(tokens, i).Text)
	isArray := upperKeyword(at(tokens, i), "ARRAY")
	i++
	if isArray && at(tokens, i).Kind == TokOp && at(tokens, i).Text == "<" {
		depth := 0
		for at(tokens, i).Kind != TokEOF {
			if at(tokens, i).Kind == TokOp && at(tokens, i).Text == "<" {
				depth++
			}
			if at(tokens, i).Kind == TokOp && at(tokens, i).Text == ">" {
				depth--
			}
			b.WriteString(at(tokens, i).Text)
			i++
			if depth == 0 {
				break
			}
		}
	}
	return b.String(), i
}

func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	inner := raw[1 : len(raw)-1]
	doubled := string(quote) + string(quote)
	return strings.ReplaceAll(inner, doubled, string(quote))
}
