package translate

// SplitStatements splits a token stream (as produced by Lex, including
// its trailing TokEOF) into one token slice per top-level statement,
// each without its terminating ';' or the trailing TokEOF. Empty
// statements (consecutive ';' or trailing whitespace) are dropped.
func SplitStatements(tokens []Token) [][]Token {
	var stmts [][]Token
	depth := 0
	start := 0

	for i, tok := range tokens {
		switch {
		case tok.Kind == TokPunct && tok.Text == "(":
			depth++
		case tok.Kind == TokPunct && tok.Text == ")":
			depth--
		case tok.Kind == TokPunct && tok.Text == ";" && depth == 0:
			if seg := tokens[start:i]; len(seg) > 0 {
				stmts = append(stmts, seg)
			}
			start = i + 1
		case tok.Kind == TokEOF:
			if seg := tokens[start:i]; len(seg) > 0 {
				stmts = append(stmts, seg)
			}
		}
	}
	return stmts
}
