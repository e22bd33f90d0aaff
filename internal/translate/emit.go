package translate

import "strings"

// replacement describes a token span [start, end] (inclusive) that
// should be rendered as Text instead of its original tokens.
type replacement struct {
	Text string
	End  int
}

// emitRange reconstructs tokens[start:end+1] into SQL text, substituting
// any span present in replacements (keyed by its start index) with its
// replacement text instead of the original tokens.
func emitRange(tokens []Token, start, end int, replacements map[int]replacement) string {
	var b strings.Builder
	prevText := ""
	for i := start; i <= end; i++ {
		if r, ok := replacements[i]; ok {
			appendSpaced(&b, &prevText, r.Text)
			i = r.End
			continue
		}
		tok := tokens[i]
		if tok.Kind == TokEOF {
			break
		}
		appendSpaced(&b, &prevText, tok.Text)
	}
	return b.String()
}

// appendSpaced writes next to b, inserting a single space before it
// unless doing so would be visually wrong (immediately after an open
// paren or dot, or immediately before a comma/close-paren/dot/
// semicolon).
func appendSpaced(b *strings.Builder, prevText *string, next string) {
	if *prevText != "" && needsSpace(*prevText, next) {
		b.WriteByte(' ')
	}
	b.WriteString(next)
	*prevText = next
}

func needsSpace(prev, next string) bool {
	if prev == "(" || prev == "." {
		return false
	}
	switch next {
	case ",", ")", ".", ";":
		return false
	}
	return true
}
