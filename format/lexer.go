package format

import "strings"

// scanTokens runs a hand-written finite-state scan over content, per
// spec.md §4.5 / §9: it is not a parser - it only skips strings (including
// nested ${...} inside template literals) and comments, then looks for
// import/export as standalone identifiers (-> ESM) or require(/
// module.exports/exports. (-> CommonJS). If both kinds appear, ESM wins.
func scanTokens(content []byte) (Format, bool) {
	code := stripStringsAndComments(content)
	hasESM := containsWord(code, "import") || containsWord(code, "export")
	hasCJS := strings.Contains(code, "require(") ||
		strings.Contains(code, "module.exports") ||
		strings.Contains(code, "exports.")

	switch {
	case hasESM:
		return ESM, true
	case hasCJS:
		return CommonJS, true
	default:
		return Unknown, false
	}
}

// lexState is the scanner's finite state.
type lexState int

const (
	stateCode lexState = iota
	stateSingleQuote
	stateDoubleQuote
	stateTemplate
	stateTemplateExpr
	stateLineComment
	stateBlockComment
)

// stripStringsAndComments replaces string/template/comment contents with
// spaces, preserving overall byte positions and all non-string code
// (including template-literal ${...} expression bodies, which are code and
// may themselves contain import/export/require tokens).
func stripStringsAndComments(content []byte) string {
	var out strings.Builder
	out.Grow(len(content))

	type frame struct {
		state    lexState
		braceDep int // only meaningful for stateTemplateExpr: nested {} depth
	}
	var stack []frame
	cur := frame{state: stateCode}

	emit := func(b byte) { out.WriteByte(b) }
	blank := func(b byte) {
		if b == '\n' {
			out.WriteByte('\n')
		} else {
			out.WriteByte(' ')
		}
	}

	n := len(content)
	for i := 0; i < n; i++ {
		b := content[i]
		next := byte(0)
		if i+1 < n {
			next = content[i+1]
		}

		switch cur.state {
		case stateCode:
			switch {
			case b == '/' && next == '/':
				cur.state = stateLineComment
				blank(b)
			case b == '/' && next == '*':
				cur.state = stateBlockComment
				blank(b)
			case b == '\'':
				cur.state = stateSingleQuote
				blank(b)
			case b == '"':
				cur.state = stateDoubleQuote
				blank(b)
			case b == '`':
				cur.state = stateTemplate
				blank(b)
			case b == '{' && len(stack) > 0:
				stack[len(stack)-1].braceDep++
				emit(b)
			case b == '}' && len(stack) > 0:
				top := &stack[len(stack)-1]
				if top.braceDep == 0 {
					// End of a ${...} expression; return to the template.
					popped := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					cur = popped
					cur.state = stateTemplate
					blank(b)
				} else {
					top.braceDep--
					emit(b)
				}
			default:
				emit(b)
			}
		case stateSingleQuote:
			blank(b)
			if b == '\\' && next != 0 {
				i++
				blank(content[i])
				continue
			}
			if b == '\'' {
				cur.state = stateCode
			}
		case stateDoubleQuote:
			blank(b)
			if b == '\\' && next != 0 {
				i++
				blank(content[i])
				continue
			}
			if b == '"' {
				cur.state = stateCode
			}
		case stateTemplate:
			blank(b)
			if b == '\\' && next != 0 {
				i++
				blank(content[i])
				continue
			}
			if b == '`' {
				cur.state = stateCode
				continue
			}
			if b == '$' && next == '{' {
				stack = append(stack, cur)
				i++
				emit('{') // the expression body is live code
				cur = frame{state: stateCode}
			}
		case stateLineComment:
			blank(b)
			if b == '\n' {
				cur.state = stateCode
			}
		case stateBlockComment:
			blank(b)
			if b == '*' && next == '/' {
				i++
				blank(content[i])
				cur.state = stateCode
			}
		}
	}
	return out.String()
}

// containsWord reports whether word appears in code bounded by non-identifier
// characters on both sides (or string edges), so e.g. "exported" does not
// match "export".
func containsWord(code, word string) bool {
	start := 0
	for {
		idx := strings.Index(code[start:], word)
		if idx < 0 {
			return false
		}
		pos := start + idx
		before := byte(0)
		if pos > 0 {
			before = code[pos-1]
		}
		after := byte(0)
		if pos+len(word) < len(code) {
			after = code[pos+len(word)]
		}
		if !isIdentByte(before) && !isIdentByte(after) {
			return true
		}
		start = pos + 1
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
