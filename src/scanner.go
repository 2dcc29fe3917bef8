package gibscript

import "strings"

// NotFound is returned by the delimiter scanner when no matching closer exists
const NotFound = -1

// delimKind tags one entry of the scanner's nesting stack
type delimKind uint8

const (
	kindBrace delimKind = iota
	kindBracket
	kindQuote
)

// escaped reports whether the byte at i is preceded by an odd run of backslashes
func escaped[T ~string | ~[]byte](s T, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n&1 == 1
}

// MatchDelimiter returns the index of the delimiter closing the one at s[open],
// which must be '{', '[' or '"'. Braces may contain quotes and braces, brackets
// may contain braces, quotes and brackets. Quotes never nest. When legacy is set
// a top-level quote ignores escapes. Returns NotFound on unterminated input.
func MatchDelimiter(s string, open int, legacy bool) int {
	if open < 0 || open >= len(s) {
		return NotFound
	}

	var stack []delimKind
	switch s[open] {
	case '{':
		stack = append(stack, kindBrace)
	case '[':
		stack = append(stack, kindBracket)
	case '"':
		stack = append(stack, kindQuote)
	default:
		return NotFound
	}

	for i := open + 1; i < len(s); i++ {
		top := stack[len(stack)-1]
		c := s[i]

		if top == kindQuote {
			if c != '"' {
				continue
			}
			// legacy only relaxes the outermost quote
			if !escaped(s, i) || (legacy && len(stack) == 1) {
				stack = stack[:len(stack)-1]
			}
		} else {
			if escaped(s, i) {
				continue
			}
			switch c {
			case '{':
				stack = append(stack, kindBrace)
			case '"':
				stack = append(stack, kindQuote)
			case '[':
				if top == kindBracket {
					stack = append(stack, kindBracket)
				}
			case '}':
				if top == kindBrace {
					stack = stack[:len(stack)-1]
				}
			case ']':
				if top == kindBracket {
					stack = stack[:len(stack)-1]
				}
			}
		}

		if len(stack) == 0 {
			return i
		}
	}
	return NotFound
}

// EscapeChars inserts a backslash before every unescaped byte of s found in chars
func EscapeChars(s, chars string) string {
	if !strings.ContainsAny(s, chars) {
		return s
	}
	var out strings.Builder
	out.Grow(len(s) + 8)
	pending := 0 // trailing backslashes already written
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(chars, c) >= 0 && pending&1 == 0 {
			out.WriteByte('\\')
			pending++
		}
		out.WriteByte(c)
		if c == '\\' {
			pending++
		} else {
			pending = 0
		}
	}
	return out.String()
}

// collapseEscapes removes every backslash, turning \n into a newline. A
// single-byte string is left alone.
func collapseEscapes(s string) string {
	if len(s) <= 1 || strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		if s[i] == 'n' {
			out.WriteByte('\n')
		} else {
			out.WriteByte(s[i])
		}
	}
	return out.String()
}
