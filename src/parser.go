package gibscript

import "strings"

// Delimiter is the kind of delimiter that surrounded a token
type Delimiter uint8

const (
	DelimBare  Delimiter = iota // Whitespace-terminated word
	DelimQuote                  // "..." - substitution applies
	DelimBrace                  // {...} - verbatim
)

func (d Delimiter) String() string {
	switch d {
	case DelimQuote:
		return "quote"
	case DelimBrace:
		return "brace"
	default:
		return "bare"
	}
}

// openWidth is the number of bytes the opening delimiter occupies in the raw statement
func (d Delimiter) openWidth() int {
	if d == DelimBare {
		return 0
	}
	return 1
}

// TokenState tracks a token through the substitution pipeline
type TokenState uint8

const (
	TokenOriginal TokenState = iota // Verbatim, never substituted
	TokenPending                    // Needs substitution
	TokenDone                       // Substitution complete
)

// Token is one argument of a statement
type Token struct {
	Original  string
	Processed string
	Delim     Delimiter
	State     TokenState

	// Offset is where the token (including its opening delimiter) starts in the raw statement
	Offset int

	// lineOffset is the same position in the composite line
	lineOffset int
	// cursor is where the embedded-command pass resumes after a suspension
	cursor  int
	started bool
}

// Text returns the processed text once substitution is complete, else the original
func (t *Token) Text() string {
	if t.State == TokenDone {
		return t.Processed
	}
	return t.Original
}

// Statement is one tokenized logical line
type Statement struct {
	Raw    string // Text as extracted, before substitution
	Line   string // Composite text with substituted tokens spliced back in
	Tokens []*Token
	Legacy bool
}

// Argc returns the number of tokens
func (st *Statement) Argc() int {
	if st == nil {
		return 0
	}
	return len(st.Tokens)
}

// Rebuild splices every substituted token back into the raw text to form the composite line
func (st *Statement) Rebuild() string {
	var b strings.Builder
	b.Grow(len(st.Raw))
	last, adj := 0, 0
	for _, tok := range st.Tokens {
		tok.lineOffset = tok.Offset + adj
		if tok.State == TokenOriginal {
			continue
		}
		pos := tok.Offset + tok.Delim.openWidth()
		b.WriteString(st.Raw[last:pos])
		b.WriteString(tok.Processed)
		last = pos + len(tok.Original)
		adj += len(tok.Processed) - len(tok.Original)
	}
	b.WriteString(st.Raw[last:])
	st.Line = b.String()
	return st.Line
}

// isSpace matches the C locale's whitespace class
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ExtractLine splits the first logical statement off text. Statements end at an
// unescaped ';', newline or carriage return outside double quotes; outside legacy
// mode they also may not end inside an open brace. "//" comments are removed up to
// the end of the line and escaped newlines are joined.
func ExtractLine(text string, legacy bool) (line, rest string) {
	s := text
	quoted := false
	braces := 0
	i := 0

scan:
	for ; i < len(s); i++ {
		if !escaped(s, i) {
			switch {
			case s[i] == '"':
				quoted = !quoted
			case s[i] == ';' && !quoted && braces == 0:
				break scan
			case !legacy && s[i] == '{' && !quoted:
				braces++
			case !legacy && s[i] == '}' && !quoted:
				braces--
			}
		}

		if s[i] == '/' && i+1 < len(s) && s[i+1] == '/' && !quoted {
			n := strings.IndexByte(s[i:], '\n')
			if n < 0 {
				n = strings.IndexByte(s[i:], '\r')
			}
			if n < 0 {
				n = len(s) - i
			}
			s = s[:i] + s[i+n:]
			i--
			continue
		}
		if (s[i] == '\n' || s[i] == '\r') && braces == 0 {
			if !escaped(s, i) {
				break
			}
			s = s[:i-1] + s[i+1:]
			i -= 2
		}
	}

	line = s[:i]
	if i < len(s) {
		rest = s[i+1:]
	}
	return line, rest
}

// tokenLength measures the token starting at s[i]. For quoted and braced tokens
// it is the offset of the closing delimiter; for bare words it is the byte length.
func tokenLength(s string, i int, legacy bool) int {
	if !legacy {
		switch s[i] {
		case '{':
			return closerOffset(s, i, false)
		case '}':
			return NotFound
		}
	}
	if s[i] == '"' {
		return closerOffset(s, i, legacy)
	}

	j := i
	for ; j < len(s); j++ {
		if isSpace(s[j]) {
			break
		}
		if !legacy && escaped(s, j) {
			continue
		}
		switch {
		case s[j] == '{' && !legacy, s[j] == '"':
			m := MatchDelimiter(s, j, legacy)
			if m < 0 {
				return NotFound
			}
			j = m
		case s[j] == '}' && !legacy:
			return NotFound
		}
	}
	return j - i
}

func closerOffset(s string, open int, legacy bool) int {
	m := MatchDelimiter(s, open, legacy)
	if m < 0 {
		return NotFound
	}
	return m - open
}

// Tokenize splits one statement into tokens. A leading '|' forces legacy mode.
// On an unmatched delimiter it returns a parse error and no tokens.
func Tokenize(text string, legacy bool) (*Statement, error) {
	st := &Statement{Raw: text, Line: text}
	i := 0
	if strings.HasPrefix(text, "|") {
		legacy = true
		i = 1
	}
	st.Legacy = legacy

	for i < len(text) {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i >= len(text) {
			break
		}
		n := tokenLength(text, i, legacy)
		if n < 0 {
			return nil, newParseError("Parse error: Unmatched quotes, braces, or double quotes")
		}
		if n == 0 {
			break
		}

		tok := &Token{Offset: i, lineOffset: i, Delim: DelimBare}
		skip := 0
		end := i + n
		switch {
		case text[i] == '"' && end < len(text) && text[end] == '"':
			tok.Delim = DelimQuote
		case !legacy && text[i] == '{' && end < len(text) && text[end] == '}':
			tok.Delim = DelimBrace
		}
		if tok.Delim != DelimBare {
			i++
			n--
			skip = 1
		}

		tok.Original = text[i : i+n]
		tok.Processed = tok.Original
		if !legacy && tok.Delim != DelimBrace {
			tok.State = TokenPending
		}
		st.Tokens = append(st.Tokens, tok)
		i += n + skip
	}
	return st, nil
}
