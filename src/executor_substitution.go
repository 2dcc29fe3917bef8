package gibscript

import (
	"strconv"
	"strings"

	"github.com/phroun/gibscript/src/pkg/mathexpr"
)

// passResult is the outcome of running the pipeline over a token
type passResult int

const (
	passDone passResult = iota
	passSuspend
	passFailed
)

// specialChars is the <s> glyph table, applied character by character
var specialChars = [...][2]byte{
	{'f', 0x0D},
	{'[', 0x90},
	{']', 0x91},
	{'(', 0x80},
	{'=', 0x81},
	{')', 0x82},
	{'|', 0x83},
	{'<', 0x9D},
	{'-', 0x9E},
	{'>', 0x9F},
	{'.', 0x05},
	{'#', 0x0B},
	{'a', 0x7F},
	{'A', 0x8D},
	{'0', 0x92},
	{'1', 0x93},
	{'2', 0x94},
	{'3', 0x95},
	{'4', 0x96},
	{'5', 0x97},
	{'6', 0x98},
	{'7', 0x99},
	{'8', 0x9A},
	{'9', 0x9B},
}

// pipeline runs the substitution passes for one statement. The markup
// counters live here so a tag left open never leaks into another statement.
type pipeline struct {
	e *Executor
	b *Buffer

	shift   int
	special int
}

func (e *Executor) newPipeline(b *Buffer) *pipeline {
	return &pipeline{e: e, b: b}
}

// processToken runs every pass over tok in order. It may suspend in the
// embedded pass, in which case the token resumes from its cursor later.
func (p *pipeline) processToken(tok *Token) passResult {
	if !tok.started {
		tok.Processed = tok.Original
		tok.cursor = 0
		tok.started = true
	}

	if r := p.embedded(tok); r != passDone {
		return r
	}

	s, err := p.variables(tok.Processed)
	if err == nil {
		s, err = p.math(s)
	}
	if err != nil {
		p.e.fail(err)
		return passFailed
	}
	s = p.tags(s)
	tok.Processed = collapseEscapes(s)
	tok.State = TokenDone
	tok.started = false
	return passDone
}

// embedded expands ~{...} by running the braced text as a subroutine. The
// first visit spawns the child and suspends; the revisit splices the value.
func (p *pipeline) embedded(tok *Token) passResult {
	s := tok.Processed
	for i := tok.cursor; i < len(s); i++ {
		if s[i] != '~' || i+1 >= len(s) || s[i+1] != '{' || escaped(s, i) {
			continue
		}
		end := MatchDelimiter(s, i+1, false)
		if end < 0 {
			p.e.fail(newEvalError("Unmatched brace in embedded command expression."))
			return passFailed
		}

		fut := p.b.awaiting
		switch {
		case fut != nil && !fut.Ready():
			p.b.awaiting = nil
			p.e.fail(newSemanticError("Embedded command expression did not result in a return value."))
			return passFailed
		case fut != nil:
			value := EscapeChars(fut.Value(), "<#$\\")
			p.b.awaiting = nil
			s = s[:i] + value + s[end+1:]
			i += len(value) - 1
		default:
			child := p.e.arena.acquire(p.b.locals)
			child.embedded = true
			child.AddText(s[i+2 : end])
			p.e.pushSubroutine(p.b, child)
			p.b.awaiting = &Future{}
			tok.Processed = s
			tok.cursor = i
			p.e.logger.TraceCat(CatFlow, "embedded command %q suspends %q", s[i+2:end], tok.Original)
			return passSuspend
		}
	}
	tok.Processed = s
	tok.cursor = len(s)
	return passDone
}

// lookup resolves a name against the buffer's locals, then the external store
func (p *pipeline) lookup(name string) (string, bool) {
	if v, ok := p.b.locals.Get(name); ok {
		return v, true
	}
	if p.e.vars != nil {
		return p.e.vars.Get(name)
	}
	return "", false
}

// variables expands every unescaped $name and ${name} in s
func (p *pipeline) variables(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || escaped(s, i) {
			continue
		}
		var n int
		var err error
		s, n, err = p.variable(s, i)
		if err != nil {
			return s, err
		}
		i += n - 1
	}
	return s, nil
}

// variable expands the reference starting at s[start] and returns the new text
// and the length of the inserted value. Braced names may nest further
// references, and so may a bare $$name.
func (p *pipeline) variable(s string, start int) (string, int, error) {
	braces := 0
	if byteAt(s, start+1) == '{' {
		braces = 1
	}

	for i := start + 1 + braces; ; i++ {
		if i >= len(s) && braces == 1 {
			return s, 0, newEvalError("Unmatched brace in variable substitution expression.")
		}
		c := byteAt(s, i)
		if i < len(s) && escaped(s, i) {
			continue
		}

		if c == '$' && (braces == 1 || s[i-1] == '$') {
			var n int
			var err error
			s, n, err = p.variable(s, i)
			if err != nil {
				return s, 0, err
			}
			i += n - 1
			continue
		}

		if (braces == 1 && c == '}') || (braces == 0 && !isIdentByte(c)) {
			name := s[start+1+braces : i]
			s = s[:start] + s[i+braces:]

			value, _ := p.lookup(name)
			if byteAt(s, start) == '[' {
				var lo, hi int
				var err error
				s, lo, hi, err = p.index(s, start)
				if err != nil {
					return s, 0, err
				}
				value = sliceBytes(value, lo, hi)
			}
			value = EscapeChars(value, "<#\\")
			p.e.logger.TraceCat(CatVariable, "$%s -> %q", name, value)
			return s[:start] + value + s[start:], len(value), nil
		}
	}
}

// index removes the [a:b] or [a] suffix at s[start] and returns its bounds,
// ordered low to high
func (p *pipeline) index(s string, start int) (string, int, int, error) {
	end := MatchDelimiter(s, start, false)
	if end < 0 {
		return s, 0, 0, newEvalError("Unmatched bracket in index expression.")
	}
	expr := s[start+1 : end]
	s = s[:start] + s[end+1:]

	expr, err := p.variables(expr)
	if err == nil {
		expr, err = p.math(expr)
	}
	if err != nil {
		return s, 0, 0, err
	}

	lo := int(leadingInt(expr))
	hi := lo
	if sep := strings.IndexByte(expr, ':'); sep >= 0 {
		hi = int(leadingInt(expr[sep+1:]))
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return s, lo, hi, nil
}

// sliceBytes returns value[lo:hi] inclusive, clamped to the value's length
func sliceBytes(value string, lo, hi int) string {
	if lo < 0 || lo >= len(value) {
		return ""
	}
	if hi >= len(value) {
		return value[lo:]
	}
	return value[lo : hi+1]
}

// math replaces every unescaped #{expr} with its value
func (p *pipeline) math(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '#' || byteAt(s, i+1) != '{' || escaped(s, i) {
			continue
		}
		end := MatchDelimiter(s, i+1, false)
		if end < 0 {
			return s, newEvalError("Unmatched brace in math expression.")
		}
		expr := s[i+2 : end]
		v, err := p.e.config.Evaluator(expr)
		if err != nil {
			p.e.logger.DebugCat(CatMath, "evaluator rejected %q: %v", expr, err)
			return s, newEvalError("Math error: invalid expression %s", expr)
		}
		value := mathexpr.Format(v)
		s = s[:i] + value + s[end+1:]
		i += len(value) - 1
	}
	return s, nil
}

// tags strips markup tags and applies <b> (shift) and <s> (glyphs) to the
// characters between them. <i> suspends tag handling until its closer.
func (p *pipeline) tags(s string) string {
	if strings.IndexByte(s, '<') < 0 && p.shift == 0 && p.special == 0 {
		return s
	}
	b := []byte(s)
	ignore := 0

	for i := 0; i < len(b); i++ {
		if b[i] == '<' && !escaped(b, i) {
			n := 1
			for i+n < len(b) && (b[i+n] != '>' || escaped(b, i+n)) {
				n++
			}
			if i+n >= len(b) {
				return string(b)
			}
			closing := byteAt(b, i+1) == '/'
			name := byteAt(b, i+1)
			if closing {
				name = byteAt(b, i+2)
			}

			switch {
			case name == 'i':
				if ignore > 0 && !closing {
					continue
				}
				if closing {
					if ignore > 0 {
						ignore--
					}
				} else {
					ignore++
				}
			case ignore > 0:
				continue
			case name == 'b':
				p.shift = bump(p.shift, closing)
			case name == 's':
				p.special = bump(p.special, closing)
			}

			b = append(b[:i], b[i+n+1:]...)
			i--
			continue
		}

		if b[i] == '\\' && !escaped(b, i) {
			continue
		}
		if p.special > 0 {
			for _, pair := range specialChars {
				if b[i] == pair[0] {
					b[i] = pair[1]
				}
			}
		}
		if p.shift > 0 && b[i] < 128 {
			b[i] += 128
		}
	}
	return string(b)
}

// bump opens or closes one level of a markup counter, never going negative
func bump(n int, closing bool) int {
	if closing {
		if n > 0 {
			return n - 1
		}
		return 0
	}
	return n + 1
}

func byteAt[T ~string | ~[]byte](s T, i int) byte {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return 0
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// leadingInt parses an optionally signed decimal prefix of s, ignoring leading
// space and anything after the digits. It yields 0 when no digits are present.
func leadingInt(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	k := j
	for k < len(s) && s[k] >= '0' && s[k] <= '9' {
		k++
	}
	if k == j {
		return 0
	}
	n, err := strconv.ParseInt(s[i:k], 10, 64)
	if err != nil {
		if s[i] == '-' {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	return n
}

// leadingFloat parses the longest numeric prefix of s, yielding 0 when there is none
func leadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	for end := len(s); end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v
		}
	}
	return 0
}
