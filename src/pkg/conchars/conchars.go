// Package conchars converts console character-set text for UTF-8 terminals.
//
// Script markup produces bytes outside ASCII: <b> sets the high bit of each
// character (the alternate "shifted" font) and <s> maps some characters onto
// glyphs in the control range. Terminals would print these as garbage, so the
// CLI passes output through a Writer that maps the glyphs to Unicode and shows
// shifted text in color.
package conchars

import (
	"io"
	"strings"
	"unicode/utf8"
)

// glyphs maps the low seven bits of a console byte to a printable rune
var glyphs = map[byte]rune{
	0x00: '(', // scroll bar
	0x01: '=',
	0x02: ')',
	0x03: '|',
	0x05: '•', // white dot
	0x0B: '█', // white block
	0x0E: '•',
	0x10: '[', // gold braces
	0x11: ']',
	0x1C: '•',
	0x1D: '<', // vertical line
	0x1E: '-',
	0x1F: '>',
	0x7F: '←', // white arrow
}

const (
	shiftOn  = "\x1b[33m"
	shiftOff = "\x1b[0m"
)

// decode returns the display rune for one console byte and whether it was shifted
func decode(c byte) (rune, bool) {
	shifted := c >= 0x80
	base := c & 0x7F
	if !shifted && (base == '\n' || base == '\t' || base == '\r') {
		return rune(base), false
	}
	if base >= 0x12 && base <= 0x1B {
		return rune('0' + base - 0x12), shifted // golden numbers
	}
	if base == 0x0D {
		if shifted {
			return '►', true // brown arrow
		}
		return '\r', false
	}
	if r, ok := glyphs[base]; ok {
		return r, shifted
	}
	if base < 0x20 {
		return '·', shifted
	}
	return rune(base), shifted
}

// Translate converts console text to plain UTF-8. Valid multi-byte UTF-8
// sequences pass through untouched.
func Translate(s string) string {
	var b strings.Builder
	translate(&b, []byte(s), false)
	return b.String()
}

func translate(b *strings.Builder, p []byte, color bool) {
	inShift := false
	for i := 0; i < len(p); {
		if p[i] >= 0x80 {
			if r, size := utf8.DecodeRune(p[i:]); r != utf8.RuneError && size > 1 {
				if inShift {
					b.WriteString(shiftOff)
					inShift = false
				}
				b.Write(p[i : i+size])
				i += size
				continue
			}
		}
		r, shifted := decode(p[i])
		if color && shifted != inShift {
			if shifted {
				b.WriteString(shiftOn)
			} else {
				b.WriteString(shiftOff)
			}
			inShift = shifted
		}
		b.WriteRune(r)
		i++
	}
	if inShift {
		b.WriteString(shiftOff)
	}
}

// Writer translates everything written through it
type Writer struct {
	w     io.Writer
	color bool
}

// NewWriter wraps w. With color set, shifted text is rendered in yellow.
func NewWriter(w io.Writer, color bool) *Writer {
	return &Writer{w: w, color: color}
}

// Write translates p and writes it to the underlying writer. It reports len(p)
// on success since the translated form differs in length.
func (cw *Writer) Write(p []byte) (int, error) {
	var b strings.Builder
	translate(&b, p, cw.color)
	if _, err := io.WriteString(cw.w, b.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}
