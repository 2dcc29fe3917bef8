// Package mathexpr evaluates the arithmetic expressions found inside #{...}.
//
// Expressions are compiled as a one-line AWK program with every form of
// process, file and environment access disabled, so the grammar is AWK's
// numeric expression grammar: + - * / % ^, comparisons, && || !, the
// ternary operator and the functions sin, cos, atan2, exp, log, sqrt, int.
package mathexpr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benhoyt/goawk/interp"
	"github.com/benhoyt/goawk/parser"
)

// ErrInvalid is wrapped by every error Evaluate returns
var ErrInvalid = errors.New("invalid expression")

var functions = map[string]bool{
	"sin":   true,
	"cos":   true,
	"atan2": true,
	"exp":   true,
	"log":   true,
	"sqrt":  true,
	"int":   true,
}

// validate rejects anything that could escape the parenthesised expression or
// reach AWK features other than arithmetic
func validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("%w: empty", ErrInvalid)
	}
	if i := strings.IndexAny(expr, ";{}\"'$#\n\r`\\|"); i >= 0 {
		return fmt.Errorf("%w: unexpected %q", ErrInvalid, expr[i])
	}

	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced parentheses", ErrInvalid)
			}
		case isIdentStart(c):
			j := i + 1
			for j < len(expr) && (isIdentStart(expr[j]) || isDigit(expr[j])) {
				j++
			}
			name := expr[i:j]
			if !functions[name] {
				return fmt.Errorf("%w: unknown identifier %q", ErrInvalid, name)
			}
			i = j - 1
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unbalanced parentheses", ErrInvalid)
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Evaluate computes the numeric value of expr
func Evaluate(expr string) (float64, error) {
	if err := validate(expr); err != nil {
		return 0, err
	}

	src := fmt.Sprintf("BEGIN { printf \"%%.17g\", (%s) }", expr)
	prog, err := parser.ParseProgram([]byte(src), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var out bytes.Buffer
	config := &interp.Config{
		Stdin:        strings.NewReader(""),
		Output:       &out,
		Error:        io.Discard,
		Environ:      []string{},
		NoExec:       true,
		NoFileWrites: true,
		NoFileReads:  true,
	}
	if _, err := interp.ExecProgram(prog, config); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric result %q", ErrInvalid, out.String())
	}
	return value, nil
}

// Format renders a value the way #{} substitutes it: up to ten significant digits
func Format(value float64) string {
	return strconv.FormatFloat(value, 'g', 10, 64)
}
