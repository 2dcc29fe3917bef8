package gibscript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies script errors
type ErrorKind int

const (
	KindParse    ErrorKind = iota // Unmatched quote, brace or bracket
	KindEval                      // Math failure, unmatched brace in a substitution
	KindSemantic                  // Misused built-in, restriction, loop limit, missing return
)

// Sentinels matched by errors.Is against a *ScriptError of the same kind
var (
	ErrParse    = errors.New("parse error")
	ErrEval     = errors.New("evaluation error")
	ErrSemantic = errors.New("semantic error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindEval:
		return "eval"
	default:
		return "semantic"
	}
}

// ScriptError is an error raised while executing script text
type ScriptError struct {
	Kind    ErrorKind
	Message string
	Err     error // Underlying collaborator error, if any
}

func (e *ScriptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and any wrapped cause
func (e *ScriptError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindParse:
		sentinel = ErrParse
	case KindEval:
		sentinel = ErrEval
	default:
		sentinel = ErrSemantic
	}
	if e.Err != nil {
		return []error{sentinel, e.Err}
	}
	return []error{sentinel}
}

func newParseError(format string, args ...interface{}) *ScriptError {
	return &ScriptError{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func newEvalError(format string, args ...interface{}) *ScriptError {
	return &ScriptError{Kind: KindEval, Message: fmt.Sprintf(format, args...)}
}

func newSemanticError(format string, args ...interface{}) *ScriptError {
	return &ScriptError{Kind: KindSemantic, Message: fmt.Sprintf(format, args...)}
}

// Backtrace is the record of the most recent error and the statements that led to it
type Backtrace struct {
	Message string
	Frames  []string // Raw statements, innermost first
}

// String renders the backtrace in the console format
func (bt *Backtrace) String() string {
	if bt == nil || bt.Message == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(bt.Message)
	if !strings.HasSuffix(bt.Message, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("Path of execution:\n")
	for _, frame := range bt.Frames {
		fmt.Fprintf(&b, "--> %s\n", frame)
	}
	return b.String()
}
