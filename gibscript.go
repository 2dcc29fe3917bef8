// Package gibscript provides a console script interpreter, with cooperative
// frame-driven scheduling, that can be embedded in Go applications.
//
// This package re-exports the public API from the implementation in src/.
// For full documentation, see the implementation package.
//
// Basic usage:
//
//	gs := gibscript.New(&gibscript.Config{WarnUnknownCommand: true})
//	gs.InjectText(gibscript.StackConsole, "echo Hello, World!")
//	gs.RunUntilIdle(0, 0)
package gibscript

import (
	impl "github.com/phroun/gibscript/src"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// GibScript is the main interpreter instance.
type GibScript = impl.GibScript

// Config holds configuration options for the interpreter.
type Config = impl.Config

// Context is passed to command handlers during execution.
type Context = impl.Context

// Handler is the function signature for command handlers.
type Handler = impl.Handler

// Command is a registered command.
type Command = impl.Command

// Alias is a user-defined command.
type Alias = impl.Alias

// KeyBindings maps keys to command text run on the key-bound stack.
type KeyBindings = impl.KeyBindings

// Executor owns the stacks, registries and scheduler.
type Executor = impl.Executor

// =============================================================================
// COLLABORATORS
// =============================================================================

// Variables is the external variable store consulted after locals.
type Variables = impl.Variables

// Describer is implemented by variable stores that carry help text.
type Describer = impl.Describer

// FileSystem is the sandboxed file access used by exec and the file commands.
type FileSystem = impl.FileSystem

// Evaluator computes #{} expressions.
type Evaluator = impl.Evaluator

// =============================================================================
// STACKS AND BUFFERS
// =============================================================================

// StackID names a fixed root stack.
type StackID = impl.StackID

// Root stacks.
const (
	StackConsole = impl.StackConsole
	StackLegacy  = impl.StackLegacy
	StackPrivate = impl.StackPrivate
	StackKeybind = impl.StackKeybind
)

// Buffer is one execution frame.
type Buffer = impl.Buffer

// Locals is a buffer's variable table.
type Locals = impl.Locals

// Position is where a buffer stands in its cycle.
type Position = impl.Position

// Thread is a detached stack.
type Thread = impl.Thread

// InterpreterState tracks the active buffer and the current error.
type InterpreterState = impl.InterpreterState

// =============================================================================
// PARSING TYPES
// =============================================================================

// Statement is one tokenized line.
type Statement = impl.Statement

// Token is one argument of a statement.
type Token = impl.Token

// Delimiter is how a token was delimited.
type Delimiter = impl.Delimiter

// Delimiter kinds.
const (
	DelimBare  = impl.DelimBare
	DelimQuote = impl.DelimQuote
	DelimBrace = impl.DelimBrace
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ScriptError is an error raised by script execution.
type ScriptError = impl.ScriptError

// ErrorKind classifies script errors.
type ErrorKind = impl.ErrorKind

// Error kinds.
const (
	KindParse    = impl.KindParse
	KindEval     = impl.KindEval
	KindSemantic = impl.KindSemantic
)

// Error sentinels for errors.Is.
var (
	ErrParse         = impl.ErrParse
	ErrEval          = impl.ErrEval
	ErrSemantic      = impl.ErrSemantic
	ErrCommandExists = impl.ErrCommandExists
)

// Backtrace describes the most recent error.
type Backtrace = impl.Backtrace

// =============================================================================
// LOGGING
// =============================================================================

// Logger handles script output and diagnostics.
type Logger = impl.Logger

// LogLevel represents log severity.
type LogLevel = impl.LogLevel

// Log level constants.
const (
	LevelTrace  = impl.LevelTrace
	LevelInfo   = impl.LevelInfo
	LevelDebug  = impl.LevelDebug
	LevelNotice = impl.LevelNotice
	LevelWarn   = impl.LevelWarn
	LevelError  = impl.LevelError
	LevelFatal  = impl.LevelFatal
)

// LogCategory identifies the logging subsystem.
type LogCategory = impl.LogCategory

// Log category constants.
const (
	CatNone     = impl.CatNone
	CatParse    = impl.CatParse
	CatCommand  = impl.CatCommand
	CatVariable = impl.CatVariable
	CatArgument = impl.CatArgument
	CatIO       = impl.CatIO
	CatAlias    = impl.CatAlias
	CatThread   = impl.CatThread
	CatMath     = impl.CatMath
	CatFlow     = impl.CatFlow
	CatSystem   = impl.CatSystem
	CatUser     = impl.CatUser
)

// =============================================================================
// CONSTRUCTOR FUNCTIONS
// =============================================================================

// New creates a new interpreter with the standard library registered.
func New(config *Config) *GibScript {
	return impl.New(config)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return impl.DefaultConfig()
}

// NewLogger creates a logger.
func NewLogger(enabled bool) *Logger {
	return impl.NewLogger(enabled)
}

// AllLogCategories returns all available log categories.
func AllLogCategories() []LogCategory {
	return impl.AllLogCategories()
}

// =============================================================================
// PARSING FUNCTIONS
// =============================================================================

// Tokenize splits one statement into tokens.
func Tokenize(text string, legacy bool) (*Statement, error) {
	return impl.Tokenize(text, legacy)
}

// ExtractLine splits the first statement off text.
func ExtractLine(text string, legacy bool) (line, rest string) {
	return impl.ExtractLine(text, legacy)
}

// MatchDelimiter finds the delimiter closing the one at s[open].
func MatchDelimiter(s string, open int, legacy bool) int {
	return impl.MatchDelimiter(s, open, legacy)
}

// =============================================================================
// REPL AND TERMINAL
// =============================================================================

// REPL is the interactive console.
type REPL = impl.REPL

// REPLConfig configures the interactive console.
type REPLConfig = impl.REPLConfig

// NewREPL creates a console for an interpreter.
func NewREPL(gs *GibScript, config REPLConfig) *REPL {
	return impl.NewREPL(gs, config)
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return impl.IsTerminal()
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return impl.IsInteractive()
}

// OutputSupportsColor reports whether stdout takes ANSI color.
func OutputSupportsColor() bool {
	return impl.OutputSupportsColor()
}

// StderrSupportsColor reports whether stderr takes ANSI color.
func StderrSupportsColor() bool {
	return impl.StderrSupportsColor()
}
