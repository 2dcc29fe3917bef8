package gibscript

import (
	"io"
	"io/fs"
	"math/rand"
	"os"
	"time"

	"github.com/phroun/gibscript/src/pkg/cvars"
	"github.com/phroun/gibscript/src/pkg/mathexpr"
)

// StackID names one of the fixed root stacks
type StackID int

const (
	StackConsole StackID = iota // Interactive input
	StackLegacy                 // Legacy-syntax, restricted input
	StackPrivate                // Immediate execution (ExecuteString)
	StackKeybind                // Text queued by key bindings
)

func (s StackID) String() string {
	switch s {
	case StackConsole:
		return "console"
	case StackLegacy:
		return "legacy"
	case StackPrivate:
		return "private"
	case StackKeybind:
		return "keybind"
	}
	return "unknown"
}

// Variables is the external key/value store consulted after a buffer's locals
type Variables interface {
	Get(name string) (string, bool)
	Set(name, value string) error
}

// Describer is implemented by variable stores that carry help text
type Describer interface {
	Description(name string) (string, bool)
}

// Registrar is implemented by variable stores that create a variable with
// help text only when it is missing
type Registrar interface {
	Register(name, value, description string, flags cvars.Flags) (bool, error)
}

// FileSystem is the sandboxed file access used by exec and the file built-ins.
// Names are slash-separated and relative to the sandbox root.
type FileSystem interface {
	OpenFile(name string, flag int) (io.ReadWriteCloser, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Evaluator computes the value of a #{} expression
type Evaluator func(expr string) (float64, error)

// Handler is a function that handles a command. A non-nil error halts the
// stack that issued the command.
type Handler func(ctx *Context) error

// Command is a registered command
type Command struct {
	Name        string
	Handler     Handler
	Description string

	// Pure commands receive their arguments without substitution
	Pure bool
	// EvaluatesCondition commands are pure except for token 1, which is
	// always substituted, whatever its delimiter
	EvaluatesCondition bool

	alias bool
}

// Alias is a user-defined command that re-executes stored text
type Alias struct {
	Name       string
	Value      string
	Restricted bool
	Legacy     bool
}

// Config holds interpreter configuration
type Config struct {
	Debug              bool
	LogCategories      []LogCategory // diagnostics shown with Debug; empty means all
	WarnUnknownCommand bool
	MaxLoopIterations  int      // 0 = unbounded
	LegacyScripts      []string // exec'd in legacy mode

	Output    io.Writer
	ErrOutput io.Writer

	Variables  Variables
	FileSystem FileSystem
	Evaluator  Evaluator
	Clock      func() time.Time
	Rand       *rand.Rand
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		WarnUnknownCommand: true,
		MaxLoopIterations:  0,
		LegacyScripts:      []string{"quake.rc", "default.cfg", "config.cfg"},
		Output:             os.Stdout,
		ErrOutput:          os.Stderr,
		Evaluator:          mathexpr.Evaluate,
		Clock:              time.Now,
	}
}

// withDefaults fills every unset collaborator from DefaultConfig
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	cfg := *c
	if cfg.LegacyScripts == nil {
		cfg.LegacyScripts = def.LegacyScripts
	}
	if cfg.Output == nil {
		cfg.Output = def.Output
	}
	if cfg.ErrOutput == nil {
		cfg.ErrOutput = def.ErrOutput
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = def.Evaluator
	}
	if cfg.Clock == nil {
		cfg.Clock = def.Clock
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(cfg.Clock().UnixNano()))
	}
	return &cfg
}
