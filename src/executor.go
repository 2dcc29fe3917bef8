package gibscript

import (
	"strings"
	"sync"

	"github.com/phroun/gibscript/src/pkg/cvars"
)

const stackCount = int(StackKeybind) + 1

// Executor owns the buffer stacks, the registries and the scheduler
type Executor struct {
	mu       sync.RWMutex // guards commands and aliases
	commands map[string]*Command
	aliases  map[string]*Alias

	config *Config
	logger *Logger
	vars   Variables

	state   InterpreterState
	arena   arena
	roots   [stackCount]*Buffer
	threads threadList
	cmdline []string
}

// NewExecutor creates an executor with empty root stacks and no commands
func NewExecutor(config *Config, logger *Logger) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	e := &Executor{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Alias),
		config:   config,
		logger:   logger,
		vars:     config.Variables,
	}
	if e.vars == nil {
		store := cvars.NewMemoryStore()
		_ = cvars.RegisterDefaults(store)
		e.vars = store
	}
	for i := range e.roots {
		e.roots[i] = e.arena.acquire(nil)
	}
	e.roots[StackLegacy].legacy = true
	e.roots[StackLegacy].restricted = true
	e.seedTunables()
	return e
}

// State returns the interpreter state
func (e *Executor) State() *InterpreterState {
	return &e.state
}

// Root returns the root buffer of a fixed stack
func (e *Executor) Root(id StackID) *Buffer {
	if int(id) < 0 || int(id) >= stackCount {
		return nil
	}
	return e.roots[id]
}

// InjectText appends script text to a root stack
func (e *Executor) InjectText(id StackID, text string) bool {
	root := e.Root(id)
	if root == nil {
		return false
	}
	root.AddText(text)
	return true
}

// InsertText puts script text at the front of a root stack
func (e *Executor) InsertText(id StackID, text string) bool {
	root := e.Root(id)
	if root == nil {
		return false
	}
	root.InsertText(text)
	return true
}

// Frame runs one scheduler tick: every thread, then the key-bound, console
// and legacy stacks. The private stack only runs while a command left work on it.
func (e *Executor) Frame() {
	for _, t := range e.threads.snapshot() {
		if t.killed || t.root.empty() {
			e.reapThread(t)
			continue
		}
		e.executeStack(t.root)
	}

	for _, id := range []StackID{StackKeybind, StackConsole, StackLegacy, StackPrivate} {
		root := e.roots[id]
		if root.text != "" || root.next != nil || root.position != PosReady {
			e.executeStack(root)
		}
	}
}

// Idle reports that no stack or thread has pending work
func (e *Executor) Idle() bool {
	if len(e.threads.threads) > 0 {
		return false
	}
	for _, root := range e.roots {
		if !root.empty() {
			return false
		}
	}
	return true
}

// StackIdle reports that one root stack has nothing pending
func (e *Executor) StackIdle(id StackID) bool {
	root := e.Root(id)
	return root == nil || root.empty()
}

// ThreadIDs returns the ids of the detached stacks
func (e *Executor) ThreadIDs() []int64 {
	return e.threads.ids()
}

// BuffersInUse returns the number of live buffers, roots included
func (e *Executor) BuffersInUse() int {
	return e.arena.inUse()
}

// detach starts a new thread running text and ticks it once
func (e *Executor) detach(text string) *Thread {
	root := e.arena.acquire(nil)
	root.AddText(text)
	t := e.threads.add(root)
	e.logger.DebugCat(CatThread, "thread %d started", t.ID)

	e.executeStack(root)
	return t
}

// killThread stops a thread. Its stack is reaped on the next frame, so a
// thread may safely kill itself.
func (e *Executor) killThread(id int64) bool {
	t := e.threads.find(id)
	if t == nil || t.killed {
		return false
	}
	t.killed = true
	for b := t.root; b != nil; b = b.next {
		b.text = ""
		b.wait = true
		b.loop = 0
	}
	e.logger.DebugCat(CatThread, "thread %d killed", id)
	return true
}

func (e *Executor) reapThread(t *Thread) {
	e.arena.releaseChain(t.root)
	e.threads.remove(t)
	e.logger.DebugCat(CatThread, "thread %d finished", t.ID)
}

// ExecuteString tokenizes, substitutes and dispatches one statement at once
// on the private stack. Embedded commands cannot be resolved here since no
// frame will tick while the caller waits, so they are an error.
func (e *Executor) ExecuteString(text string) error {
	b := e.roots[StackPrivate]
	defer e.state.enter(b)()
	e.state.err = nil

	st, err := Tokenize(text, b.legacy)
	if err != nil {
		b.stmt = &Statement{Raw: text, Line: text}
		e.fail(err)
		e.state.err = nil
		return err
	}
	b.stmt = st

	switch e.process(b) {
	case passSuspend:
		e.arena.releaseChain(b.next)
		b.next = nil
		b.subroutine = false
		b.awaiting = nil
		err = newSemanticError("Embedded commands are not available in immediate execution.")
		e.fail(err)
	case passFailed:
		err = e.state.err
	default:
		e.executeParsed(b)
		err = e.state.err
	}
	b.position = PosReady
	b.subroutine = false
	if err != nil {
		e.arena.releaseChain(b.next)
		b.next = nil
	}
	e.state.err = nil
	return err
}

// ExecuteSets runs only the set and setrom lines queued on the console stack
// and discards the rest, so variables are in place before full startup
func (e *Executor) ExecuteSets() {
	root := e.roots[StackConsole]
	for root.text != "" {
		var line string
		line, root.text = ExtractLine(root.text, false)
		if isSetLine(line) {
			_ = e.ExecuteString(line)
		}
	}
}

// isSetLine reports whether line starts with set or setrom and a blank
func isSetLine(line string) bool {
	for _, kw := range []string{"set", "setrom"} {
		if len(line) > len(kw) && line[:len(kw)] == kw && isSpace(line[len(kw)]) {
			return true
		}
	}
	return false
}

// SetCommandLine records the host's arguments for stuffcmds and CheckParm
func (e *Executor) SetCommandLine(args []string) {
	e.cmdline = append([]string(nil), args...)
}

// StuffCmds puts every "+command args..." run of the command line in front of
// the console stack's pending text and reports whether there were any. A run
// ends at the next "+" or "-" argument.
func (e *Executor) StuffCmds() bool {
	var lines []string
	inCommand := false
	for _, arg := range e.cmdline {
		switch {
		case strings.HasPrefix(arg, "+"):
			lines = append(lines, arg[1:])
			inCommand = true
		case strings.HasPrefix(arg, "-"):
			inCommand = false
		case inCommand:
			lines[len(lines)-1] += " " + arg
		}
	}
	if len(lines) == 0 {
		return false
	}
	e.roots[StackConsole].InsertText(strings.Join(lines, "\n"))
	return true
}

// CheckParm returns the index of name among the command line arguments, or 0
func (e *Executor) CheckParm(name string) int {
	for i, arg := range e.cmdline {
		if arg == name {
			return i + 1
		}
	}
	return 0
}
