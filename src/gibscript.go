package gibscript

import (
	"sync"
	"time"
)

// GibScript is the main interpreter. Its methods are safe to call from
// several goroutines; command handlers must use their Context instead.
type GibScript struct {
	mu       sync.Mutex
	config   *Config
	logger   *Logger
	executor *Executor
	keys     *KeyBindings
}

// New creates an interpreter with the standard library registered
func New(config *Config) *GibScript {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	logger := NewLogger(config.Debug)
	logger.SetOutput(config.Output, config.ErrOutput)
	if config.Debug {
		if len(config.LogCategories) == 0 {
			logger.EnableAllCategories()
		}
		for _, cat := range config.LogCategories {
			logger.EnableCategory(cat)
		}
	}

	gs := &GibScript{
		config:   config,
		logger:   logger,
		executor: NewExecutor(config, logger),
		keys:     newKeyBindings(),
	}
	gs.RegisterStandardLibrary()
	return gs
}

// RegisterCommand registers a command handler
func (gs *GibScript) RegisterCommand(name string, handler Handler, description string) error {
	return gs.RegisterCommandDef(&Command{Name: name, Handler: handler, Description: description})
}

// RegisterCommandDef registers a fully described command
func (gs *GibScript) RegisterCommandDef(cmd *Command) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.RegisterCommand(cmd)
}

// InjectText queues script text on a root stack
func (gs *GibScript) InjectText(stack StackID, text string) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.InjectText(stack, text)
}

// ExecuteString runs one statement immediately
func (gs *GibScript) ExecuteString(text string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.ExecuteString(text)
}

// ExecuteSets applies the queued set and setrom lines ahead of everything else
func (gs *GibScript) ExecuteSets() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.executor.ExecuteSets()
}

// Frame runs one scheduler tick
func (gs *GibScript) Frame() {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.executor.Frame()
}

// Idle reports that nothing is left to run
func (gs *GibScript) Idle() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.Idle()
}

// StackIdle reports that one root stack has nothing pending
func (gs *GibScript) StackIdle(id StackID) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.StackIdle(id)
}

// RunUntilIdle ticks frames every interval until idle or until maxFrames
// have run (0 = no limit). It returns the number of frames run.
func (gs *GibScript) RunUntilIdle(interval time.Duration, maxFrames int) int {
	frames := 0
	for !gs.Idle() {
		if maxFrames > 0 && frames >= maxFrames {
			break
		}
		gs.Frame()
		frames++
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	return frames
}

// SetCommandLine records host arguments for stuffcmds and CheckParm
func (gs *GibScript) SetCommandLine(args []string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.executor.SetCommandLine(args)
}

// StuffCmds queues the +commands of the command line
func (gs *GibScript) StuffCmds() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.StuffCmds()
}

// LoadCommandLine records the host's arguments, applies the set and setrom
// lines among their +commands at once, then queues every +command to run
// ahead of whatever the console stack receives next
func (gs *GibScript) LoadCommandLine(args []string) {
	gs.SetCommandLine(args)
	if gs.StuffCmds() {
		gs.ExecuteSets()
		gs.StuffCmds()
	}
}

// CheckParm locates a command line argument
func (gs *GibScript) CheckParm(name string) int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.CheckParm(name)
}

// Complete returns the completions of a partial command name
func (gs *GibScript) Complete(partial string) []string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.CompleteBuildList(partial)
}

// DefineAlias creates or replaces an alias
func (gs *GibScript) DefineAlias(name, value string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.executor.DefineAlias(name, value, false, false)
}

// LastError returns the most recent script error
func (gs *GibScript) LastError() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.state.LastError()
}

// Backtrace returns the description of the most recent script error
func (gs *GibScript) Backtrace() Backtrace {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.executor.state.Backtrace()
}

// Executor returns the underlying executor. Callers must not use it
// concurrently with the GibScript methods.
func (gs *GibScript) Executor() *Executor {
	return gs.executor
}

// KeyBindings returns the key binding table. Callers must not use it
// concurrently with the GibScript methods.
func (gs *GibScript) KeyBindings() *KeyBindings {
	return gs.keys
}

// Logger returns the interpreter's logger
func (gs *GibScript) Logger() *Logger {
	return gs.logger
}

// GetConfig returns the active configuration
func (gs *GibScript) GetConfig() *Config {
	return gs.config
}
