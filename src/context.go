package gibscript

import "time"

// Context is passed to command handlers
type Context struct {
	Command *Command

	e  *Executor
	b  *Buffer
	st *Statement
}

// Argc returns the number of tokens, the command name included
func (c *Context) Argc() int {
	return c.st.Argc()
}

// Argv returns token i after substitution, or "" when out of range
func (c *Context) Argv(i int) string {
	if i < 0 || i >= c.st.Argc() {
		return ""
	}
	return c.st.Tokens[i].Text()
}

// Argu returns token i as written, or "" when out of range
func (c *Context) Argu(i int) string {
	if i < 0 || i >= c.st.Argc() {
		return ""
	}
	return c.st.Tokens[i].Original
}

// Args returns the substituted statement from token start onwards, delimiters included
func (c *Context) Args(start int) string {
	if start < 0 || start >= c.st.Argc() {
		return ""
	}
	return c.st.Line[c.st.Tokens[start].lineOffset:]
}

// Argsu returns the statement as written from token start onwards
func (c *Context) Argsu(start int) string {
	if start < 0 || start >= c.st.Argc() {
		return ""
	}
	return c.st.Raw[c.st.Tokens[start].Offset:]
}

// Delimiter returns how token i was delimited
func (c *Context) Delimiter(i int) Delimiter {
	if i < 0 || i >= c.st.Argc() {
		return DelimBare
	}
	return c.st.Tokens[i].Delim
}

// Buffer returns the buffer running the command
func (c *Context) Buffer() *Buffer { return c.b }

// Restricted reports whether the running buffer may not use file and thread commands
func (c *Context) Restricted() bool { return c.b.restricted }

// Legacy reports whether the running buffer uses legacy syntax
func (c *Context) Legacy() bool { return c.b.legacy }

// Logger returns the interpreter's logger
func (c *Context) Logger() *Logger { return c.e.logger }

// Variables returns the external variable store
func (c *Context) Variables() Variables { return c.e.vars }

// Print writes script output
func (c *Context) Print(s string) {
	c.e.logger.Print(s)
}

// Printf writes formatted script output
func (c *Context) Printf(format string, args ...interface{}) {
	c.e.logger.Printf(format, args...)
}

// LogError logs a command error under the running command's name
func (c *Context) LogError(cat LogCategory, message string) {
	name := ""
	if c.Command != nil {
		name = c.Command.Name
	}
	c.e.logger.CommandError(cat, name, message)
}

// Local returns a variable from the running buffer's table
func (c *Context) Local(name string) (string, bool) {
	return c.b.locals.Get(name)
}

// SetLocal sets a variable in the running buffer's table
func (c *Context) SetLocal(name, value string) {
	c.b.locals.Set(name, value)
}

// InsertText runs text next in the current buffer
func (c *Context) InsertText(text string) {
	c.b.InsertText(text)
}

// Return hands value to the embedded-command expression waiting on this
// buffer. If nothing is waiting the value is dropped.
func (c *Context) Return(value string) {
	c.e.deliverReturn(c.b, value)
}

// Call runs text as a subroutine of the current buffer. With shareLocals the
// child sees and changes the caller's variables.
func (c *Context) Call(text string, shareLocals bool) *Buffer {
	var locals *Locals
	if shareLocals {
		locals = c.b.locals
	}
	child := c.e.arena.acquire(locals)
	child.AddText(text)
	c.e.pushSubroutine(c.b, child)
	return child
}

// Wait stops the whole stack until the next frame
func (c *Context) Wait() {
	for b := c.b; b != nil; b = b.prev {
		b.wait = true
	}
}

// Sleep suspends the current buffer for d of wall-clock time
func (c *Context) Sleep(d time.Duration) {
	c.b.timeLeft = d
	c.b.lastTime = c.e.config.Clock()
	c.Wait()
}

// Retry dispatches the current statement again next frame instead of advancing
func (c *Context) Retry() {
	c.b.again = true
	c.Wait()
}

// Now returns the configured clock's time
func (c *Context) Now() time.Time {
	return c.e.config.Clock()
}
