package gibscript

import (
	"strconv"
	"strings"
)

// executeBuffer drives one buffer through ready → tokenized → processed → ready
// until it runs dry, suspends, waits, calls a subroutine or fails
func (e *Executor) executeBuffer(b *Buffer) {
	if b.timeLeft > 0 {
		now := e.config.Clock()
		b.timeLeft -= now.Sub(b.lastTime)
		b.lastTime = now
		if b.timeLeft > 0 {
			return
		}
		b.timeLeft = 0
	}

	defer e.state.enter(b)()
	b.wait = false
	b.again = false

	for {
		if b.text == "" && b.position == PosReady {
			if !b.isLoop() {
				break
			}
			if limit := e.maxLoop(); limit > 0 && b.loop > limit {
				e.fail(newSemanticError("Loop lasted longer than %d iterations, forcefully terminating.", limit))
				break
			}
			b.InsertText(b.loopText)
			b.loop++
		}

		if b.position == PosReady {
			var line string
			line, b.text = ExtractLine(b.text, b.legacy)
			if line == "" {
				continue
			}
			st, err := Tokenize(line, b.legacy)
			if err != nil {
				b.stmt = &Statement{Raw: line, Line: line}
				e.fail(err)
				break
			}
			b.stmt = st
			b.position = PosTokenized
		}

		if b.position == PosTokenized {
			if r := e.process(b); r != passDone {
				break
			}
			b.position = PosProcessed
		}

		if b.position == PosProcessed {
			e.executeParsed(b)
			if e.state.err != nil || b.again {
				break
			}
			b.position = PosReady
			if b.wait || b.subroutine {
				break
			}
		}
	}
}

// executeStack runs a stack from its innermost frame down to the root. A
// child linked during the walk is run next; a frame that finishes is popped.
func (e *Executor) executeStack(root *Buffer) {
	e.state.err = nil

	cur := root
	for cur.next != nil {
		cur = cur.next
	}

	for cur != nil {
		prev := cur.prev
		e.executeBuffer(cur)
		if e.state.err != nil || cur.wait {
			break
		}
		if cur.subroutine {
			cur.subroutine = false
			cur = cur.next
			continue
		}
		if cur != root {
			prev.next = nil
			e.arena.release(cur)
		}
		cur = prev
	}

	if e.state.err != nil {
		e.arena.releaseChain(root.next)
		root.next = nil
		root.text = ""
		root.position = PosReady
		root.subroutine = false
		root.awaiting = nil
		root.stmt = nil
		e.state.err = nil
	}
}

// process runs the substitution pipeline over the current statement
func (e *Executor) process(b *Buffer) passResult {
	st := b.stmt
	if b.legacy || st.Legacy || st.Argc() == 0 {
		return passDone
	}

	p := e.newPipeline(b)
	cmd := e.lookupCommand(st.Tokens[0].Original)
	switch {
	case cmd != nil && cmd.EvaluatesCondition:
		if st.Argc() > 1 && st.Tokens[1].State != TokenDone {
			if r := p.processToken(st.Tokens[1]); r != passDone {
				return r
			}
		}
	case cmd != nil && cmd.Pure:
		return passDone
	default:
		for _, tok := range st.Tokens {
			if tok.State != TokenPending {
				continue
			}
			if r := p.processToken(tok); r != passDone {
				return r
			}
		}
	}
	st.Rebuild()
	return passDone
}

// executeParsed dispatches the processed statement: a registered command,
// then an external variable, then "name = value" for a local, else a notice
func (e *Executor) executeParsed(b *Buffer) {
	st := b.stmt
	if st.Argc() == 0 {
		return
	}
	ctx := &Context{e: e, b: b, st: st}
	name := ctx.Argv(0)

	if cmd := e.lookupCommand(name); cmd != nil {
		ctx.Command = cmd
		e.logger.TraceCat(CatCommand, "dispatch %s (%d args)", cmd.Name, st.Argc()-1)
		if err := cmd.Handler(ctx); err != nil {
			e.fail(err)
		}
		return
	}

	if e.variableCommand(ctx) {
		return
	}

	if st.Argc() == 3 && ctx.Argv(1) == "=" {
		b.locals.Set(name, ctx.Argv(2))
		return
	}

	if e.warnUnknown() {
		msg := "Unknown command \"" + name + "\""
		if hint := e.suggestCommand(name); hint != "" {
			msg += ", did you mean \"" + hint + "\"?"
		}
		e.logger.WarnCat(CatCommand, "%s", msg)
	}
}

// variableCommand shows or sets an external variable named by the first token
func (e *Executor) variableCommand(ctx *Context) bool {
	name := ctx.Argv(0)
	value, ok := e.vars.Get(name)
	if !ok {
		return false
	}
	if ctx.Argc() == 1 {
		e.logger.Printf("\"%s\" is \"%s\"\n", name, value)
		return true
	}
	if err := e.vars.Set(name, ctx.Argv(1)); err != nil {
		e.logger.WarnCat(CatVariable, "%s: %v", name, err)
	}
	return true
}

// pushSubroutine links child after parent, replacing any stale chain, and
// marks the parent so the stack walk descends into the child next
func (e *Executor) pushSubroutine(parent, child *Buffer) {
	if parent.next != nil {
		e.arena.releaseChain(parent.next)
	}
	parent.next = child
	child.prev = parent
	parent.subroutine = true
	if parent.restricted {
		child.restricted = true
	}
}

// deliverReturn resolves the future the caller of b is waiting on, if any
func (e *Executor) deliverReturn(b *Buffer, value string) {
	if p := b.prev; p != nil && p.awaiting != nil && !p.awaiting.Ready() {
		p.awaiting.resolve(value)
		return
	}
	e.logger.DebugCat(CatFlow, "Return value \"%s\" was unwanted.", value)
}

// fail halts the current stack with err and records the backtrace
func (e *Executor) fail(err error) {
	if !e.state.fail(err) {
		return
	}
	e.logger.DebugCat(CatSystem, "%v", err)
	e.logger.Print("GIB: Error in execution. Type backtrace for a description and execution path to the error\n")
}

// warnUnknown reads cmd_warncmd, falling back to the configured default
func (e *Executor) warnUnknown() bool {
	if v, ok := e.vars.Get("cmd_warncmd"); ok {
		return leadingInt(v) != 0
	}
	return e.config.WarnUnknownCommand
}

// maxLoop reads cmd_maxloop, falling back to the configured default
func (e *Executor) maxLoop() int {
	if v, ok := e.vars.Get("cmd_maxloop"); ok {
		return int(leadingInt(v))
	}
	return e.config.MaxLoopIterations
}

// tunables are the store variables that mirror Config fields
var tunables = []struct {
	name, description string
}{
	{"cmd_warncmd", "Toggles the display of error messages for unknown commands"},
	{"cmd_maxloop", "Controls the maximum number of iterations a loop can do before being forcefully terminated.  0 is infinite."},
}

// seedTunables mirrors the configured tunables into the external store. A
// value the store already holds, e.g. one persisted with seta, is kept.
func (e *Executor) seedTunables() {
	warn := "0"
	if e.config.WarnUnknownCommand {
		warn = "1"
	}
	values := map[string]string{
		"cmd_warncmd": warn,
		"cmd_maxloop": strconv.Itoa(e.config.MaxLoopIterations),
	}
	for _, t := range tunables {
		var err error
		if r, ok := e.vars.(Registrar); ok {
			_, err = r.Register(t.name, values[t.name], t.description, 0)
		} else if _, exists := e.vars.Get(t.name); !exists {
			err = e.vars.Set(t.name, values[t.name])
		}
		if err != nil {
			e.logger.WarnCat(CatSystem, "cannot set %s: %v", t.name, err)
		}
	}
}

// isLegacyScript reports whether a file name is run in legacy mode by exec
func (e *Executor) isLegacyScript(name string) bool {
	for _, s := range e.config.LegacyScripts {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
