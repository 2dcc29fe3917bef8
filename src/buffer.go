package gibscript

import (
	"sort"
	"time"
)

// Position is where a buffer stands in the ready → tokenized → processed cycle
type Position uint8

const (
	PosReady Position = iota
	PosTokenized
	PosProcessed
)

func (p Position) String() string {
	switch p {
	case PosTokenized:
		return "tokenized"
	case PosProcessed:
		return "processed"
	default:
		return "ready"
	}
}

// Locals is a buffer's local-variable table. Embedded-command and loop
// children share their parent's table by reference.
type Locals struct {
	vars map[string]string
}

// NewLocals creates an empty table
func NewLocals() *Locals {
	return &Locals{vars: make(map[string]string)}
}

// Get returns a local variable
func (l *Locals) Get(name string) (string, bool) {
	v, ok := l.vars[name]
	return v, ok
}

// Set creates or updates a local variable
func (l *Locals) Set(name, value string) {
	l.vars[name] = value
}

// Names returns the variable names in sorted order
func (l *Locals) Names() []string {
	names := make([]string, 0, len(l.vars))
	for name := range l.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Future is the pending result of an embedded command. It starts pending and
// becomes ready exactly once, when the child subroutine returns a value.
type Future struct {
	ready bool
	value string
}

// Ready reports whether a value has been delivered
func (f *Future) Ready() bool { return f.ready }

// Value returns the delivered value
func (f *Future) Value() string { return f.value }

func (f *Future) resolve(value string) {
	f.ready = true
	f.value = value
}

// BufferHandle indexes a slot in the buffer arena
type BufferHandle int

// Buffer is one execution frame: pending script text plus the statement
// currently moving through the pipeline
type Buffer struct {
	handle BufferHandle
	live   bool

	text     string
	stmt     *Statement
	position Position

	restricted bool
	legacy     bool
	embedded   bool
	subroutine bool // a child was linked and should run next
	wait       bool
	again      bool

	loop     int // iteration counter, 0 when this is not a loop
	loopText string

	awaiting *Future
	locals   *Locals

	timeLeft time.Duration
	lastTime time.Time

	prev *Buffer
	next *Buffer
}

// Handle returns the buffer's arena slot
func (b *Buffer) Handle() BufferHandle { return b.handle }

// Restricted reports whether file and thread built-ins are denied
func (b *Buffer) Restricted() bool { return b.restricted }

// Legacy reports whether statements skip brace semantics and substitution
func (b *Buffer) Legacy() bool { return b.legacy }

// Text returns the pending script text
func (b *Buffer) Text() string { return b.text }

// Locals returns the buffer's variable table
func (b *Buffer) Locals() *Locals { return b.locals }

// AddText appends a line to the pending text
func (b *Buffer) AddText(text string) {
	b.text += text + "\n"
}

// InsertText puts a line in front of the pending text
func (b *Buffer) InsertText(text string) {
	b.text = text + "\n" + b.text
}

// isLoop reports whether the buffer re-injects a loop body when it runs dry
func (b *Buffer) isLoop() bool { return b.loop > 0 }

// empty reports whether the buffer has nothing pending at all
func (b *Buffer) empty() bool {
	return b.next == nil && b.text == "" && b.position == PosReady && !b.isLoop()
}

// arena recycles buffers by handle. A buffer can only be obtained from
// acquire, which hands it out fully zeroed.
type arena struct {
	slots []*Buffer
	free  []BufferHandle
}

// acquire returns a clean buffer. A nil locals gives it a fresh table.
func (a *arena) acquire(locals *Locals) *Buffer {
	var b *Buffer
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		b = a.slots[h]
	} else {
		b = &Buffer{}
		a.slots = append(a.slots, b)
		b.handle = BufferHandle(len(a.slots) - 1)
	}
	b.reset()
	if locals == nil {
		locals = NewLocals()
	}
	b.locals = locals
	b.live = true
	return b
}

// reset zeroes every field except the handle
func (b *Buffer) reset() {
	*b = Buffer{handle: b.handle}
}

// release returns one buffer to the arena
func (a *arena) release(b *Buffer) {
	if b == nil || !b.live {
		return
	}
	b.reset()
	a.free = append(a.free, b.handle)
}

// releaseChain releases b and every buffer linked after it
func (a *arena) releaseChain(b *Buffer) {
	for b != nil {
		next := b.next
		a.release(b)
		b = next
	}
}

// inUse returns the number of live buffers
func (a *arena) inUse() int {
	return len(a.slots) - len(a.free)
}
