package gibscript

import "sort"

// InterpreterState is the mutable state threaded through every scheduler call:
// which buffer is executing and whether the current stack has failed
type InterpreterState struct {
	active    *Buffer
	err       error
	lastErr   error
	backtrace Backtrace
}

// Active returns the buffer currently being executed, or nil between frames
func (s *InterpreterState) Active() *Buffer { return s.active }

// Failed reports whether the stack being executed has hit an error
func (s *InterpreterState) Failed() bool { return s.err != nil }

// LastError returns the most recent error reported by any stack
func (s *InterpreterState) LastError() error { return s.lastErr }

// Backtrace returns the description of the most recent error
func (s *InterpreterState) Backtrace() Backtrace { return s.backtrace }

// enter makes b the active buffer and returns a func restoring the previous one
func (s *InterpreterState) enter(b *Buffer) func() {
	saved := s.active
	s.active = b
	return func() { s.active = saved }
}

// fail records err and a backtrace walking from the active buffer to its root.
// The first error on a stack wins.
func (s *InterpreterState) fail(err error) bool {
	if s.err != nil {
		return false
	}
	s.err = err
	s.lastErr = err

	var frames []string
	for b := s.active; b != nil; b = b.prev {
		raw := ""
		if b.stmt != nil {
			raw = b.stmt.Raw
		}
		frames = append(frames, raw)
	}

	s.backtrace = Backtrace{Message: err.Error(), Frames: frames}
	return true
}

// Thread is a detached stack ticked once per frame
type Thread struct {
	ID     int64
	root   *Buffer
	killed bool
}

// threadList keeps detached stacks in creation order
type threadList struct {
	nextID  int64
	threads []*Thread
}

func (tl *threadList) add(root *Buffer) *Thread {
	t := &Thread{ID: tl.nextID, root: root}
	tl.nextID++
	tl.threads = append(tl.threads, t)
	return t
}

func (tl *threadList) find(id int64) *Thread {
	for _, t := range tl.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (tl *threadList) remove(t *Thread) {
	for i, cur := range tl.threads {
		if cur == t {
			tl.threads = append(tl.threads[:i], tl.threads[i+1:]...)
			return
		}
	}
}

func (tl *threadList) ids() []int64 {
	ids := make([]int64, 0, len(tl.threads))
	for _, t := range tl.threads {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// snapshot copies the list so stacks may detach or kill threads while it is walked
func (tl *threadList) snapshot() []*Thread {
	return append([]*Thread(nil), tl.threads...)
}
