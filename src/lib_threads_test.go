package gibscript

import (
	"testing"
)

func TestDetach(t *testing.T) {
	t.Run("runs at once", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach {echo in thread}; echo after")
		if tg.out.String() != "in thread\nafter\n" {
			t.Errorf("Expected the thread to run before the caller continues, got %q", tg.out.String())
		}
		if ids := tg.Executor().ThreadIDs(); len(ids) != 0 {
			t.Errorf("Expected the finished thread to be reaped, got %v", ids)
		}
		if got := tg.Executor().BuffersInUse(); got != stackCount {
			t.Errorf("Expected thread buffers to be released, %d in use", got)
		}
	})

	t.Run("returns its id", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "echo id ~{detach {echo t}}; echo id ~{detach {echo u}}")
		if tg.out.String() != "t\nid 0\nu\nid 1\n" {
			t.Errorf("Expected ids 0 and 1, got %q", tg.out.String())
		}
	})

	t.Run("runs alongside the console", func(t *testing.T) {
		tg := newTestGib(t)
		tg.InjectText(StackConsole, "detach {wait; echo late}; threadstats")

		tg.Frame()
		if tg.out.String() != "Currently running threads: 1\n0\n" {
			t.Fatalf("Expected one waiting thread, got %q", tg.out.String())
		}
		tg.Frame()
		if tg.out.String() != "Currently running threads: 1\n0\nlate\n" {
			t.Errorf("Expected the thread to resume next frame, got %q", tg.out.String())
		}
		tg.settle(t)
		if !tg.Idle() {
			t.Error("Expected the interpreter to be idle once the thread is reaped")
		}
	})

	t.Run("errors stay inside the thread", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach {break; echo never}; echo console")
		if tg.out.String() != errorNotice+"console\n" {
			t.Errorf("Expected the console to keep running, got %q", tg.out.String())
		}
		err := tg.LastError()
		if err == nil || err.Error() != "Break command used outside of loop!" {
			t.Errorf("Expected the thread's error to be recorded, got %v", err)
		}
	})

	t.Run("argument count", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach")
		err := tg.LastError()
		if err == nil || err.Error() != "detach: invalid number of arguments." {
			t.Errorf("Expected argument error, got %v", err)
		}
	})

	t.Run("restricted stack", func(t *testing.T) {
		tg := newTestGib(t)
		tg.InjectText(StackLegacy, "detach {echo x}")
		tg.settle(t)
		if tg.out.String() != errorNotice {
			t.Errorf("Expected only the error notice, got %q", tg.out.String())
		}
		err := tg.LastError()
		if err == nil || err.Error() != "detach: access to restricted command denied." {
			t.Errorf("Expected restricted error, got %v", err)
		}
	})
}

func TestKillThread(t *testing.T) {
	t.Run("stops a waiting thread", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach {wait; echo never}; killthread 0; echo done")
		if tg.out.String() != "done\n" {
			t.Errorf("Expected the killed thread to print nothing, got %q", tg.out.String())
		}
		if ids := tg.Executor().ThreadIDs(); len(ids) != 0 {
			t.Errorf("Expected no threads left, got %v", ids)
		}
	})

	t.Run("thread kills itself", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach {killthread 0; echo never}")
		if tg.out.Len() != 0 {
			t.Errorf("Expected nothing after the kill, got %q", tg.out.String())
		}
		if err := tg.LastError(); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "killthread 7")
		err := tg.LastError()
		if err == nil || err.Error() != "kill: invalid thread id" {
			t.Errorf("Expected invalid id error, got %v", err)
		}
	})

	t.Run("already killed", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "detach {wait}; killthread 0; killthread 0")
		err := tg.LastError()
		if err == nil || err.Error() != "kill: invalid thread id" {
			t.Errorf("Expected the second kill to fail, got %v", err)
		}
	})
}

func TestThreadStats(t *testing.T) {
	tg := newTestGib(t)
	tg.run(t, "threadstats")
	if tg.out.String() != "Currently running threads: 0\n" {
		t.Errorf("Expected no threads, got %q", tg.out.String())
	}
}
