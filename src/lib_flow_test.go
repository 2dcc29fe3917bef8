package gibscript

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConditionals(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"if true", "if 1 {echo yes}", "yes\n"},
		{"if false", "if 0 {echo yes}", ""},
		{"if else", "if 0 {echo yes} else {echo no}", "no\n"},
		{"ifnot", "ifnot 0 {echo yes}", "yes\n"},
		{"ifnot else", "ifnot 1 {echo yes} else {echo no}", "no\n"},
		{"else if chain", "if 0 {echo a} else if 1 {echo b} else {echo c}", "b\n"},
		{"else if falls through", "if 0 {echo a} else if 0 {echo b} else {echo c}", "c\n"},
		{"condition is substituted", "x = 5; if #{$x > 3} {echo big}", "big\n"},
		{"braced condition is substituted", "x = 0; if {#{$x > 3}} {echo big} else {echo small}", "small\n"},
		{"leading number decides", "if 2abc {echo yes}", "yes\n"},
		{"body sees locals", "x = hi; if 1 {echo $x}", "hi\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newTestGib(t)
			tg.run(t, tt.script)
			if tg.out.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, tg.out.String())
			}
			if err := tg.LastError(); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}

	for _, script := range []string{"if 1", "if 1 {a} else", "if 0 {a} {b} {c} {d}"} {
		t.Run("malformed "+script, func(t *testing.T) {
			tg := newTestGib(t)
			tg.run(t, script)
			err := tg.LastError()
			if !errors.Is(err, ErrSemantic) || err.Error() != "Malformed if statement." {
				t.Errorf("Expected malformed if error, got %v", err)
			}
		})
	}
}

func TestWhileLoop(t *testing.T) {
	tg := newTestGib(t)
	tg.run(t, "i = 0; while {#{$i < 3}} {echo $i; i = #{$i + 1}}; echo end $i")

	if tg.out.String() != "0\n1\n2\nend 3\n" {
		t.Errorf("Expected three passes, got %q", tg.out.String())
	}
	if got := tg.Executor().BuffersInUse(); got != stackCount {
		t.Errorf("Expected loop buffer to be released, %d in use", got)
	}
}

func TestForLoop(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "for {i = 0; #{$i < 3}; i = #{$i + 1}} {echo $i}")
		if tg.out.String() != "0\n1\n2\n" {
			t.Errorf("Expected 0 1 2, got %q", tg.out.String())
		}
	})

	t.Run("break ends the loop", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "for {i = 0; 1; i = #{$i + 1}} {if #{$i == 2} break; echo $i}; echo out")
		if tg.out.String() != "0\n1\nout\n" {
			t.Errorf("Expected break after two passes, got %q", tg.out.String())
		}
	})

	for _, script := range []string{"for {a; b; c; d} {echo}", "for i {echo $i}"} {
		t.Run("malformed "+script, func(t *testing.T) {
			tg := newTestGib(t)
			tg.run(t, script)
			err := tg.LastError()
			if err == nil || err.Error() != "Malformed for statement." {
				t.Errorf("Expected malformed for error, got %v", err)
			}
		})
	}
}

func TestLoopLimit(t *testing.T) {
	t.Run("for", func(t *testing.T) {
		tg := newTestGib(t, func(c *Config) { c.MaxLoopIterations = 3 })
		tg.run(t, "for {n = 0; 1; n = #{$n + 1}} {echo $n}")
		if tg.out.String() != "0\n1\n2\n"+errorNotice {
			t.Errorf("Expected exactly three bodies, got %q", tg.out.String())
		}
	})

	tg := newTestGib(t)
	tg.run(t, "set cmd_maxloop 3\nwhile 1 {echo pass}\necho unreachable")

	if tg.out.String() != "pass\npass\npass\n"+errorNotice {
		t.Errorf("Expected exactly three passes, got %q", tg.out.String())
	}
	err := tg.LastError()
	if err == nil || err.Error() != "Loop lasted longer than 3 iterations, forcefully terminating." {
		t.Errorf("Expected loop limit error, got %v", err)
	}
	if got := tg.Executor().BuffersInUse(); got != stackCount {
		t.Errorf("Expected the failed stack to be released, %d in use", got)
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	tg := newTestGib(t)
	tg.run(t, "break")

	err := tg.LastError()
	if err == nil || err.Error() != "Break command used outside of loop!" {
		t.Errorf("Expected break error, got %v", err)
	}
}

func TestReturn(t *testing.T) {
	t.Run("root buffer", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "return")
		err := tg.LastError()
		if err == nil || err.Error() != "GIB: Return attempted in a root buffer" {
			t.Errorf("Expected root return error, got %v", err)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "alias r {return a b}; r")
		err := tg.LastError()
		if !errors.Is(err, ErrSemantic) || !strings.Contains(err.Error(), "Invalid return statement") {
			t.Errorf("Expected invalid return error, got %v", err)
		}
	})

	t.Run("from inside a loop", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "alias find {for {i = 0; 1; i = #{$i + 1}} {if #{$i == 4} {return $i}}}; echo found ~{find}")
		if tg.out.String() != "found 4\n" {
			t.Errorf("Expected found 4, got %q", tg.out.String())
		}
	})

	t.Run("ends the alias", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "alias early {echo a; return; echo b}; early; echo c")
		if tg.out.String() != "a\nc\n" {
			t.Errorf("Expected a then c, got %q", tg.out.String())
		}
	})
}

func TestWait(t *testing.T) {
	tg := newTestGib(t)
	tg.InjectText(StackConsole, "echo a; wait; echo b")

	tg.Frame()
	if tg.out.String() != "a\n" {
		t.Fatalf("Expected the first frame to stop at wait, got %q", tg.out.String())
	}
	tg.Frame()
	if tg.out.String() != "a\nb\n" {
		t.Errorf("Expected the rest on the next frame, got %q", tg.out.String())
	}

	t.Run("inside a subroutine", func(t *testing.T) {
		tg := newTestGib(t)
		tg.InjectText(StackConsole, "alias w {echo 1; wait; echo 2}; w; echo 3")

		tg.Frame()
		if tg.out.String() != "1\n" {
			t.Fatalf("Expected the whole stack to wait, got %q", tg.out.String())
		}
		tg.Frame()
		if tg.out.String() != "1\n2\n3\n" {
			t.Errorf("Expected the caller to resume after the alias, got %q", tg.out.String())
		}
	})
}

func TestSleep(t *testing.T) {
	tg := newTestGib(t)
	tg.InjectText(StackConsole, "sleep 2; echo woke")

	tg.Frame()
	tg.Frame()
	if tg.out.Len() != 0 {
		t.Fatalf("Expected nothing before the clock moves, got %q", tg.out.String())
	}

	tg.clock.Advance(time.Second)
	tg.Frame()
	if tg.out.Len() != 0 {
		t.Fatalf("Expected still asleep after one second, got %q", tg.out.String())
	}
	if tg.Idle() {
		t.Error("Expected a sleeping stack to keep the interpreter busy")
	}

	tg.clock.Advance(time.Second)
	tg.Frame()
	if tg.out.String() != "woke\n" {
		t.Errorf("Expected woke after two seconds, got %q", tg.out.String())
	}

	t.Run("argument count", func(t *testing.T) {
		tg := newTestGib(t)
		tg.run(t, "sleep")
		err := tg.LastError()
		if err == nil || err.Error() != "sleep: invalid number of arguments." {
			t.Errorf("Expected argument error, got %v", err)
		}
	})
}
