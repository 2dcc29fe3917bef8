package main

// This is an example of using GIB as a library in a Go application

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phroun/gibscript"
	"github.com/phroun/gibscript/src/pkg/cvars"
)

func main() {
	store := cvars.NewMemoryStore()
	if err := cvars.RegisterDefaults(store); err != nil {
		fmt.Fprintf(os.Stderr, "seeding variables: %v\n", err)
		os.Exit(1)
	}

	// Create the interpreter with a bounded loop guard
	gs := gibscript.New(&gibscript.Config{
		WarnUnknownCommand: true,
		MaxLoopIterations:  1000,
		Variables:          store,
	})
	gs.RegisterVariableLib(store)

	// Register custom commands
	gs.RegisterCommand("greet", func(ctx *gibscript.Context) error {
		name := "World"
		if ctx.Argc() > 1 {
			name = ctx.Argv(1)
		}
		if ctx.Argc() > 2 {
			ctx.LogError(gibscript.CatArgument, "extra arguments ignored")
		}
		ctx.Printf("Hello, %s!\n", name)
		return nil
	}, "Greets $1")

	gs.RegisterCommand("upper", func(ctx *gibscript.Context) error {
		if ctx.Argc() != 2 {
			return fmt.Errorf("upper: expected one argument")
		}
		ctx.Return(strings.ToUpper(ctx.Argv(1)))
		return nil
	}, "Returns $1 in upper case")

	// A command that takes several frames, rescheduling itself until done
	ticks := 0
	gs.RegisterCommand("countdown", func(ctx *gibscript.Context) error {
		ticks++
		ctx.Printf("tick %d\n", ticks)
		if ticks < 3 {
			ctx.Retry()
		}
		return nil
	}, "Prints a tick per frame, three times")

	gs.DefineAlias("shout", "echo ~{upper $1}!")

	script := `
greet
greet GIB
set player Ranger
shout "hello $player"
for {i = 0; #{$i < 3}; i = #{$i + 1}} {echo "loop $i"}
countdown
echo "done after #{1 + 2} steps"
`
	gs.InjectText(gibscript.StackConsole, script)

	// Key bindings run on their own stack
	gs.ExecuteString("bind F1 {echo F1 pressed}")
	gs.KeyPress("F1")

	frames := gs.RunUntilIdle(time.Millisecond, 100)
	fmt.Printf("Finished in %d frames\n", frames)

	if err := gs.LastError(); err != nil {
		bt := gs.Backtrace()
		fmt.Print(bt.String())
		os.Exit(1)
	}
}
