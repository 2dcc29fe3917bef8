package gibscript

import (
	"io"
	"os"
	"path"
	"time"
)

// RegisterCoreLib registers script loading, output, alias and housekeeping commands
func (gs *GibScript) RegisterCoreLib() {
	e := gs.executor

	gs.builtin(&Command{
		Name:        "stuffcmds",
		Description: "Execute the commands given at startup again",
		Handler: func(ctx *Context) error {
			e.StuffCmds()
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "exec",
		Description: "Execute a script file",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				ctx.Print("exec <filename> : execute a script file\n")
				return nil
			}
			name := ctx.Argv(1)
			text, err := readScript(e.config.FileSystem, name)
			if err != nil {
				e.logger.DebugCat(CatIO, "exec %s: %v", name, err)
				ctx.Printf("couldn't exec %s\n", name)
				return nil
			}
			if e.warnUnknown() || e.config.Debug {
				ctx.Printf("execing %s\n", name)
			}
			sub := ctx.Call(text, false)
			if e.isLegacyScript(path.Base(name)) {
				sub.legacy = true
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "echo",
		Description: "Print text to console",
		Handler: func(ctx *Context) error {
			if ctx.Argc() == 2 {
				ctx.Printf("%s\n", ctx.Argv(1))
			} else {
				ctx.Printf("%s\n", ctx.Args(1))
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name: "alias",
		Description: "Used to create a reference to a command or list of commands.\n" +
			"When used without parameters, displays all current aliases.\n" +
			"Note: Enclose multiple commands within braces and separate each command with a semi-colon.",
		Handler: cmdAlias,
	})

	gs.builtin(&Command{
		Name:        "unalias",
		Description: "Remove the selected alias",
		Handler:     cmdUnalias,
	})

	gs.builtin(&Command{
		Name:        "wait",
		Description: "Wait a game tic",
		Handler: func(ctx *Context) error {
			ctx.Wait()
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "sleep",
		Description: "Sleep for $1 seconds",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				return argCountError(ctx)
			}
			seconds := leadingFloat(ctx.Argv(1))
			ctx.Sleep(time.Duration(seconds * float64(time.Second)))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "cmdlist",
		Description: "List all commands",
		Handler: func(ctx *Context) error {
			names := e.CommandNames()
			for _, name := range names {
				if ctx.Argc() > 1 {
					cmd, _ := e.Command(name)
					ctx.Printf("%-20s :\n%s\n", name, cmd.Description)
				} else {
					ctx.Printf("%s\n", name)
				}
			}
			ctx.Printf("------------\n%d commands\n", len(names))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "help",
		Description: "Display help for a command or variable",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				ctx.Print("usage: help <cvar/command>\n")
				return nil
			}
			name := ctx.Argv(1)
			if cmd, ok := e.Command(name); ok {
				ctx.Printf("%s\n", cmd.Description)
				return nil
			}
			if d, ok := e.vars.(Describer); ok {
				if desc, found := d.Description(name); found {
					ctx.Printf("%s\n", desc)
					return nil
				}
			}
			ctx.Print("variable/command not found\n")
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "lset",
		Description: "Sets the value of a local variable (not cvar).",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 3 {
				return argCountError(ctx)
			}
			ctx.SetLocal(ctx.Argv(1), ctx.Argv(2))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "eval",
		Description: "Evaluates a command.  Useful for callbacks or dynamically generated commands.",
		Handler: func(ctx *Context) error {
			if ctx.Argc() < 2 {
				return argCountError(ctx)
			}
			ctx.InsertText(ctx.Args(1))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "legacy",
		Description: "Adds a command to the legacy buffer",
		Pure:        true,
		Handler: func(ctx *Context) error {
			if ctx.Argc() < 2 {
				return argCountError(ctx)
			}
			e.roots[StackLegacy].AddText(ctx.Argsu(1))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "backtrace",
		Description: "Show a description of the last GIB error and a backtrace.",
		Handler: func(ctx *Context) error {
			bt := e.state.Backtrace()
			ctx.Print(bt.String())
			return nil
		},
	})
}

// readScript loads a whole script file through the sandbox
func readScript(fsys FileSystem, name string) (string, error) {
	if fsys == nil {
		return "", os.ErrNotExist
	}
	f, err := fsys.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
