package gibscript

import (
	"errors"
	"fmt"

	"github.com/phroun/gibscript/src/pkg/cvars"
)

// RegisterVariableLib registers the console variable commands over store,
// which should be the same store passed as Config.Variables
func (gs *GibScript) RegisterVariableLib(store cvars.Store) {
	set := func(ctx *Context, flags cvars.Flags) error {
		if ctx.Argc() < 3 || ctx.Argc() > 4 {
			ctx.Printf("%s <variable> <value> [description] : create or change a variable\n", ctx.Command.Name)
			return nil
		}
		name, value := ctx.Argv(1), ctx.Argv(2)

		var err error
		if flags&cvars.FlagROM != 0 {
			if _, exists := store.Get(name); exists {
				err = store.Set(name, value)
			}
			if err == nil {
				err = store.Force(name, value, flags)
			}
		} else if _, exists := store.Get(name); exists {
			err = store.Set(name, value)
			if err == nil && flags != cvars.FlagNone {
				err = store.Force(name, value, flags)
			}
		} else {
			_, err = store.Register(name, value, "", flags)
		}
		if errors.Is(err, cvars.ErrReadOnly) {
			return newSemanticError("%s: %s is read-only.", ctx.Command.Name, name)
		}
		if err != nil {
			return &ScriptError{Kind: KindSemantic, Message: ctx.Command.Name + ": cannot store " + name, Err: err}
		}

		if ctx.Argc() == 4 {
			if _, err := store.Register(name, value, ctx.Argv(3), cvars.FlagNone); err != nil {
				return &ScriptError{Kind: KindSemantic, Message: ctx.Command.Name + ": cannot store " + name, Err: err}
			}
		}
		gs.logger.TraceCat(CatVariable, "%s %s = %q", ctx.Command.Name, name, value)
		return nil
	}

	gs.builtin(&Command{
		Name:        "set",
		Description: "Set the selected variable, useful on the command line (+set variablename setting)",
		Handler: func(ctx *Context) error {
			return set(ctx, cvars.FlagNone)
		},
	})

	gs.builtin(&Command{
		Name:        "seta",
		Description: "Set the selected variable and save it between sessions",
		Handler: func(ctx *Context) error {
			return set(ctx, cvars.FlagArchive)
		},
	})

	gs.builtin(&Command{
		Name:        "setrom",
		Description: "Set the selected variable and make it read-only",
		Handler: func(ctx *Context) error {
			return set(ctx, cvars.FlagROM)
		},
	})

	gs.builtin(&Command{
		Name:        "toggle",
		Description: "Toggle a variable between 0 and 1",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				ctx.Print("toggle <variable> : toggle a variable on/off\n")
				return nil
			}
			name := ctx.Argv(1)
			value, ok := store.Get(name)
			if !ok {
				ctx.Printf("Unknown variable \"%s\"\n", name)
				return nil
			}
			next := "1"
			if leadingInt(value) != 0 {
				next = "0"
			}
			if err := store.Set(name, next); err != nil {
				if errors.Is(err, cvars.ErrReadOnly) {
					return newSemanticError("toggle: %s is read-only.", name)
				}
				return &ScriptError{Kind: KindSemantic, Message: "toggle: cannot store " + name, Err: err}
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "cvarlist",
		Description: "List all variables. A partial name filters the list",
		Handler: func(ctx *Context) error {
			prefix := ""
			if ctx.Argc() > 1 {
				prefix = ctx.Argv(1)
			}
			width := TerminalWidth()
			count := 0
			for _, v := range store.List() {
				if len(v.Name) < len(prefix) || v.Name[:len(prefix)] != prefix {
					continue
				}
				count++
				line := fmt.Sprintf("%s%s %-15s : %s", flagChar(v.Flags, cvars.FlagROM, 'r'),
					flagChar(v.Flags, cvars.FlagArchive, 'a'), v.Name, v.Value)
				if len(line) > width {
					line = line[:width]
				}
				ctx.Printf("%s\n", line)
			}
			ctx.Printf("------------\n%d variables\n", count)
			return nil
		},
	})
}

func flagChar(flags, flag cvars.Flags, c byte) string {
	if flags&flag != 0 {
		return string(c)
	}
	return " "
}
