package gibscript

import "strconv"

// RegisterStringLib registers string comparison and measurement commands
func (gs *GibScript) RegisterStringLib() {
	gs.builtin(&Command{
		Name:        "streq",
		Description: "Returns 1 if $1 and $2 are the same string, 0 otherwise",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 3 {
				return argCountError(ctx)
			}
			if ctx.Argv(1) == ctx.Argv(2) {
				ctx.Return("1")
			} else {
				ctx.Return("0")
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "strlen",
		Description: "Returns the length of $1",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				return argCountError(ctx)
			}
			ctx.Return(strconv.Itoa(len(ctx.Argv(1))))
			return nil
		},
	})
}
