package gibscript

import "strconv"

// RegisterThreadLib registers the detached-stack commands
func (gs *GibScript) RegisterThreadLib() {
	e := gs.executor

	gs.builtin(&Command{
		Name:        "detach",
		Description: "Starts a thread with an initial program of $1",
		Handler: func(ctx *Context) error {
			if ctx.Restricted() {
				return restrictedError(ctx)
			}
			if ctx.Argc() != 2 {
				return argCountError(ctx)
			}
			t := e.detach(ctx.Argv(1))
			ctx.Return(strconv.FormatInt(t.ID, 10))
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "killthread",
		Description: "Kills thread with id $1",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				return argCountError(ctx)
			}
			if !e.killThread(leadingInt(ctx.Argv(1))) {
				return newSemanticError("kill: invalid thread id")
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "threadstats",
		Description: "Shows statistics about threads",
		Handler: func(ctx *Context) error {
			ids := e.ThreadIDs()
			ctx.Printf("Currently running threads: %d\n", len(ids))
			for _, id := range ids {
				ctx.Printf("%d\n", id)
			}
			return nil
		},
	})
}
