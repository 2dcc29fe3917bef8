package gibscript

import "fmt"

// RegisterFlowLib registers the conditional, loop and return commands
func (gs *GibScript) RegisterFlowLib() {
	e := gs.executor

	conditional := func(ctx *Context) error {
		argc := ctx.Argc()
		if (argc != 3 && argc < 5) || (argc > 5 && ctx.Argv(3) != "else") {
			return newSemanticError("Malformed if statement.")
		}

		num := leadingInt(ctx.Argv(1)) != 0
		if ctx.Command.Name == "ifnot" {
			num = !num
		}
		switch {
		case num:
			ctx.InsertText(ctx.Argv(2))
		case argc == 5:
			ctx.InsertText(ctx.Argv(4))
		case argc > 5:
			ctx.InsertText(ctx.Argsu(4))
		}
		return nil
	}

	gs.builtin(&Command{
		Name:               "if",
		Description:        "Conditionally execute a set of commands.",
		EvaluatesCondition: true,
		Handler:            conditional,
	})

	gs.builtin(&Command{
		Name:               "ifnot",
		Description:        "Conditionally execute a set of commands if the condition is false.",
		EvaluatesCondition: true,
		Handler:            conditional,
	})

	gs.builtin(&Command{
		Name:        "while",
		Description: "Execute a set of commands while a condition is true.",
		Pure:        true,
		Handler: func(ctx *Context) error {
			if ctx.Argc() < 3 {
				ctx.Print("Usage: while {condition} {commands}\n")
				return nil
			}
			var test string
			switch ctx.Delimiter(1) {
			case DelimBrace:
				test = fmt.Sprintf("ifnot {%s} break\n", ctx.Argv(1))
			case DelimQuote:
				test = fmt.Sprintf("ifnot \"%s\" break\n", ctx.Argv(1))
			default:
				test = fmt.Sprintf("ifnot %s break\n", ctx.Argv(1))
			}
			e.startLoop(ctx, test+ctx.Argv(2), "")
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "for",
		Description: "A while loop with initialization and iteration commands.",
		Pure:        true,
		Handler: func(ctx *Context) error {
			if ctx.Argc() < 2 || ctx.Argc() > 3 || ctx.Delimiter(1) != DelimBrace {
				return newSemanticError("Malformed for statement.")
			}
			init, rest := ExtractLine(ctx.Argv(1), true)
			cond, rest := ExtractLine(rest, true)
			inc, rest := ExtractLine(rest, true)
			if rest != "" {
				return newSemanticError("Malformed for statement.")
			}
			body := fmt.Sprintf("ifnot %s break\n%s\n%s", cond, ctx.Argv(2), inc)
			e.startLoop(ctx, body, init)
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "break",
		Description: "Break out of a loop.",
		Handler: func(ctx *Context) error {
			b := ctx.Buffer()
			if !b.isLoop() {
				return newSemanticError("Break command used outside of loop!")
			}
			b.loop = 0
			b.text = ""
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "return",
		Description: "Return a value to calling buffer.",
		Handler: func(ctx *Context) error {
			argc := ctx.Argc()
			if argc > 2 {
				return newSemanticError("GIB: Invalid return statement. Return takes either one argument or none.")
			}

			b := ctx.Buffer()
			for b.isLoop() {
				b.text = ""
				b.loop = 0
				b = b.prev
			}
			if b.prev == nil {
				return newSemanticError("GIB: Return attempted in a root buffer")
			}
			b.text = ""
			if !b.embedded {
				b = b.prev
			}
			if argc == 2 {
				e.deliverReturn(b, ctx.Argv(1))
			}
			return nil
		},
	})
}

// startLoop pushes a loop buffer sharing the caller's variables. init runs
// once before the first pass over body.
func (e *Executor) startLoop(ctx *Context, body, init string) {
	sub := ctx.Call(init, true)
	if init == "" {
		sub.text = ""
	}
	sub.loop = 1
	sub.loopText = body
	e.logger.TraceCat(CatFlow, "loop started: %q", body)
}
