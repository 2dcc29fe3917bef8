package gibscript

import (
	"io"
	"os"
	"strings"

	"github.com/phroun/gibscript/src/pkg/sandbox"
)

// RegisterFilesLib registers the sandboxed file commands. Each one refuses
// restricted buffers first, then checks its arguments, then the path, and
// only then touches the file system.
func (gs *GibScript) RegisterFilesLib() {
	e := gs.executor

	// checkPath applies the sandbox path rules before any file system access
	checkPath := func(ctx *Context, p string) (string, error) {
		clean, ok := sandbox.CollapsePath(p)
		if !ok {
			return "", newSemanticError("%s: access to restricted directory/file denied.", ctx.Command.Name)
		}
		if e.config.FileSystem == nil {
			return "", newSemanticError("%s: no file system available.", ctx.Command.Name)
		}
		return clean, nil
	}

	gs.builtin(&Command{
		Name:        "file_read",
		Description: "Reads file $1 in the sandbox and returns its contents.",
		Handler: func(ctx *Context) error {
			if ctx.Restricted() {
				return restrictedError(ctx)
			}
			if ctx.Argc() != 2 {
				return argCountError(ctx)
			}
			name, err := checkPath(ctx, ctx.Argv(1))
			if err != nil {
				return err
			}
			e.logger.DebugCat(CatIO, "file_read: opening %s", name)
			contents, err := readScript(e.config.FileSystem, name)
			if err != nil {
				return &ScriptError{Kind: KindSemantic, Message: "file_read: could not open file for reading", Err: err}
			}
			ctx.Return(contents)
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "file_write",
		Description: "Write $2 to the file $1 in the sandbox",
		Handler: func(ctx *Context) error {
			if ctx.Restricted() {
				return restrictedError(ctx)
			}
			if ctx.Argc() != 3 {
				return argCountError(ctx)
			}
			name, err := checkPath(ctx, ctx.Argv(1))
			if err != nil {
				return err
			}
			e.logger.DebugCat(CatIO, "file_write: opening %s", name)
			f, err := e.config.FileSystem.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
			if err != nil {
				return &ScriptError{Kind: KindSemantic, Message: "file_write: could not open file for writing", Err: err}
			}
			_, werr := io.WriteString(f, ctx.Argv(2))
			cerr := f.Close()
			if werr == nil {
				werr = cerr
			}
			if werr != nil {
				return &ScriptError{Kind: KindSemantic, Message: "file_write: write failed", Err: werr}
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "file_find",
		Description: "Finds a file matching pattern $1 in subdirectory $2 of the sandbox.",
		Handler: func(ctx *Context) error {
			if ctx.Restricted() {
				return restrictedError(ctx)
			}
			if ctx.Argc() < 2 || ctx.Argc() > 3 {
				return argCountError(ctx)
			}
			dir := ""
			if ctx.Argc() == 3 {
				clean, err := checkPath(ctx, ctx.Argv(2))
				if err != nil {
					return err
				}
				dir = clean
			} else if e.config.FileSystem == nil {
				return newSemanticError("file_find: no file system available.")
			}

			entries, err := e.config.FileSystem.ReadDir(dir)
			if err != nil {
				return &ScriptError{Kind: KindSemantic, Message: "file_find: could not open directory", Err: err}
			}
			var matches []string
			for _, entry := range entries {
				ok, err := sandbox.Match(ctx.Argv(1), entry.Name())
				if err != nil {
					return &ScriptError{Kind: KindSemantic, Message: "file_find: invalid pattern", Err: err}
				}
				if ok {
					matches = append(matches, entry.Name())
				}
			}
			ctx.Return(strings.Join(matches, "\n"))
			return nil
		},
	})
}
