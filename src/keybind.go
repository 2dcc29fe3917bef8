package gibscript

import (
	"sort"
	"strings"
)

// KeyBindings maps key names ("a", "M-a", "F1", "Enter") to command text.
// Pressing a bound key queues its text on the key-bound stack.
type KeyBindings struct {
	binds map[string]string
}

func newKeyBindings() *KeyBindings {
	return &KeyBindings{binds: make(map[string]string)}
}

// Bind sets or replaces the command text for key
func (k *KeyBindings) Bind(key, text string) {
	k.binds[strings.ToLower(key)] = text
}

// Unbind removes a binding and reports whether there was one
func (k *KeyBindings) Unbind(key string) bool {
	key = strings.ToLower(key)
	_, ok := k.binds[key]
	delete(k.binds, key)
	return ok
}

// Lookup returns the command text bound to key
func (k *KeyBindings) Lookup(key string) (string, bool) {
	text, ok := k.binds[strings.ToLower(key)]
	return text, ok
}

// Keys returns every bound key, sorted
func (k *KeyBindings) Keys() []string {
	keys := make([]string, 0, len(k.binds))
	for key := range k.binds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// KeyPress queues the text bound to key on the key-bound stack. It reports
// whether the key was bound.
func (gs *GibScript) KeyPress(key string) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	text, ok := gs.keys.Lookup(key)
	if !ok {
		return false
	}
	gs.logger.TraceCat(CatCommand, "key %s -> %q", key, text)
	return gs.executor.InjectText(StackKeybind, text)
}

// RegisterKeyLib registers the key binding commands
func (gs *GibScript) RegisterKeyLib() {
	gs.builtin(&Command{
		Name:        "bind",
		Description: "Attach a command to a key. Without a command, shows the current binding",
		Pure:        true,
		Handler: func(ctx *Context) error {
			switch ctx.Argc() {
			case 1:
				ctx.Print("bind <key> [command] : attach a command to a key\n")
			case 2:
				if text, ok := gs.keys.Lookup(ctx.Argv(1)); ok {
					ctx.Printf("\"%s\" = \"%s\"\n", ctx.Argv(1), text)
				} else {
					ctx.Printf("\"%s\" is not bound\n", ctx.Argv(1))
				}
			case 3:
				gs.keys.Bind(ctx.Argv(1), ctx.Argv(2))
			default:
				gs.keys.Bind(ctx.Argv(1), ctx.Argsu(2))
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "unbind",
		Description: "Remove commands from a key",
		Handler: func(ctx *Context) error {
			if ctx.Argc() != 2 {
				ctx.Print("unbind <key> : remove commands from a key\n")
				return nil
			}
			if !gs.keys.Unbind(ctx.Argv(1)) {
				ctx.Printf("\"%s\" isn't a valid key\n", ctx.Argv(1))
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "unbindall",
		Description: "Remove all key bindings",
		Handler: func(ctx *Context) error {
			for _, key := range gs.keys.Keys() {
				gs.keys.Unbind(key)
			}
			return nil
		},
	})

	gs.builtin(&Command{
		Name:        "bindlist",
		Description: "List all key bindings",
		Handler: func(ctx *Context) error {
			for _, key := range gs.keys.Keys() {
				text, _ := gs.keys.Lookup(key)
				ctx.Printf("%s \"%s\"\n", key, text)
			}
			return nil
		},
	})
}
