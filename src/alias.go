package gibscript

import (
	"sort"
	"strconv"
	"strings"
)

// DefineAlias creates or replaces an alias. A new alias also registers a
// command that runs it.
func (e *Executor) DefineAlias(name, value string, restricted, legacy bool) {
	key := strings.ToLower(name)

	e.mu.Lock()
	a, exists := e.aliases[key]
	if !exists {
		a = &Alias{Name: name}
		e.aliases[key] = a
	}
	a.Value = value
	a.Restricted = restricted
	a.Legacy = legacy
	e.mu.Unlock()

	if exists {
		e.logger.DebugCat(CatAlias, "alias %s redefined", name)
		return
	}
	err := e.RegisterCommand(&Command{
		Name:        name,
		Handler:     e.runAlias,
		Description: "User-created command.",
		alias:       true,
	})
	if err != nil {
		e.logger.WarnCat(CatAlias, "alias %s is shadowed by a built-in command", name)
	}
}

// RemoveAlias deletes an alias and its command
func (e *Executor) RemoveAlias(name string) bool {
	key := strings.ToLower(name)
	e.mu.Lock()
	a, exists := e.aliases[key]
	delete(e.aliases, key)
	e.mu.Unlock()
	if !exists {
		return false
	}
	if cmd := e.lookupCommand(a.Name); cmd != nil && cmd.alias {
		e.RemoveCommand(a.Name)
	}
	return true
}

// LookupAlias returns an alias by name
func (e *Executor) LookupAlias(name string) (*Alias, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.aliases[strings.ToLower(name)]
	return a, ok
}

// Aliases returns every alias sorted by name
func (e *Executor) Aliases() []*Alias {
	e.mu.RLock()
	list := make([]*Alias, 0, len(e.aliases))
	for _, a := range e.aliases {
		list = append(list, a)
	}
	e.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// runAlias runs an alias body in a subroutine with its own variables. The
// invocation's tokens are bound to 0..n-1 and their count to argn.
func (e *Executor) runAlias(ctx *Context) error {
	a, ok := e.LookupAlias(ctx.Argv(0))
	if !ok {
		return newSemanticError("No alias found for registered command %s.", ctx.Argv(0))
	}

	sub := ctx.Call(a.Value, false)
	sub.restricted = sub.restricted || a.Restricted
	sub.legacy = a.Legacy
	for i := 0; i < ctx.Argc(); i++ {
		sub.locals.Set(strconv.Itoa(i), ctx.Argv(i))
	}
	sub.locals.Set("argn", strconv.Itoa(ctx.Argc()))
	e.logger.TraceCat(CatAlias, "running alias %s", a.Name)
	return nil
}

// cmdAlias defines, shows or lists aliases
func cmdAlias(ctx *Context) error {
	e := ctx.e
	switch ctx.Argc() {
	case 1:
		ctx.Print("Current alias commands:\n")
		for _, a := range e.Aliases() {
			ctx.Printf("alias %s \"%s\"\n", a.Name, a.Value)
		}
		return nil
	case 2:
		if a, ok := e.LookupAlias(ctx.Argv(1)); ok {
			ctx.Printf("alias \"%s\" {%s}\n", a.Name, a.Value)
		}
		return nil
	}

	parts := make([]string, 0, ctx.Argc()-2)
	for i := 2; i < ctx.Argc(); i++ {
		parts = append(parts, ctx.Argv(i))
	}
	e.DefineAlias(ctx.Argv(1), strings.Join(parts, " "), ctx.Restricted(), ctx.Legacy())
	return nil
}

// cmdUnalias removes an alias
func cmdUnalias(ctx *Context) error {
	if ctx.Argc() != 2 {
		ctx.Print("unalias <alias>: erase an existing alias\n")
		return nil
	}
	if !ctx.e.RemoveAlias(ctx.Argv(1)) {
		ctx.Printf("Unknown alias \"%s\"\n", ctx.Argv(1))
	}
	return nil
}
