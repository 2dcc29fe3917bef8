package gibscript

import (
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrCommandExists is returned when registering a name that is already taken
var ErrCommandExists = errors.New("command already defined")

// RegisterCommand adds a command. Names are case-insensitive and unique.
func (e *Executor) RegisterCommand(cmd *Command) error {
	if cmd == nil || cmd.Name == "" || cmd.Handler == nil {
		return errors.New("command needs a name and a handler")
	}
	key := strings.ToLower(cmd.Name)

	e.mu.Lock()
	if _, exists := e.commands[key]; exists {
		e.mu.Unlock()
		e.logger.WarnCat(CatCommand, "command %s already defined", cmd.Name)
		return ErrCommandExists
	}
	e.commands[key] = cmd
	e.mu.Unlock()

	e.logger.DebugCat(CatCommand, "Registered command: %s", cmd.Name)
	return nil
}

// RemoveCommand deletes a command and reports whether it existed
func (e *Executor) RemoveCommand(name string) bool {
	key := strings.ToLower(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.commands[key]; !exists {
		return false
	}
	delete(e.commands, key)
	return true
}

// SetPure stops substitution for a command's arguments
func (e *Executor) SetPure(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cmd, exists := e.commands[strings.ToLower(name)]
	if exists {
		cmd.Pure = true
	}
	return exists
}

// Exists reports whether a command is registered
func (e *Executor) Exists(name string) bool {
	return e.lookupCommand(name) != nil
}

func (e *Executor) lookupCommand(name string) *Command {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.commands[strings.ToLower(name)]
}

// Command returns a registered command
func (e *Executor) Command(name string) (*Command, bool) {
	cmd := e.lookupCommand(name)
	return cmd, cmd != nil
}

// CommandNames returns every command name, sorted
func (e *Executor) CommandNames() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.commands))
	for _, cmd := range e.commands {
		names = append(names, cmd.Name)
	}
	e.mu.RUnlock()
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// CompleteCommand returns the command named partial, else the first command
// beginning with it, else ""
func (e *Executor) CompleteCommand(partial string) string {
	if partial == "" {
		return ""
	}
	if cmd := e.lookupCommand(partial); cmd != nil {
		return cmd.Name
	}
	if matches := e.CompleteBuildList(partial); len(matches) > 0 {
		return matches[0]
	}
	return ""
}

// CompleteCountPossible returns how many commands begin with partial
func (e *Executor) CompleteCountPossible(partial string) int {
	return len(e.CompleteBuildList(partial))
}

// CompleteBuildList returns the sorted commands beginning with partial
func (e *Executor) CompleteBuildList(partial string) []string {
	if partial == "" {
		return nil
	}
	prefix := strings.ToLower(partial)
	var matches []string
	for _, name := range e.CommandNames() {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// suggestCommand returns the closest command name to an unknown one, or ""
func (e *Executor) suggestCommand(name string) string {
	if len(name) < 2 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, e.CommandNames())
	if len(ranks) == 0 {
		// Fall back to the reverse direction for typos longer than the command
		for _, candidate := range e.CommandNames() {
			if fuzzy.MatchFold(candidate, name) && len(candidate) > 2 {
				return candidate
			}
		}
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
