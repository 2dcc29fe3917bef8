// Package cvars provides the console variable store consulted by scripts
// after their local variables.
package cvars

import (
	"errors"
	"sort"
	"sync"
)

// Flags modify how a variable may be used
type Flags uint8

const (
	FlagNone Flags = 0
	FlagROM  Flags = 1 << iota // Scripts may read but not set
	FlagArchive                // Written to persistent storage
)

// ErrReadOnly is returned when setting a FlagROM variable
var ErrReadOnly = errors.New("variable is read-only")

// Var is one console variable
type Var struct {
	Name        string
	Value       string
	Description string
	Flags       Flags
}

// Store is implemented by every variable backend
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string) error
	// Register creates a variable if it does not exist yet and reports whether it did
	Register(name, value, description string, flags Flags) (bool, error)
	// Force sets a value and flags, even on a read-only variable
	Force(name, value string, flags Flags) error
	Description(name string) (string, bool)
	List() []Var
	Close() error
}

// MemoryStore keeps variables in a map
type MemoryStore struct {
	mu   sync.RWMutex
	vars map[string]*Var
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vars: make(map[string]*Var)}
}

// Get returns a variable's value
func (s *MemoryStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vars[name]; ok {
		return v.Value, true
	}
	return "", false
}

// Set updates a variable, creating it if needed
func (s *MemoryStore) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vars[name]; ok {
		if v.Flags&FlagROM != 0 {
			return ErrReadOnly
		}
		v.Value = value
		return nil
	}
	s.vars[name] = &Var{Name: name, Value: value}
	return nil
}

// Register creates a variable only if it is absent
func (s *MemoryStore) Register(name, value, description string, flags Flags) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vars[name]; ok {
		if v.Description == "" {
			v.Description = description
		}
		v.Flags |= flags
		return false, nil
	}
	s.vars[name] = &Var{Name: name, Value: value, Description: description, Flags: flags}
	return true, nil
}

// Force sets a value and flags regardless of FlagROM
func (s *MemoryStore) Force(name, value string, flags Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vars[name]; ok {
		v.Value = value
		v.Flags |= flags
		return nil
	}
	s.vars[name] = &Var{Name: name, Value: value, Flags: flags}
	return nil
}

// Description returns a variable's help text
func (s *MemoryStore) Description(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vars[name]; ok {
		return v.Description, true
	}
	return "", false
}

// List returns a snapshot of all variables sorted by name
func (s *MemoryStore) List() []Var {
	s.mu.RLock()
	out := make([]Var, 0, len(s.vars))
	for _, v := range s.vars {
		out = append(out, *v)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *MemoryStore) lookup(name string) (Var, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vars[name]; ok {
		return *v, true
	}
	return Var{}, false
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// RegisterDefaults seeds the constants every store carries. The interpreter
// registers its own tunables from its configuration.
func RegisterDefaults(s Store) error {
	defaults := []Var{
		{Name: "M_PI", Value: "3.1415926535897932384626433832795029", Description: "Pi", Flags: FlagROM},
	}
	for _, v := range defaults {
		if _, err := s.Register(v.Name, v.Value, v.Description, v.Flags); err != nil {
			return err
		}
	}
	return nil
}
