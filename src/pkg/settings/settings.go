// Package settings loads the gib host configuration from TOML.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the decoded contents of gib.toml
type Settings struct {
	Engine  Engine  `toml:"engine"`
	Sandbox Sandbox `toml:"sandbox"`
	Cvars   Cvars   `toml:"cvars"`
	Log     Log     `toml:"log"`
	REPL    REPL    `toml:"repl"`
}

// Engine holds interpreter tunables
type Engine struct {
	Debug              bool `toml:"debug"`
	WarnUnknownCommand bool `toml:"warn_unknown_command"`
	MaxLoopIterations  int  `toml:"max_loop_iterations"`
	FrameRate          int  `toml:"frame_rate"`
}

// Sandbox configures the directory scripts may touch
type Sandbox struct {
	Root     string `toml:"root"`
	ReadOnly bool   `toml:"read_only"`
}

// Cvars configures variable persistence
type Cvars struct {
	Database string `toml:"database"` // empty keeps variables in memory only
}

// Log configures the diagnostic backend
type Log struct {
	Path       string   `toml:"path"`
	Verbosity  int      `toml:"verbosity"`
	Categories []string `toml:"categories"` // e.g. ["flow", "thread"]; empty logs every category
}

// REPL configures the interactive prompt
type REPL struct {
	History string `toml:"history"`
	Prompt  string `toml:"prompt"`
}

// Dir returns ~/.gib, or "" if the home directory is unknown
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gib")
}

// DefaultPath returns ~/.gib/gib.toml
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "gib.toml")
}

// Default returns the built-in settings
func Default() *Settings {
	s := &Settings{
		Engine: Engine{
			WarnUnknownCommand: true,
			FrameRate:          60,
		},
		Sandbox: Sandbox{Root: "."},
		REPL:    REPL{Prompt: "] "},
	}
	if dir := Dir(); dir != "" {
		s.Cvars.Database = filepath.Join(dir, "cvars.db")
		s.REPL.History = filepath.Join(dir, "history")
	}
	return s
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), s)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return s, fmt.Errorf("unknown key %s in %s", undecoded[0], path)
	}

	if s.Engine.FrameRate <= 0 {
		s.Engine.FrameRate = 60
	}
	return s, nil
}

// WriteDefault creates path with the default settings if it does not exist yet
func WriteDefault(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# gib configuration")
	if err := toml.NewEncoder(f).Encode(Default()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
