package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Engine.WarnUnknownCommand {
		t.Error("Expected warn_unknown_command to default to true")
	}
	if s.Engine.FrameRate != 60 {
		t.Errorf("Expected frame_rate 60, got %d", s.Engine.FrameRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gib.toml")
	content := `
[engine]
max_loop_iterations = 500
warn_unknown_command = false

[sandbox]
root = "/srv/game"
read_only = true

[cvars]
database = ""

[log]
categories = ["flow", "thread"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Engine.MaxLoopIterations != 500 {
		t.Errorf("Expected max_loop_iterations 500, got %d", s.Engine.MaxLoopIterations)
	}
	if s.Engine.WarnUnknownCommand {
		t.Error("Expected warn_unknown_command false")
	}
	if s.Sandbox.Root != "/srv/game" || !s.Sandbox.ReadOnly {
		t.Errorf("Unexpected sandbox settings: %+v", s.Sandbox)
	}
	if s.Cvars.Database != "" {
		t.Errorf("Expected empty database to override default, got %q", s.Cvars.Database)
	}
	if s.Engine.FrameRate != 60 {
		t.Errorf("Expected default frame_rate to survive, got %d", s.Engine.FrameRate)
	}
	if len(s.Log.Categories) != 2 || s.Log.Categories[1] != "thread" {
		t.Errorf("Expected log categories, got %v", s.Log.Categories)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gib.toml")
	if err := os.WriteFile(path, []byte("[engine]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("Expected unknown key error, got %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "gib.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load after WriteDefault: %v", err)
	}
	if s.REPL.Prompt != "] " {
		t.Errorf("Expected default prompt, got %q", s.REPL.Prompt)
	}

	// A second call must not overwrite
	if err := os.WriteFile(path, []byte("[engine]\nframe_rate = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	s, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Engine.FrameRate != 10 {
		t.Errorf("Expected existing file to be kept, got frame_rate %d", s.Engine.FrameRate)
	}
}
