package sandbox_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/phroun/gibscript/src/pkg/sandbox"
)

func TestCollapsePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"file.txt", "file.txt", true},
		{"a/b/c.cfg", "a/b/c.cfg", true},
		{"a/./b", "a/b", true},
		{"a/../b", "b", true},
		{"./x", "x", true},
		{"", "", false},
		{"..", "", false},
		{"../etc/passwd", "", false},
		{"a/../../b", "", false},
		{"a/..", "", false},
		{"/etc/passwd", "", false},
		{"~/secret", "", false},
		{"dir/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := sandbox.CollapsePath(tt.in)
			if ok != tt.ok {
				t.Fatalf("CollapsePath(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("CollapsePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRootReadWrite(t *testing.T) {
	dir := t.TempDir()
	root, err := sandbox.New(dir, sandbox.PermRead|sandbox.PermWrite)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("write then read", func(t *testing.T) {
		if err := root.WriteFile("note.txt", []byte("hello")); err != nil {
			t.Fatalf("expected write to succeed, got %v", err)
		}
		data, err := root.ReadFile("note.txt")
		if err != nil {
			t.Fatalf("expected read to succeed, got %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("Expected 'hello', got '%s'", data)
		}
	})

	t.Run("open file for reading", func(t *testing.T) {
		f, err := root.OpenFile("note.txt", os.O_RDONLY)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "hello" {
			t.Errorf("Expected 'hello', got '%s'", data)
		}
	})

	t.Run("escape is denied", func(t *testing.T) {
		_, err := root.ReadFile("../outside")
		if !errors.Is(err, sandbox.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
		_, err = root.ReadFile(filepath.Join(dir, "note.txt"))
		if !errors.Is(err, sandbox.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied for absolute path, got %v", err)
		}
	})

	t.Run("read dir of root", func(t *testing.T) {
		entries, err := root.ReadDir("")
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "note.txt" {
			t.Errorf("Expected [note.txt], got %v", entries)
		}
	})
}

func TestRootReadOnly(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ro.txt"), []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := sandbox.New(dir, sandbox.PermRead)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := root.ReadFile("ro.txt"); err != nil {
		t.Errorf("expected read to succeed, got %v", err)
	}
	if err := root.WriteFile("ro.txt", []byte("new")); !errors.Is(err, sandbox.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
	if _, err := root.OpenFile("ro.txt", os.O_WRONLY|os.O_TRUNC); !errors.Is(err, sandbox.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from OpenFile, got %v", err)
	}
}

func TestNewRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sandbox.New(file, sandbox.PermRead); err == nil {
		t.Error("expected error when root is not a directory")
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pat, name string
		want      bool
	}{
		{"*.cfg", "config.cfg", true},
		{"*.cfg", "config.rc", false},
		{"map?", "map1", true},
		{"map?", "map10", false},
		{"[ab]*", "alpha", true},
		{"[ab]*", "gamma", false},
		{"*", ".hidden", true},
	}
	for _, tt := range tests {
		got, err := sandbox.Match(tt.pat, tt.name)
		if err != nil {
			t.Fatalf("Match(%q, %q) error: %v", tt.pat, tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pat, tt.name, got, tt.want)
		}
	}
}
