// Package sandbox confines script file access to a single directory tree.
// Script paths are slash-separated and always relative to the sandbox root.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/pattern"
)

// Common sandbox errors
var (
	ErrAccessDenied = errors.New("access denied: path not in sandbox")
	ErrReadOnly     = errors.New("write access denied: sandbox is read-only")
)

// Permission represents file access permissions
type Permission uint8

const (
	PermNone  Permission = 0
	PermRead  Permission = 1 << iota // Can read files
	PermWrite                        // Can write/create files
)

// Root provides file access below one directory
type Root struct {
	dir  string
	perm Permission
}

// New returns a Root for dir, which must be an existing directory
func New(dir string, perm Permission) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving sandbox root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening sandbox root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", abs)
	}
	if perm == PermNone {
		perm = PermRead | PermWrite
	}
	return &Root{dir: filepath.Clean(abs), perm: perm}, nil
}

// Dir returns the absolute root directory
func (r *Root) Dir() string {
	return r.dir
}

// CollapsePath resolves "." and ".." inside a script path and reports whether
// the result may be accessed. Empty, absolute, home-relative and trailing-slash
// paths are refused, as is anything that climbs above the root.
func CollapsePath(p string) (string, bool) {
	if p == "" || strings.HasPrefix(p, "/") || strings.HasPrefix(p, "~") || strings.HasSuffix(p, "/") {
		return "", false
	}
	if strings.ContainsAny(p, "\\\x00") || filepath.VolumeName(p) != "" {
		return "", false
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// resolve maps a script path onto the host file system after checking permissions.
// An empty name is the root itself.
func (r *Root) resolve(name string, perm Permission) (string, error) {
	if r.perm&perm != perm {
		if perm&PermWrite != 0 {
			return "", ErrReadOnly
		}
		return "", ErrAccessDenied
	}
	if name == "" {
		return r.dir, nil
	}
	clean, ok := CollapsePath(name)
	if !ok {
		return "", ErrAccessDenied
	}

	full := filepath.Join(r.dir, filepath.FromSlash(clean))
	rel, err := filepath.Rel(r.dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrAccessDenied
	}
	return full, nil
}

// OpenFile opens a file with the given os.O_* flags
func (r *Root) OpenFile(name string, flag int) (io.ReadWriteCloser, error) {
	required := PermRead
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		required = PermWrite
		if flag&os.O_RDWR != 0 {
			required |= PermRead
		}
	}
	full, err := r.resolve(name, required)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(full, flag, 0o644) // #nosec G304 -- resolve confines full to the root
}

// ReadFile reads a whole file
func (r *Root) ReadFile(name string) ([]byte, error) {
	full, err := r.resolve(name, PermRead)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full) // #nosec G304 -- resolve confines full to the root
}

// WriteFile creates or truncates a file
func (r *Root) WriteFile(name string, data []byte) error {
	full, err := r.resolve(name, PermWrite)
	if err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// ReadDir lists a directory
func (r *Root) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := r.resolve(name, PermRead)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(full)
}

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

// Match reports whether name matches a shell glob pattern. As with fnmatch
// without flags, '*' also matches '/' and leading dots are not special.
func Match(pat, name string) (bool, error) {
	patternMu.Lock()
	rx, ok := patternCache[pat]
	patternMu.Unlock()

	if !ok {
		expr, err := pattern.Regexp(pat, pattern.EntireString)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		rx, err = regexp.Compile(expr)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		patternMu.Lock()
		patternCache[pat] = rx
		patternMu.Unlock()
	}
	return rx.MatchString(name), nil
}
