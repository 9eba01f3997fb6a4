// Package workspace owns file access around the edit pipeline: allowlist
// checks, fresh reads, and atomic writes.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Permissions holds directory allowlists for reading and writing, plus
// glob patterns for paths that must never be written regardless of
// directory.
type Permissions struct {
	ReadDirs  []string
	WriteDirs []string

	denyPatterns []glob.Glob
}

// NewPermissions creates an empty Permissions; with no write dirs added,
// every write is denied.
func NewPermissions() *Permissions {
	return &Permissions{}
}

// AddReadDir adds a directory to the read allowlist.
func (p *Permissions) AddReadDir(dir string) error {
	abs, err := canonicalizePath(dir)
	if err != nil {
		return err
	}
	for _, existing := range p.ReadDirs {
		if existing == abs {
			return nil
		}
	}
	p.ReadDirs = append(p.ReadDirs, abs)
	return nil
}

// AddWriteDir adds a directory to the write allowlist. Writable implies
// readable.
func (p *Permissions) AddWriteDir(dir string) error {
	abs, err := canonicalizePath(dir)
	if err != nil {
		return err
	}
	for _, existing := range p.WriteDirs {
		if existing == abs {
			return nil
		}
	}
	p.WriteDirs = append(p.WriteDirs, abs)
	return p.AddReadDir(dir)
}

// AddDenyPattern compiles a glob pattern (e.g. "**/*.secret") matched
// against the full path; matching paths are never writable.
func (p *Permissions) AddDenyPattern(pattern string) error {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return fmt.Errorf("invalid deny pattern %q: %w", pattern, err)
	}
	p.denyPatterns = append(p.denyPatterns, g)
	return nil
}

// CanRead reports whether path falls under a read-allowed directory.
func (p *Permissions) CanRead(path string) bool {
	abs, err := canonicalizePath(path)
	if err != nil {
		return false
	}
	return underAny(abs, p.ReadDirs)
}

// CanWrite reports whether path falls under a write-allowed directory
// and matches no deny pattern.
func (p *Permissions) CanWrite(path string) bool {
	abs, err := canonicalizePath(path)
	if err != nil {
		return false
	}
	if !underAny(abs, p.WriteDirs) {
		return false
	}
	for _, g := range p.denyPatterns {
		if g.Match(abs) || g.Match(filepath.Base(abs)) {
			return false
		}
	}
	return true
}

func underAny(abs string, dirs []string) bool {
	for _, dir := range dirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// canonicalizePath resolves to an absolute path with symlinks evaluated
// where the target exists; for not-yet-created files the parent is
// resolved instead.
func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	parent, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(filepath.Clean(parent)); err == nil {
		return filepath.Join(resolved, base), nil
	}
	return abs, nil
}

// ErrDenied is returned when the allowlists reject an operation.
type ErrDenied struct {
	Op   string
	Path string
}

func (e *ErrDenied) Error() string {
	return fmt.Sprintf("%s access denied: %s", e.Op, e.Path)
}
