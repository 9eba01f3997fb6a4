package workspace

import (
	"fmt"
	"os"
)

// ReadFile reads the current content of path, honoring the read
// allowlist. Content is always read immediately before an edit is
// resolved so the cascade never matches against a stale snapshot.
func ReadFile(perms *Permissions, path string) (string, error) {
	if perms != nil && !perms.CanRead(path) {
		return "", &ErrDenied{Op: "read", Path: path}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFileAtomic persists content by writing a temp file next to the
// target and renaming it into place, so a crash mid-write never leaves a
// half-written file.
func WriteFileAtomic(perms *Permissions, path, content string) error {
	if perms != nil && !perms.CanWrite(path) {
		return &ErrDenied{Op: "write", Path: path}
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
