package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPermissionsReadWrite(t *testing.T) {
	allowed := t.TempDir()
	outside := t.TempDir()

	perms := NewPermissions()
	if err := perms.AddWriteDir(allowed); err != nil {
		t.Fatalf("AddWriteDir: %v", err)
	}

	inside := filepath.Join(allowed, "a.go")
	if !perms.CanWrite(inside) {
		t.Error("expected write access inside allowlisted dir")
	}
	if !perms.CanRead(inside) {
		t.Error("write dir should imply read access")
	}
	if perms.CanWrite(filepath.Join(outside, "a.go")) {
		t.Error("unexpected write access outside allowlist")
	}
	if perms.CanRead(filepath.Join(outside, "a.go")) {
		t.Error("unexpected read access outside allowlist")
	}
}

func TestPermissionsDenyPattern(t *testing.T) {
	dir := t.TempDir()
	perms := NewPermissions()
	if err := perms.AddWriteDir(dir); err != nil {
		t.Fatalf("AddWriteDir: %v", err)
	}
	if err := perms.AddDenyPattern("*.secret"); err != nil {
		t.Fatalf("AddDenyPattern: %v", err)
	}

	if perms.CanWrite(filepath.Join(dir, "creds.secret")) {
		t.Error("deny pattern should block write")
	}
	if !perms.CanWrite(filepath.Join(dir, "ok.go")) {
		t.Error("non-matching path should stay writable")
	}
}

func TestPermissionsDuplicateDirs(t *testing.T) {
	dir := t.TempDir()
	perms := NewPermissions()
	perms.AddWriteDir(dir)
	perms.AddWriteDir(dir)
	if len(perms.WriteDirs) != 1 {
		t.Errorf("duplicate write dirs: %v", perms.WriteDirs)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	perms := NewPermissions()
	perms.AddReadDir(dir)

	got, err := ReadFile(perms, path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "content" {
		t.Errorf("content = %q", got)
	}

	denied := NewPermissions()
	if _, err := ReadFile(denied, path); err == nil {
		t.Error("expected read denial with empty allowlist")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	perms := NewPermissions()
	perms.AddWriteDir(dir)

	if err := WriteFileAtomic(perms, path, "new"); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q", data)
	}

	// Existing permissions preserved.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	// No temp file left behind.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestWriteFileAtomicDenied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	perms := NewPermissions() // no write dirs

	err := WriteFileAtomic(perms, path, "x")
	if err == nil {
		t.Fatal("expected denial")
	}
	if _, ok := err.(*ErrDenied); !ok {
		t.Errorf("error type %T, want *ErrDenied", err)
	}
}
