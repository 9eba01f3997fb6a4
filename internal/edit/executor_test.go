package edit

import (
	"strings"
	"testing"

	"github.com/zorgspace/slashbot/internal/patch"
)

func TestExecutorApply(t *testing.T) {
	contents := map[string]string{
		"main.go": "func main() {\n\tgreet()\n}\n",
		"util.go": "func greet() {}\n",
	}
	edits := []FileEdit{
		{Path: "main.go", Search: "greet()", Replace: "farewell()"},
		{Path: "util.go", Search: "func greet() {}", Replace: "func farewell() {}"},
	}

	var matched []string
	exec := NewExecutor(ExecutorConfig{
		OnMatch: func(path string, s patch.Strategy) {
			matched = append(matched, path+":"+s.String())
		},
	})

	updated, applied, err := exec.Apply(contents, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated["main.go"] != "func main() {\n\tfarewell()\n}\n" {
		t.Errorf("main.go = %q", updated["main.go"])
	}
	if updated["util.go"] != "func farewell() {}\n" {
		t.Errorf("util.go = %q", updated["util.go"])
	}
	if len(applied) != 2 {
		t.Fatalf("applied = %d, want 2", len(applied))
	}
	if applied[0].Strategy != patch.StrategyExact {
		t.Errorf("strategy = %s", applied[0].Strategy)
	}
	if len(matched) != 2 || matched[0] != "main.go:exact" {
		t.Errorf("matched = %v", matched)
	}

	// Input map untouched.
	if contents["main.go"] != "func main() {\n\tgreet()\n}\n" {
		t.Error("input contents mutated")
	}
}

func TestExecutorStacksEditsPerFile(t *testing.T) {
	contents := map[string]string{"a.go": "one two three"}
	edits := []FileEdit{
		{Path: "a.go", Search: "one", Replace: "1"},
		{Path: "a.go", Search: "1 two", Replace: "1 2"},
	}

	exec := NewExecutor(ExecutorConfig{})
	updated, _, err := exec.Apply(contents, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated["a.go"] != "1 2 three" {
		t.Errorf("a.go = %q", updated["a.go"])
	}
}

func TestExecutorFailureAbortsBatch(t *testing.T) {
	contents := map[string]string{"a.go": "alpha", "b.go": "beta"}
	edits := []FileEdit{
		{Path: "a.go", Search: "alpha", Replace: "ALPHA"},
		{Path: "b.go", Search: "nothing like this", Replace: "x"},
	}

	var failedPath string
	exec := NewExecutor(ExecutorConfig{
		OnFail: func(path string, _ FileEdit, _ error) { failedPath = path },
	})

	updated, applied, err := exec.Apply(contents, edits)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if updated != nil || applied != nil {
		t.Error("failed batch should return no results")
	}
	if !strings.HasPrefix(err.Error(), "b.go: ") {
		t.Errorf("error %q not prefixed with path", err)
	}
	if !strings.Contains(err.Error(), "Search block not found") {
		t.Errorf("error %q missing resolver message", err)
	}
	if failedPath != "b.go" {
		t.Errorf("OnFail path = %q", failedPath)
	}
}

func TestExecutorUnknownFile(t *testing.T) {
	exec := NewExecutor(ExecutorConfig{})
	_, _, err := exec.Apply(map[string]string{}, []FileEdit{{Path: "ghost.go", Search: "x"}})
	if err == nil {
		t.Fatal("expected error for unknown file")
	}
}

func TestExecutorLineGuard(t *testing.T) {
	content := "target\nfiller\ntarget\nfiller\n"
	contents := map[string]string{"a.go": content}

	// Unguarded, "target" is ambiguous for the exact stage and the
	// multi-occurrence fallback would rewrite both. Guarded to the first
	// line it resolves exactly once.
	edits := []FileEdit{{Path: "a.go", Search: "target", Replace: "hit", Lines: "1-1"}}

	exec := NewExecutor(ExecutorConfig{})
	updated, applied, err := exec.Apply(contents, edits)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated["a.go"] != "hit\nfiller\ntarget\nfiller\n" {
		t.Errorf("a.go = %q", updated["a.go"])
	}
	if applied[0].Strategy != patch.StrategyExact {
		t.Errorf("strategy = %s", applied[0].Strategy)
	}
}

func TestExecutorLineGuardMiss(t *testing.T) {
	contents := map[string]string{"a.go": "one\ntwo\nthree\n"}
	edits := []FileEdit{{Path: "a.go", Search: "three", Replace: "x", Lines: "1-2"}}

	exec := NewExecutor(ExecutorConfig{})
	_, _, err := exec.Apply(contents, edits)
	if err == nil {
		t.Fatal("expected guard miss")
	}
	if !strings.Contains(err.Error(), "within lines 1-2") {
		t.Errorf("error = %v", err)
	}
}
