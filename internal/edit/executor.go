package edit

import (
	"fmt"
	"os"

	"github.com/zorgspace/slashbot/internal/patch"
)

// Applied records one successfully applied edit.
type Applied struct {
	Path     string
	Strategy patch.Strategy
	Before   string
	After    string
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// Resolver runs the matching cascade. The zero value uses defaults.
	Resolver patch.Resolver

	// OnFileStart is called when the first edit for a file begins.
	OnFileStart func(path string)

	// OnMatch is called when a search block resolves, with the strategy
	// that fired.
	OnMatch func(path string, strategy patch.Strategy)

	// OnFail is called when a search block cannot be resolved.
	OnFail func(path string, edit FileEdit, err error)

	// OnApplied is called after an edit is applied to the working set.
	OnApplied func(path, before, after string)

	// Debug enables diagnostics on stderr.
	Debug bool
}

// Executor applies edit documents to an in-memory working set of file
// contents. File persistence is the caller's concern; Apply never touches
// disk, so a failed batch leaves every file exactly as it was read.
type Executor struct {
	cfg ExecutorConfig
}

// NewExecutor creates an Executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	return &Executor{cfg: cfg}
}

// Apply runs every edit in order against contents and returns the updated
// working set. Edits to the same file stack: each sees the result of the
// previous one. The first unresolvable edit aborts the whole batch with
// an error prefixed by the file path; the input map is never mutated.
func (e *Executor) Apply(contents map[string]string, edits []FileEdit) (map[string]string, []Applied, error) {
	working := make(map[string]string, len(contents))
	for path, content := range contents {
		working[path] = content
	}

	var applied []Applied
	started := make(map[string]bool)

	for _, ed := range edits {
		content, ok := working[ed.Path]
		if !ok {
			err := fmt.Errorf("%s: file not part of this edit batch", ed.Path)
			if e.cfg.OnFail != nil {
				e.cfg.OnFail(ed.Path, ed, err)
			}
			return nil, nil, err
		}

		if !started[ed.Path] {
			started[ed.Path] = true
			if e.cfg.OnFileStart != nil {
				e.cfg.OnFileStart(ed.Path)
			}
		}

		updated, strategy, err := e.applyOne(content, ed)
		if err != nil {
			if e.cfg.Debug {
				fmt.Fprintf(os.Stderr, "[DEBUG] edit failed for %s: %v\n", ed.Path, err)
			}
			if e.cfg.OnFail != nil {
				e.cfg.OnFail(ed.Path, ed, err)
			}
			return nil, nil, fmt.Errorf("%s: %w", ed.Path, err)
		}

		if e.cfg.Debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s matched via %s\n", ed.Path, strategy)
		}
		if e.cfg.OnMatch != nil {
			e.cfg.OnMatch(ed.Path, strategy)
		}

		applied = append(applied, Applied{
			Path:     ed.Path,
			Strategy: strategy,
			Before:   content,
			After:    updated,
		})
		working[ed.Path] = updated

		if e.cfg.OnApplied != nil {
			e.cfg.OnApplied(ed.Path, content, updated)
		}
	}

	return working, applied, nil
}

// applyOne resolves a single edit, honoring its optional line-range
// guard by running the cascade against the guarded slice and splicing
// the result back.
func (e *Executor) applyOne(content string, ed FileEdit) (string, patch.Strategy, error) {
	if ed.Lines == "" {
		res, err := e.cfg.Resolver.Replace(content, ed.Search, ed.Replace, ed.ReplaceAll)
		if err != nil {
			return "", 0, err
		}
		return res.Content, res.Strategy, nil
	}

	startLine, endLine, err := ParseLineRange(ed.Lines)
	if err != nil {
		return "", 0, err
	}
	guardStart, guardEnd := lineRangeToByteRange(content, startLine, endLine)

	res, err := e.cfg.Resolver.Replace(content[guardStart:guardEnd], ed.Search, ed.Replace, ed.ReplaceAll)
	if err != nil {
		return "", 0, fmt.Errorf("not found within lines %d-%d: %w", startLine, endLine, err)
	}
	return content[:guardStart] + res.Content + content[guardEnd:], res.Strategy, nil
}
