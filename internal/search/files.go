// Package search locates files and content inside a workspace root:
// glob-based file listing, regexp content search (ripgrep when
// available), and fuzzy near-miss suggestions for failed matches.
package search

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
)

// Glob walks root and returns relative paths matching pattern.
// Patterns support doublestar syntax, e.g. "**/*.go". Hidden
// directories and common build output directories are skipped.
func Glob(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		ok, matchErr := doublestar.Match(pattern, filepath.ToSlash(rel))
		if matchErr != nil {
			return matchErr
		}
		if ok {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	switch name {
	case "node_modules", "vendor", "dist", "target":
		return true
	}
	return false
}

// Match is one content search hit.
type Match struct {
	Path string
	Line int
	Text string
}

// Grep searches file contents under root for pattern. It shells out to
// the ripgrep binary named by rgBin ("rg" when empty) when that binary
// is installed, and falls back to a pure Go walk otherwise.
func Grep(root, pattern, rgBin string) ([]Match, error) {
	if rgBin == "" {
		rgBin = "rg"
	}
	if _, err := exec.LookPath(rgBin); err == nil {
		return grepRipgrep(rgBin, root, pattern)
	}
	return grepWalk(root, pattern)
}

func grepRipgrep(rgBin, root, pattern string) ([]Match, error) {
	cmd := exec.Command(rgBin, "--line-number", "--no-heading", "--color=never", pattern, ".")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		// Exit code 1 means no matches.
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("ripgrep failed: %w", err)
	}

	var matches []Match
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// path:line:text
		parts := strings.SplitN(scanner.Text(), ":", 3)
		if len(parts) != 3 {
			continue
		}
		var line int
		if _, err := fmt.Sscanf(parts[1], "%d", &line); err != nil {
			continue
		}
		matches = append(matches, Match{Path: parts[0], Line: line, Text: parts[2]})
	}
	return matches, scanner.Err()
}

func grepWalk(root, pattern string) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var matches []Match
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil || bytes.IndexByte(data, 0) >= 0 {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		for i, line := range strings.Split(string(data), "\n") {
			if re.MatchString(line) {
				matches = append(matches, Match{Path: rel, Line: i + 1, Text: line})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})
	return matches, nil
}

// Suggestion is a content line that fuzzily resembles a failed search
// block's first line.
type Suggestion struct {
	Line int
	Text string
}

// Suggest returns up to limit content lines that come closest to the
// first non-blank line of search, ranked by fuzzy match score. It is
// used to hint at near misses after a search block fails to resolve.
func Suggest(content, search string, limit int) []Suggestion {
	query := firstNonBlankLine(search)
	if query == "" || limit <= 0 {
		return nil
	}

	lines := strings.Split(content, "\n")
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSpace(line)
	}

	results := fuzzy.Find(strings.TrimSpace(query), trimmed)
	var suggestions []Suggestion
	for _, r := range results {
		if len(suggestions) >= limit {
			break
		}
		suggestions = append(suggestions, Suggestion{Line: r.Index + 1, Text: lines[r.Index]})
	}
	return suggestions
}

func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
