// Package edit parses edit documents and applies them to file content.
package edit

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileEdit is one requested search/replace against a file.
type FileEdit struct {
	Path       string `yaml:"path"`
	Search     string `yaml:"search"`
	Replace    string `yaml:"replace"`
	ReplaceAll bool   `yaml:"replace_all"`

	// Lines optionally restricts matching to a 1-indexed inclusive line
	// range, e.g. "10-20".
	Lines string `yaml:"lines"`
}

// Document is a parsed edit document: an ordered list of edits applied
// as one batch.
type Document struct {
	Edits []FileEdit `yaml:"edits"`
}

// corruptionMarkers are structural markers that indicate the proposing
// model emitted its instruction scaffolding into the replacement text.
// Such edits are rejected before the cascade ever runs.
var corruptionMarkers = []string{
	"<<<<<<< SEARCH",
	">>>>>>> REPLACE",
	"<<<<<<< HEAD",
}

// ParseDocument decodes and validates a YAML edit document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse edit document: %w", err)
	}
	if len(doc.Edits) == 0 {
		return nil, fmt.Errorf("edit document contains no edits")
	}

	for i, e := range doc.Edits {
		if e.Path == "" {
			return nil, fmt.Errorf("edit %d: path is required", i+1)
		}
		if e.Search == "" {
			return nil, fmt.Errorf("edit %d (%s): search block is required", i+1, e.Path)
		}
		if marker := findCorruptionMarker(e.Replace); marker != "" {
			return nil, fmt.Errorf("edit %d (%s): replace block contains instruction marker %q", i+1, e.Path, marker)
		}
		if e.Lines != "" {
			if _, _, err := ParseLineRange(e.Lines); err != nil {
				return nil, fmt.Errorf("edit %d (%s): %w", i+1, e.Path, err)
			}
		}
	}
	return &doc, nil
}

func findCorruptionMarker(s string) string {
	for _, marker := range corruptionMarkers {
		if strings.Contains(s, marker) {
			return marker
		}
	}
	return ""
}

// Paths returns the distinct file paths touched by the document, in
// first-seen order.
func (d *Document) Paths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, e := range d.Edits {
		if !seen[e.Path] {
			seen[e.Path] = true
			paths = append(paths, e.Path)
		}
	}
	return paths
}
