package edit

import (
	"strings"
	"testing"
)

const sampleDoc = `
edits:
  - path: main.go
    search: |
      fmt.Println("hello")
    replace: |
      fmt.Println("goodbye")
  - path: util.go
    search: "old"
    replace: "new"
    replace_all: true
    lines: 3-10
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if len(doc.Edits) != 2 {
		t.Fatalf("got %d edits, want 2", len(doc.Edits))
	}

	first := doc.Edits[0]
	if first.Path != "main.go" {
		t.Errorf("path = %q, want main.go", first.Path)
	}
	if !strings.Contains(first.Search, `fmt.Println("hello")`) {
		t.Errorf("search = %q", first.Search)
	}

	second := doc.Edits[1]
	if !second.ReplaceAll {
		t.Error("replace_all not parsed")
	}
	if second.Lines != "3-10" {
		t.Errorf("lines = %q, want 3-10", second.Lines)
	}
}

func TestParseDocumentValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", `edits: []`},
		{"missing path", "edits:\n  - search: x\n    replace: y"},
		{"missing search", "edits:\n  - path: a.go\n    replace: y"},
		{"bad line range", "edits:\n  - path: a.go\n    search: x\n    lines: 9-3"},
		{"not yaml", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(tt.doc)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseDocumentRejectsCorruptedReplace(t *testing.T) {
	doc := "edits:\n  - path: a.go\n    search: x\n    replace: |\n      <<<<<<< SEARCH\n      junk"
	_, err := ParseDocument([]byte(doc))
	if err == nil {
		t.Fatal("expected corruption marker rejection")
	}
	if !strings.Contains(err.Error(), "instruction marker") {
		t.Errorf("error = %v", err)
	}
}

func TestDocumentPaths(t *testing.T) {
	doc := &Document{Edits: []FileEdit{
		{Path: "a.go"}, {Path: "b.go"}, {Path: "a.go"},
	}}
	paths := doc.Paths()
	if len(paths) != 2 || paths[0] != "a.go" || paths[1] != "b.go" {
		t.Errorf("paths = %v", paths)
	}
}

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		in      string
		start   int
		end     int
		wantErr bool
	}{
		{"10-20", 10, 20, false},
		{"5", 5, 5, false},
		{"1-1", 1, 1, false},
		{"0-4", 0, 0, true},
		{"8-2", 0, 0, true},
		{"x-y", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		start, end, err := ParseLineRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLineRange(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLineRange(%q) failed: %v", tt.in, err)
			continue
		}
		if start != tt.start || end != tt.end {
			t.Errorf("ParseLineRange(%q) = %d,%d want %d,%d", tt.in, start, end, tt.start, tt.end)
		}
	}
}

func TestLineRangeToByteRange(t *testing.T) {
	content := "line1\nline2\nline3\nline4\nline5"

	tests := []struct {
		name      string
		startLine int
		endLine   int
		wantStart int
		wantEnd   int
	}{
		{"full file", 1, 5, 0, len(content)},
		{"lines 2-3", 2, 3, 6, 18},
		{"from line 3", 3, 5, 12, len(content)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := lineRangeToByteRange(content, tt.startLine, tt.endLine)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("got %d,%d want %d,%d", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
