package patch

import "strings"

// Normalizers used by the matching strategies. Each is a pure transform;
// strategies compare by normalizing both sides with the same function.

// TrimLines trims leading and trailing whitespace from every line and
// strips fully blank lines from the block's edges.
func TrimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// CollapseSpaces replaces every run of horizontal whitespace within a
// line by a single space. Leading and trailing runs collapse too, but are
// not removed; use TrimLines for trimming.
func CollapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	inRun := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			inRun = true
			continue
		}
		if inRun {
			b.WriteByte(' ')
			inRun = false
		}
		b.WriteByte(c)
	}
	if inRun {
		b.WriteByte(' ')
	}
	return b.String()
}

// StripIndent removes only leading whitespace, leaving trailing content
// verbatim.
func StripIndent(line string) string {
	return strings.TrimLeft(line, " \t")
}

// DecodeEscapes replaces literal two-character escape sequences with the
// control characters they denote. Unknown sequences pass through
// untouched.
func DecodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte(s[i])
			continue
		}
		i++
	}
	return b.String()
}

// TrimBlock trims leading and trailing whitespace, newlines included, of
// the whole string as one unit rather than per line.
func TrimBlock(s string) string {
	return strings.TrimSpace(s)
}

// containsEscapes reports whether s carries literal backslash escape
// sequences as text, the artifact of an upstream caller serializing edit
// instructions through a newline-escaping format.
func containsEscapes(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		switch s[i+1] {
		case 'n', 't', 'r', '\\', '"':
			return true
		}
	}
	return false
}

// leadingWhitespace returns the run of spaces and tabs opening the line.
func leadingWhitespace(line string) string {
	return line[:len(line)-len(StripIndent(line))]
}
