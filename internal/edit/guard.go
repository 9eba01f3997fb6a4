package edit

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLineRange parses "N-M" into 1-indexed inclusive start and end
// lines. A bare "N" means the single line N.
func ParseLineRange(s string) (int, int, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		end = start
	}
	startLine, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	endLine, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	if startLine < 1 || endLine < startLine {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	return startLine, endLine, nil
}

// lineRangeToByteRange converts 1-indexed inclusive line numbers to a
// half-open byte range into content. The end offset includes the final
// line's newline when present.
func lineRangeToByteRange(content string, startLine, endLine int) (int, int) {
	lines := strings.Split(content, "\n")

	startOffset := 0
	endOffset := len(content)

	if startLine > 1 {
		lineCount := 0
		for i, ch := range content {
			if ch == '\n' {
				lineCount++
				if lineCount == startLine-1 {
					startOffset = i + 1
					break
				}
			}
		}
	}

	if endLine > 0 && endLine < len(lines) {
		lineCount := 0
		for i, ch := range content {
			if ch == '\n' {
				lineCount++
				if lineCount == endLine {
					endOffset = i + 1
					break
				}
			}
		}
	}

	return startOffset, endOffset
}
