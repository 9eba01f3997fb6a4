package patch

import "strings"

// matchExact looks for the search block as a literal substring. With
// replaceAll every occurrence matches; otherwise the occurrence must be
// unique. Duplicate exact matches are left for the multi-occurrence
// stage rather than guessed at here.
func matchExact(r *request) (outcome, bool) {
	spans := substringSpans(r.content, r.search)
	if r.replaceAll {
		if len(spans) == 0 {
			return outcome{}, false
		}
		return outcome{spans: spans, replace: r.replace}, true
	}
	if len(spans) != 1 {
		return outcome{}, false
	}
	return outcome{spans: spans, replace: r.replace}, true
}

// matchLineTrimmed compares line sequences with per-line trimming, after
// stripping blank lines from the search block's edges. The replacement is
// re-indented by the delta between the first matched content line and the
// first search line, so a search block that arrived with its indentation
// stripped still produces correctly indented output.
func matchLineTrimmed(r *request) (outcome, bool) {
	search := r.searchLines()
	for len(search) > 0 && strings.TrimSpace(search[0]) == "" {
		search = search[1:]
	}
	for len(search) > 0 && strings.TrimSpace(search[len(search)-1]) == "" {
		search = search[:len(search)-1]
	}
	if len(search) == 0 {
		return outcome{}, false
	}

	// TrimLines strips the same blank edges, so the slices line up.
	trimmed := strings.Split(TrimLines(r.search), "\n")

	match := -1
	for i := 0; i <= len(r.lines)-len(search); i++ {
		if !linesEqual(r.lines[i:i+len(search)], trimmed, strings.TrimSpace) {
			continue
		}
		if match >= 0 {
			return outcome{}, false // ambiguous
		}
		match = i
	}
	if match < 0 {
		return outcome{}, false
	}

	replace := reindent(r.replace, leadingWhitespace(search[0]), leadingWhitespace(r.lines[match]))
	return outcome{
		spans:   []span{r.lineSpan(match, len(search))},
		replace: replace,
	}, true
}

// matchBlockAnchor locates a block by its trimmed first and last lines
// and total line count alone. Interior lines may drift arbitrarily; the
// anchors carry the identification. Requires at least three search lines
// so the anchors bracket real interior content.
func matchBlockAnchor(r *request) (outcome, bool) {
	search := r.searchLines()
	if len(search) < 3 {
		return outcome{}, false
	}

	first := strings.TrimSpace(search[0])
	last := strings.TrimSpace(search[len(search)-1])
	n := len(search)

	match := -1
	for i := 0; i <= len(r.lines)-n; i++ {
		if strings.TrimSpace(r.lines[i]) != first || strings.TrimSpace(r.lines[i+n-1]) != last {
			continue
		}
		if match >= 0 {
			return outcome{}, false
		}
		match = i
	}
	if match < 0 {
		return outcome{}, false
	}

	return outcome{
		spans:   []span{r.lineSpan(match, n)},
		replace: r.replace,
	}, true
}

// matchWhitespaceNormalized compares line sequences after collapsing
// interior whitespace runs. This is the stage that fires when spacing
// between tokens differs, e.g. "if(x  &&  y)" vs "if(x && y)".
func matchWhitespaceNormalized(r *request) (outcome, bool) {
	return r.matchNormalizedLines(CollapseSpaces)
}

// matchIndentationFlexible compares line sequences with only leading
// whitespace stripped, preserving trailing whitespace that full trimming
// would discard.
func matchIndentationFlexible(r *request) (outcome, bool) {
	return r.matchNormalizedLines(StripIndent)
}

// matchNormalizedLines finds a unique run of content lines equal to the
// search lines under norm.
func (r *request) matchNormalizedLines(norm func(string) string) (outcome, bool) {
	search := r.searchLines()
	if len(search) == 0 {
		return outcome{}, false
	}

	normalized := make([]string, len(search))
	for i, line := range search {
		normalized[i] = norm(line)
	}

	match := -1
	for i := 0; i <= len(r.lines)-len(search); i++ {
		if !linesEqual(r.lines[i:i+len(search)], normalized, norm) {
			continue
		}
		if match >= 0 {
			return outcome{}, false
		}
		match = i
	}
	if match < 0 {
		return outcome{}, false
	}

	return outcome{
		spans:   []span{r.lineSpan(match, len(search))},
		replace: r.replace,
	}, true
}

// matchEscapeNormalized handles search blocks that carry literal \n, \t,
// \r or \\ sequences as text. Skipped entirely for plain text so it never
// shadows the exact stage. Both sides of the edit are decoded.
func matchEscapeNormalized(r *request) (outcome, bool) {
	if !containsEscapes(r.search) {
		return outcome{}, false
	}

	decoded := DecodeEscapes(r.search)
	spans := substringSpans(r.content, decoded)
	if r.replaceAll {
		if len(spans) == 0 {
			return outcome{}, false
		}
	} else if len(spans) != 1 {
		return outcome{}, false
	}

	return outcome{spans: spans, replace: DecodeEscapes(r.replace)}, true
}

// matchTrimmedBoundary trims the whole search block as one unit and looks
// for the result as a substring anywhere in content, not necessarily
// line-aligned. Only the trimmed span is replaced, so surrounding content
// on the same line survives. Skipped when trimming changes nothing.
func matchTrimmedBoundary(r *request) (outcome, bool) {
	trimmed := TrimBlock(r.search)
	if trimmed == r.search || trimmed == "" {
		return outcome{}, false
	}

	spans := substringSpans(r.content, trimmed)
	if r.replaceAll {
		if len(spans) == 0 {
			return outcome{}, false
		}
	} else if len(spans) != 1 {
		return outcome{}, false
	}

	return outcome{spans: spans, replace: r.replace}, true
}

// matchContextAware anchors on the trimmed first and last search lines
// like block-anchor, but additionally requires at least half of the
// positionally aligned interior line pairs to clear the similarity
// threshold. A two-line search block has no interior and is accepted on
// unique anchors alone.
func matchContextAware(r *request) (outcome, bool) {
	search := r.searchLines()
	if len(search) < 2 {
		return outcome{}, false
	}

	first := strings.TrimSpace(search[0])
	last := strings.TrimSpace(search[len(search)-1])
	n := len(search)

	match := -1
	for i := 0; i <= len(r.lines)-n; i++ {
		if strings.TrimSpace(r.lines[i]) != first || strings.TrimSpace(r.lines[i+n-1]) != last {
			continue
		}
		if !r.interiorSimilar(i, search) {
			continue
		}
		if match >= 0 {
			return outcome{}, false
		}
		match = i
	}
	if match < 0 {
		return outcome{}, false
	}

	return outcome{
		spans:   []span{r.lineSpan(match, n)},
		replace: r.replace,
	}, true
}

// interiorSimilar checks the interior lines of a candidate block at
// content line i against the search block's interior.
func (r *request) interiorSimilar(i int, search []string) bool {
	total := len(search) - 2
	if total <= 0 {
		return true
	}
	matching := 0
	for j := 1; j < len(search)-1; j++ {
		if similarity(r.lines[i+j], search[j]) >= r.threshold {
			matching++
		}
	}
	return float64(matching)/float64(total) >= 0.5
}

// matchMultiOccurrence is the final fallback: every exact occurrence of
// the untouched search block is replaced. Reached only when the exact
// stage bailed on duplicates, since a unique occurrence already succeeded
// there.
func matchMultiOccurrence(r *request) (outcome, bool) {
	spans := substringSpans(r.content, r.search)
	if len(spans) == 0 {
		return outcome{}, false
	}
	return outcome{spans: spans, replace: r.replace}, true
}

// linesEqual reports whether norm maps each content line onto the
// corresponding pre-normalized search line.
func linesEqual(content, normalizedSearch []string, norm func(string) string) bool {
	for j, want := range normalizedSearch {
		if norm(content[j]) != want {
			return false
		}
	}
	return true
}

// reindent swaps the leading whitespace prefix of every line from one
// indentation to another, leaving lines that do not carry the old prefix
// alone.
func reindent(text, from, to string) string {
	if from == to {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, from) {
			lines[i] = to + line[len(from):]
		}
	}
	return strings.Join(lines, "\n")
}
