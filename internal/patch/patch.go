// Package patch resolves fuzzy search/replace edits against file content.
//
// An LLM-proposed search block rarely survives serialization intact: it
// drifts from the real file in indentation, interior spacing, escaped
// newlines, or minor wording. Replace runs a fixed cascade of matching
// strategies, strictest first, and applies the first one that locates the
// search block unambiguously. When no strategy matches, the original
// content is returned untouched.
package patch

import (
	"fmt"
	"strings"
)

// Strategy identifies which matching strategy resolved an edit.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategyLineTrimmed
	StrategyBlockAnchor
	StrategyWhitespaceNormalized
	StrategyIndentationFlexible
	StrategyEscapeNormalized
	StrategyTrimmedBoundary
	StrategyContextAware
	StrategyMultiOccurrence
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyLineTrimmed:
		return "line-trimmed"
	case StrategyBlockAnchor:
		return "block-anchor"
	case StrategyWhitespaceNormalized:
		return "whitespace-normalized"
	case StrategyIndentationFlexible:
		return "indentation-flexible"
	case StrategyEscapeNormalized:
		return "escape-normalized"
	case StrategyTrimmedBoundary:
		return "trimmed-boundary"
	case StrategyContextAware:
		return "context-aware"
	case StrategyMultiOccurrence:
		return "multi-occurrence"
	default:
		return "unknown"
	}
}

// Result is a successful replacement.
type Result struct {
	Content  string
	Strategy Strategy
}

// NotFoundError reports an exhausted cascade. The caller's content is
// unchanged; the message carries a preview of the search block for
// diagnostics.
type NotFoundError struct {
	Search string
}

func (e *NotFoundError) Error() string {
	return "Search block not found:\n" + previewLines(e.Search, 5)
}

// DefaultContextSimilarity is the minimum per-line similarity ratio for
// the context-aware strategy. At least half of a candidate block's
// interior lines must score at or above it.
const DefaultContextSimilarity = 0.5

// Resolver runs the strategy cascade. The zero value uses defaults and is
// ready to use; Resolver holds no state across calls and is safe for
// concurrent use.
type Resolver struct {
	// ContextSimilarity overrides DefaultContextSimilarity when > 0.
	ContextSimilarity float64
}

// span is a half-open byte range into the content being edited.
type span struct {
	start int
	end   int
}

// outcome is what a strategy produces when it matches: the spans to
// replace, in ascending order, and the replacement text to splice in
// (normally the raw replace block, but strategies may normalize it).
type outcome struct {
	spans   []span
	replace string
}

// request carries one edit through the cascade. Content lines and their
// byte offsets are computed once and shared by the line-oriented
// strategies.
type request struct {
	content    string
	search     string
	replace    string
	replaceAll bool
	threshold  float64

	lines   []string
	offsets []int
}

type matcher struct {
	strategy Strategy
	match    func(*request) (outcome, bool)
}

// matchers is the cascade in its fixed order. Ordering is load-bearing:
// each stage is strictly more permissive than the previous ones, and the
// first match wins.
var matchers = []matcher{
	{StrategyExact, matchExact},
	{StrategyLineTrimmed, matchLineTrimmed},
	{StrategyBlockAnchor, matchBlockAnchor},
	{StrategyWhitespaceNormalized, matchWhitespaceNormalized},
	{StrategyIndentationFlexible, matchIndentationFlexible},
	{StrategyEscapeNormalized, matchEscapeNormalized},
	{StrategyTrimmedBoundary, matchTrimmedBoundary},
	{StrategyContextAware, matchContextAware},
	{StrategyMultiOccurrence, matchMultiOccurrence},
}

// Replace resolves search in content and substitutes replace using the
// default resolver. See Resolver.Replace.
func Replace(content, search, replace string, replaceAll bool) (Result, error) {
	return Resolver{}.Replace(content, search, replace, replaceAll)
}

// Replace runs the cascade against content. The first strategy to locate
// the search block unambiguously produces the result; if every strategy
// declines, a *NotFoundError is returned and content is not modified.
// Repeated calls with identical inputs yield identical results.
func (r Resolver) Replace(content, search, replace string, replaceAll bool) (Result, error) {
	if search == "" {
		return Result{}, &NotFoundError{Search: search}
	}

	threshold := r.ContextSimilarity
	if threshold <= 0 {
		threshold = DefaultContextSimilarity
	}

	req := &request{
		content:    content,
		search:     search,
		replace:    replace,
		replaceAll: replaceAll,
		threshold:  threshold,
	}
	req.lines = strings.Split(content, "\n")
	req.offsets = make([]int, len(req.lines))
	off := 0
	for i, line := range req.lines {
		req.offsets[i] = off
		off += len(line) + 1
	}

	for _, m := range matchers {
		out, ok := m.match(req)
		if !ok {
			continue
		}
		return Result{
			Content:  splice(content, out.spans, out.replace),
			Strategy: m.strategy,
		}, nil
	}

	return Result{}, &NotFoundError{Search: search}
}

// splice rebuilds content with every span replaced by replacement. Spans
// must be ascending and non-overlapping.
func splice(content string, spans []span, replacement string) string {
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(content[last:sp.start])
		b.WriteString(replacement)
		last = sp.end
	}
	b.WriteString(content[last:])
	return b.String()
}

// lineSpan converts a run of content lines to a byte span. When the
// search block ends with a newline the span absorbs the trailing newline
// so the replacement does not leave a doubled blank line.
func (r *request) lineSpan(first, count int) span {
	last := first + count - 1
	end := r.offsets[last] + len(r.lines[last])
	if strings.HasSuffix(r.search, "\n") && end < len(r.content) {
		end++
	}
	return span{start: r.offsets[first], end: end}
}

// searchLines splits the search block into lines, dropping the empty
// trailing element produced by a final newline. lineSpan compensates for
// the dropped newline.
func (r *request) searchLines() []string {
	lines := strings.Split(r.search, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// substringSpans returns the spans of every non-overlapping occurrence of
// needle in content.
func substringSpans(content, needle string) []span {
	if needle == "" {
		return nil
	}
	var spans []span
	from := 0
	for {
		idx := strings.Index(content[from:], needle)
		if idx < 0 {
			return spans
		}
		start := from + idx
		spans = append(spans, span{start: start, end: start + len(needle)})
		from = start + len(needle)
	}
}

func previewLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-n)
}
