package patch

import "strings"

// Levenshtein computes the edit distance between a and b with unit cost
// for insertion, deletion and substitution. Two-row DP keeps allocation
// proportional to the shorter dimension of the usual matrix.
func Levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// similarity is a Levenshtein-derived ratio in [0, 1] over trimmed lines.
// Identical lines score 1; wholly different lines approach 0.
func similarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return 1.0
	}

	maxLen := max(len(a), len(b), 1)
	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}
