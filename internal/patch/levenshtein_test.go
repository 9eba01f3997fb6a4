package patch

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"hello", "hello", 0},
		{"hello", "helo", 1},
		{"hello", "world", 4},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"abcdef", "azced"},
		{"return x;", "return x * 2;"},
		{"", "x"},
	}
	for _, p := range pairs {
		if Levenshtein(p[0], p[1]) != Levenshtein(p[1], p[0]) {
			t.Errorf("Levenshtein not symmetric for %q, %q", p[0], p[1])
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b   string
		minSim float64
		maxSim float64
	}{
		{"hello", "hello", 1.0, 1.0},
		{"  hello  ", "hello", 1.0, 1.0}, // trimmed before comparing
		{"hello", "helo", 0.7, 0.9},
		{"hello", "world", 0.0, 0.3},
		{"", "", 1.0, 1.0},
		{"", "abc", 0.0, 0.0},
	}

	for _, tt := range tests {
		sim := similarity(tt.a, tt.b)
		if sim < tt.minSim || sim > tt.maxSim {
			t.Errorf("similarity(%q, %q) = %f, want between %f and %f",
				tt.a, tt.b, sim, tt.minSim, tt.maxSim)
		}
	}
}
