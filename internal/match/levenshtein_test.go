package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "a", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"abc", "ab", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},

		// DNA renames
		{"restrictflag", "visibility_flag", 8},
		{"Colour", "Color", 1},
		{"totvert", "totverts", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}

			if reverse := Levenshtein(tt.b, tt.a); reverse != result {
				t.Errorf("Levenshtein is not symmetric for (%q, %q): %d vs %d", tt.a, tt.b, result, reverse)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "", 0},
		{"kitten", "sitting", 1 - 3.0/7},
		{"material", "materal", 1 - 1.0/8},
	}

	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestScoreUsesStrippedForm(t *testing.T) {
	for _, pair := range [][2]string{
		{"totvert", "verts_num"},
		{"bNodeSocket", "NodeSocket"},
		{"bScreen", "b_screen"},
	} {
		if got := Score(pair[0], pair[1]); got != 1 {
			t.Errorf("Score(%q, %q) = %v, want 1", pair[0], pair[1], got)
		}
	}
}
