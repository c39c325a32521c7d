package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "ibuprofen", "ibuprofen", 100},
		{"both empty", "", "", 100},
		{"one empty", "ibuprofen", "", 0},
		{"no common runes", "xyz", "abc", 0},
		{"one extra rune", "this is a test", "this is a test!", 200.0 * 14 / 29},
		{"case sensitive", "Aspirin", "aspirin", 200.0 * 6 / 14},
		{"multibyte runes", "café", "cafe", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Ratio(tt.b, tt.a), 1e-9, "ratio should be symmetric")
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact match", "paracetamol", "paracetamol", 100},
		{"substring of longer", "para", "paracetamol", 100},
		{"longer first", "paracetamol", "para", 100},
		{"trailing punctuation", "this is a test", "this is a test!", 100},
		{"best window clipped at left edge", "pain", "paracetamol", 200.0 * 2 / 6},
		{"best window clipped at right edge", "lol", "paracetamol", 200.0 * 2 / 5},
		{"no shared runes", "xyz", "ibuprofen", 0},
		{"empty first", "", "ibuprofen", 0},
		{"empty second", "ibuprofen", "", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestPartialRatio_EqualLengthTriesBothDirections(t *testing.T) {
	got := PartialRatio("ab", "ba")
	assert.InDelta(t, PartialRatio("ba", "ab"), got, 1e-9)
	assert.InDelta(t, 200.0/3, got, 1e-9)
}

func TestPartialRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"amoxicillin", "amoxicillin clavulanate"},
		{"cough", "dextromethorphan"},
		{"xyz_no_match_term", "paracetamol"},
		{"zz", "z"},
	}
	for _, p := range pairs {
		got := PartialRatio(p[0], p[1])
		assert.GreaterOrEqual(t, got, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, got, 100.0, "%q vs %q", p[0], p[1])
		assert.Equal(t, got, PartialRatio(p[1], p[0]), "%q vs %q should be symmetric", p[0], p[1])
	}
}
