package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	m := DefaultMatcher()

	tests := []struct {
		name    string
		pattern string
		text    string
		score   float64
		matched bool
	}{
		{"exact prefix", "alice", "Alice Smith", 0, true},
		{"one substitution", "Alise", "Alice Smith", 0.2, true},
		{"case insensitive", "SMITH", "alice smith", 0.06, true},
		{"no shared letters", "zzz", "Alice Smith", 1, false},
		{"empty text", "bob", "", 1, false},
		{"too far from start", "smith", "a very long display name that ends with smith", 0.4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, matched := m.Score(tc.pattern, tc.text)
			assert.InDelta(t, tc.score, score, 1e-9)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestScoreEmptyPattern(t *testing.T) {
	score, matched := DefaultMatcher().Score("", "anything")
	assert.Equal(t, 0.0, score)
	assert.True(t, matched)
}

func TestScoreThreshold(t *testing.T) {
	strict := Matcher{Threshold: 0.1, Distance: 100}
	_, matched := strict.Score("Alise", "Alice Smith")
	assert.False(t, matched)
}
