package search

import (
	"math"
	"strings"
)

// Matcher scores approximate substring matches of a pattern inside a text.
// A score of 0 is an exact match at Location; 1 is no match at all.
type Matcher struct {
	// Threshold is the highest score still considered a match.
	Threshold float64
	// Location is the text position where the pattern is expected.
	Location int
	// Distance is how far from Location a match may drift before its score
	// reaches 1 from proximity alone.
	Distance int
}

// DefaultMatcher returns a matcher with threshold 0.3, location 0 and
// distance 100.
func DefaultMatcher() Matcher {
	return Matcher{Threshold: 0.3, Location: 0, Distance: 100}
}

// Score returns the best score of pattern anywhere inside text and whether it
// is within the threshold. Comparison is case-insensitive. Each score is the
// share of pattern characters that had to be edited plus the distance of the
// match start from Location divided by Distance.
func (m Matcher) Score(pattern, text string) (float64, bool) {
	p := []rune(strings.ToLower(pattern))
	t := []rune(strings.ToLower(text))
	if len(p) == 0 {
		return 0, true
	}

	// prev and curr hold edit counts for pattern prefixes of length i-1 and
	// i; the start slices track where each cheapest alignment began in t.
	prev := make([]int, len(t)+1)
	curr := make([]int, len(t)+1)
	prevStart := make([]int, len(t)+1)
	currStart := make([]int, len(t)+1)

	for j := range prev {
		prev[j] = 0
		prevStart[j] = j
	}

	for i := 1; i <= len(p); i++ {
		curr[0] = i
		currStart[0] = 0
		for j := 1; j <= len(t); j++ {
			cost := 1
			if p[i-1] == t[j-1] {
				cost = 0
			}

			best, start := prev[j-1]+cost, prevStart[j-1]
			if d := prev[j] + 1; d < best {
				best, start = d, prevStart[j]
			}
			if d := curr[j-1] + 1; d < best {
				best, start = d, currStart[j-1]
			}
			curr[j], currStart[j] = best, start
		}
		prev, curr = curr, prev
		prevStart, currStart = currStart, prevStart
	}

	bestScore := math.Inf(1)
	for j := 0; j <= len(t); j++ {
		score := m.score(prev[j], len(p), prevStart[j])
		if score < bestScore {
			bestScore = score
		}
	}

	bestScore = math.Min(bestScore, 1)
	return bestScore, bestScore <= m.Threshold
}

func (m Matcher) score(errors, patternLen, start int) float64 {
	accuracy := float64(errors) / float64(patternLen)
	proximity := start - m.Location
	if proximity < 0 {
		proximity = -proximity
	}
	if m.Distance <= 0 {
		if proximity == 0 {
			return accuracy
		}
		return 1
	}
	return accuracy + float64(proximity)/float64(m.Distance)
}
