package menutext

import "regexp"

var reDigit = regexp.MustCompile(`[0-9]`)

// Scorer rates a parsed column; higher is better.
type Scorer func(items []string) int

// Score favours Hangul-heavy parses: 3 per Hangul syllable, 1 per digit,
// minus 2 per Latin letter.
func Score(items []string) int {
	score := 0
	for _, it := range items {
		score += 3 * len(reHangul.FindAllStringIndex(it, -1))
		score += len(reDigit.FindAllStringIndex(it, -1))
		score -= 2 * len(reLatin.FindAllStringIndex(it, -1))
	}
	return score
}

// Best returns the index of the highest-scoring candidate. Ties go to the
// earlier candidate. It returns -1 for no candidates.
func Best(score Scorer, candidates ...[]string) int {
	if score == nil {
		score = Score
	}
	best, bestScore := -1, 0
	for i, c := range candidates {
		s := score(c)
		if best < 0 || s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// Select returns b only when it scores strictly higher than a.
func Select(a, b []string) []string {
	if Best(Score, a, b) == 1 {
		return b
	}
	return a
}
