package voiceid

import "strings"

// DefaultNameThreshold is the minimum name similarity treated as a
// near-duplicate during enrollment.
const DefaultNameThreshold = 0.8

// ResolveName finds the known name most similar to the typed name under
// normalized edit distance. It returns the best-scoring known name when
// its similarity reaches the threshold, otherwise ("", false).
//
// Comparison is case-insensitive; the returned name keeps its stored
// display case. This guards enrollment against misspelled duplicates of
// existing users; it plays no part in voice authentication.
func ResolveName(typed string, known []string, threshold float64) (string, bool) {
	typed = strings.ToLower(strings.TrimSpace(typed))
	var (
		bestName  string
		bestScore float64
	)
	for _, name := range known {
		score := nameRatio(typed, strings.ToLower(name))
		if score > bestScore {
			bestName, bestScore = name, score
		}
	}
	if bestScore >= threshold && bestName != "" {
		return bestName, true
	}
	return "", false
}

// nameRatio is a normalized indel similarity in [0, 1]:
// (len(a)+len(b) - distance) / (len(a)+len(b)), where distance is the
// Levenshtein distance with substitutions costing 2. Two empty strings
// are identical (ratio 1).
func nameRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	lenSum := len(ra) + len(rb)
	if lenSum == 0 {
		return 1
	}
	return float64(lenSum-indelDistance(ra, rb)) / float64(lenSum)
}

// indelDistance computes edit distance with unit insert/delete cost and
// substitution cost 2, using two rolling rows.
func indelDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 2
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
