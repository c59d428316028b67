package match

import "strings"

// Ratio returns a similarity score in [0,1] for two strings, derived from
// the length of their longest common subsequence:
//
//	ratio = 2 * lcs(a, b) / (len(a) + len(b))
//
// It is symmetric, 1.0 for identical strings (including two empty strings)
// and decreases as the strings diverge. Comparison is done on runes so
// multi-byte values score the same as their ASCII equivalents.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(lcsLength(ra, rb)) / float64(total)
}

// lcsLength computes the longest-common-subsequence length with a
// two-row DP table.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// BestMatch scores value against every candidate (case-insensitively) and
// returns the best candidate with its score. Ties keep the earliest
// candidate, so catalog declaration order decides. An empty candidate set
// yields ("", 0).
func BestMatch(value string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	low := strings.ToLower(value)
	for _, cand := range candidates {
		score := Ratio(low, strings.ToLower(cand))
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best, bestScore
}
