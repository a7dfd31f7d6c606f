package matching

import "strings"

// Distance returns the classic Levenshtein edit distance between two
// strings (unit-cost insertions, deletions, substitutions), computed
// rune-wise with a single rolling row.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Ratio returns a normalized similarity in [0,1] between two strings,
// case-insensitive: (maxLen - distance) / maxLen. Two empty strings are
// identical, not a mismatch, so the ratio is 1.0.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}
