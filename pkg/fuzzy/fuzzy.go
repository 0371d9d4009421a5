// Package fuzzy scores how close two tokens are by edit distance.
package fuzzy

// DefaultThreshold is the similarity a token pair must exceed to count as a fuzzy match.
const DefaultThreshold = 0.8

// Distance returns the Levenshtein edit distance between a and b,
// counting runes with unit cost for insert, delete and substitute.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// single row DP, prev[j] holds the distance for ra[:i-1] vs rb[:j]
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
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity normalizes Distance into [0,1] where 1 means identical.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return float64(longest-Distance(a, b)) / float64(longest)
}

// Matches reports whether a and b are similar above threshold.
func Matches(a, b string, threshold float64) bool {
	return Similarity(a, b) > threshold
}
