package fuzzy

import (
	"fmt"
	"testing"
)

// check if our lev distance impl returns correct distance int
func TestDistance(t *testing.T) {
	testCases := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"book", "back", 2},
		{"book", "books", 1},
		{"hello", "hallo", 1},
		{"activity", "activty", 1},
		{"café", "cafe", 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s→%s", tc.a, tc.b), func(t *testing.T) {
			dist := Distance(tc.a, tc.b)
			if dist != tc.expected {
				t.Errorf("Expected distance %d, got %d", tc.expected, dist)
			}
			if back := Distance(tc.b, tc.a); back != dist {
				t.Errorf("Distance not symmetric: %d vs %d", dist, back)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("activity", "activty"); s <= 0.8 {
		t.Errorf("Expected activity/activty above 0.8, got %f", s)
	}
	if s := Similarity("", ""); s != 1.0 {
		t.Errorf("Expected empty strings to be identical, got %f", s)
	}
	if s := Similarity("cat", "dog"); s >= 0.5 {
		t.Errorf("Expected cat/dog below 0.5, got %f", s)
	}
	if s := Similarity("report", "report"); s != 1.0 {
		t.Errorf("Expected identical tokens to score 1.0, got %f", s)
	}
	if s := Similarity("abc", ""); s != 0.0 {
		t.Errorf("Expected no overlap to score 0, got %f", s)
	}
}

// the threshold is exclusive
func TestMatches(t *testing.T) {
	// 4/5 = 0.8 exactly
	if Matches("books", "boots", 0.8) {
		t.Errorf("Similarity equal to threshold should not match")
	}
	if !Matches("registration", "registraton", DefaultThreshold) {
		t.Errorf("One missing letter in a long word should match")
	}
}

func BenchmarkSimilarity(b *testing.B) {
	pairs := [][2]string{
		{"registration", "registraton"},
		{"activities", "activity"},
		{"financial", "finance"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		Similarity(p[0], p[1])
	}
}
