package extraction

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// OCRMatcher tolerates common OCR misreads when testing a line against a
// merchant alias. It first rewrites the line through a per-issuer substitution
// table ("0ffer" -> "offer", "vv" -> "w"), then scores positional character
// similarity. This is a coarse heuristic rather than true edit distance: OCR
// errors are overwhelmingly in-place substitutions, so position-by-position
// comparison with a small length tolerance catches them cheaply.
type OCRMatcher struct {
	corrections map[string]string
	order       []string // deterministic application order, longest first
}

// Similarity threshold and length tolerance for the positional comparison.
const (
	ocrSimilarityFloor = 0.8
	ocrLengthTolerance = 2
)

// NewOCRMatcher builds a matcher over an issuer's correction table. A nil
// table is valid and leaves lines unchanged.
func NewOCRMatcher(corrections map[string]string) *OCRMatcher {
	m := &OCRMatcher{corrections: corrections}
	for from := range corrections {
		m.order = append(m.order, from)
	}
	// Longer misreads first so "c1ub" wins over "1".
	sort.Slice(m.order, func(i, j int) bool {
		if len(m.order[i]) != len(m.order[j]) {
			return len(m.order[i]) > len(m.order[j])
		}
		return m.order[i] < m.order[j]
	})
	return m
}

// ApplyCorrections rewrites known misread substrings in the line.
func (m *OCRMatcher) ApplyCorrections(line string) string {
	corrected := line
	for _, from := range m.order {
		corrected = strings.ReplaceAll(corrected, from, m.corrections[from])
	}
	return corrected
}

// Matches reports whether the line is an OCR-mangled rendering of the alias:
// after corrections, positional similarity must exceed 0.8 with a length
// difference of at most 2.
func (m *OCRMatcher) Matches(line, alias string) bool {
	a := strings.ToLower(strings.TrimSpace(m.ApplyCorrections(line)))
	b := strings.ToLower(strings.TrimSpace(alias))
	if a == "" || b == "" {
		return false
	}
	if abs(len(a)-len(b)) > ocrLengthTolerance {
		return false
	}
	return positionalSimilarity(a, b) > ocrSimilarityFloor
}

// Score ranks how well the corrected line resembles the alias on a 0-100
// scale, for choosing between multiple candidate aliases. Combines
// containment, Levenshtein distance and subsequence rank the way the
// categorizer scores merchant variations.
func (m *OCRMatcher) Score(line, alias string) int {
	a := strings.ToUpper(strings.TrimSpace(m.ApplyCorrections(line)))
	b := strings.ToUpper(strings.TrimSpace(alias))
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	if strings.Contains(a, b) {
		return 75 + (25 * len(b) / len(a))
	}
	if strings.Contains(b, a) {
		return 75 + (25 * len(a) / len(b))
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	levScore := 100 * (maxLen - levenshteinDistance(a, b)) / maxLen

	fuzzScore := 0
	if rank := fuzzy.RankMatch(b, a); rank >= 0 && rank < len(a) {
		fuzzScore = 60 - (rank * 40 / len(a))
	}

	if levScore > fuzzScore {
		return levScore
	}
	return fuzzScore
}

// positionalSimilarity is the fraction of positions holding the same rune,
// over the longer length. Unlike edit distance it never re-aligns, which is
// what we want for in-place OCR substitutions.
func positionalSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	shorter, longer := len(ra), len(rb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 {
		return 0
	}

	same := 0
	for i := 0; i < shorter; i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longer)
}

// levenshteinDistance computes edit distance with a two-row matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
