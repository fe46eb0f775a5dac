package recommend

import (
	"regexp"
	"strings"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

var trailingYear = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)

// NormalizeTitle makes titles comparable across catalog variants: strips a
// trailing parenthesized 4-digit year, collapses whitespace and upper-cases.
func NormalizeTitle(title string) string {
	t := trailingYear.ReplaceAllString(title, "")
	t = strings.Join(strings.Fields(t), " ")
	return strings.ToUpper(t)
}

// ResolveKnownByTitle maps a set of user-supplied titles onto record indices.
// A record matches on its normalized display or original title, or, failing
// that, when it shares at least two significant words (longer than 2 runes)
// with a known title. The fuzzy pass absorbs subtitle and edition noise.
func ResolveKnownByTitle(movies []model.Movie, titles []string) map[int]bool {
	knownSet := make(map[string]bool, len(titles))
	for _, t := range titles {
		if n := NormalizeTitle(t); n != "" {
			knownSet[n] = true
		}
	}
	if len(knownSet) == 0 {
		return nil
	}

	known := make(map[int]bool)
	for i, m := range movies {
		title := NormalizeTitle(m.Title)
		original := NormalizeTitle(m.OriginalTitle)

		if knownSet[title] || (original != "" && knownSet[original]) {
			known[i] = true
			continue
		}

		movieWords := significantWords(title)
		for knownTitle := range knownSet {
			if countCommon(movieWords, significantWords(knownTitle)) >= 2 {
				known[i] = true
				break
			}
		}
	}
	return known
}

// FirstK marks the first k indices of an n-record sequence as known. This is
// the robust policy when the sequence was enriched with catalog lookalikes
// after the known prefix was fixed.
func FirstK(k, n int) map[int]bool {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	known := make(map[int]bool, k)
	for i := 0; i < k; i++ {
		known[i] = true
	}
	return known
}

func significantWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(title) {
		if len([]rune(w)) > 2 {
			words[w] = true
		}
	}
	return words
}

func countCommon(a, b map[string]bool) int {
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	return common
}
