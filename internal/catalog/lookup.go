package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// englishAliases maps common localized titles to the English ones the
// catalog indexes. Keys are normalized with titleKey.
var englishAliases = map[string]string{
	"le parrain":                  "the godfather",
	"le parrain 2":                "the godfather part ii",
	"le parrain 3":                "the godfather part iii",
	"les affranchis":              "goodfellas",
	"les evades":                  "the shawshank redemption",
	"le seigneur des anneaux":     "the lord of the rings",
	"la guerre des etoiles":       "star wars",
	"indiana jones et les aventuriers de l arche perdue": "raiders of the lost ark",
}

// nonMovieKeywords flags catalog entries that are not feature films even
// when typed as one.
var nonMovieKeywords = []string{
	"making of",
	"behind the scenes",
	"featurette",
	"bonus",
	"deleted scene",
	"trailer",
	"teaser",
	"promo",
	"recap",
	"episode",
	"interview",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// titleKey normalizes a title for alias and keyword lookups: accents
// stripped, lower-cased, punctuation collapsed to single spaces.
func titleKey(title string) string {
	stripped, _, err := transform.String(transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), title)
	if err != nil {
		stripped = title
	}
	key := nonAlnum.ReplaceAllString(strings.ToLower(stripped), " ")
	return strings.TrimSpace(key)
}

// englishAlias returns the English catalog title for a localized one, or
// the input unchanged when no alias is known.
func englishAlias(title string) string {
	if alias, ok := englishAliases[titleKey(title)]; ok {
		return alias
	}
	return title
}

func isNonMovieTitle(title string) bool {
	key := titleKey(title)
	if key == "" {
		return false
	}
	for _, kw := range nonMovieKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}
