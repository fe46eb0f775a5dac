// Package similarity scores how alike two movie records are, combining
// cast, director, genre and release-year signals into one weight in [0,1].
package similarity

import (
	"math"
	"strings"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

// Criterion weights. They must sum to 1 so the combined score stays in [0,1].
const (
	actorWeight    = 0.3
	directorWeight = 0.4
	genreWeight    = 0.2
	yearWeight     = 0.1
)

// Bonus applied per common member beyond the first when two movies share
// several actors or genres.
const (
	actorBonus = 0.2
	genreBonus = 0.15
)

// Score computes the combined similarity between two movies. It is pure and
// symmetric: Score(a, b) == Score(b, a), always in [0,1]. Absent fields
// contribute 0 for their criterion.
func Score(a, b model.Movie) float64 {
	total := Actors(a, b)*actorWeight +
		Director(a, b)*directorWeight +
		Genres(a, b)*genreWeight +
		Year(a, b)*yearWeight

	return math.Max(0, math.Min(1, total))
}

// Actors computes the Jaccard index of the two cast lists, boosted when more
// than one actor is shared. An empty cast on either side scores 0.
func Actors(a, b model.Movie) float64 {
	return boostedJaccard(a.Actors, b.Actors, actorBonus)
}

// Director returns 1 when both movies name the same director
// (case-insensitive), 0 otherwise.
func Director(a, b model.Movie) float64 {
	if a.Director == "" || b.Director == "" {
		return 0
	}
	if strings.EqualFold(a.Director, b.Director) {
		return 1
	}
	return 0
}

// Genres computes the Jaccard index of the two genre sets, boosted when more
// than one genre is shared.
func Genres(a, b model.Movie) float64 {
	return boostedJaccard(a.Genres, b.Genres, genreBonus)
}

// Year decays exponentially with the gap between release years: same year
// scores 1.0, a 10-year gap about 0.37. Missing years score 0.
func Year(a, b model.Movie) float64 {
	if a.Year == nil || b.Year == nil {
		return 0
	}
	gap := math.Abs(float64(*a.Year - *b.Year))
	if gap == 0 {
		return 1
	}
	return math.Exp(-gap / 10.0)
}

func boostedJaccard(a, b []string, bonus float64) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			common++
		}
	}

	union := len(setA) + len(setB) - common
	if union == 0 {
		return 0
	}

	score := float64(common) / float64(union)

	// Several shared members signal a stronger link than the plain ratio.
	if common > 1 {
		score = math.Min(1.0, score*(1+bonus*float64(common)))
	}

	return score
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
