// Package recommend ranks unseen movies by how strongly the similarity
// graph connects them to a user's known movies.
package recommend

import (
	"sort"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

// DefaultTopN is the recommendation count used when callers pass 0.
const DefaultTopN = 10

// penaltyFactor scales the popularity penalty applied to above-mean-degree
// nodes so hub movies do not dominate every list.
const penaltyFactor = 0.1

// Recommend scores every movie not in the known set by the mean weight of
// its edges into the known set, optionally penalizes high-degree hubs, ranks
// descending, deduplicates by normalized title and truncates to topN.
//
// Empty movies, edges or known sets are not errors: each yields an empty
// result so callers can report "no recommendation available".
func Recommend(movies []model.Movie, edges []model.Edge, known map[int]bool, topN int, penalizePopular bool) []model.Recommendation {
	if len(movies) == 0 || len(edges) == 0 || len(known) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	scores := rawScores(edges, known)
	if len(scores) == 0 {
		return nil
	}

	if penalizePopular {
		applyPopularityPenalty(scores, edges)
	}

	// Collect candidates in index order so equal scores rank stably.
	candidates := make([]model.Recommendation, 0, len(scores))
	for idx := range movies {
		score, ok := scores[idx]
		if !ok || known[idx] {
			continue
		}
		candidates = append(candidates, model.Recommendation{
			Index: idx,
			Score: score,
			Movie: movies[idx],
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	// Near-duplicate catalog entries (reissues, regional variants) share a
	// normalized title; keep only the best-scoring instance of each.
	seen := make(map[string]bool, len(candidates))
	results := make([]model.Recommendation, 0, topN)
	for _, c := range candidates {
		key := NormalizeTitle(c.Movie.DisplayTitle())
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, c)
		if len(results) == topN {
			break
		}
	}

	return results
}

// rawScores accumulates, for every unknown node, the weight and count of its
// edges into the known set. The raw score is the mean weight per connecting
// edge: consistently-similar candidates beat one strong link plus noise.
func rawScores(edges []model.Edge, known map[int]bool) map[int]float64 {
	weights := make(map[int]float64)
	connections := make(map[int]int)

	for _, e := range edges {
		switch {
		case known[e.From] && !known[e.To]:
			weights[e.To] += e.Weight
			connections[e.To]++
		case known[e.To] && !known[e.From]:
			weights[e.From] += e.Weight
			connections[e.From]++
		}
	}

	scores := make(map[int]float64, len(weights))
	for idx, total := range weights {
		div := connections[idx]
		if div < 1 {
			div = 1
		}
		scores[idx] = total / float64(div)
	}
	return scores
}

// applyPopularityPenalty reduces the score of nodes whose degree over the
// full edge set exceeds the mean degree, proportionally to the excess.
// Nodes at or below the mean are untouched.
func applyPopularityPenalty(scores map[int]float64, edges []model.Edge) {
	degrees := make(map[int]int)
	for _, e := range edges {
		degrees[e.From]++
		degrees[e.To]++
	}
	if len(degrees) == 0 {
		return
	}

	total := 0
	for _, d := range degrees {
		total += d
	}
	mean := float64(total) / float64(len(degrees))
	if mean == 0 {
		return
	}

	for idx, score := range scores {
		degree := float64(degrees[idx])
		if degree > mean {
			penalty := (degree - mean) / mean * penaltyFactor
			scores[idx] = score * (1 - penalty)
		}
	}
}
