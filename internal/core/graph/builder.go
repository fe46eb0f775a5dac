// Package graph turns a movie record sequence into a weighted similarity
// edge set, filters it by threshold, and assembles the serializable graph.
package graph

import (
	"math"

	"github.com/filmgraph/filmgraph/internal/core/model"
	"github.com/filmgraph/filmgraph/internal/core/similarity"
)

// DefaultThreshold is the edge weight below which edges are dropped when no
// per-run override is given.
const DefaultThreshold = 0.5

const defaultTexture = "default.jpg"

// BuildAllEdges scores every unordered movie pair and returns one edge per
// pair with the weight rounded to 4 decimal places. All pairs are scored, no
// pruning: the filter threshold can then be changed without rescoring.
// O(N^2) scorer calls, fine for catalogs up to a few thousand movies.
func BuildAllEdges(movies []model.Movie) []model.Edge {
	n := len(movies)
	if n < 2 {
		return nil
	}

	edges := make([]model.Edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, model.Edge{
				From:   i,
				To:     j,
				Weight: round(similarity.Score(movies[i], movies[j]), 4),
			})
		}
	}
	return edges
}

// Filter keeps edges whose weight is at or above the threshold. Lowering the
// threshold can only grow the result, never shrink it.
func Filter(edges []model.Edge, threshold float64) []model.Edge {
	filtered := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if e.Weight >= threshold {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Assemble builds the serializable graph from the record sequence, the
// filtered edge set and the layout positions. Coordinates are rounded to
// 2 decimals here, at the serialization boundary. Edges referencing indices
// outside the node range are dropped.
func Assemble(movies []model.Movie, edges []model.Edge, positions []model.Position) model.Graph {
	nodes := make([]model.Node, len(movies))
	for i, m := range movies {
		var pos model.Position
		if i < len(positions) {
			pos = positions[i]
		}
		texture := m.Poster
		if texture == "" {
			texture = defaultTexture
		}
		nodes[i] = model.Node{
			ID:      i,
			X:       round(pos.X, 2),
			Y:       round(pos.Y, 2),
			Z:       round(pos.Z, 2),
			Texture: texture,
		}
	}

	kept := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		if e.From < len(nodes) && e.To < len(nodes) {
			kept = append(kept, e)
		}
	}

	return model.Graph{Nodes: nodes, Edges: kept}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
