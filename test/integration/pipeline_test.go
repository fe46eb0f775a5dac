package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgraph/filmgraph/internal/config"
	"github.com/filmgraph/filmgraph/internal/core"
	"github.com/filmgraph/filmgraph/internal/core/layout"
	"github.com/filmgraph/filmgraph/internal/core/model"
	"github.com/filmgraph/filmgraph/internal/store"
)

// catalog of three tight Scorsese crime pictures, one reissue duplicate and
// two unrelated movies: enough structure to exercise scoring, filtering,
// layout, ranking and dedup in one pass.
func pipelineFixture() []model.Movie {
	y90, y95, y19, y95b, y10 := 1990, 1995, 2019, 1995, 2010
	return []model.Movie{
		{Title: "Goodfellas", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci", "Ray Liotta"}, Director: "Martin Scorsese", Year: &y90},
		{Title: "Casino", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci", "Sharon Stone"}, Director: "Martin Scorsese", Year: &y95},
		{Title: "The Irishman", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci", "Al Pacino"}, Director: "Martin Scorsese", Year: &y19},
		{Title: "Casino (1995)", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci"}, Director: "Martin Scorsese", Year: &y95b},
		{Title: "Toy Story", Genres: []string{"Animation", "Comedy"}, Actors: []string{"Tom Hanks"}, Director: "John Lasseter", Year: &y95},
		{Title: "Inception", Genres: []string{"Sci-Fi", "Thriller"}, Actors: []string{"Leonardo DiCaprio"}, Director: "Christopher Nolan", Year: &y10},
	}
}

func newEngine(t *testing.T) *core.Engine {
	dir := t.TempDir()
	st := &store.Store{
		MoviesPath:   filepath.Join(dir, "movies.json"),
		GraphPath:    filepath.Join(dir, "graph.json"),
		NodesCSVPath: filepath.Join(dir, "nodes.csv"),
		EdgesCSVPath: filepath.Join(dir, "edges.csv"),
		KnownPath:    filepath.Join(dir, "movies.txt"),
		PostersDir:   filepath.Join(dir, "posters"),
	}
	require.NoError(t, st.SaveMovies(pipelineFixture()))

	e := core.NewEngine(st, nil, nil, config.Default())
	e.Layout = layout.NewSeeded(1)
	return e
}

func TestPipeline_GraphThenRecommend(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	g, err := e.BuildGraph(ctx, 0.5)
	require.NoError(t, err)

	assert.Len(t, g.Nodes, 6)
	assert.NotEmpty(t, g.Edges)
	for _, edge := range g.Edges {
		assert.Less(t, edge.From, edge.To)
		assert.GreaterOrEqual(t, edge.Weight, 0.5)
		assert.LessOrEqual(t, edge.Weight, 1.0)
	}

	// Scorsese movies cluster; the animated comedy never clears 0.5 against
	// them.
	for _, edge := range g.Edges {
		assert.NotEqual(t, 4, edge.From)
		assert.NotEqual(t, 4, edge.To)
	}

	results, err := e.Recommend(ctx, core.RecommendOptions{KnownCount: 1, Threshold: 0})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Both Casino variants connect strongly to Goodfellas, but only one
	// survives title dedup.
	casinos := 0
	for _, r := range results {
		assert.NotEqual(t, 0, r.Index, "the known movie is excluded")
		if r.Index == 1 || r.Index == 3 {
			casinos++
		}
	}
	assert.Equal(t, 1, casinos, "reissue duplicates collapse to one entry")

	top := results[0]
	assert.Contains(t, []int{1, 2, 3}, top.Index, "a Scorsese picture ranks first")
}

func TestPipeline_LowerThresholdKeepsMoreEdges(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	loose, err := e.BuildGraph(ctx, 0.1)
	require.NoError(t, err)
	tight, err := e.BuildGraph(ctx, 0.6)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(loose.Edges), len(tight.Edges))
}

func TestPipeline_GraphFileRoundTrip(t *testing.T) {
	e := newEngine(t)

	g, err := e.BuildGraph(context.Background(), 0.5)
	require.NoError(t, err)

	stored, err := e.Store.ReadGraph()
	require.NoError(t, err)
	assert.Equal(t, g, stored)

	// The CSV exports land next to the graph file on every build.
	assert.FileExists(t, e.Store.NodesCSVPath)
	assert.FileExists(t, e.Store.EdgesCSVPath)
}
