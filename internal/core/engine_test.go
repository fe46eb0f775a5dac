package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgraph/filmgraph/internal/catalog"
	"github.com/filmgraph/filmgraph/internal/config"
	"github.com/filmgraph/filmgraph/internal/core/model"
	"github.com/filmgraph/filmgraph/internal/driver"
	"github.com/filmgraph/filmgraph/internal/store"
)

func testEngine(t *testing.T, movies []model.Movie) *Engine {
	dir := t.TempDir()
	st := &store.Store{
		MoviesPath:   filepath.Join(dir, "movies.json"),
		GraphPath:    filepath.Join(dir, "graph.json"),
		NodesCSVPath: filepath.Join(dir, "nodes.csv"),
		EdgesCSVPath: filepath.Join(dir, "edges.csv"),
		KnownPath:    filepath.Join(dir, "movies.txt"),
		PostersDir:   filepath.Join(dir, "posters"),
	}
	if movies != nil {
		require.NoError(t, st.SaveMovies(movies))
	}
	return NewEngine(st, nil, nil, config.Default())
}

func fixtureMovies() []model.Movie {
	y94, y95, y19 := 1994, 1995, 2019
	return []model.Movie{
		{Title: "Goodfellas", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci"}, Director: "Martin Scorsese", Year: &y94},
		{Title: "Casino", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci"}, Director: "Martin Scorsese", Year: &y95},
		{Title: "The Irishman", Genres: []string{"Crime", "Drama"}, Actors: []string{"Robert De Niro", "Joe Pesci", "Al Pacino"}, Director: "Martin Scorsese", Year: &y19},
		{Title: "Toy Story", Genres: []string{"Animation", "Comedy"}, Actors: []string{"Tom Hanks"}, Director: "John Lasseter", Year: &y95},
	}
}

func TestBuildGraph(t *testing.T) {
	e := testEngine(t, fixtureMovies())

	g, err := e.BuildGraph(context.Background(), 0.5)
	require.NoError(t, err)

	assert.Len(t, g.Nodes, 4)
	for _, edge := range g.Edges {
		assert.GreaterOrEqual(t, edge.Weight, 0.5)
		assert.Less(t, edge.From, edge.To)
	}

	// The graph file and the CSV exports are written alongside.
	onDisk, err := e.Store.ReadGraph()
	require.NoError(t, err)
	assert.Equal(t, g, onDisk)
	assert.FileExists(t, e.Store.NodesCSVPath)
	assert.FileExists(t, e.Store.EdgesCSVPath)
}

func TestBuildGraph_NegativeThresholdUsesConfig(t *testing.T) {
	e := testEngine(t, fixtureMovies())
	e.Config.Graph.Threshold = 1.1 // nothing can pass

	g, err := e.BuildGraph(context.Background(), -1)
	require.NoError(t, err)
	assert.Empty(t, g.Edges)
}

func TestBuildGraph_EmptyCache(t *testing.T) {
	e := testEngine(t, nil)

	g, err := e.BuildGraph(context.Background(), 0.5)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestBuildGraph_PersistsSnapshot(t *testing.T) {
	e := testEngine(t, fixtureMovies())
	mock := &MockDriver{}
	e.Driver = mock

	g, err := e.BuildGraph(context.Background(), 0.5)
	require.NoError(t, err)

	require.Len(t, mock.Queries, len(g.Nodes)+len(g.Edges))

	runID := mock.Params[0]["run_id"]
	assert.NotEmpty(t, runID)
	for _, params := range mock.Params {
		assert.Equal(t, runID, params["run_id"], "all writes share one run snapshot")
	}
	assert.Equal(t, driver.SaveMovieNodeQuery, mock.Queries[0])
	assert.Equal(t, "Goodfellas", mock.Params[0]["title"])
	assert.Equal(t, driver.SaveSimilarEdgeQuery, mock.Queries[len(g.Nodes)])
}

func TestRecommend_FirstKPolicy(t *testing.T) {
	e := testEngine(t, fixtureMovies())

	results, err := e.Recommend(context.Background(), RecommendOptions{
		KnownCount: 2,
		Threshold:  0,
	})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	// The Scorsese crime picture ranks far above the animated comedy.
	assert.Equal(t, 2, results[0].Index)
	for _, r := range results {
		assert.NotContains(t, []int{0, 1}, r.Index, "known movies are never recommended")
	}
}

func TestRecommend_TitlePolicy(t *testing.T) {
	e := testEngine(t, fixtureMovies())

	results, err := e.Recommend(context.Background(), RecommendOptions{
		Titles:    []string{"goodfellas", "Casino"},
		Threshold: 0,
	})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, 2, results[0].Index)
}

func TestRecommend_KnownListFileFallback(t *testing.T) {
	e := testEngine(t, fixtureMovies())
	require.NoError(t, os.WriteFile(e.Store.KnownPath, []byte("Goodfellas\nCasino\n"), 0o644))

	results, err := e.Recommend(context.Background(), RecommendOptions{Threshold: 0})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 2, results[0].Index)
}

func TestRecommend_NoKnownMovies(t *testing.T) {
	e := testEngine(t, fixtureMovies())

	results, err := e.Recommend(context.Background(), RecommendOptions{
		Titles:    []string{"Completely Unrelated Title"},
		Threshold: 0,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRecommend_EmptyCache(t *testing.T) {
	e := testEngine(t, nil)

	results, err := e.Recommend(context.Background(), RecommendOptions{KnownCount: 1})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRefresh_NoCatalog(t *testing.T) {
	e := testEngine(t, nil)

	_, err := e.Refresh(context.Background(), false, 0)
	assert.Error(t, err)
}

func TestRefresh_CompletesPartialRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") == "tt0099685" {
			w.Write([]byte(`{
				"Title": "Goodfellas", "Year": "1990", "Genre": "Crime, Drama",
				"Director": "Martin Scorsese", "Actors": "Robert De Niro, Joe Pesci",
				"imdbRating": "8.7", "imdbID": "tt0099685", "Poster": "N/A",
				"Type": "movie", "Response": "True"
			}`))
			return
		}
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer srv.Close()

	y95 := 1995
	// One record cached without its metadata, one already complete.
	e := testEngine(t, []model.Movie{
		{Title: "Goodfellas", IMDbID: "0099685"},
		{Title: "Casino", Genres: []string{"Crime"}, Actors: []string{"Robert De Niro"}, Director: "Martin Scorsese", Year: &y95, Poster: "Casino.jpg"},
	})
	e.Catalog = catalog.NewClient("test-key", srv.URL)

	movies, err := e.Refresh(context.Background(), false, 0)
	require.NoError(t, err)
	require.Len(t, movies, 2)

	filled := movies[0]
	assert.Equal(t, []string{"Crime", "Drama"}, filled.Genres)
	assert.Equal(t, "Martin Scorsese", filled.Director)
	assert.Equal(t, []string{"Robert De Niro", "Joe Pesci"}, filled.Actors)
	require.NotNil(t, filled.Year)
	assert.Equal(t, 1990, *filled.Year)

	// Complete records are left alone and the fix is saved back to the cache.
	assert.Equal(t, "Casino.jpg", movies[1].Poster)
	cached, err := e.Store.LoadMovies()
	require.NoError(t, err)
	assert.Equal(t, movies, cached)
}
