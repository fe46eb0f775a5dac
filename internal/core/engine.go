// Package core ties the collaborators together: load records, score pairs,
// filter, lay out, persist, recommend.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/filmgraph/filmgraph/internal/catalog"
	"github.com/filmgraph/filmgraph/internal/config"
	"github.com/filmgraph/filmgraph/internal/core/graph"
	"github.com/filmgraph/filmgraph/internal/core/layout"
	"github.com/filmgraph/filmgraph/internal/core/model"
	"github.com/filmgraph/filmgraph/internal/core/recommend"
	"github.com/filmgraph/filmgraph/internal/driver"
	"github.com/filmgraph/filmgraph/internal/store"
)

// Engine runs the graph-build and recommendation pipelines over a movie
// store. Catalog and Driver are optional: without a catalog the engine works
// from the cache only, without a driver nothing is persisted to the graph
// database.
type Engine struct {
	Store   *store.Store
	Catalog *catalog.Client
	Driver  driver.GraphDriver
	Layout  *layout.Engine
	Config  *config.Config
}

func NewEngine(st *store.Store, cat *catalog.Client, drv driver.GraphDriver, cfg *config.Config) *Engine {
	return &Engine{
		Store:   st,
		Catalog: cat,
		Driver:  drv,
		Layout:  layout.New(),
		Config:  cfg,
	}
}

// BuildGraph runs the full pipeline: all-pairs scoring, threshold filtering,
// 3D layout, graph assembly. A negative threshold means "use the configured
// one". The result is written to the graph file and, when a driver is
// present, persisted as a new run snapshot.
func (e *Engine) BuildGraph(ctx context.Context, threshold float64) (model.Graph, error) {
	if threshold < 0 {
		threshold = e.Config.Graph.Threshold
	}

	movies, err := e.Store.LoadMovies()
	if err != nil {
		return model.Graph{}, err
	}

	edges := graph.BuildAllEdges(movies)
	filtered := graph.Filter(edges, threshold)
	positions := e.Layout.Layout(len(movies), filtered)
	g := graph.Assemble(movies, filtered, positions)

	log.Info().
		Int("movies", len(movies)).
		Int("edges", len(edges)).
		Int("kept", len(filtered)).
		Float64("threshold", threshold).
		Msg("graph built")

	if err := e.Store.WriteGraph(g); err != nil {
		return model.Graph{}, err
	}
	if err := e.Store.WriteCSV(movies, filtered); err != nil {
		return model.Graph{}, err
	}

	if e.Driver != nil {
		if err := e.persistGraph(ctx, movies, g); err != nil {
			// Persistence is best-effort; the file on disk is the artifact
			// consumers read.
			log.Warn().Err(err).Msg("failed to persist graph snapshot")
		}
	}

	return g, nil
}

// RecommendOptions selects the known movies and tunes the ranking.
// Exactly one of Titles or KnownCount should be set; when both are empty
// the engine falls back to the known-movie list file.
type RecommendOptions struct {
	Titles          []string
	KnownCount      int
	Threshold       float64 // negative = configured default
	TopN            int     // 0 = configured default
	PenalizePopular *bool   // nil = configured default
}

// Recommend scores and ranks unseen movies against the known set. Empty
// catalogs and unresolvable known sets return an empty list, not an error.
func (e *Engine) Recommend(ctx context.Context, opts RecommendOptions) ([]model.Recommendation, error) {
	movies, err := e.Store.LoadMovies()
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}

	known, err := e.resolveKnown(movies, opts)
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		log.Info().Msg("no known movies resolved, nothing to recommend")
		return nil, nil
	}

	threshold := opts.Threshold
	if threshold < 0 {
		threshold = e.Config.Graph.Threshold
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = e.Config.Recommend.TopN
	}
	penalize := e.Config.Recommend.PenalizePopular
	if opts.PenalizePopular != nil {
		penalize = *opts.PenalizePopular
	}

	edges := graph.Filter(graph.BuildAllEdges(movies), threshold)
	results := recommend.Recommend(movies, edges, known, topN, penalize)

	log.Info().
		Int("known", len(known)).
		Int("results", len(results)).
		Msg("recommendations computed")
	return results, nil
}

func (e *Engine) resolveKnown(movies []model.Movie, opts RecommendOptions) (map[int]bool, error) {
	if opts.KnownCount > 0 {
		return recommend.FirstK(opts.KnownCount, len(movies)), nil
	}
	titles := opts.Titles
	if len(titles) == 0 {
		var err error
		titles, err = e.Store.KnownTitles()
		if err != nil {
			return nil, err
		}
	}
	return recommend.ResolveKnownByTitle(movies, titles), nil
}

// Refresh fetches catalog records for known-list entries missing from the
// cache and, optionally, enriches the cache with lookalike movies. Fetch
// failures for individual titles are logged and skipped.
func (e *Engine) Refresh(ctx context.Context, enrich bool, perTitle int) ([]model.Movie, error) {
	if e.Catalog == nil {
		return nil, fmt.Errorf("no catalog client configured")
	}

	movies, err := e.Store.LoadMovies()
	if err != nil {
		return nil, err
	}
	entries, err := e.Store.LoadKnownList()
	if err != nil {
		return nil, err
	}

	if completed := e.completeMissing(ctx, movies); completed > 0 {
		log.Info().Int("completed", completed).Msg("back-filled partial movie records")
	}

	cached := make(map[string]bool, len(movies))
	for _, m := range movies {
		cached[recommend.NormalizeTitle(m.OriginalTitle)] = true
		cached[recommend.NormalizeTitle(m.Title)] = true
	}

	added := 0
	for _, entry := range entries {
		if cached[recommend.NormalizeTitle(entry.Title)] {
			continue
		}

		var movie *model.Movie
		if entry.IMDbID != "" {
			movie, err = e.Catalog.FetchByID(ctx, entry.IMDbID)
			if movie != nil {
				movie.OriginalTitle = entry.Title
			}
		} else {
			movie, err = e.Catalog.FetchByTitle(ctx, entry.Title)
		}
		if err != nil {
			log.Warn().Err(err).Str("title", entry.Title).Msg("failed to fetch movie")
			continue
		}
		if movie == nil {
			continue
		}

		if poster, perr := e.Catalog.DownloadPoster(ctx, movie.DisplayTitle(), movie.IMDbID, e.Store.PostersDir); perr == nil && poster != "" {
			movie.Poster = poster
		}

		movies = append(movies, *movie)
		cached[recommend.NormalizeTitle(movie.Title)] = true
		added++
	}
	log.Info().Int("added", added).Msg("known-list refresh done")

	if enrich {
		movies, err = e.Catalog.Enrich(ctx, movies, perTitle)
		if err != nil {
			return nil, err
		}
	}

	if err := e.Store.SaveMovies(movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// completeMissing re-fetches cached records whose metadata fields never made
// it into the cache (interrupted refresh, older cache format) and fills the
// gaps in place. Populated fields are never overwritten. Returns how many
// records were touched.
func (e *Engine) completeMissing(ctx context.Context, movies []model.Movie) int {
	completed := 0
	for i := range movies {
		m := &movies[i]
		if len(m.Genres) > 0 && len(m.Actors) > 0 && m.Director != "" && m.Poster != "" {
			continue
		}

		var fetched *model.Movie
		var err error
		if m.IMDbID != "" {
			fetched, err = e.Catalog.FetchByID(ctx, m.IMDbID)
		} else {
			fetched, err = e.Catalog.FetchByTitle(ctx, m.DisplayTitle())
		}
		if err != nil {
			log.Warn().Err(err).Str("title", m.DisplayTitle()).Msg("failed to complete movie record")
			continue
		}
		if fetched == nil {
			continue
		}

		if m.Title == "" {
			m.Title = fetched.Title
		}
		if m.IMDbID == "" {
			m.IMDbID = fetched.IMDbID
		}
		if len(m.Genres) == 0 {
			m.Genres = fetched.Genres
		}
		if len(m.Actors) == 0 {
			m.Actors = fetched.Actors
		}
		if m.Director == "" {
			m.Director = fetched.Director
		}
		if m.Year == nil {
			m.Year = fetched.Year
		}
		if m.Rating == nil {
			m.Rating = fetched.Rating
		}
		if m.Poster == "" {
			if poster, perr := e.Catalog.DownloadPoster(ctx, m.DisplayTitle(), m.IMDbID, e.Store.PostersDir); perr == nil && poster != "" {
				m.Poster = poster
			}
		}
		completed++
	}
	return completed
}

// persistGraph writes one run snapshot to the graph database, tagged with a
// fresh run UUID so successive builds never collide on positional indices.
func (e *Engine) persistGraph(ctx context.Context, movies []model.Movie, g model.Graph) error {
	runID := uuid.New().String()
	now := time.Now().UTC()

	for i, node := range g.Nodes {
		var m model.Movie
		if i < len(movies) {
			m = movies[i]
		}

		var year interface{}
		if m.Year != nil {
			year = *m.Year
		}
		var rating interface{}
		if m.Rating != nil {
			rating = *m.Rating
		}

		params := map[string]interface{}{
			"run_id":     runID,
			"node_id":    node.ID,
			"title":      m.DisplayTitle(),
			"imdb_id":    m.IMDbID,
			"year":       year,
			"rating":     rating,
			"director":   m.Director,
			"genres":     m.Genres,
			"actors":     m.Actors,
			"poster":     node.Texture,
			"x":          node.X,
			"y":          node.Y,
			"z":          node.Z,
			"created_at": now,
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveMovieNodeQuery, params); err != nil {
			return fmt.Errorf("failed to save movie node %d: %w", node.ID, err)
		}
	}

	for _, edge := range g.Edges {
		params := map[string]interface{}{
			"run_id": runID,
			"from":   edge.From,
			"to":     edge.To,
			"weight": edge.Weight,
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveSimilarEdgeQuery, params); err != nil {
			return fmt.Errorf("failed to save edge %d-%d: %w", edge.From, edge.To, err)
		}
	}

	log.Info().Str("run_id", runID).Int("nodes", len(g.Nodes)).Int("edges", len(g.Edges)).Msg("graph snapshot persisted")
	return nil
}
