package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

// enrichConcurrency bounds parallel catalog lookups so enrichment does not
// hammer the API.
const enrichConcurrency = 4

// Enrich searches the catalog for lookalikes of each existing record and
// appends any new movies found. New records always go after the existing
// ones, so a caller using the "first K records are known" policy stays
// consistent. Individual lookup failures are logged and skipped, never
// fatal: a partially enriched set is still useful.
func (c *Client) Enrich(ctx context.Context, movies []model.Movie, perTitle int) ([]model.Movie, error) {
	existing := make(map[string]bool, len(movies))
	for _, m := range movies {
		if m.IMDbID != "" {
			existing[m.IMDbID] = true
		}
	}

	var (
		mu    sync.Mutex
		found = make(map[string]bool)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for _, m := range movies {
		if m.Year == nil {
			continue
		}
		title, year := m.DisplayTitle(), *m.Year
		g.Go(func() error {
			ids, err := c.SearchSimilar(gctx, title, year, perTitle)
			if err != nil {
				log.Warn().Err(err).Str("title", title).Msg("lookalike search failed")
				return nil
			}
			mu.Lock()
			for _, id := range ids {
				if !existing[id] {
					found[id] = true
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return movies, err
	}

	// Deterministic fetch order regardless of which search finished first.
	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	enriched := movies
	for _, id := range ids {
		movie, err := c.FetchByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("imdb_id", id).Msg("failed to fetch lookalike")
			continue
		}
		if movie == nil {
			continue
		}
		enriched = append(enriched, *movie)
	}

	log.Info().Int("before", len(movies)).Int("after", len(enriched)).Msg("catalog enrichment done")
	return enriched, nil
}
