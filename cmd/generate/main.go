// Command generate runs the full pipeline once: optionally refresh and
// enrich the movie cache from the catalog, build the filtered similarity
// graph with its 3D layout, write graph.json and print the top
// recommendations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/filmgraph/filmgraph/internal/catalog"
	"github.com/filmgraph/filmgraph/internal/config"
	"github.com/filmgraph/filmgraph/internal/core"
	"github.com/filmgraph/filmgraph/internal/store"
)

func main() {
	var (
		cfgPath   = flag.String("config", "config/config.toml", "path to the TOML configuration file")
		threshold = flag.Float64("threshold", -1, "edge weight threshold (negative = configured default)")
		topN      = flag.Int("top", 0, "number of recommendations to print (0 = configured default)")
		known     = flag.Int("known", 0, "treat the first N cached records as known (0 = match titles from the known list file)")
		refresh   = flag.Bool("refresh", false, "fetch catalog records for known-list entries missing from the cache")
		enrich    = flag.Bool("enrich", false, "also enrich the cache with catalog lookalikes (implies -refresh)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Warn().Err(err).Msg("could not load config file, using defaults")
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	st := &store.Store{
		MoviesPath:   cfg.Store.MoviesFile,
		GraphPath:    cfg.Store.GraphFile,
		NodesCSVPath: cfg.Store.NodesFile,
		EdgesCSVPath: cfg.Store.EdgesFile,
		KnownPath:    cfg.Store.KnownFile,
		PostersDir:   cfg.Store.PostersDir,
	}

	var cat *catalog.Client
	if cfg.Catalog.APIKey != "" {
		cat = catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL)
	}

	engine := core.NewEngine(st, cat, nil, cfg)
	ctx := context.Background()

	if *refresh || *enrich {
		if _, err := engine.Refresh(ctx, *enrich, 3); err != nil {
			log.Fatal().Err(err).Msg("refresh failed")
		}
	}

	g, err := engine.BuildGraph(ctx, *threshold)
	if err != nil {
		log.Fatal().Err(err).Msg("graph build failed")
	}
	log.Info().
		Int("nodes", len(g.Nodes)).
		Int("edges", len(g.Edges)).
		Str("file", cfg.Store.GraphFile).
		Msg("graph written")

	results, err := engine.Recommend(ctx, core.RecommendOptions{
		KnownCount: *known,
		Threshold:  *threshold,
		TopN:       *topN,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("recommendation failed")
	}

	if len(results) == 0 {
		fmt.Println("No recommendation available")
		return
	}

	fmt.Println("Recommended movies:")
	for i, r := range results {
		line := fmt.Sprintf("%2d. %s", i+1, r.Movie.DisplayTitle())
		if r.Movie.Year != nil {
			line += fmt.Sprintf(" (%d)", *r.Movie.Year)
		}
		line += fmt.Sprintf("  score=%.4f", r.Score)
		if r.Movie.Director != "" {
			line += "  dir=" + r.Movie.Director
		}
		fmt.Println(line)
	}
}
