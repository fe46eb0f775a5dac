package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/filmgraph/filmgraph/internal/catalog"
	"github.com/filmgraph/filmgraph/internal/config"
	"github.com/filmgraph/filmgraph/internal/core"
	"github.com/filmgraph/filmgraph/internal/driver"
	"github.com/filmgraph/filmgraph/internal/store"
)

type Server struct {
	Engine *core.Engine
	Config *config.Config
}

// NewServer wires the engine from configuration. The graph database is
// optional: without MEMGRAPH_URI (or a configured uri) the server runs in
// cache-only mode.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfgPath).Msg("could not load config file, using defaults")
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
	} else {
		log.Warn().Msg("no catalog API key configured, refresh endpoints disabled")
	}

	var drv driver.GraphDriver
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			log.Warn().Err(err).Msg("graph database unavailable, running cache-only")
		} else {
			drv = d
		}
	}

	return &Server{
		Engine: core.NewEngine(st, cat, drv, cfg),
		Config: cfg,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/healthz", s.Health)
	r.GET("/api/movies", s.ListMovies)
	r.GET("/api/graph", s.GetGraph)
	r.POST("/api/graph", s.GenerateGraph)
	r.POST("/api/recommendations", s.Recommendations)
	r.POST("/api/refresh", s.Refresh)
	r.POST("/api/reset", s.Reset)

	return r
}

// corsMiddleware mirrors the headers the visualization front-end expects;
// the JSON endpoints must never be cached by browsers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListMovies(c *gin.Context) {
	movies, err := s.Engine.Store.LoadMovies()
	if err != nil {
		log.Error().Err(err).Msg("failed to load movies")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movies": movies, "count": len(movies)})
}

// GetGraph serves the last generated graph without rebuilding it.
func (s *Server) GetGraph(c *gin.Context) {
	g, err := s.Engine.Store.ReadGraph()
	if err != nil {
		log.Error().Err(err).Msg("failed to read graph")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read graph"})
		return
	}
	c.JSON(http.StatusOK, g)
}

type GenerateGraphRequest struct {
	Threshold *float64 `json:"threshold"`
}

func (s *Server) GenerateGraph(c *gin.Context) {
	var req GenerateGraphRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	threshold := -1.0
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	g, err := s.Engine.BuildGraph(c.Request.Context(), threshold)
	if err != nil {
		log.Error().Err(err).Msg("failed to build graph")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build graph"})
		return
	}
	c.JSON(http.StatusOK, g)
}

type RecommendationsRequest struct {
	Titles          []string `json:"titles"`
	KnownCount      int      `json:"known_count"`
	Threshold       *float64 `json:"threshold"`
	TopN            int      `json:"top_n"`
	PenalizePopular *bool    `json:"penalize_popular"`
}

func (s *Server) Recommendations(c *gin.Context) {
	var req RecommendationsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	opts := core.RecommendOptions{
		Titles:          req.Titles,
		KnownCount:      req.KnownCount,
		Threshold:       -1,
		TopN:            req.TopN,
		PenalizePopular: req.PenalizePopular,
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}

	results, err := s.Engine.Recommend(c.Request.Context(), opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendations"})
		return
	}

	if len(results) == 0 {
		c.JSON(http.StatusOK, gin.H{"recommendations": []any{}, "message": "no recommendation available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": results})
}

type RefreshRequest struct {
	Enrich   bool `json:"enrich"`
	PerTitle int  `json:"per_title"`
}

// Refresh pulls catalog records for the known list and optionally enriches
// the cache with lookalikes.
func (s *Server) Refresh(c *gin.Context) {
	var req RefreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}
	if req.PerTitle <= 0 {
		req.PerTitle = 3
	}

	movies, err := s.Engine.Refresh(c.Request.Context(), req.Enrich, req.PerTitle)
	if err != nil {
		log.Error().Err(err).Msg("refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(movies)})
}

type ResetRequest struct {
	IncludePosters bool `json:"include_posters"`
}

// Reset deletes the generated artifacts so the next refresh starts clean.
// The known-movie list survives a reset.
func (s *Server) Reset(c *gin.Context) {
	var req ResetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	deleted, err := s.Engine.Store.Reset(req.IncludePosters)
	if err != nil {
		log.Error().Err(err).Msg("reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}
