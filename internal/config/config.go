package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type CatalogConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type GraphConfig struct {
	Threshold float64 `toml:"threshold"`
}

type RecommendConfig struct {
	TopN            int  `toml:"top_n"`
	PenalizePopular bool `toml:"penalize_popular"`
}

type StoreConfig struct {
	MoviesFile string `toml:"movies_file"`
	GraphFile  string `toml:"graph_file"`
	NodesFile  string `toml:"nodes_file"`
	EdgesFile  string `toml:"edges_file"`
	KnownFile  string `toml:"known_file"`
	PostersDir string `toml:"posters_dir"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Graph     GraphConfig     `toml:"graph"`
	Recommend RecommendConfig `toml:"recommend"`
	Store     StoreConfig     `toml:"store"`
	Memgraph  MemgraphConfig  `toml:"memgraph"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Catalog: CatalogConfig{
			BaseURL: "http://www.omdbapi.com/",
		},
		Graph: GraphConfig{Threshold: 0.5},
		Recommend: RecommendConfig{
			TopN:            10,
			PenalizePopular: true,
		},
		Store: StoreConfig{
			MoviesFile: "output/movies.json",
			GraphFile:  "output/graph.json",
			NodesFile:  "output/nodes.csv",
			EdgesFile:  "output/edges.csv",
			KnownFile:  "data/movies.txt",
			PostersDir: "output/posters",
		},
	}
}

// Load reads a TOML file over the defaults, so partial files only override
// what they name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables. Called after Load
// so deployment environments win over the file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("OMDB_API_KEY"); v != "" {
		c.Catalog.APIKey = v
	}
	if v := os.Getenv("OMDB_BASE_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		c.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		c.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		c.Memgraph.Password = v
	}
}
