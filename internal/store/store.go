// Package store persists movie records and generated graphs as JSON files
// and reads the user's known-movie list. Missing files are treated as empty
// data, never as fatal conditions.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

// Store holds the file locations for one data directory layout.
type Store struct {
	MoviesPath   string
	GraphPath    string
	NodesCSVPath string
	EdgesCSVPath string
	KnownPath    string
	PostersDir   string
}

type moviesFile struct {
	Movies []model.Movie `json:"movies"`
}

// LoadMovies reads the cached movie records. A missing cache yields an empty
// slice and no error.
func (s *Store) LoadMovies() ([]model.Movie, error) {
	data, err := os.ReadFile(s.MoviesPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read movie cache '%s': %w", s.MoviesPath, err)
	}

	var file moviesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse movie cache '%s': %w", s.MoviesPath, err)
	}
	return file.Movies, nil
}

// SaveMovies writes the full record sequence back to the cache, creating
// parent directories as needed.
func (s *Store) SaveMovies(movies []model.Movie) error {
	data, err := json.MarshalIndent(moviesFile{Movies: movies}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode movie cache: %w", err)
	}
	return writeFile(s.MoviesPath, data)
}

// WriteGraph serializes a generated graph to the graph file.
func (s *Store) WriteGraph(g model.Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return writeFile(s.GraphPath, data)
}

// ReadGraph loads the last generated graph. A missing file returns an empty
// graph and no error.
func (s *Store) ReadGraph() (model.Graph, error) {
	var g model.Graph

	data, err := os.ReadFile(s.GraphPath)
	if os.IsNotExist(err) {
		return g, nil
	}
	if err != nil {
		return g, fmt.Errorf("failed to read graph '%s': %w", s.GraphPath, err)
	}

	if err := json.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("failed to parse graph '%s': %w", s.GraphPath, err)
	}
	return g, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
