package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

var nodesHeader = []string{"id", "title", "year", "genres", "director", "actors", "rating", "poster"}

var edgesHeader = []string{"from", "to", "weight"}

// WriteCSV exports the record sequence and the filtered edge set as two flat
// files next to the graph JSON, for spreadsheet and graph-tool consumers.
// List fields are pipe-joined, absent years and ratings stay blank. A store
// without CSV paths configured skips the export.
func (s *Store) WriteCSV(movies []model.Movie, edges []model.Edge) error {
	if s.NodesCSVPath == "" || s.EdgesCSVPath == "" {
		return nil
	}

	nodes := make([][]string, 0, len(movies)+1)
	nodes = append(nodes, nodesHeader)
	for i, m := range movies {
		year := ""
		if m.Year != nil {
			year = strconv.Itoa(*m.Year)
		}
		rating := ""
		if m.Rating != nil {
			rating = strconv.FormatFloat(*m.Rating, 'g', -1, 64)
		}
		nodes = append(nodes, []string{
			strconv.Itoa(i),
			m.DisplayTitle(),
			year,
			strings.Join(m.Genres, "|"),
			m.Director,
			strings.Join(m.Actors, "|"),
			rating,
			m.Poster,
		})
	}
	if err := writeCSVFile(s.NodesCSVPath, nodes); err != nil {
		return err
	}

	rows := make([][]string, 0, len(edges)+1)
	rows = append(rows, edgesHeader)
	for _, e := range edges {
		rows = append(rows, []string{
			strconv.Itoa(e.From),
			strconv.Itoa(e.To),
			strconv.FormatFloat(e.Weight, 'g', -1, 64),
		})
	}
	return writeCSVFile(s.EdgesCSVPath, rows)
}

func writeCSVFile(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

// Reset deletes the generated artifacts (movie cache, graph JSON, CSV
// exports) and, when asked, every downloaded poster. The known-movie list is
// user data and stays. Returns the paths actually removed.
func (s *Store) Reset(includePosters bool) ([]string, error) {
	var deleted []string
	for _, path := range []string{s.MoviesPath, s.GraphPath, s.NodesCSVPath, s.EdgesCSVPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return deleted, fmt.Errorf("failed to remove '%s': %w", path, err)
		}
		deleted = append(deleted, path)
	}

	if includePosters && s.PostersDir != "" {
		entries, err := os.ReadDir(s.PostersDir)
		if err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("failed to read posters directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(s.PostersDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return deleted, fmt.Errorf("failed to remove '%s': %w", path, err)
			}
			deleted = append(deleted, path)
		}
	}

	return deleted, nil
}
