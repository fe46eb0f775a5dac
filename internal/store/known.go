package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// KnownEntry is one line of the known-movie list: a title, optionally with a
// pinned IMDb identifier ("Title|0133093").
type KnownEntry struct {
	Title  string
	IMDbID string
}

// LoadKnownList reads the known-movie file in order. Blank lines are
// skipped. A missing file yields an empty list and no error so a fresh
// checkout still starts.
func (s *Store) LoadKnownList() ([]KnownEntry, error) {
	f, err := os.Open(s.KnownPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open known-movie list '%s': %w", s.KnownPath, err)
	}
	defer f.Close()

	var entries []KnownEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry := KnownEntry{Title: line}
		if title, id, ok := strings.Cut(line, "|"); ok {
			entry.Title = strings.TrimSpace(title)
			entry.IMDbID = strings.TrimSpace(id)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read known-movie list '%s': %w", s.KnownPath, err)
	}
	return entries, nil
}

// KnownTitles returns just the titles of the known list, in file order.
func (s *Store) KnownTitles() ([]string, error) {
	entries, err := s.LoadKnownList()
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	return titles, nil
}
