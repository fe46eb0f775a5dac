// Package catalog fetches movie metadata and posters from the OMDb HTTP
// API. It is a collaborator of the core: it only produces model.Movie
// records, all scoring happens elsewhere.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

const maxActors = 5

// Client talks to an OMDb-compatible endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// omdbMovie is the raw OMDb detail payload. Absent values arrive as "N/A".
type omdbMovie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Poster     string `json:"Poster"`
	Type       string `json:"Type"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
}

type omdbSearch struct {
	Search   []omdbSearchItem `json:"Search"`
	Response string           `json:"Response"`
	Error    string           `json:"Error"`
}

// FetchByTitle looks a movie up by title, retrying with the English alias
// when a localized title finds nothing. Non-movie entries (trailers,
// featurettes, series) come back as nil without an error.
func (c *Client) FetchByTitle(ctx context.Context, title string) (*model.Movie, error) {
	raw, err := c.fetch(ctx, url.Values{"t": {title}})
	if err != nil {
		return nil, err
	}

	if raw == nil {
		alias := englishAlias(title)
		if !strings.EqualFold(alias, title) {
			raw, err = c.fetch(ctx, url.Values{"t": {alias}})
			if err != nil {
				return nil, err
			}
		}
	}
	if raw == nil {
		log.Debug().Str("title", title).Msg("movie not found in catalog")
		return nil, nil
	}
	return c.toMovie(raw, title)
}

// FetchByID looks a movie up by its IMDb identifier (with or without the
// "tt" prefix).
func (c *Client) FetchByID(ctx context.Context, imdbID string) (*model.Movie, error) {
	raw, err := c.fetch(ctx, url.Values{"i": {"tt" + stripIDPrefix(imdbID)}})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return c.toMovie(raw, "")
}

// SearchSimilar finds IMDb IDs of catalog entries whose title really matches
// the given one (exact, or prefix followed by punctuation) with a release
// year within 10 years. The strictness keeps enrichment from pulling in
// loose homonyms.
func (c *Client) SearchSimilar(ctx context.Context, title string, year int, max int) ([]string, error) {
	if title == "" || year == 0 {
		return nil, nil
	}

	var result omdbSearch
	if err := c.get(ctx, url.Values{"s": {title}, "type": {"movie"}, "page": {"1"}}, &result); err != nil {
		return nil, err
	}
	if result.Response != "True" {
		return nil, nil
	}

	ref := strings.ToLower(strings.TrimSpace(title))
	var ids []string
	for _, item := range result.Search {
		if len(ids) >= max {
			break
		}
		itemYear, err := strconv.Atoi(firstDigits(item.Year, 4))
		if err != nil || abs(itemYear-year) > 10 {
			continue
		}
		if !titleMatches(ref, strings.ToLower(strings.TrimSpace(item.Title))) {
			continue
		}
		if id := stripIDPrefix(item.ImdbID); id != "" {
			ids = append(ids, padID(id))
		}
	}
	return ids, nil
}

// fetch performs a detail request and returns nil when the API reports
// "not found" or the result is not a usable feature film.
func (c *Client) fetch(ctx context.Context, params url.Values) (*omdbMovie, error) {
	var raw omdbMovie
	if err := c.get(ctx, params, &raw); err != nil {
		return nil, err
	}
	if raw.Response != "True" {
		return nil, nil
	}
	if raw.Type != "" && raw.Type != "movie" {
		log.Debug().Str("title", raw.Title).Str("type", raw.Type).Msg("skipping non-movie entry")
		return nil, nil
	}
	if isNonMovieTitle(raw.Title) {
		log.Debug().Str("title", raw.Title).Msg("skipping non-feature title")
		return nil, nil
	}
	return &raw, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// toMovie converts a raw payload into a record, treating every "N/A" as an
// absent field rather than an error.
func (c *Client) toMovie(raw *omdbMovie, searchTitle string) (*model.Movie, error) {
	movie := model.Movie{
		Title:         raw.Title,
		OriginalTitle: searchTitle,
		IMDbID:        padID(stripIDPrefix(raw.ImdbID)),
		Genres:        splitList(raw.Genre, 0),
		Actors:        splitList(raw.Actors, maxActors),
		Director:      cleanValue(raw.Director),
	}

	if y, err := strconv.Atoi(firstDigits(raw.Year, 4)); err == nil && y > 0 {
		movie.Year = &y
	}
	if r, err := strconv.ParseFloat(cleanValue(raw.ImdbRating), 64); err == nil {
		movie.Rating = &r
	}

	return &movie, nil
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "N/A" {
		return ""
	}
	return v
}

func splitList(v string, limit int) []string {
	v = cleanValue(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	if limit > 0 && len(parts) > limit {
		parts = parts[:limit]
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// firstDigits extracts the leading run of up to n digits, so year ranges
// like "1999–2003" parse as 1999.
func firstDigits(v string, n int) string {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && end < n && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	return v[:end]
}

func stripIDPrefix(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "tt")
}

// padID left-pads numeric IMDb identifiers to 7 digits, the canonical form.
func padID(id string) string {
	if id == "" {
		return ""
	}
	for len(id) < 7 {
		id = "0" + id
	}
	return id
}

// titleMatches accepts an exact title or the reference as a prefix followed
// by a separator, so "Hamilton" matches "Hamilton: The Musical" but not
// "Lady Hamilton".
func titleMatches(ref, candidate string) bool {
	if candidate == ref {
		return true
	}
	if !strings.HasPrefix(candidate, ref) {
		return false
	}
	next := candidate[len(ref):]
	return strings.IndexAny(next, " (:-") == 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
