package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

func TestEnrich(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("s") == "Heat":
			w.Write([]byte(`{
				"Response": "True",
				"Search": [
					{"Title": "Heat", "Year": "1995", "imdbID": "tt0113277", "Type": "movie"},
					{"Title": "Heat: Director's Cut", "Year": "1995", "imdbID": "tt7777777", "Type": "movie"}
				]
			}`))
		case q.Get("i") == "tt7777777":
			w.Write([]byte(`{"Title": "Heat: Director's Cut", "Year": "1995", "imdbID": "tt7777777", "Type": "movie", "Response": "True"}`))
		default:
			w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
		}
	})
	defer srv.Close()

	year := 1995
	movies := []model.Movie{
		{Title: "Heat", IMDbID: "0113277", Year: &year},
	}

	enriched, err := client.Enrich(context.Background(), movies, 5)
	require.NoError(t, err)

	// The already-cached ID is skipped, the new lookalike is appended after
	// the existing records.
	require.Len(t, enriched, 2)
	assert.Equal(t, "Heat", enriched[0].Title)
	assert.Equal(t, "Heat: Director's Cut", enriched[1].Title)
	assert.Equal(t, "7777777", enriched[1].IMDbID)
}

func TestEnrich_SkipsMoviesWithoutYear(t *testing.T) {
	requests := 0
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"Response": "False"}`))
	})
	defer srv.Close()

	movies := []model.Movie{{Title: "Undated"}}

	enriched, err := client.Enrich(context.Background(), movies, 5)
	require.NoError(t, err)
	assert.Equal(t, movies, enriched)
	assert.Zero(t, requests, "a movie without a year cannot be searched strictly")
}

func TestEnrich_SearchFailureIsNotFatal(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	year := 2000
	movies := []model.Movie{{Title: "Flaky", Year: &year}}

	enriched, err := client.Enrich(context.Background(), movies, 3)
	assert.NoError(t, err)
	assert.Equal(t, movies, enriched)
}
