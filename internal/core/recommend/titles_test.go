package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Blade Runner (1982)", "BLADE RUNNER"},
		{"  the   godfather  ", "THE GODFATHER"},
		{"Heat", "HEAT"},
		{"Dune (Part Two)", "DUNE (PART TWO)"}, // only 4-digit years are stripped
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeTitle(c.in), "input %q", c.in)
	}
}

func TestResolveKnownByTitle_Exact(t *testing.T) {
	movies := []model.Movie{
		{Title: "The Godfather"},
		{Title: "Le Parrain", OriginalTitle: "The Godfather Part II"},
		{Title: "Heat"},
	}

	known := ResolveKnownByTitle(movies, []string{"the godfather", "The Godfather Part II"})

	assert.True(t, known[0])
	assert.True(t, known[1], "original title must match too")
	assert.False(t, known[2])
}

func TestResolveKnownByTitle_WordOverlap(t *testing.T) {
	movies := []model.Movie{
		{Title: "The Lord of the Rings: The Fellowship of the Ring"},
		{Title: "Ring"},
	}

	known := ResolveKnownByTitle(movies, []string{"Lord of the Rings"})

	// "LORD" and "RINGS" overlap; the single-word "Ring" does not qualify.
	assert.True(t, known[0])
	assert.False(t, known[1])
}

func TestResolveKnownByTitle_Empty(t *testing.T) {
	movies := []model.Movie{{Title: "Heat"}}

	assert.Empty(t, ResolveKnownByTitle(movies, nil))
	assert.Empty(t, ResolveKnownByTitle(movies, []string{"", "  "}))
}

func TestFirstK(t *testing.T) {
	known := FirstK(3, 10)
	assert.Len(t, known, 3)
	assert.True(t, known[0] && known[1] && known[2])
	assert.False(t, known[3])

	assert.Len(t, FirstK(10, 4), 4, "k is clamped to the record count")
	assert.Empty(t, FirstK(0, 5))
	assert.Empty(t, FirstK(-1, 5))
}
