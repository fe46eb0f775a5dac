package model

// Movie is a single catalog record. Optional fields use pointers or empty
// values; every consumer must tolerate them being absent.
type Movie struct {
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title,omitempty"`
	IMDbID        string   `json:"imdb_id,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Year          *int     `json:"year,omitempty"`
	Actors        []string `json:"actors,omitempty"`
	Director      string   `json:"director,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Poster        string   `json:"poster,omitempty"`
}

// DisplayTitle returns the title to show users, falling back to the
// original search title when the catalog title is missing.
func (m Movie) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.OriginalTitle
}
