package model

// Recommendation is one ranked candidate: the movie's index within the run,
// its (possibly popularity-penalized) score, and the full record.
type Recommendation struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Movie Movie   `json:"movie"`
}
