package model

// Edge is an undirected similarity link between two movies, identified by
// their positional indices in the record sequence. Invariants:
// 0 <= From < To < N and 0.0 <= Weight <= 1.0. Each unordered pair appears
// at most once and self-edges are never emitted.
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}
