package model

// Position is a 3D coordinate assigned to a node by the layout engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Node is a positioned movie in the serialized graph. ID is the movie's
// positional index within the run that produced the graph; it is not a
// durable identifier across runs.
type Node struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Texture string  `json:"texture"`
}

// Graph is the laid-out, filtered similarity graph. It is built once per run
// and never mutated afterwards, only serialized.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
