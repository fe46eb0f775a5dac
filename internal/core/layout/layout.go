// Package layout places graph nodes in 3D space with a force-directed
// relaxation: pairwise repulsion, weighted attraction along edges, a fixed
// number of explicit Euler steps. The result is visual only; coordinates
// carry no semantic meaning.
package layout

import (
	"math"
	"math/rand"
	"time"

	"github.com/filmgraph/filmgraph/internal/core/model"
)

const (
	defaultIterations = 50
	damping           = 0.8
	attraction        = 0.1
	// Floor added to every distance so coincident nodes never divide by zero.
	distanceFloor = 0.1

	minRadius = 5.0
	maxRadius = 15.0
)

// Engine runs the force simulation. It owns its random source, so two
// engines can lay out graphs concurrently without sharing state.
type Engine struct {
	Iterations int
	rng        *rand.Rand
}

// New returns an engine with a time-seeded random source. Successive runs
// start from different positions on purpose.
func New() *Engine {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns an engine whose starting positions are reproducible for
// a given seed. Tests rely on this.
func NewSeeded(seed int64) *Engine {
	return &Engine{
		Iterations: defaultIterations,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Layout computes one position per node index. The edge weights pull
// connected nodes together; every pair repels. Edges referencing indices
// outside [0,n) are ignored. Finite input always yields finite coordinates.
func (e *Engine) Layout(n int, edges []model.Edge) []model.Position {
	if n <= 0 {
		return nil
	}

	positions := e.initialPositions(n)

	// Repulsion constant scales with density so sparse graphs spread out.
	k := math.Sqrt(maxRadius * maxRadius / float64(n))

	forces := make([]model.Position, n)
	for iter := 0; iter < e.Iterations; iter++ {
		for i := range forces {
			forces[i] = model.Position{}
		}

		// Repulsion between every unordered pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dz := positions[i].Z - positions[j].Z
				dist := math.Sqrt(dx*dx+dy*dy+dz*dz) + distanceFloor

				f := k * k / dist
				fx := dx / dist * f
				fy := dy / dist * f
				fz := dz / dist * f

				forces[i].X += fx
				forces[i].Y += fy
				forces[i].Z += fz
				forces[j].X -= fx
				forces[j].Y -= fy
				forces[j].Z -= fz
			}
		}

		// Attraction along edges, proportional to distance and weight.
		for _, edge := range edges {
			i, j := edge.From, edge.To
			if i < 0 || j < 0 || i >= n || j >= n {
				continue
			}

			dx := positions[j].X - positions[i].X
			dy := positions[j].Y - positions[i].Y
			dz := positions[j].Z - positions[i].Z
			dist := math.Sqrt(dx*dx+dy*dy+dz*dz) + distanceFloor

			f := dist * edge.Weight * attraction
			fx := dx / dist * f
			fy := dy / dist * f
			fz := dz / dist * f

			forces[i].X += fx
			forces[i].Y += fy
			forces[i].Z += fz
			forces[j].X -= fx
			forces[j].Y -= fy
			forces[j].Z -= fz
		}

		// Single explicit step with fixed damping, no velocity carried over.
		for i := 0; i < n; i++ {
			positions[i].X += forces[i].X * damping
			positions[i].Y += forces[i].Y * damping
			positions[i].Z += forces[i].Z * damping
		}
	}

	return positions
}

// initialPositions scatters nodes on a spherical shell between minRadius and
// maxRadius so the simulation does not start from a degenerate cluster.
func (e *Engine) initialPositions(n int) []model.Position {
	positions := make([]model.Position, n)
	for i := range positions {
		azimuth := e.rng.Float64() * 2 * math.Pi
		polar := e.rng.Float64() * math.Pi
		radius := minRadius + e.rng.Float64()*(maxRadius-minRadius)

		positions[i] = model.Position{
			X: radius * math.Sin(polar) * math.Cos(azimuth),
			Y: radius * math.Sin(polar) * math.Sin(azimuth),
			Z: radius * math.Cos(polar),
		}
	}
	return positions
}
