// Package som holds the spatial half of a self-organizing map: a rectangular
// grid of units, one prototype vector per unit, and the neighborhood kernel
// used to spread an update from a winning unit to its neighbors.
package som

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidSize is returned when a grid or feature dimension is not positive.
var ErrInvalidSize = errors.New("som: invalid size")

// Map is a width×height grid of units. Unit i sits at x = i % width,
// y = i / width.
type Map struct {
	width   int
	height  int
	dataDim int
	weights *mat.Dense // [MapDim × DataDim]
}

// Geometry is the unit layout a neighborhood kernel is evaluated on.
// It is rebuilt once per epoch and carries the radius it was built for.
type Geometry struct {
	Radius float64
	X      []float64
	Y      []float64
}

// New creates a map with spatial weights drawn uniformly from [0,1).
// A nil rng falls back to a source seeded with 1 so runs stay reproducible.
func New(width, height, dataDim int, rng *rand.Rand) (*Map, error) {
	if width <= 0 || height <= 0 || dataDim <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d data_dim=%d", ErrInvalidSize, width, height, dataDim)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	n := width * height
	data := make([]float64, n*dataDim)
	for i := range data {
		data[i] = rng.Float64()
	}
	return &Map{
		width:   width,
		height:  height,
		dataDim: dataDim,
		weights: mat.NewDense(n, dataDim, data),
	}, nil
}

func (m *Map) Width() int   { return m.width }
func (m *Map) Height() int  { return m.height }
func (m *Map) MapDim() int  { return m.width * m.height }
func (m *Map) DataDim() int { return m.dataDim }

// Weights returns the live spatial weight matrix. Callers that mutate it
// own the consequences; the trainer is the only writer.
func (m *Map) Weights() *mat.Dense { return m.weights }

// Coords returns the grid position of a unit.
func (m *Map) Coords(unit int) (x, y int) {
	return unit % m.width, unit / m.width
}

// InitialRadius is the neighborhood radius a training run starts from.
func (m *Map) InitialRadius() float64 {
	return float64(max(m.width, m.height)) / 2
}

// DistanceGrid lays out unit coordinates for the influence kernel.
func (m *Map) DistanceGrid(radius float64) Geometry {
	n := m.MapDim()
	g := Geometry{Radius: radius, X: make([]float64, n), Y: make([]float64, n)}
	for i := 0; i < n; i++ {
		x, y := m.Coords(i)
		g.X[i] = float64(x)
		g.Y[i] = float64(y)
	}
	return g
}

// Influence returns the neighborhood weight of every unit with respect to
// center: exp(-d²/sqRadius) inside the radius, zero outside. The center
// always gets 1, so a collapsed radius still updates the winner.
func (m *Map) Influence(g Geometry, sqRadius float64, center int) []float64 {
	out := make([]float64, len(g.X))
	cx, cy := g.X[center], g.Y[center]
	for i := range out {
		dx, dy := g.X[i]-cx, g.Y[i]-cy
		d := dx*dx + dy*dy
		switch {
		case i == center:
			out[i] = 1
		case sqRadius <= 0 || d >= sqRadius:
			out[i] = 0
		default:
			out[i] = math.Exp(-d / sqRadius)
		}
	}
	return out
}

// Difference computes x_e - w_u for every example row of batch and every
// unit. The result holds one [MapDim × DataDim] matrix per example.
func (m *Map) Difference(batch mat.Matrix) ([]*mat.Dense, error) {
	r, c := batch.Dims()
	if c != m.dataDim {
		return nil, fmt.Errorf("%w: batch has %d features, map has %d", ErrInvalidSize, c, m.dataDim)
	}
	n := m.MapDim()
	out := make([]*mat.Dense, r)
	x := make([]float64, c)
	for e := 0; e < r; e++ {
		mat.Row(x, e, batch)
		d := mat.NewDense(n, c, nil)
		for u := 0; u < n; u++ {
			floats.SubTo(d.RawRowView(u), x, m.weights.RawRowView(u))
		}
		out[e] = d
	}
	return out, nil
}

// Clip bounds every spatial weight to [lo, hi].
func (m *Map) Clip(lo, hi float64) {
	ClipDense(m.weights, lo, hi)
}

// ClipDense bounds every entry of d to [lo, hi] in place.
func ClipDense(d *mat.Dense, lo, hi float64) {
	d.Apply(func(_, _ int, v float64) float64 {
		return math.Min(hi, math.Max(lo, v))
	}, d)
}
