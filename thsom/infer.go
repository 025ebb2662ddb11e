package thsom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Predict replays winner selection over every position of x with the
// model frozen and returns the winning unit per sequence and position.
func (m *Model) Predict(x *Sequences) ([][]int, error) {
	if x == nil || x.N == 0 {
		return nil, fmt.Errorf("%w: no sequences to predict", ErrEmptyBatch)
	}
	if x.D != m.DataDim() && x.L > 0 {
		return nil, fmt.Errorf("%w: input has %d features, model expects %d", ErrShapeMismatch, x.D, m.DataDim())
	}

	out := make([][]int, x.N)
	for i := range out {
		out[i] = make([]int, x.L)
	}
	colSum := m.temporalColumnSums()
	prev := mat.NewDense(x.N, m.MapDim(), nil)
	for pos := 0; pos < x.L; pos++ {
		sel, err := m.SelectWinners(x.Column(pos, 0, x.N), prev, colSum)
		if err != nil {
			return nil, err
		}
		for i, w := range sel.Winners {
			out[i][pos] = w
		}
		prev = sel.Activation
	}
	return out, nil
}

// AssignExemplar labels every unit with the index of the exemplar that has
// the largest squared distance to the unit's prototype, i.e. the farthest
// exemplar. Ties go to the lowest exemplar index.
//
// The farthest-exemplar rule is kept as the established behavior even
// though a clustering reading would suggest the nearest one.
func (m *Model) AssignExemplar(exemplars [][]float64) ([]int, error) {
	if len(exemplars) == 0 {
		return nil, fmt.Errorf("%w: no exemplars", ErrEmptyBatch)
	}
	dim := m.DataDim()
	batch := mat.NewDense(len(exemplars), dim, nil)
	for i, ex := range exemplars {
		if len(ex) != dim {
			return nil, fmt.Errorf("%w: exemplar %d has %d features, model expects %d", ErrShapeMismatch, i, len(ex), dim)
		}
		batch.SetRow(i, ex)
	}
	diff, err := m.spatial.Difference(batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}

	n := m.MapDim()
	labels := make([]int, n)
	dist := make([]float64, len(exemplars))
	for u := 0; u < n; u++ {
		for e := range exemplars {
			row := diff[e].RawRowView(u)
			dist[e] = floats.Dot(row, row)
		}
		labels[u] = floats.MaxIdx(dist)
	}
	return labels, nil
}

// AssignExemplarNames is AssignExemplar with the indices mapped to names.
func (m *Model) AssignExemplarNames(exemplars [][]float64, names []string) ([]string, error) {
	if len(names) != len(exemplars) {
		return nil, fmt.Errorf("%w: %d names for %d exemplars", ErrShapeMismatch, len(names), len(exemplars))
	}
	idx, err := m.AssignExemplar(exemplars)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idx))
	for u, i := range idx {
		out[u] = names[i]
	}
	return out, nil
}
