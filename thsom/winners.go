package thsom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Selection is the outcome of one winner-selection pass over a batch.
type Selection struct {
	// Winners holds the best matching unit per example.
	Winners []int
	// Activation is the row-normalised score matrix [examples × MapDim]. It
	// becomes the previous activation of the next position.
	Activation *mat.Dense
	// Diff holds x_e - w_u per example, one [MapDim × DataDim] matrix each.
	Diff []*mat.Dense
	// Distance holds ||x_e - w_u|| per example and unit.
	Distance *mat.Dense
	// Bias holds prev[e,u] * colsum(T)[u].
	Bias *mat.Dense
}

// SelectWinners scores every unit for every example of one sequence
// position and picks the best. The score blends spatial similarity with the
// outgoing transition mass of units that were active at the previous
// position:
//
//	score[e,u] = sqrt(D) - ||x_e - w_u|| + prev[e,u] * colsum(T)[u]
//
// Each row is divided by its maximum when that maximum is positive, so the
// temporal bias cannot grow without bound over long sequences. The winner
// is the argmax of the raw, unnormalised row: a row whose scores are all
// negative (inputs far outside the unit cube) is left as is, so the winner
// stays the best-scoring unit instead of the argmin a division would give.
// Ties go to the lowest unit index.
func (m *Model) SelectWinners(column, prev *mat.Dense, colSum []float64) (*Selection, error) {
	n := m.MapDim()
	rows, _ := column.Dims()
	pr, pc := prev.Dims()
	if pr != rows || pc != n {
		return nil, fmt.Errorf("%w: previous activation is %dx%d, expected %dx%d", ErrShapeMismatch, pr, pc, rows, n)
	}
	if len(colSum) != n {
		return nil, fmt.Errorf("%w: %d column sums for %d units", ErrShapeMismatch, len(colSum), n)
	}
	diff, err := m.spatial.Difference(column)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}

	sel := &Selection{
		Winners:    make([]int, rows),
		Activation: mat.NewDense(rows, n, nil),
		Diff:       diff,
		Distance:   mat.NewDense(rows, n, nil),
		Bias:       mat.NewDense(rows, n, nil),
	}
	for e := 0; e < rows; e++ {
		score := sel.Activation.RawRowView(e)
		dist := sel.Distance.RawRowView(e)
		bias := sel.Bias.RawRowView(e)
		floats.MulTo(bias, prev.RawRowView(e), colSum)
		for u := 0; u < n; u++ {
			dist[u] = floats.Norm(diff[e].RawRowView(u), 2)
			score[u] = m.constDim - dist[u] + bias[u]
		}
		w := floats.MaxIdx(score)
		sel.Winners[e] = w
		if top := score[w]; top > 0 {
			floats.Scale(1/top, score)
		}
	}
	return sel, nil
}
