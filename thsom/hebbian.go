package thsom

import (
	"gonum.org/v1/gonum/mat"
)

// TemporalBounds derives the per-epoch decay and reinforcement matrices
// from the current transition weights:
//
//	tempo    = lr * (T + beta)
//	mintempo = lr * (1 - T + beta)
//
// With beta > 0 both stay strictly positive at T=0 and T=1.
func TemporalBounds(t *mat.Dense, lr, beta float64) (tempo, mintempo *mat.Dense) {
	r, c := t.Dims()
	tempo = mat.NewDense(r, c, nil)
	mintempo = mat.NewDense(r, c, nil)
	tempo.Apply(func(_, _ int, v float64) float64 { return lr * (v + beta) }, t)
	mintempo.Apply(func(_, _ int, v float64) float64 { return lr * (1 - v + beta) }, t)
	return tempo, mintempo
}

// TemporalUpdate is the Hebbian step for one sequence position. Every
// entry decays by tempo; the row of each distinct previous winner gets
// mintempo added back. The result is returned transposed, in T[to, from]
// orientation, so the previous winners' outgoing columns are reinforced.
func TemporalUpdate(tempo, mintempo *mat.Dense, prevWinners []int) *mat.Dense {
	r, c := tempo.Dims()
	update := mat.NewDense(r, c, nil)
	update.Scale(-1, tempo)

	seen := make([]bool, r)
	for _, p := range prevWinners {
		if seen[p] {
			continue
		}
		seen[p] = true
		row := update.RawRowView(p)
		for j, v := range mintempo.RawRowView(p) {
			row[j] += v
		}
	}

	out := mat.NewDense(c, r, nil)
	out.Copy(update.T())
	return out
}
