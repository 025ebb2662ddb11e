package thsom

import "sort"

// TransitionCounts tallies winner-to-winner transitions observed in
// predicted sequences: ByFrom[from][to] = count.
type TransitionCounts struct {
	ByFrom map[int]map[int]float64
	Units  map[int]float64 // how often each unit wins at all
}

// Transition is one weighted edge.
type Transition struct {
	From, To int
	Count    float64
}

// NewTransitionCounts returns empty counts.
func NewTransitionCounts() *TransitionCounts {
	return &TransitionCounts{
		ByFrom: make(map[int]map[int]float64),
		Units:  make(map[int]float64),
	}
}

// CountTransitions builds counts from Predict output.
func CountTransitions(winners [][]int) *TransitionCounts {
	tc := NewTransitionCounts()
	for _, seq := range winners {
		tc.Ingest(seq, 1.0)
	}
	return tc
}

// Ingest adds one sequence, weighting every transition by weight.
// Consecutive positions only; sequences are never joined.
func (tc *TransitionCounts) Ingest(seq []int, weight float64) {
	for _, u := range seq {
		tc.Units[u] += weight
	}
	for i := 0; i < len(seq)-1; i++ {
		from, to := seq[i], seq[i+1]
		if tc.ByFrom[from] == nil {
			tc.ByFrom[from] = make(map[int]float64)
		}
		tc.ByFrom[from][to] += weight
	}
}

// Distinct is the number of distinct from→to pairs seen.
func (tc *TransitionCounts) Distinct() int {
	n := 0
	for _, d := range tc.ByFrom {
		n += len(d)
	}
	return n
}

// Top returns up to k successors of from, strongest first; ties by unit.
func (tc *TransitionCounts) Top(from, k int) []Transition {
	d := tc.ByFrom[from]
	out := make([]Transition, 0, len(d))
	for to, c := range d {
		out = append(out, Transition{From: from, To: to, Count: c})
	}
	sortTransitions(out)
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Strongest returns up to k transitions over all sources.
func (tc *TransitionCounts) Strongest(k int) []Transition {
	var out []Transition
	for from, d := range tc.ByFrom {
		for to, c := range d {
			out = append(out, Transition{From: from, To: to, Count: c})
		}
	}
	sortTransitions(out)
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func sortTransitions(ts []Transition) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Count != ts[j].Count {
			return ts[i].Count > ts[j].Count
		}
		if ts[i].From != ts[j].From {
			return ts[i].From < ts[j].From
		}
		return ts[i].To < ts[j].To
	})
}
