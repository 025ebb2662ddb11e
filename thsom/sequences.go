package thsom

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Sequences is a dense N×L×D tensor: N sequences of L positions, each
// position a D-dimensional feature vector. Data is stored row-major.
type Sequences struct {
	N, L, D int
	data    []float64
}

// NewSequences returns a zeroed n×l×d tensor.
func NewSequences(n, l, d int) *Sequences {
	return &Sequences{N: n, L: l, D: d, data: make([]float64, n*l*d)}
}

// FromSlices copies a nested [N][L][D] slice. Every sequence must have the
// same length and every position the same width.
func FromSlices(x [][][]float64) (*Sequences, error) {
	if len(x) == 0 {
		return NewSequences(0, 0, 0), nil
	}
	l := len(x[0])
	d := 0
	if l > 0 {
		d = len(x[0][0])
	}
	s := NewSequences(len(x), l, d)
	for n, seq := range x {
		if len(seq) != l {
			return nil, fmt.Errorf("%w: sequence %d has length %d, expected %d", ErrShapeMismatch, n, len(seq), l)
		}
		for p, v := range seq {
			if len(v) != d {
				return nil, fmt.Errorf("%w: sequence %d position %d has %d features, expected %d", ErrShapeMismatch, n, p, len(v), d)
			}
			copy(s.At(n, p), v)
		}
	}
	return s, nil
}

// At returns a view of the feature vector of sequence n at position l.
func (s *Sequences) At(n, l int) []float64 {
	off := (n*s.L + l) * s.D
	return s.data[off : off+s.D : off+s.D]
}

// Column gathers position l of sequences [from, to) into a (to-from)×D matrix.
func (s *Sequences) Column(l, from, to int) *mat.Dense {
	c := mat.NewDense(to-from, s.D, nil)
	for n := from; n < to; n++ {
		copy(c.RawRowView(n-from), s.At(n, l))
	}
	return c
}

// Slice returns sequences [from, to) sharing the underlying storage.
func (s *Sequences) Slice(from, to int) *Sequences {
	stride := s.L * s.D
	return &Sequences{N: to - from, L: s.L, D: s.D, data: s.data[from*stride : to*stride]}
}

// Shuffle permutes whole sequences in place.
func (s *Sequences) Shuffle(rng *rand.Rand) {
	stride := s.L * s.D
	tmp := make([]float64, stride)
	rng.Shuffle(s.N, func(i, j int) {
		a := s.data[i*stride : (i+1)*stride]
		b := s.data[j*stride : (j+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	})
}
