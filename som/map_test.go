package som

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestNewRejectsNonPositiveSizes(t *testing.T) {
	cases := [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-2, 3, 4}}
	for _, c := range cases {
		if _, err := New(c[0], c[1], c[2], nil); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%v): expected ErrInvalidSize, got %v", c, err)
		}
	}
}

func TestNewWeightsInUnitRange(t *testing.T) {
	m, err := New(4, 3, 5, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, c := m.Weights().Dims()
	if r != 12 || c != 5 {
		t.Fatalf("expected 12x5 weights, got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.Weights().At(i, j)
			if v < 0 || v >= 1 {
				t.Errorf("weight[%d,%d]=%f outside [0,1)", i, j, v)
			}
		}
	}
}

func TestNewIsReproducibleWithSeed(t *testing.T) {
	a, _ := New(3, 3, 2, rand.New(rand.NewSource(42)))
	b, _ := New(3, 3, 2, rand.New(rand.NewSource(42)))
	if !mat.Equal(a.Weights(), b.Weights()) {
		t.Error("same seed should give identical weights")
	}
}

func TestCoords(t *testing.T) {
	m, _ := New(3, 2, 1, nil)
	x, y := m.Coords(4)
	if x != 1 || y != 1 {
		t.Errorf("expected (1,1), got (%d,%d)", x, y)
	}
	if m.MapDim() != 6 {
		t.Errorf("expected MapDim=6, got %d", m.MapDim())
	}
}

func TestInfluencePeaksAtCenter(t *testing.T) {
	m, _ := New(5, 5, 1, nil)
	g := m.DistanceGrid(2)
	inf := m.Influence(g, 16, 12)
	if inf[12] != 1 {
		t.Errorf("expected center influence 1, got %f", inf[12])
	}
	// neighbor at distance 1
	if want := math.Exp(-1.0 / 16); math.Abs(inf[13]-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, inf[13])
	}
	// corner (0,0) is at squared distance 8 from (2,2)
	if inf[0] >= inf[13] {
		t.Errorf("influence should decay with distance: corner %f, neighbor %f", inf[0], inf[13])
	}
}

func TestInfluenceOutsideRadiusIsZero(t *testing.T) {
	m, _ := New(5, 1, 1, nil)
	g := m.DistanceGrid(0.5)
	inf := m.Influence(g, 1, 0)
	if inf[0] != 1 {
		t.Errorf("expected 1 at center, got %f", inf[0])
	}
	for i := 1; i < 5; i++ {
		if inf[i] != 0 {
			t.Errorf("unit %d: expected 0 outside radius, got %f", i, inf[i])
		}
	}
}

func TestInfluenceCollapsedRadius(t *testing.T) {
	m, _ := New(2, 2, 1, nil)
	inf := m.Influence(m.DistanceGrid(0), 0, 3)
	if !floats.Equal(inf, []float64{0, 0, 0, 1}) {
		t.Errorf("expected winner-only kernel, got %v", inf)
	}
}

func TestDifference(t *testing.T) {
	m, _ := New(2, 1, 2, nil)
	m.Weights().SetRow(0, []float64{0.1, 0.2})
	m.Weights().SetRow(1, []float64{0.5, 0.5})
	batch := mat.NewDense(2, 2, []float64{
		1, 1,
		0, 0,
	})
	diff, err := m.Difference(batch)
	if err != nil {
		t.Fatalf("Difference: %v", err)
	}
	if len(diff) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(diff))
	}
	if !floats.EqualApprox(diff[0].RawRowView(0), []float64{0.9, 0.8}, 1e-12) {
		t.Errorf("example 0 unit 0: got %v", diff[0].RawRowView(0))
	}
	if !floats.EqualApprox(diff[1].RawRowView(1), []float64{-0.5, -0.5}, 1e-12) {
		t.Errorf("example 1 unit 1: got %v", diff[1].RawRowView(1))
	}
}

func TestDifferenceShapeMismatch(t *testing.T) {
	m, _ := New(2, 1, 2, nil)
	if _, err := m.Difference(mat.NewDense(1, 3, nil)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestClipDense(t *testing.T) {
	d := mat.NewDense(1, 3, []float64{-0.5, 0.5, 1.5})
	ClipDense(d, 0, 1)
	if !floats.Equal(d.RawRowView(0), []float64{0, 0.5, 1}) {
		t.Errorf("expected [0 0.5 1], got %v", d.RawRowView(0))
	}
}
