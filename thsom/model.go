// Package thsom implements a temporal Hebbian self-organizing map: a SOM
// whose winner selection is biased by a learned unit-to-unit transition
// matrix, trained over sequences such as the letters of a word.
//
// The transition matrix is stored as T[to, from]: column j holds the
// affinities of transitions leaving unit j, so column sums give the
// outgoing transition mass of each unit.
//
// A Model is not safe for concurrent use. Training mutates both weight
// matrices in place.
package thsom

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/sorelyss/somber/som"
)

// Model composes a spatial map with a transition matrix.
type Model struct {
	spatial  *som.Map
	temporal *mat.Dense // [MapDim × MapDim], T[to, from]
	constDim float64
	beta     float64
	schedule som.Schedule

	logger  *logrus.Logger
	rng     *rand.Rand
	onEpoch func(EpochReport) error

	cache influenceCache
}

// Option configures a Model at construction.
type Option func(*Model)

// WithRand sets the source used to initialise spatial weights.
func WithRand(rng *rand.Rand) Option {
	return func(m *Model) { m.rng = rng }
}

// WithLogger sets the logger for epoch and batch progress.
func WithLogger(logger *logrus.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithEpochHook registers a callback run after every epoch of Train.
// A non-nil error stops training.
func WithEpochHook(fn func(EpochReport) error) Option {
	return func(m *Model) { m.onEpoch = fn }
}

// New builds a width×height model for dataDim-dimensional inputs.
// Temporal weights start at zero.
func New(width, height, dataDim int, sched som.Schedule, beta float64, opts ...Option) (*Model, error) {
	if width <= 0 || height <= 0 || dataDim <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d data_dim=%d", ErrInvalidConfiguration, width, height, dataDim)
	}
	if beta <= 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("%w: beta=%f", ErrInvalidConfiguration, beta)
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	m := &Model{
		constDim: math.Sqrt(float64(dataDim)),
		beta:     beta,
		schedule: sched,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logrus.New()
	}

	spatial, err := som.New(width, height, dataDim, m.rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	m.spatial = spatial
	n := spatial.MapDim()
	m.temporal = mat.NewDense(n, n, nil)
	m.cache = newInfluenceCache(n)
	return m, nil
}

func (m *Model) MapDim() int       { return m.spatial.MapDim() }
func (m *Model) DataDim() int      { return m.spatial.DataDim() }
func (m *Model) ConstDim() float64 { return m.constDim }
func (m *Model) Beta() float64     { return m.beta }
func (m *Model) Map() *som.Map     { return m.spatial }

func (m *Model) Schedule() som.Schedule { return m.schedule }

// SpatialWeights returns the live [MapDim × DataDim] prototype matrix.
func (m *Model) SpatialWeights() *mat.Dense { return m.spatial.Weights() }

// TemporalWeights returns the live [MapDim × MapDim] transition matrix.
func (m *Model) TemporalWeights() *mat.Dense { return m.temporal }

// temporalColumnSums returns, per unit, the outgoing transition mass.
func (m *Model) temporalColumnSums() []float64 {
	n := m.MapDim()
	sums := make([]float64, n)
	for i := 0; i < n; i++ {
		row := m.temporal.RawRowView(i)
		for j, v := range row {
			sums[j] += v
		}
	}
	return sums
}
