package thsom

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sorelyss/somber/som"
)

// EpochReport summarises one epoch of Train.
type EpochReport struct {
	Epoch        int
	Radius       float64
	LearningRate float64
	// Residual is, per unit, the mean distance between the inputs and the
	// unit's prototype over all updates of the epoch.
	Residual     []float64
	MeanResidual float64
	CacheMisses  int
	Elapsed      time.Duration
}

// Train runs numEpochs epochs over x. Radius and learning rate come from
// the model's schedule. numEpochs == 0 leaves the model untouched.
func (m *Model) Train(x *Sequences, batchSize, numEpochs int) ([]EpochReport, error) {
	if numEpochs < 0 {
		return nil, fmt.Errorf("%w: num_epochs=%d", ErrInvalidConfiguration, numEpochs)
	}
	r0 := m.spatial.InitialRadius()
	reports := make([]EpochReport, 0, numEpochs)
	for epoch := 0; epoch < numEpochs; epoch++ {
		radius, lr := m.schedule.At(epoch, numEpochs, r0)
		start := time.Now()
		residual, err := m.EpochStep(x, radius, lr, batchSize)
		if err != nil {
			return reports, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		rep := EpochReport{
			Epoch:        epoch,
			Radius:       radius,
			LearningRate: lr,
			Residual:     residual,
			MeanResidual: floats.Sum(residual) / float64(len(residual)),
			CacheMisses:  m.cache.misses,
			Elapsed:      time.Since(start),
		}
		reports = append(reports, rep)

		m.logger.WithFields(logrus.Fields{
			"epoch":    epoch + 1,
			"epochs":   numEpochs,
			"radius":   fmt.Sprintf("%.3f", radius),
			"lr":       fmt.Sprintf("%.4f", lr),
			"residual": fmt.Sprintf("%.4f", rep.MeanResidual),
			"elapsed":  rep.Elapsed.Round(time.Millisecond),
		}).Info("epoch done")

		if m.onEpoch != nil {
			if err := m.onEpoch(rep); err != nil {
				return reports, fmt.Errorf("epoch %d hook: %w", epoch, err)
			}
		}
	}
	return reports, nil
}

// EpochStep makes one pass over x with a fixed radius and learning rate,
// then applies the mean spatial and temporal updates and clips both
// matrices to [0,1]. It returns the per-unit mean residual distance.
// On error the model is left unchanged.
func (m *Model) EpochStep(x *Sequences, radius, lr float64, batchSize int) ([]float64, error) {
	if err := m.checkEpochArgs(x, radius, lr, batchSize); err != nil {
		return nil, err
	}
	n := m.MapDim()
	dim := m.DataDim()

	// Epoch constants.
	grid := m.spatial.DistanceGrid(radius)
	sqRadius := (2 * radius) * (2 * radius)
	colSum := m.temporalColumnSums()
	tempo, mintempo := TemporalBounds(m.temporal, lr, m.beta)
	m.cache.reset()
	influence := func(unit int) []float64 {
		v := m.spatial.Influence(grid, sqRadius, unit)
		floats.Scale(lr, v)
		return v
	}

	acc := mat.NewDense(n, dim, nil)
	tacc := mat.NewDense(n, n, nil)
	residual := make([]float64, n)
	updates := 0

	numBatches := (x.N + batchSize - 1) / batchSize
	for b := 0; b < numBatches; b++ {
		from := b * batchSize
		to := min(from+batchSize, x.N)
		size := to - from

		prev := mat.NewDense(size, n, nil)
		prevWinners := make([]int, size)

		for pos := 0; pos < x.L; pos++ {
			sel, err := m.SelectWinners(x.Column(pos, from, to), prev, colSum)
			if err != nil {
				return nil, err
			}

			step := mat.NewDense(n, dim, nil)
			for e, w := range sel.Winners {
				inf := m.cache.get(w, influence)
				for u := 0; u < n; u++ {
					if inf[u] != 0 {
						floats.AddScaled(step.RawRowView(u), inf[u], sel.Diff[e].RawRowView(u))
					}
				}
				floats.AddScaled(residual, 1/float64(size), sel.Distance.RawRowView(e))
			}
			step.Scale(1/float64(size), step)
			acc.Add(acc, step)
			tacc.Add(tacc, TemporalUpdate(tempo, mintempo, prevWinners))
			updates++

			prev = sel.Activation
			prevWinners = sel.Winners
		}

		m.logger.WithFields(logrus.Fields{
			"batch":   b + 1,
			"batches": numBatches,
			"seen":    to,
		}).Debug("batch done")
	}
	if updates == 0 {
		return nil, fmt.Errorf("%w: no updates in epoch", ErrEmptyBatch)
	}

	scale := 1 / float64(updates)
	acc.Scale(scale, acc)
	tacc.Scale(scale, tacc)
	floats.Scale(scale, residual)

	w := m.spatial.Weights()
	w.Add(w, acc)
	m.temporal.Add(m.temporal, tacc)
	m.spatial.Clip(0, 1)
	som.ClipDense(m.temporal, 0, 1)
	return residual, nil
}

func (m *Model) checkEpochArgs(x *Sequences, radius, lr float64, batchSize int) error {
	if x == nil || x.N == 0 || x.L == 0 {
		return fmt.Errorf("%w: no sequences or zero-length sequences", ErrEmptyBatch)
	}
	if x.D != m.DataDim() {
		return fmt.Errorf("%w: input has %d features, model expects %d", ErrShapeMismatch, x.D, m.DataDim())
	}
	if batchSize <= 0 {
		return fmt.Errorf("%w: batch_size=%d", ErrInvalidConfiguration, batchSize)
	}
	if radius < 0 || lr < 0 || math.IsNaN(radius) || math.IsNaN(lr) || math.IsInf(radius, 0) || math.IsInf(lr, 0) {
		return fmt.Errorf("%w: radius=%f lr=%f", ErrInvalidConfiguration, radius, lr)
	}
	return nil
}
