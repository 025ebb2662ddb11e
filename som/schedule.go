package som

import (
	"fmt"
	"math"
)

// Schedule kinds.
const (
	ScheduleExponential = "exponential"
	ScheduleCosine      = "cosine"
)

// Schedule decays the neighborhood radius and the learning rate over a
// training run. The radius always shrinks exponentially from the map's
// initial radius towards 1; the learning rate follows Kind.
type Schedule struct {
	Kind         string  `json:"kind"`
	LearningRate float64 `json:"learning_rate"`
	MinRate      float64 `json:"min_rate"` // floor for the cosine kind
}

// DefaultSchedule is the classic exponential decay starting at rate 1.0.
func DefaultSchedule() Schedule {
	return Schedule{Kind: ScheduleExponential, LearningRate: 1.0}
}

func (s Schedule) Validate() error {
	if s.LearningRate < 0 || s.MinRate < 0 || math.IsNaN(s.LearningRate) || math.IsNaN(s.MinRate) ||
		math.IsInf(s.LearningRate, 0) || math.IsInf(s.MinRate, 0) {
		return fmt.Errorf("%w: learning rate %v/%v in schedule", ErrInvalidSize, s.LearningRate, s.MinRate)
	}
	switch s.Kind {
	case "", ScheduleExponential:
	case ScheduleCosine:
		if s.MinRate > s.LearningRate {
			return fmt.Errorf("%w: min_rate %.4f above learning_rate %.4f", ErrInvalidSize, s.MinRate, s.LearningRate)
		}
	default:
		return fmt.Errorf("%w: unknown schedule kind %q", ErrInvalidSize, s.Kind)
	}
	return nil
}

// At returns the radius and learning rate for a zero-based epoch.
func (s Schedule) At(epoch, numEpochs int, initialRadius float64) (radius, lr float64) {
	if numEpochs <= 0 {
		return initialRadius, s.LearningRate
	}
	// lambda chosen so the radius reaches 1 at the end of the run.
	lambda := float64(numEpochs)
	if initialRadius > 1 {
		lambda = float64(numEpochs) / math.Log(initialRadius)
	}
	decay := math.Exp(-float64(epoch) / lambda)
	radius = initialRadius * decay

	switch s.Kind {
	case ScheduleCosine:
		progress := math.Min(1.0, float64(epoch)/math.Max(1, float64(numEpochs)))
		lr = s.MinRate + 0.5*(s.LearningRate-s.MinRate)*(1.0+math.Cos(math.Pi*progress))
	default:
		lr = s.LearningRate * decay
	}
	return radius, lr
}
