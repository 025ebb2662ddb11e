package som

import (
	"errors"
	"math"
	"testing"
)

func TestScheduleExponentialDecays(t *testing.T) {
	s := DefaultSchedule()
	prevR, prevLR := math.Inf(1), math.Inf(1)
	for e := 0; e < 10; e++ {
		r, lr := s.At(e, 10, 15)
		if r >= prevR || lr >= prevLR {
			t.Errorf("epoch %d: expected strictly decreasing radius/lr, got r=%f lr=%f", e, r, lr)
		}
		prevR, prevLR = r, lr
	}
	r0, lr0 := s.At(0, 10, 15)
	if r0 != 15 || lr0 != 1.0 {
		t.Errorf("epoch 0: expected r=15 lr=1, got r=%f lr=%f", r0, lr0)
	}
}

func TestScheduleRadiusReachesOne(t *testing.T) {
	s := DefaultSchedule()
	r, _ := s.At(20, 20, 8)
	if math.Abs(r-1) > 1e-9 {
		t.Errorf("expected radius 1 at end of run, got %f", r)
	}
}

func TestScheduleCosine(t *testing.T) {
	s := Schedule{Kind: ScheduleCosine, LearningRate: 0.5, MinRate: 0.1}
	_, lr0 := s.At(0, 10, 4)
	_, lrMid := s.At(5, 10, 4)
	_, lrEnd := s.At(10, 10, 4)
	if math.Abs(lr0-0.5) > 1e-12 {
		t.Errorf("expected 0.5 at start, got %f", lr0)
	}
	if math.Abs(lrMid-0.3) > 1e-12 {
		t.Errorf("expected 0.3 at midpoint, got %f", lrMid)
	}
	if math.Abs(lrEnd-0.1) > 1e-12 {
		t.Errorf("expected min rate at end, got %f", lrEnd)
	}
}

func TestScheduleSmallMap(t *testing.T) {
	// initial radius 1 would make log(radius) zero
	r, lr := DefaultSchedule().At(3, 5, 1)
	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsNaN(lr) {
		t.Errorf("expected finite values, got r=%f lr=%f", r, lr)
	}
}

func TestScheduleValidate(t *testing.T) {
	bad := []Schedule{
		{Kind: "linear", LearningRate: 1},
		{Kind: ScheduleExponential, LearningRate: -1},
		{Kind: ScheduleCosine, LearningRate: 0.1, MinRate: 0.5},
		{Kind: ScheduleExponential, LearningRate: math.NaN()},
		{Kind: ScheduleCosine, LearningRate: 1, MinRate: math.Inf(1)},
	}
	for _, s := range bad {
		if err := s.Validate(); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("%+v: expected error, got %v", s, err)
		}
	}
	if err := DefaultSchedule().Validate(); err != nil {
		t.Errorf("default schedule should validate, got %v", err)
	}
}
