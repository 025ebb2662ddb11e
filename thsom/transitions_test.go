package thsom

import "testing"

func TestCountTransitions(t *testing.T) {
	tc := CountTransitions([][]int{
		{0, 1, 2},
		{0, 1, 3},
		{4},
	})
	if tc.ByFrom[0][1] != 2 {
		t.Errorf("expected 0->1 twice, got %f", tc.ByFrom[0][1])
	}
	if tc.ByFrom[1][2] != 1 || tc.ByFrom[1][3] != 1 {
		t.Errorf("expected 1->2 and 1->3 once, got %v", tc.ByFrom[1])
	}
	if tc.Distinct() != 3 {
		t.Errorf("expected 3 distinct transitions, got %d", tc.Distinct())
	}
	if tc.Units[4] != 1 {
		t.Errorf("single-position sequence should still count its unit, got %f", tc.Units[4])
	}
}

func TestTransitionsDoNotCrossSequences(t *testing.T) {
	tc := CountTransitions([][]int{{0, 1}, {2, 3}})
	if _, ok := tc.ByFrom[1][2]; ok {
		t.Error("transition 1->2 spans two sequences and should not be counted")
	}
}

func TestTransitionTop(t *testing.T) {
	tc := NewTransitionCounts()
	tc.Ingest([]int{5, 7}, 1)
	tc.Ingest([]int{5, 6}, 3)
	tc.Ingest([]int{5, 8}, 1)
	top := tc.Top(5, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 successors, got %d", len(top))
	}
	if top[0].To != 6 || top[0].Count != 3 {
		t.Errorf("expected strongest 5->6 (3), got %+v", top[0])
	}
	// tie between 7 and 8 resolved by unit index
	if top[1].To != 7 {
		t.Errorf("expected 5->7 second, got %+v", top[1])
	}
	if len(tc.Top(9, 3)) != 0 {
		t.Error("unknown source should have no successors")
	}
}

func TestTransitionStrongest(t *testing.T) {
	tc := CountTransitions([][]int{{1, 2, 1, 2}, {3, 4}})
	s := tc.Strongest(1)
	if len(s) != 1 || s[0].From != 1 || s[0].To != 2 || s[0].Count != 2 {
		t.Errorf("expected 1->2 (2), got %+v", s)
	}
}
