package cp

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func TestLinearLEQ_TightensUpperBound(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a, err := intdomain.CreateIntegerVariable(s, 0, 5)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}
	b, err := intdomain.CreateIntegerVariable(s, 0, 5)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}

	// a + b <= 4; force a >= 3, expect b's upper bound tightened to 1.
	p := NewLinearLEQ(s, []*intdomain.IntVar{a, b}, []int{1, 1}, 4)
	s.RegisterPropagator(p)

	if err := s.AddUnit(a.GeLiteral(3)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict")
	}
	if s.LitValue(b.GeLiteral(2)) != sat.False {
		t.Errorf("b >= 2 should be propagated false, got %v", s.LitValue(b.GeLiteral(2)))
	}
}

func TestLinearLEQ_DetectsOverload(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	a, err := intdomain.CreateIntegerVariable(s, 3, 5)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}
	b, err := intdomain.CreateIntegerVariable(s, 3, 5)
	if err != nil {
		t.Fatalf("CreateIntegerVariable: %v", err)
	}

	// a >= 3 and b >= 3 already exceed a+b <= 4 at the root.
	p := NewLinearLEQ(s, []*intdomain.IntVar{a, b}, []int{1, 1}, 4)
	id := s.RegisterPropagator(p)
	_ = id

	if !s.IsUnsat() {
		t.Errorf("expected root-level infeasibility from an already-violated sum constraint")
	}
}
