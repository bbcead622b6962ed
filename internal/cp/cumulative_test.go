package cp

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// TestCumulative_DetectsOverload mirrors spec.md §8 scenario 6: three tasks
// of duration 2, demand 1, capacity 1. Forcing all three to start at 0
// leaves no feasible schedule (three units of demand at instant 0 against
// capacity 1), which the time-table check must catch.
func TestCumulative_DetectsOverload(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	starts := make([]*intdomain.IntVar, 3)
	for i := range starts {
		v, err := intdomain.CreateIntegerVariable(s, 0, 3)
		if err != nil {
			t.Fatalf("CreateIntegerVariable: %v", err)
		}
		starts[i] = v
	}

	tasks := []Task{
		{Start: starts[0], Duration: 2, Demand: 1},
		{Start: starts[1], Duration: 2, Demand: 1},
		{Start: starts[2], Duration: 2, Demand: 1},
	}
	p := NewCumulative(s, tasks, 1)
	s.RegisterPropagator(p)

	for _, st := range starts {
		if err := s.AddUnit(st.EqLiteral(0)); err != nil {
			t.Fatalf("AddUnit: %v", err)
		}
	}
	if conflict := s.Propagate(); conflict == sat.NoReason && !s.IsUnsat() {
		t.Errorf("expected a capacity-overload conflict when all three tasks start at 0")
	}
}

func TestCumulative_AcceptsNonOverlappingSchedule(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	starts := make([]*intdomain.IntVar, 3)
	for i := range starts {
		v, err := intdomain.CreateIntegerVariable(s, 0, 5)
		if err != nil {
			t.Fatalf("CreateIntegerVariable: %v", err)
		}
		starts[i] = v
	}
	tasks := []Task{
		{Start: starts[0], Duration: 2, Demand: 1},
		{Start: starts[1], Duration: 2, Demand: 1},
		{Start: starts[2], Duration: 2, Demand: 1},
	}
	p := NewCumulative(s, tasks, 1)
	s.RegisterPropagator(p)

	// Stagger the tasks so they never overlap: 0, 2, 4.
	if err := s.AddUnit(starts[0].EqLiteral(0)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if err := s.AddUnit(starts[1].EqLiteral(2)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if err := s.AddUnit(starts[2].EqLiteral(4)); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Errorf("non-overlapping schedule should not conflict")
	}
	if s.IsUnsat() {
		t.Errorf("non-overlapping schedule should remain satisfiable")
	}
}
