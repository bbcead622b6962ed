package pbenc

import (
	"testing"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

func TestCardinalityNetwork_OrdersByCount(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	vars := make([]sat.Literal, 4)
	for i := range vars {
		vars[i] = sat.PositiveLiteral(s.AddVariable())
	}
	out := CardinalityNetwork(s, vars)

	setAll(t, s, vars[:2])
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict")
	}
	if s.LitValue(out[2]) != sat.True {
		t.Errorf("out[2] should be forced true once two of four literals are true")
	}
	if s.LitValue(out[3]) == sat.True {
		t.Errorf("out[3] should not be forced with only two literals true")
	}
}

func TestCardinalityNetwork_AllTrueForcesTop(t *testing.T) {
	s := sat.NewSolver(sat.DefaultOptions, nil)
	vars := make([]sat.Literal, 3)
	for i := range vars {
		vars[i] = sat.PositiveLiteral(s.AddVariable())
	}
	out := CardinalityNetwork(s, vars)

	setAll(t, s, vars)
	if conflict := s.Propagate(); conflict != sat.NoReason {
		t.Fatalf("unexpected conflict")
	}
	if s.LitValue(out[3]) != sat.True {
		t.Errorf("out[3] should be forced true once all three literals are true")
	}
}
