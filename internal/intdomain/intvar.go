// Package intdomain implements spec.md §4.6's integer encoding layer
// (component K) and the runtime domain manager (component F) layered on
// top of internal/sat's Boolean core: a bounded integer variable is
// represented by one monotone chain of "ge" (greater-or-equal) literals and
// a parallel collection of "eq" (equality) literals, exactly as spec.md §3
// describes, so that the CP propagator framework and the pseudo-Boolean
// encoders only ever reason about ordinary Boolean literals.
package intdomain

import (
	"fmt"

	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// IntVar is a bounded integer variable built from the unary order
// encoding. GeLiteral(k) returns [var ≥ k]; EqLiteral(k) returns [var = k].
// ub is the domain's static upper bound; lb is the variable's initial lower
// bound, forced as unit clauses at construction time.
type IntVar struct {
	s  *sat.Solver
	lb int
	ub int

	// ge[k] and eq[k] hold [var ≥ k] / [var = k] for k in [0, ub].
	// CreateIntegerVariable fills every eq entry up front; a view built by
	// CreateSimpleBoundedSumVariable starts with none, and EqLiteral
	// allocates them lazily on first request. An unset entry is the zero
	// Literal, which never denotes a real literal because variable 0 is
	// reserved.
	ge []sat.Literal
	eq []sat.Literal
}

// CreateIntegerVariable implements spec.md §4.6's create_integer_variable:
// it allocates ub+1 Boolean variables for the equality literals and ub-1
// for the interior lower-bound literals, encodes the order chain and the
// eq/ge equivalences, and forces every ge[k] with k ≤ lb true as a unit
// clause. It may only be called at the root, matching the lifecycle rule
// of spec.md §3.
func CreateIntegerVariable(s *sat.Solver, lb, ub int) (*IntVar, error) {
	if ub < lb {
		return nil, fmt.Errorf("intdomain: upper bound %d below lower bound %d", ub, lb)
	}
	if lb < 0 {
		return nil, fmt.Errorf("intdomain: negative lower bound %d", lb)
	}
	if s.DecisionLevel() != 0 {
		return nil, &sat.InvalidOperationError{Op: "CreateIntegerVariable", Reason: "must be called at the root"}
	}

	v := &IntVar{s: s, lb: lb, ub: ub}
	v.ge = make([]sat.Literal, ub+1)
	v.eq = make([]sat.Literal, ub+1)

	v.ge[0] = sat.TrueLiteral
	for k := 1; k <= ub-1; k++ {
		v.ge[k] = sat.PositiveLiteral(s.AddVariable())
	}
	for k := 0; k <= ub; k++ {
		v.eq[k] = sat.PositiveLiteral(s.AddVariable())
	}
	if ub >= 1 {
		v.ge[ub] = v.eq[ub] // ge[upper] coincides with eq[upper]
	} else {
		v.eq[0] = sat.TrueLiteral // single-value domain: var == 0 unconditionally
	}

	// Order chain: ge[k] -> ge[k-1] for every k >= 2.
	for k := 2; k <= ub; k++ {
		if err := s.AddImplication(v.ge[k], v.ge[k-1]); err != nil {
			return nil, err
		}
	}

	// eq[0] ≡ ¬ge[1].
	if ub >= 1 {
		if err := addIff(s, v.eq[0], v.ge[1].Opposite()); err != nil {
			return nil, err
		}
	}

	// Interior equivalences: eq[k] ↔ ge[k] ∧ ¬ge[k+1], for 0 < k < ub.
	for k := 1; k <= ub-1; k++ {
		if err := addIffAnd(s, v.eq[k], v.ge[k], v.ge[k+1].Opposite()); err != nil {
			return nil, err
		}
	}
	// eq[ub] ≡ ge[ub] holds by construction (same literal); nothing to encode.

	for k := 1; k <= lb; k++ {
		if err := s.AddUnit(v.ge[k]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// addIff encodes a ↔ b as two implications.
func addIff(s *sat.Solver, a, b sat.Literal) error {
	if err := s.AddImplication(a, b); err != nil {
		return err
	}
	return s.AddImplication(b, a)
}

// addIffAnd encodes a ↔ (b ∧ c).
func addIffAnd(s *sat.Solver, a, b, c sat.Literal) error {
	if err := s.AddImplication(a, b); err != nil {
		return err
	}
	if err := s.AddImplication(a, c); err != nil {
		return err
	}
	return s.AddClause([]sat.Literal{b.Opposite(), c.Opposite(), a})
}

// LowerBound and UpperBound return the variable's static domain bounds
// (the range allocated at construction, not the live, possibly-narrower
// current bound — see Domain for that).
func (v *IntVar) LowerBound() int { return v.lb }
func (v *IntVar) UpperBound() int { return v.ub }

// GeLiteral returns [var ≥ k], clamped to the constant literals outside
// [0, ub] so callers never need to special-case the domain edges.
func (v *IntVar) GeLiteral(k int) sat.Literal {
	if k <= 0 {
		return sat.TrueLiteral
	}
	if k > v.ub {
		return sat.FalseLiteral
	}
	return v.ge[k]
}

// EqLiteral returns [var = k], allocating and wiring a fresh equality
// literal the first time a k with no entry yet is requested (which only
// happens for CreateSimpleBoundedSumVariable views).
func (v *IntVar) EqLiteral(k int) sat.Literal {
	if k < 0 || k > v.ub {
		return sat.FalseLiteral
	}
	if v.eq[k] != 0 {
		return v.eq[k]
	}
	eq := sat.PositiveLiteral(v.s.AddVariable())
	if err := addIffAnd(v.s, eq, v.GeLiteral(k), v.GeLiteral(k+1).Opposite()); err != nil {
		panic(err) // root-level encoding only fails on a capacity bound, spec.md §7
	}
	v.eq[k] = eq
	return eq
}

// CreateEquivalentVariable wraps a single existing literal as a 0/1
// integer view (ge[0]=true, ge[1]=lit), per spec.md §4.6's
// create_equivalent_variable helper: it gives encoders a clean integer
// handle without allocating any fresh literal.
func CreateEquivalentVariable(s *sat.Solver, lit sat.Literal) *IntVar {
	v := &IntVar{s: s, lb: 0, ub: 1}
	v.ge = []sat.Literal{sat.TrueLiteral, lit}
	v.eq = []sat.Literal{lit.Opposite(), lit}
	return v
}

// CreateThresholdExceedingVariable returns a 0/1 view variable equal to
// [v ≥ t], reusing v's own ge literal directly rather than introducing a
// new one (spec.md §4.6's create_threshold_exceeding_variable, used by
// §4.7.2's conversion back to a linear objective).
func CreateThresholdExceedingVariable(v *IntVar, t int) *IntVar {
	return CreateEquivalentVariable(v.s, v.GeLiteral(t))
}

// CreateSimpleBoundedSumVariable views a set of indicator literals, whose
// truth values are already known to form a monotone "ge" chain (lits[i]
// implying lits[i-1]), as a single integer variable without allocating any
// new Boolean variables or equality literals — spec.md §4.6's
// create_simple_bounded_sum_variable. sumLB is the number of leading
// literals already fixed true at the root (the variable's known lower
// bound).
func CreateSimpleBoundedSumVariable(s *sat.Solver, lits []sat.Literal, sumLB int) *IntVar {
	v := &IntVar{s: s, lb: sumLB, ub: len(lits)}
	v.ge = make([]sat.Literal, len(lits)+1)
	v.ge[0] = sat.TrueLiteral
	copy(v.ge[1:], lits)
	v.eq = make([]sat.Literal, len(lits)+1) // built lazily by EqLiteral
	return v
}
