// Package cp implements spec.md §4.6's CP propagator framework from the
// domain-facing side (subscription bookkeeping on top of
// internal/sat.RegisterPropagator/Subscribe) and the two example
// propagators of component O: a linear integer inequality and a cumulative
// scheduling constraint.
package cp

import (
	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// linearTerm is one weighted variable of a LinearLEQ constraint.
type linearTerm struct {
	weight int
	v      *intdomain.IntVar
}

// LinearLEQ propagates Σ weight·x ≤ bound over a set of integer variables:
// bound consistency tightens each variable's upper bound from the slack
// left over by every other variable's current lower bound, the standard
// sum-constraint propagation rule referenced by spec.md §4.6's "linear
// integer inequality" example propagator.
type LinearLEQ struct {
	terms   []linearTerm
	domains []*intdomain.Domain
	bound   int

	id      sat.PropagatorID
	reasons map[sat.Literal][]sat.Literal
}

// NewLinearLEQ builds a propagator for Σ weights[i]·vars[i] ≤ bound. It must
// be registered with Solver.RegisterPropagator before use.
func NewLinearLEQ(s *sat.Solver, vars []*intdomain.IntVar, weights []int, bound int) *LinearLEQ {
	p := &LinearLEQ{bound: bound, reasons: make(map[sat.Literal][]sat.Literal)}
	for i, v := range vars {
		p.terms = append(p.terms, linearTerm{weight: weights[i], v: v})
		p.domains = append(p.domains, intdomain.NewDomain(s, v))
	}
	return p
}

// Priority places linear-constraint propagation ahead of the (typically
// more expensive) cumulative constraint.
func (p *LinearLEQ) Priority() int { return 10 }

func (p *LinearLEQ) InitializeAtRoot(s *sat.Solver, id sat.PropagatorID) bool {
	p.id = id
	for _, t := range p.terms {
		for k := 1; k <= t.v.UpperBound(); k++ {
			s.Subscribe(id, t.v.GeLiteral(k))
		}
	}
	return p.propagate(s)
}

func (p *LinearLEQ) Propagate(s *sat.Solver) bool             { return p.propagate(s) }
func (p *LinearLEQ) PropagateFromScratch(s *sat.Solver) bool  { return p.propagate(s) }
func (p *LinearLEQ) NotifyDomainChange(s *sat.Solver, lit sat.Literal) bool { return true }
func (p *LinearLEQ) Synchronise(s *sat.Solver)                {}

func (p *LinearLEQ) propagate(s *sat.Solver) bool {
	for _, d := range p.domains {
		d.UpdateDomain()
	}

	minSum := 0
	for i, t := range p.terms {
		minSum += t.weight * p.domains[i].LowerBound()
	}
	slack := p.bound - minSum
	if slack < 0 {
		return false
	}

	for i, t := range p.terms {
		if t.weight == 0 {
			continue
		}
		maxVal := p.domains[i].LowerBound() + slack/t.weight
		if maxVal >= p.domains[i].UpperBound() {
			continue
		}
		lit := t.v.GeLiteral(maxVal + 1).Opposite()
		if s.LitValue(lit) == sat.True {
			continue
		}

		reason := make([]sat.Literal, 0, len(p.terms)+1)
		reason = append(reason, lit)
		for j, other := range p.terms {
			if j == i {
				continue
			}
			reason = append(reason, other.v.GeLiteral(p.domains[j].LowerBound()))
		}
		p.reasons[lit] = reason

		if !s.PropagatorEnqueue(p.id, lit) {
			return false
		}
	}
	return true
}

// Explain reconstructs the justification for lit (spec.md §4.6's lazy
// reason materialization): for the conflict literal it is every term's
// current lower-bound literal (their sum already exceeds bound); for a
// specific propagated literal it is the cached reason computed when that
// literal was pushed onto the trail.
func (p *LinearLEQ) Explain(s *sat.Solver, lit sat.Literal) []sat.Literal {
	if lit == sat.ConflictLiteral {
		reason := make([]sat.Literal, 0, len(p.terms))
		for i, t := range p.terms {
			reason = append(reason, t.v.GeLiteral(p.domains[i].LowerBound()))
		}
		return reason
	}
	if r, ok := p.reasons[lit]; ok {
		return r
	}
	return []sat.Literal{lit}
}
