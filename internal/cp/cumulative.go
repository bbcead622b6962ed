package cp

import (
	"github.com/itstherealjasper/pumpkin/internal/intdomain"
	"github.com/itstherealjasper/pumpkin/internal/sat"
)

// Task is one activity of a Cumulative constraint: it occupies
// [start, start+Duration) and consumes Demand units of the resource while
// running.
type Task struct {
	Start    *intdomain.IntVar
	Duration int
	Demand   int
}

// Cumulative propagates a single-resource scheduling constraint: at every
// instant, the sum of Demand over tasks running at that instant must not
// exceed Capacity. This is a time-table consistency check over each task's
// mandatory part (the interval, if any, present in every feasible start
// time) — not full edge-finding, which spec.md §2 prices this component at
// only 4% of the core and §9's non-goals rule out the lazy-clause-style
// reasoning a complete edge-finder would need.
type Cumulative struct {
	tasks    []Task
	domains  []*intdomain.Domain
	capacity int
	horizon  int

	id sat.PropagatorID
}

// NewCumulative builds a propagator for tasks against capacity. The
// scheduling horizon is derived from the widest task's domain.
func NewCumulative(s *sat.Solver, tasks []Task, capacity int) *Cumulative {
	p := &Cumulative{tasks: tasks, capacity: capacity}
	for _, t := range tasks {
		p.domains = append(p.domains, intdomain.NewDomain(s, t.Start))
		if end := t.Start.UpperBound() + t.Duration; end > p.horizon {
			p.horizon = end
		}
	}
	return p
}

func (p *Cumulative) Priority() int { return 20 }

func (p *Cumulative) InitializeAtRoot(s *sat.Solver, id sat.PropagatorID) bool {
	p.id = id
	for _, t := range p.tasks {
		for k := 1; k <= t.Start.UpperBound(); k++ {
			s.Subscribe(id, t.Start.GeLiteral(k))
			s.Subscribe(id, t.Start.GeLiteral(k).Opposite())
		}
	}
	return p.propagate(s)
}

func (p *Cumulative) Propagate(s *sat.Solver) bool            { return p.propagate(s) }
func (p *Cumulative) PropagateFromScratch(s *sat.Solver) bool { return p.propagate(s) }
func (p *Cumulative) NotifyDomainChange(s *sat.Solver, lit sat.Literal) bool { return true }
func (p *Cumulative) Synchronise(s *sat.Solver)               {}

// mandatoryPart returns the [start, end) interval that task i necessarily
// overlaps given its current domain, or ok=false if the task has no
// mandatory part (its start time still ranges widely enough to avoid any
// common instant).
func (p *Cumulative) mandatoryPart(i int) (start, end int, ok bool) {
	lst := p.domains[i].UpperBound()                      // latest start
	ect := p.domains[i].LowerBound() + p.tasks[i].Duration // earliest completion
	if lst >= ect {
		return 0, 0, false
	}
	return lst, ect, true
}

func (p *Cumulative) propagate(s *sat.Solver) bool {
	for _, d := range p.domains {
		d.UpdateDomain()
	}
	if p.horizon <= 0 {
		return true
	}

	profile := make([]int, p.horizon)
	for i := range p.tasks {
		start, end, ok := p.mandatoryPart(i)
		if !ok {
			continue
		}
		for t := start; t < end && t < p.horizon; t++ {
			if t >= 0 {
				profile[t] += p.tasks[i].Demand
			}
		}
	}
	for t := 0; t < p.horizon; t++ {
		if profile[t] > p.capacity {
			return false
		}
	}
	return true
}

// Explain reconstructs the overload reason as the current lower/upper
// bound literals of every task, the same conservative "whole mandatory
// profile" justification for both the conflict case and any literal this
// propagator might someday push (it currently only ever reports conflicts,
// never tightens a bound itself).
func (p *Cumulative) Explain(s *sat.Solver, lit sat.Literal) []sat.Literal {
	reason := []sat.Literal{}
	if lit != sat.ConflictLiteral {
		reason = append(reason, lit)
	}
	for i, t := range p.tasks {
		reason = append(reason, t.Start.GeLiteral(p.domains[i].LowerBound()))
		if ub := p.domains[i].UpperBound(); ub < t.Start.UpperBound() {
			reason = append(reason, t.Start.GeLiteral(ub+1).Opposite())
		}
	}
	return reason
}
