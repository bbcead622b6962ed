package sat

// enqueue records a new fact on the trail. It returns false if the literal
// is already falsified (a conflicting assignment), true otherwise (either
// because the literal was already true, or because it was newly assigned).
func (s *Solver) enqueue(l Literal, reason Reason) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		s.assign.MakeAssignment(l, reason)
		s.propQueue.Push(l)
		s.wakePropagators(l)
		return true
	}
}

// Propagate runs clausal BCP to fixpoint and then drains the CP propagator
// queue, alternating back to clausal propagation whenever a CP propagator
// enqueues a new literal, per the ordering guarantee of spec.md §5 ("within
// a fixpoint round, the clausal propagator is drained fully before any CP
// propagator runs, and any CP propagation that enqueues a new literal
// yields control back to the clausal propagator"). It returns the reason
// code of the first conflict encountered, or NoReason if a full fixpoint
// was reached without conflict.
func (s *Solver) Propagate() Reason {
	for {
		if conflict := s.propagateClausal(); conflict != NoReason {
			return conflict
		}
		if s.pendingCP.empty() {
			return NoReason
		}
		id, ok := s.pendingCP.pop()
		if !ok {
			return NoReason
		}
		p := s.propByID[id]
		before := s.assign.TrailLen()
		if s.scratchDue[id] {
			delete(s.scratchDue, id)
			ok = p.PropagateFromScratch(s)
		} else {
			ok = p.Propagate(s)
		}
		if !ok {
			return id
		}
		if s.assign.TrailLen() != before {
			// New literals were pushed; clausal BCP must run again before
			// the next CP propagator gets a turn.
			continue
		}
	}
}

// propagateClausal is the two-watched-literal BCP of spec.md §4.3.
func (s *Solver) propagateClausal() Reason {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		list := s.watches.List(l)
		s.watches.tmp = append(s.watches.tmp[:0], list...)
		tmp := s.watches.tmp
		s.watches.lists[l] = s.watches.lists[l][:0]

		for i, w := range tmp {
			if s.LitValue(w.blocker) == True {
				s.watches.Watch(l, w.clause, w.blocker)
				continue
			}

			if s.clausePropagate(w.clause, l) {
				continue
			}

			// Conflict: restore the remaining (unprocessed) watchers and
			// stop, discarding the rest of the propagation queue per
			// spec.md §4.3 step 6.
			s.watches.lists[l] = append(s.watches.lists[l], tmp[i+1:]...)
			s.propQueue.Clear()
			return w.clause
		}
	}
	return NoReason
}

// clausePropagate applies spec.md §4.3 steps 1-6 to a single watched
// clause when l has just become true (so ¬l, the clause's watched
// literal, has become false). It returns false on conflict, after calling
// enqueue only when the clause forces a new fact.
func (s *Solver) clausePropagate(ref ClauseRef, l Literal) bool {
	c := s.alloc.View(ref)
	opp := l.Opposite()

	// Normalize so literals[1] is the watch that just became false.
	if c.Lit(0) == opp {
		c.Swap(0, 1)
	}

	if s.LitValue(c.Lit(0)) == True {
		s.watches.Watch(l, ref, c.Lit(0))
		return true
	}

	for i := 2; i < c.Size(); i++ {
		if s.LitValue(c.Lit(i)) != False {
			c.SetLit(1, c.Lit(i))
			c.SetLit(i, opp)
			s.watches.Watch(c.Lit(1).Opposite(), ref, c.Lit(0))
			return true
		}
	}

	s.watches.Watch(l, ref, c.Lit(0))
	return s.enqueue(c.Lit(0), ref)
}

// ConflictLiteral is the distinguished "unknown literal" conflict analysis
// passes to explain when resolving the conflicting clause/propagator itself
// rather than a specific propagated literal (mirrors the teacher's use of
// literal -1 for this purpose).
const ConflictLiteral Literal = -1

// explain returns the explanation literals for reason r. If l is
// ConflictLiteral the full conflicting clause (or propagator failure) is
// returned; otherwise the explanation of why l specifically was propagated
// is returned (l itself is not included in the result — see spec.md §4.3's
// clause layout, where index 0 is the propagated literal). Dispatches to
// the clausal arena or to a registered CP propagator depending on which
// range r falls in (spec.md §3 "Clause reference").
func (s *Solver) explain(r Reason, l Literal) []Literal {
	if r.IsPropagator(s.alloc.Limit()) {
		p := s.propByID[r]
		if l == ConflictLiteral {
			return p.Explain(s, l)
		}
		full := p.Explain(s, l)
		if len(full) == 0 {
			return full
		}
		return full[1:] // drop the propagated literal itself
	}

	c := s.alloc.View(r)
	s.tmpReason = s.tmpReason[:0]
	if l == ConflictLiteral {
		for i := 0; i < c.Size(); i++ {
			s.tmpReason = append(s.tmpReason, c.Lit(i).Opposite())
		}
	} else {
		for i := 1; i < c.Size(); i++ {
			s.tmpReason = append(s.tmpReason, c.Lit(i).Opposite())
		}
	}
	if c.Learned() {
		s.bumpClauseActivity(c)
	}
	return s.tmpReason
}
