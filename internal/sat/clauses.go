package sat

// newClause implements spec.md §4.1/§4.3's clause construction: for
// permanent clauses it preprocesses (drops root-falsified literals, dedupes,
// detects trivial satisfaction), for learned clauses it trusts the caller
// (conflict analysis already produced a well-formed, minimal clause) and
// only picks the second watch. It returns the clause's reference (NullRef
// for unit/trivial results), whether the clause is consistent (false means
// root-level conflict), and any capacity error.
func (s *Solver) newClause(tmpLiterals []Literal, learned bool) (ClauseRef, bool, error) {
	size := len(tmpLiterals)

	if !learned {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return NullClauseRef, true, nil // tautology: always true
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return NullClauseRef, true, nil
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return NullClauseRef, false, nil // empty clause: root conflict
	case 1:
		return NullClauseRef, s.enqueue(tmpLiterals[0], NoReason), nil
	default:
		ref, err := s.alloc.Create(tmpLiterals, learned)
		if err != nil {
			return NullClauseRef, false, err
		}
		c := s.alloc.View(ref)

		if learned {
			// Place the second-highest-level literal at index 1 so the
			// clause watches both the asserting literal (index 0, still
			// unassigned) and the literal that will trigger backjump
			// re-propagation first.
			maxLevel, wl := -1, -1
			for i := 1; i < c.Size(); i++ {
				if lvl := s.Level(c.Lit(i).VarID()); lvl > maxLevel {
					maxLevel = lvl
					wl = i
				}
			}
			c.Swap(wl, 1)
		}

		s.watches.Watch(c.Lit(0).Opposite(), ref, c.Lit(1))
		s.watches.Watch(c.Lit(1).Opposite(), ref, c.Lit(0))
		return ref, true, nil
	}
}

// AddClause installs a permanent clause (spec.md §4.3 add_permanent). It may
// only be called at decision level 0. A clause that preprocesses away to
// "always true" is simply dropped; one that preprocesses to empty or whose
// unit propagation conflicts sets the solver's sticky unsat flag rather than
// returning an error, matching spec.md §4.3's "failure ... surfaced as a
// boolean conflict-at-root return that the caller treats as proof of
// unsatisfiability."
func (s *Solver) AddClause(literals []Literal) error {
	if s.DecisionLevel() != 0 {
		return &InvalidOperationError{Op: "AddClause", Reason: "must be called at decision level 0"}
	}
	tmp := make([]Literal, len(literals))
	copy(tmp, literals)

	ref, ok, err := s.newClause(tmp, false)
	if err != nil {
		return err
	}
	if !ok {
		s.unsat = true
		return nil
	}
	if ref != NullClauseRef {
		s.permanent = append(s.permanent, ref)
	}
	return nil
}

// AddUnit enqueues a single root-level literal, per spec.md §4.3's add_unit
// sugar. It does not propagate: the literal's consequences are derived by
// the next Propagate or Solve call.
func (s *Solver) AddUnit(l Literal) error {
	return s.AddClause([]Literal{l})
}

// AddBinary and AddTernary are sugar over AddClause for the common small
// clause sizes, matching spec.md §4.3's add_binary/add_ternary helpers.
func (s *Solver) AddBinary(a, b Literal) error    { return s.AddClause([]Literal{a, b}) }
func (s *Solver) AddTernary(a, b, c Literal) error { return s.AddClause([]Literal{a, b, c}) }

// AddImplication encodes premise -> conclusion as the binary clause
// (¬premise ∨ conclusion).
func (s *Solver) AddImplication(premise, conclusion Literal) error {
	return s.AddBinary(premise.Opposite(), conclusion)
}

// recordLearnt installs a freshly derived learned clause (spec.md §4.4
// "record"): the asserting literal (index 0) is enqueued with the new
// clause as its reason, except when the clause has collapsed to a single
// root-level unit, in which case it is enqueued with NoReason.
func (s *Solver) recordLearnt(literals []Literal) ClauseRef {
	ref, _, err := s.newClause(literals, true)
	if err != nil {
		// Capacity exceeded is a fatal, non-recoverable bound (spec.md §7).
		panic(err)
	}
	if ref == NullClauseRef {
		s.enqueue(literals[0], NoReason)
		return NullClauseRef
	}
	s.enqueue(literals[0], ref)
	s.learnts = append(s.learnts, ref)
	return ref
}

func (s *Solver) bumpClauseActivity(c Clause) {
	c.SetActivity(c.Activity() + float32(s.clauseInc))
	if c.Activity() > 1e30 {
		s.clauseInc *= 1e-30
		for _, ref := range s.learnts {
			lc := s.alloc.View(ref)
			if lc.Deleted() {
				continue
			}
			lc.SetActivity(lc.Activity() * 1e-30)
		}
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.opts.ClauseDecay
}

// removeClause unwatches and deletes a clause, whether permanent or
// learned.
func (s *Solver) removeClause(ref ClauseRef) {
	c := s.alloc.View(ref)
	s.watches.Unwatch(c.Lit(0).Opposite(), ref)
	s.watches.Unwatch(c.Lit(1).Opposite(), ref)
	s.alloc.Delete(ref)
}

// locked reports whether ref is currently the reason for its first
// literal's assignment, and therefore cannot be deleted without
// invalidating the trail (spec.md §4.5's reduceDB "locked" check).
func (s *Solver) locked(ref ClauseRef) bool {
	c := s.alloc.View(ref)
	v := c.Lit(0).VarID()
	return s.assign.Reason(v) == ref
}

// InvalidOperationError reports a spec.md §7 "Invalid operation" fatal
// assertion: an API call made outside of its documented preconditions.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "sat: invalid operation in " + e.Op + ": " + e.Reason
}
