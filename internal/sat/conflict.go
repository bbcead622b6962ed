package sat

// maxMinimizeDepth bounds the recursion of self-subsumption minimization,
// per spec.md §4.4/§9: "Recursion depth is capped (e.g. 500) ... beyond it,
// literals are conservatively kept."
const maxMinimizeDepth = 500

// analyzeResult is the output of 1-UIP conflict analysis: the learned
// clause (asserting literal at index 0, second-highest-level literal at
// index 1), the level to backtrack to, and the clause's LBD.
type analyzeResult struct {
	literals       []Literal
	backtrackLevel int
	lbd            int
}

// analyze performs the 1-UIP resolution of spec.md §4.4 starting from the
// conflicting reason confl, followed by LBD computation and (if enabled)
// Van Gelder self-subsumption minimization.
func (s *Solver) analyze(confl Reason) analyzeResult {
	nImplicationPoints := 0
	curLevel := s.DecisionLevel()

	s.tmpLearnt = s.tmpLearnt[:0]
	s.tmpLearnt = append(s.tmpLearnt, 0) // placeholder for the UIP literal
	s.seen.Clear()

	nextTrailIdx := s.assign.TrailLen() - 1
	l := ConflictLiteral
	backtrackLevel := 0

	for {
		for _, q := range s.explain(confl, l) {
			v := q.VarID()
			if s.seen.Contains(int(v)) {
				continue
			}
			s.seen.Add(int(v))
			s.bumpVarActivity(v)

			if s.Level(v) == curLevel {
				nImplicationPoints++
				continue
			}
			s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
			if lvl := s.Level(v); lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}

		for {
			l = s.assign.TrailAt(nextTrailIdx)
			nextTrailIdx--
			v := l.VarID()
			confl = s.assign.Reason(v)
			if s.seen.Contains(int(v)) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = l.Opposite()

	if s.opts.BumpDecisionVariables {
		for lvl := backtrackLevel + 1; lvl <= curLevel; lvl++ {
			idx := s.assign.LevelStart(lvl)
			if idx < s.assign.TrailLen() {
				s.bumpVarActivity(s.assign.TrailAt(idx).VarID())
			}
		}
	}

	lbd := s.computeLBD(s.tmpLearnt)

	learned := s.tmpLearnt
	if s.opts.ClauseMinimisation {
		learned = s.minimize(learned)
	}
	learned, backtrackLevel = s.fixAssertingLayout(learned)

	out := make([]Literal, len(learned))
	copy(out, learned)

	return analyzeResult{literals: out, backtrackLevel: backtrackLevel, lbd: lbd}
}

// computeLBD returns the number of distinct decision levels among lits,
// ignoring level 0 (spec.md §4.4, "LBD law" of §8).
func (s *Solver) computeLBD(lits []Literal) int {
	if len(lits) == 0 {
		return 0
	}
	levels := map[int]struct{}{}
	for _, l := range lits {
		if lvl := s.Level(l.VarID()); lvl > 0 {
			levels[lvl] = struct{}{}
		}
	}
	return len(levels)
}

// fixAssertingLayout restores, after minimization may have dropped
// literals, the invariant that index 0 is the UIP and index 1 is the
// literal with the second-highest decision level (the one conflict
// analysis backtracks to).
func (s *Solver) fixAssertingLayout(learned []Literal) ([]Literal, int) {
	if len(learned) <= 1 {
		return learned, 0
	}
	maxLevel, wl := -1, 1
	for i := 1; i < len(learned); i++ {
		if lvl := s.Level(learned[i].VarID()); lvl > maxLevel {
			maxLevel = lvl
			wl = i
		}
	}
	learned[1], learned[wl] = learned[wl], learned[1]
	return learned, maxLevel
}

// minimize applies Van Gelder self-subsumption minimization: a literal of
// the learned clause (other than the UIP at index 0) is dropped if every
// antecedent of its reason clause is either already in the clause's level
// set or itself removable, explored depth-first with the cap above.
func (s *Solver) minimize(learned []Literal) []Literal {
	levels := make(map[int]bool, len(learned))
	for _, l := range learned {
		levels[s.Level(l.VarID())] = true
	}

	out := learned[:1:1]
	for _, l := range learned[1:] {
		if s.assign.Reason(l.VarID()) == NoReason {
			out = append(out, l) // decision literal: never removable
			continue
		}
		if s.isRedundant(l, levels, 0) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *Solver) isRedundant(l Literal, allowedLevels map[int]bool, depth int) bool {
	v := l.VarID()
	reason := s.assign.Reason(v)
	if reason == NoReason {
		return false
	}
	if depth > maxMinimizeDepth {
		return false // over-cap: conservatively keep (POISON)
	}

	for _, q := range s.explain(reason, l.Opposite()) {
		qv := q.VarID()
		if s.seen.Contains(int(qv)) {
			continue // already KEEP or REMOVABLE
		}
		lvl := s.Level(qv)
		if lvl == 0 {
			continue // root-level literals vanish from any clause
		}
		if !allowedLevels[lvl] {
			return false // POISON: escapes the clause's level set
		}
		if !s.isRedundant(q, allowedLevels, depth+1) {
			return false
		}
	}

	s.seen.Add(int(v)) // mark REMOVABLE for any sibling check
	return true
}
