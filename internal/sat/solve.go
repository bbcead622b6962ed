package sat

import (
	"time"

	"github.com/itstherealjasper/pumpkin/pkg/telemetry"
)

// searchingReportInterval is the number of conflicts between periodic
// telemetry.Sink.Searching snapshots.
const searchingReportInterval = 5000

// Solve runs the CDCL search loop of spec.md §4.8 to a conclusion, a
// deadline, or an external stop (callers wanting incremental/interruptible
// search should set a deadline via SetDeadline before calling). assumptions
// are decided first, in order, at increasing decision levels, before the
// activity heap picks any free decision.
//
// On StatusUNSAT with a non-empty assumptions slice, the returned literal
// slice is a blocking clause over the assumptions that caused the failure:
// each element is the negation of a falsified assumption, so the slice
// itself, added back as a clause, rules out this particular combination
// (spec.md §4.7's failed-assumption core). It is nil when the root is
// unsatisfiable regardless of assumptions.
func (s *Solver) Solve(assumptions []Literal) (Status, []Literal) {
	if s.unsat {
		return StatusUNSAT, nil
	}
	if s.startTime.IsZero() {
		s.startTime = time.Now()
	}
	s.backtrackTo(0)
	s.assumptions = assumptions

	for {
		if s.deadlineExceeded() {
			return StatusUnknown, nil
		}

		conflict := s.Propagate()
		if conflict != NoReason {
			s.TotalConflicts++
			if s.DecisionLevel() == 0 {
				s.unsat = true
				return StatusUNSAT, nil
			}

			result := s.analyze(conflict)
			s.onConflict(result.lbd)
			s.decayVarActivity()
			s.decayClauseActivity()
			s.backtrackTo(result.backtrackLevel)

			if s.TotalConflicts%searchingReportInterval == 0 {
				s.sink.Searching(telemetry.SearchStats{
					Elapsed:          time.Since(s.startTime).Seconds(),
					Conflicts:        s.TotalConflicts,
					Restarts:         s.TotalRestarts,
					LearntClauses:    len(s.learnts),
					PermanentClauses: len(s.permanent),
				})
			}

			if len(result.literals) == 1 {
				s.enqueue(result.literals[0], NoReason)
			} else {
				ref := s.recordLearnt(result.literals)
				if ref != NullClauseRef {
					c := s.alloc.View(ref)
					c.SetLBD(result.lbd)
					if result.lbd <= s.opts.LBDThreshold {
						c.SetProtected()
					}
				}
			}
			continue
		}

		if s.shouldRestart() {
			s.doRestart()
			continue
		}
		s.maybeReduceDB()

		if s.DecisionLevel() < len(s.assumptions) {
			p := s.assumptions[s.DecisionLevel()]
			switch s.LitValue(p) {
			case True:
				s.assign.PushLevel() // already implied; still occupies a level
				continue
			case False:
				return StatusUNSAT, s.analyzeFinal(p.Opposite())
			default:
				s.assign.PushLevel()
				s.enqueue(p, NoReason)
				s.TotalDecisions++
				continue
			}
		}

		lit, ok := s.heap.NextDecision(s.VarValue)
		if !ok {
			s.saveModel()
			return StatusSAT, nil
		}
		s.assign.PushLevel()
		s.enqueue(lit, NoReason)
		s.TotalDecisions++
	}
}

// analyzeFinal builds the failed-assumption core described above, starting
// from p, a literal already true on the trail whose falsity was demanded by
// the next assumption. It walks the trail backwards from the current
// decision level, marking every antecedent variable seen, and collects the
// negation of every decision-level literal (reason == NoReason) it
// encounters — exactly the assumption decisions responsible for forcing p.
func (s *Solver) analyzeFinal(p Literal) []Literal {
	core := []Literal{p}
	if s.DecisionLevel() == 0 {
		return core
	}

	s.seen.Clear()
	s.seen.Add(int(p.VarID()))

	start := s.assign.LevelStart(1)
	for i := s.assign.TrailLen() - 1; i >= start; i-- {
		l := s.assign.TrailAt(i)
		v := l.VarID()
		if !s.seen.Contains(int(v)) {
			continue
		}
		reason := s.assign.Reason(v)
		if reason == NoReason {
			if s.Level(v) > 0 {
				core = append(core, l.Opposite())
			}
			continue
		}
		for _, q := range s.explain(reason, l) {
			if s.Level(q.VarID()) > 0 {
				s.seen.Add(int(q.VarID()))
			}
		}
	}
	return core
}
