package sat

// bumpVarActivity and decayVarActivity are the VSIDS bookkeeping hooks
// conflict analysis and the per-conflict driver loop call into (component C
// wrapped for component H/J's use).
func (s *Solver) bumpVarActivity(v Variable) { s.heap.Bump(v) }
func (s *Solver) decayVarActivity()          { s.heap.Decay() }

// lubyGenerator produces the Luby restart sequence 1, 1, 2, 1, 1, 2, 4, 1,
// 1, 2, 1, 1, 2, 4, 8, ... on successive calls to Next (component I, "Luby
// restart strategy").
type lubyGenerator struct {
	index int64
}

func newLubyGenerator() *lubyGenerator {
	return &lubyGenerator{}
}

// Next advances and returns the next term of the sequence.
func (g *lubyGenerator) Next() int64 {
	g.index++
	return lubyTerm(g.index)
}

func lubyTerm(i int64) int64 {
	k := int64(1)
	for (int64(1)<<uint(k))-1 < i {
		k++
	}
	if i == (int64(1)<<uint(k))-1 {
		return int64(1) << uint(k-1)
	}
	return lubyTerm(i - (int64(1)<<uint(k-1)) + 1)
}

// onConflict updates the restart-policy bookkeeping that tracks every
// conflict (LBD/trail windows, the luby/constant counters), called once per
// conflict before shouldRestart is consulted.
func (s *Solver) onConflict(lbd int) {
	s.conflictsSinceRestart++
	s.lbdGlobal.Add(float64(lbd))
	s.lbdFast.Add(float64(lbd))
	s.trailWindow.Add(float64(s.assign.TrailLen()))
}

// shouldRestart reports whether the configured restart policy wants a
// restart right now (spec.md §4.5).
func (s *Solver) shouldRestart() bool {
	if s.conflictsSinceRestart < s.opts.MinConflictsPerRestart {
		return false
	}

	switch s.opts.RestartStrategy {
	case RestartLuby:
		return s.conflictsSinceRestart >= s.lubyThreshold
	case RestartConstant:
		return s.conflictsSinceRestart >= int64(maxInt(s.opts.RestartMultCoefficient, 1))
	default: // RestartGlucose
		if !s.lbdFast.Full() {
			return false
		}
		if s.trailWindow.Full() && float64(s.assign.TrailLen()) > 1.4*s.trailWindow.Value() {
			return false // blocked: the search is still making good progress
		}
		return 0.8*s.lbdFast.Value() > s.lbdGlobal.Val()
	}
}

// doRestart backtracks to the root and resets the per-restart counters,
// advancing the Luby sequence if that strategy is active.
func (s *Solver) doRestart() {
	s.backtrackTo(0)
	s.conflictsSinceRestart = 0
	s.TotalRestarts++
	if s.opts.RestartStrategy == RestartLuby {
		s.lubyThreshold = s.lubySeq.Next() * int64(maxInt(s.opts.RestartMultCoefficient, 1))
	}
	s.sink.Restarted(s.TotalRestarts)
}

// backtrackTo undoes the trail down to level, reinserting every unassigned
// variable into the activity heap and clearing the CP propagator queue
// (component I/J shared helper; also used for backjumping after a learned
// clause is recorded).
func (s *Solver) backtrackTo(level int) {
	if s.DecisionLevel() <= level {
		return
	}
	s.assign.CancelUntil(level, func(l Literal) {
		s.heap.Reinsert(l.VarID(), Lift(l.IsPositive()))
	})
	s.propQueue.Clear()
	s.pendingCP.clear()
	for _, entry := range s.propagators {
		entry.p.Synchronise(s)
		s.scratchDue[entry.id] = true
		s.pendingCP.push(entry.p.Priority(), entry.id)
	}
}

// maybeReduceDB runs spec.md §4.5's reduceDB pass once the number of
// temporary (learned) clauses crosses the configured limit: half of the
// unprotected, unlocked learnt clauses are dropped, sorted worst-first by
// LBD (ties broken by activity, unless LBDSortingTemporary is disabled, in
// which case activity alone orders the sort).
func (s *Solver) maybeReduceDB() {
	if len(s.learnts) < s.opts.LimitNumTemporaryClauses {
		return
	}
	s.reduceDB()
	s.opts.LimitNumTemporaryClauses += s.opts.LimitNumTemporaryClauses / 4
	s.maybeGarbageCollect()
}

func (s *Solver) reduceDB() {
	before := len(s.learnts)
	live := s.learnts[:0:0]
	for _, ref := range s.learnts {
		c := s.alloc.View(ref)
		if c.Deleted() {
			continue
		}
		live = append(live, ref)
	}

	sortClausesByQuality(s.alloc, live, s.opts.LBDSortingTemporary)

	keepFrom := len(live) / 2
	kept := make([]ClauseRef, 0, len(live))
	for i, ref := range live {
		c := s.alloc.View(ref)
		if i >= keepFrom || c.LBD() <= 2 || s.locked(ref) {
			kept = append(kept, ref)
			continue
		}
		if c.Protected() {
			c.ClearProtected() // survive exactly one extra round
			kept = append(kept, ref)
			continue
		}
		s.removeClause(ref)
	}
	s.learnts = kept
	s.sink.Reduced(before, len(kept))
}

// sortClausesByQuality orders refs worst-first: highest LBD first (or, when
// lbdSort is false, lowest activity first), so reduceDB's head is the
// deletion candidate set.
func sortClausesByQuality(alloc *ClauseAllocator, refs []ClauseRef, lbdSort bool) {
	less := func(i, j int) bool {
		ci, cj := alloc.View(refs[i]), alloc.View(refs[j])
		if lbdSort && ci.LBD() != cj.LBD() {
			return ci.LBD() > cj.LBD()
		}
		return ci.Activity() < cj.Activity()
	}
	// Simple insertion sort: learnt-clause counts are bounded by
	// LimitNumTemporaryClauses and this runs only on reduceDB passes.
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
}

// maybeGarbageCollect runs arena compaction once the wasted-word ratio
// crosses GarbageToleranceFactor (spec.md §4.5's garbage collection
// trigger).
func (s *Solver) maybeGarbageCollect() {
	capacity := s.alloc.Capacity()
	if capacity == 0 || float64(s.alloc.Wasted())/float64(capacity) < s.opts.GarbageToleranceFactor {
		return
	}
	s.garbageCollect()
}

// garbageCollect compacts the clause arena, dropping deleted clauses and
// relocating every surviving clause reference: the permanent/learnt clause
// lists, the trail's reason pointers, and the watch lists are all rebuilt
// against the new references (spec.md §4.5 steps 1-5).
func (s *Solver) garbageCollect() {
	reclaimed := s.alloc.Wasted()
	s.alloc.ResetHelper()

	relocate := func(ref ClauseRef) ClauseRef {
		c := s.alloc.View(ref)
		if c.Relocated() {
			return c.relocatedRef()
		}
		survivors := make([]Literal, c.Size())
		for i := range survivors {
			survivors[i] = c.Lit(i)
		}
		newRef := s.alloc.CopyIntoHelper(ref, survivors)
		c.relocateTo(newRef)
		return newRef
	}

	newPermanent := make([]ClauseRef, 0, len(s.permanent))
	for _, ref := range s.permanent {
		if s.alloc.View(ref).Deleted() {
			continue
		}
		newPermanent = append(newPermanent, relocate(ref))
	}
	newLearnts := make([]ClauseRef, 0, len(s.learnts))
	for _, ref := range s.learnts {
		if s.alloc.View(ref).Deleted() {
			continue
		}
		newLearnts = append(newLearnts, relocate(ref))
	}

	for i := 0; i < s.assign.TrailLen(); i++ {
		v := s.assign.TrailAt(i).VarID()
		r := s.assign.Reason(v)
		if r == NoReason || r.IsPropagator(s.alloc.Limit()) {
			continue
		}
		s.assign.SetReason(v, relocate(r))
	}

	s.alloc.SwapWithHelper()
	s.permanent = newPermanent
	s.learnts = newLearnts

	s.rebuildWatches()
	s.sink.CollectedGarbage(reclaimed)
}

// rebuildWatches re-derives every clause's two watches from scratch. Needed
// after garbage collection, since clause references (and therefore the
// stale ones stored in WatchLists) change.
func (s *Solver) rebuildWatches() {
	s.watches.Clear()
	install := func(ref ClauseRef) {
		c := s.alloc.View(ref)
		s.watches.Watch(c.Lit(0).Opposite(), ref, c.Lit(1))
		s.watches.Watch(c.Lit(1).Opposite(), ref, c.Lit(0))
	}
	for _, ref := range s.permanent {
		install(ref)
	}
	for _, ref := range s.learnts {
		install(ref)
	}
}
