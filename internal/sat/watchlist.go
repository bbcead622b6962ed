package sat

// watcher is a single entry of a literal's watch list: the clause being
// watched together with a cached blocker literal used to skip loading the
// clause when the blocker is already true (spec.md §3 "Watch lists", §4.3).
type watcher struct {
	clause  ClauseRef
	blocker Literal
}

// WatchLists holds, for every literal, the list of clauses watching it
// (component D of spec.md §2).
type WatchLists struct {
	lists [][]watcher
	tmp   []watcher // reused scratch buffer for Propagate's in-place scan
}

// NewWatchLists returns an empty set of watch lists.
func NewWatchLists() *WatchLists {
	return &WatchLists{}
}

// NewVariable grows the watch lists to cover a freshly created variable.
func (w *WatchLists) NewVariable() {
	w.lists = append(w.lists, nil, nil)
}

// Watch registers ref to be woken up when lit is assigned true, using
// blocker as the cached short-circuit literal.
func (w *WatchLists) Watch(lit Literal, ref ClauseRef, blocker Literal) {
	w.lists[lit] = append(w.lists[lit], watcher{clause: ref, blocker: blocker})
}

// Unwatch removes ref from lit's watch list.
func (w *WatchLists) Unwatch(lit Literal, ref ClauseRef) {
	list := w.lists[lit]
	j := 0
	for i := range list {
		if list[i].clause != ref {
			list[j] = list[i]
			j++
		}
	}
	w.lists[lit] = list[:j]
}

// List returns the current watchers of lit.
func (w *WatchLists) List(lit Literal) []watcher {
	return w.lists[lit]
}

// Clear empties every watch list without shrinking the literal-indexed
// outer slice, used when rebuilding watches from scratch after garbage
// collection relocates clause references.
func (w *WatchLists) Clear() {
	for i := range w.lists {
		w.lists[i] = w.lists[i][:0]
	}
}
