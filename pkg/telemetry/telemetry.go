// Package telemetry provides the pluggable reporting sink used in place of
// the direct-to-stdout printing of the original solver. The clausal engine
// and its restart/reduction policy report statistics through a Sink
// supplied at construction, so embedding callers can redirect, silence, or
// structure this output without touching the solving code. The
// optimization loops in internal/optimize take no Sink; the CLI reports
// their resulting bounds through BoundImproved.
package telemetry

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Sink receives progress and statistics events emitted during search. All
// methods must be safe to call at any point of a solve, including from
// within the optimization loops between driver calls.
type Sink interface {
	// Searching reports a periodic snapshot of the CDCL search.
	Searching(stats SearchStats)

	// Restarted reports that the restart policy triggered a restart.
	Restarted(totalRestarts int64)

	// Reduced reports a learned-clause database reduction.
	Reduced(before, after int)

	// CollectedGarbage reports a clause-arena garbage collection.
	CollectedGarbage(reclaimedWords int)

	// BoundImproved reports a new incumbent objective value found by either
	// optimization loop.
	BoundImproved(loop string, bound int64)

	// Event reports a free-form, low-frequency message (e.g. stratification
	// bucket changes, varying-resolution round changes).
	Event(format string, args ...any)
}

// SearchStats is the periodic snapshot reported by the driver's main loop.
type SearchStats struct {
	Elapsed         float64
	Iterations      int64
	Conflicts       int64
	Restarts        int64
	LearntClauses   int
	PermanentClauses int
}

// Noop is a Sink that discards every event. Useful for tests and for
// embedding callers that have no use for progress reporting.
var Noop Sink = noopSink{}

type noopSink struct{}

func (noopSink) Searching(SearchStats)         {}
func (noopSink) Restarted(int64)               {}
func (noopSink) Reduced(int, int)              {}
func (noopSink) CollectedGarbage(int)          {}
func (noopSink) BoundImproved(string, int64)   {}
func (noopSink) Event(string, ...any)          {}

// Logrus wraps a *logrus.Logger to implement Sink. This is the default sink
// used by the CLI.
type Logrus struct {
	Log *logrus.Logger
}

// NewLogrus returns a Logrus sink writing to w at the given level.
func NewLogrus(w io.Writer, level logrus.Level) *Logrus {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: false})
	return &Logrus{Log: log}
}

func (l *Logrus) Searching(s SearchStats) {
	l.Log.WithFields(logrus.Fields{
		"elapsed_s":  s.Elapsed,
		"iterations": s.Iterations,
		"conflicts":  s.Conflicts,
		"restarts":   s.Restarts,
		"learnts":    s.LearntClauses,
		"permanent":  s.PermanentClauses,
	}).Debug("searching")
}

func (l *Logrus) Restarted(total int64) {
	l.Log.WithField("total_restarts", total).Debug("restarted")
}

func (l *Logrus) Reduced(before, after int) {
	l.Log.WithFields(logrus.Fields{"before": before, "after": after}).Debug("reduced learnt clause database")
}

func (l *Logrus) CollectedGarbage(reclaimedWords int) {
	l.Log.WithField("reclaimed_words", reclaimedWords).Debug("collected clause arena garbage")
}

func (l *Logrus) BoundImproved(loop string, bound int64) {
	l.Log.WithFields(logrus.Fields{"loop": loop, "bound": bound}).Info("bound improved")
}

func (l *Logrus) Event(format string, args ...any) {
	l.Log.Debugf(format, args...)
}
