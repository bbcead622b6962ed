package sat

// EMA is an exponential moving average, used by the Glucose restart policy
// to track the long-run average LBD of learnt clauses (the "cumulative-avg
// LBD" of spec.md §4.5).
type EMA struct {
	decay float64
	value float64
	init  bool
}

// NewEMA returns an EMA with the given decay factor in (0, 1].
func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

func (ema *EMA) Add(x float64) {
	if !ema.init {
		ema.init = true
		ema.value = x
	} else {
		ema.value = ema.decay*ema.value + x*(1-ema.decay)
	}
}

func (ema *EMA) Val() float64 {
	return ema.value
}

// WindowAverage is a fixed-size moving average over the last N samples,
// used by the Glucose restart policy for both the "fast" LBD window
// (glucose-queue-lbd-limit) and the "slow" trail-length window
// (glucose-queue-reset-limit). Unlike EMA, it reports the exact mean of the
// last N samples rather than an exponentially-weighted approximation,
// matching the moving-average semantics spec.md §4.5 describes.
type WindowAverage struct {
	window []float64
	pos    int
	filled bool
	sum    float64
}

// NewWindowAverage returns a WindowAverage over the last size samples. size
// must be positive.
func NewWindowAverage(size int) *WindowAverage {
	return &WindowAverage{window: make([]float64, size)}
}

// Add records a new sample, evicting the oldest one once the window is full.
func (w *WindowAverage) Add(x float64) {
	if w.filled {
		w.sum -= w.window[w.pos]
	}
	w.window[w.pos] = x
	w.sum += x
	w.pos++
	if w.pos == len(w.window) {
		w.pos = 0
		w.filled = true
	}
}

// Full reports whether the window has seen at least len(window) samples,
// i.e. whether Value() reflects a complete window rather than a partial one.
func (w *WindowAverage) Full() bool {
	return w.filled
}

// Count returns the number of samples currently held in the window.
func (w *WindowAverage) Count() int {
	if w.filled {
		return len(w.window)
	}
	return w.pos
}

// Value returns the average of the samples currently in the window. It
// returns 0 if no sample has been added yet.
func (w *WindowAverage) Value() float64 {
	n := w.Count()
	if n == 0 {
		return 0
	}
	return w.sum / float64(n)
}
