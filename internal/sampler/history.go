package sampler

// DefaultHistoryCap bounds the motion history.
const DefaultHistoryCap = 100

// History is a bounded, time-ordered sequence of samples.
type History struct {
	limit   int
	samples []PositionSample
}

// NewHistory returns a history holding at most limit samples.
func NewHistory(limit int) *History {
	if limit < 2 {
		limit = DefaultHistoryCap
	}
	return &History{limit: limit, samples: make([]PositionSample, 0, limit)}
}

// Add appends a sample, dropping the oldest once the cap is exceeded.
func (h *History) Add(p PositionSample) {
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, p)
}

// Reset drops every sample.
func (h *History) Reset() {
	h.samples = h.samples[:0]
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []PositionSample {
	out := make([]PositionSample, len(h.samples))
	copy(out, h.samples)
	return out
}
