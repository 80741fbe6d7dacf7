package timing

// Sample is a single amplitude value and its zero-based position.
type Sample struct {
	Index int
	Value int
}

// Magnitude returns the absolute amplitude. Sign carries no meaning for
// classification.
func (s Sample) Magnitude() int {
	if s.Value < 0 {
		return -s.Value
	}
	return s.Value
}

// Source is a forward-only, pull-based sample cursor.
// Next returns false once the sequence is exhausted; a zero Value with true
// is a valid sample.
type Source interface {
	Next() (Sample, bool)
}

// SliceCursor walks a materialised sample buffer without copying it.
type SliceCursor struct {
	samples []int
	pos     int
	last    int

	// OnAdvance, when set, is called every ReportEvery samples with the
	// number of samples consumed so far.
	OnAdvance   func(consumed int)
	ReportEvery int
}

// NewSliceCursor returns a cursor positioned before the first sample.
func NewSliceCursor(samples []int) *SliceCursor {
	return &SliceCursor{samples: samples, last: -1}
}

// Next yields the next sample, or false at the end of the buffer.
func (c *SliceCursor) Next() (Sample, bool) {
	if c.pos >= len(c.samples) {
		return Sample{}, false
	}
	s := Sample{Index: c.pos, Value: c.samples[c.pos]}
	c.last = c.pos
	c.pos++
	if c.OnAdvance != nil && c.ReportEvery > 0 && c.pos%c.ReportEvery == 0 {
		c.OnAdvance(c.pos)
	}
	return s, true
}

// LastIndex returns the index of the last sample yielded, or -1.
func (c *SliceCursor) LastIndex() int {
	return c.last
}

// Len returns the total number of samples behind the cursor.
func (c *SliceCursor) Len() int {
	return len(c.samples)
}
