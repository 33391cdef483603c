package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at builds a mouse event at (x,y) and ts milliseconds.
func at(x, y, ts float64) Event {
	return Event{Type: "mousemove", X: x, Y: y, TimeStamp: ts}
}

// TestDelta_UnkeyedMeasuresFromStart verifies the empty key never ratchets.
func TestDelta_UnkeyedMeasuresFromStart(t *testing.T) {
	s := New()
	s.RecordStart(at(10, 10, 0))

	d := s.Delta(at(15, 20, 10), "")
	assert.Equal(t, Delta{DX: 5, DY: 10, DT: 10}, d)

	d = s.Delta(at(20, 30, 20), "")
	assert.Equal(t, Delta{DX: 10, DY: 20, DT: 20}, d)
}

// TestDelta_KeyedRatchets verifies keyed deltas measure from the previous call with that key.
func TestDelta_KeyedRatchets(t *testing.T) {
	s := New()
	s.RecordStart(at(0, 0, 0))

	first := s.Delta(at(3, 4, 5), "move")
	assert.Equal(t, Delta{DX: 3, DY: 4, DT: 5}, first)
	assert.InDelta(t, 5.0, first.Distance(), 1e-9)

	second := s.Delta(at(5, 4, 8), "move")
	assert.Equal(t, Delta{DX: 2, DY: 0, DT: 3}, second)
}

// TestDelta_KeysAreIndependent verifies two consumers do not disturb each other.
func TestDelta_KeysAreIndependent(t *testing.T) {
	s := New()
	s.RecordStart(at(0, 0, 0))

	s.Delta(at(10, 0, 1), "move")
	d := s.Delta(at(12, 0, 2), "scroll")
	assert.Equal(t, 12.0, d.DX)

	d = s.Delta(at(15, 0, 3), "move")
	assert.Equal(t, 5.0, d.DX)
}

// TestRecordStart_ResetsKeys verifies a new gesture discards old references.
func TestRecordStart_ResetsKeys(t *testing.T) {
	s := New()
	s.RecordStart(at(0, 0, 0))
	s.Delta(at(50, 50, 10), "move")

	s.RecordStart(at(100, 100, 20))
	d := s.Delta(at(101, 100, 21), "move")
	assert.Equal(t, Delta{DX: 1, DY: 0, DT: 1}, d)
}

// TestDelta_WithoutStartSynthesizes verifies a missing start degrades to a zero delta.
func TestDelta_WithoutStartSynthesizes(t *testing.T) {
	s := New()
	require.False(t, s.Active())

	d := s.Delta(at(7, 8, 9), "")
	assert.Equal(t, Delta{}, d)
	assert.True(t, s.Active())

	s.End()
	assert.False(t, s.Active())
}

// TestHistory_DropsOldest verifies the cap keeps the newest samples.
func TestHistory_DropsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(PositionSample{X: float64(i), TimeStamp: float64(i)})
	}
	got := h.Samples()
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].X)
	assert.Equal(t, 4.0, got[2].X)

	h.Reset()
	assert.Equal(t, 0, h.Len())
}
