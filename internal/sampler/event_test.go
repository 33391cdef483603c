package sampler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecode_TouchStartUsesTargetTouches verifies touchstart reads the first target touch.
func TestDecode_TouchStartUsesTargetTouches(t *testing.T) {
	raw := `{"type":"touchstart","timeStamp":12.5,"targetTouches":[{"clientX":10,"clientY":20}],"touches":[{"clientX":99,"clientY":99}]}`
	ev, err := Decode([]byte(raw), 0)
	require.NoError(t, err)
	assert.Equal(t, Event{Type: "touchstart", X: 10, Y: 20, TimeStamp: 12.5}, ev)
	assert.True(t, ev.IsTouch())
}

// TestDecode_TouchEndUsesChangedTouches verifies touchend reads the changed touch.
func TestDecode_TouchEndUsesChangedTouches(t *testing.T) {
	raw := `{"type":"touchend","timeStamp":40,"touches":[],"changedTouches":[{"clientX":3.5,"clientY":4.25}]}`
	ev, err := Decode([]byte(raw), 0)
	require.NoError(t, err)
	assert.Equal(t, 3.5, ev.X)
	assert.Equal(t, 4.25, ev.Y)
}

// TestDecode_MouseUsesCursor verifies mouse events read clientX/clientY directly.
func TestDecode_MouseUsesCursor(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"mousedown","clientX":1,"clientY":2}`), 77)
	require.NoError(t, err)
	assert.Equal(t, Event{Type: "mousedown", X: 1, Y: 2, TimeStamp: 77}, ev)
	assert.False(t, ev.IsTouch())
}

// TestDecode_RejectsMalformed verifies events without numeric positions abort.
func TestDecode_RejectsMalformed(t *testing.T) {
	cases := []string{
		``,
		`{not json`,
		`{"clientX":1,"clientY":2}`,
		`{"type":"touchmove","touches":[]}`,
		`{"type":"mousemove","clientX":1}`,
		`{"type":"mousemove","clientX":null,"clientY":null}`,
		`{"type":"mousemove","clientX":"abc","clientY":{}}`,
		`{"type":"mousemove","clientX":"12","clientY":"34"}`,
		`{"type":"touchend","changedTouches":[{"clientX":true,"clientY":[]}]}`,
		`{"type":"mouseup","timeStamp":"soon","clientX":1,"clientY":2}`,
		`{"type":"mouseup","timeStamp":null,"clientX":1,"clientY":2}`,
	}
	for _, raw := range cases {
		_, err := Decode([]byte(raw), 0)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrMalformedEvent), raw)
	}
}
