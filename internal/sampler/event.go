// Package sampler turns raw pointer and touch events into timestamped positions.
package sampler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedEvent reports an event whose shape carries no usable position.
var ErrMalformedEvent = errors.New("malformed event")

// Event is a normalized pointer or touch event.
type Event struct {
	Type      string
	X         float64
	Y         float64
	TimeStamp float64
}

// IsTouch reports whether the event came from a touch surface.
func (e Event) IsTouch() bool {
	return strings.HasPrefix(e.Type, "touch")
}

// Decode normalizes a browser event payload. Touch events read the first relevant
// touch point; mouse and pointer events read the cursor position. When the payload
// has no timeStamp, fallbackTS (milliseconds) is used.
func Decode(raw []byte, fallbackTS float64) (Event, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Event{}, fmt.Errorf("%w: invalid json", ErrMalformedEvent)
	}
	root := gjson.ParseBytes(raw)
	typ := root.Get("type").String()
	if typ == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	point := root
	if strings.HasPrefix(typ, "touch") {
		point = touchPoint(root, typ)
		if !point.Exists() {
			return Event{}, fmt.Errorf("%w: %s without touch points", ErrMalformedEvent, typ)
		}
	}

	x := point.Get("clientX")
	y := point.Get("clientY")
	if !x.Exists() || !y.Exists() {
		return Event{}, fmt.Errorf("%w: %s without clientX/clientY", ErrMalformedEvent, typ)
	}
	if x.Type != gjson.Number || y.Type != gjson.Number {
		return Event{}, fmt.Errorf("%w: %s with non-numeric clientX/clientY", ErrMalformedEvent, typ)
	}

	ts := fallbackTS
	if v := root.Get("timeStamp"); v.Exists() {
		if v.Type != gjson.Number {
			return Event{}, fmt.Errorf("%w: non-numeric timeStamp", ErrMalformedEvent)
		}
		ts = v.Float()
	}
	return Event{Type: typ, X: x.Float(), Y: y.Float(), TimeStamp: ts}, nil
}

// touchPoint picks the touch point list that carries the position for the event type.
func touchPoint(root gjson.Result, typ string) gjson.Result {
	var first gjson.Result
	switch typ {
	case "touchstart":
		first = root.Get("targetTouches.0")
	default:
		first = root.Get("changedTouches.0")
	}
	if first.Exists() {
		return first
	}
	return root.Get("touches.0")
}
