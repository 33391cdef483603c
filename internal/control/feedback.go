package control

import (
	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/indicator"
)

// Feedback message types.
const (
	FbPosition = "pos"
	FbVector   = "vec"
	FbText     = "text"
	FbButton   = "button"
	FbClear    = "clear"
	FbStatus   = "status"
	FbHost     = "host"
)

// FeedbackIndicator turns indicator calls into Feedback messages for the page.
type FeedbackIndicator struct {
	emit func(Feedback)
}

var _ indicator.Indicator = (*FeedbackIndicator)(nil)

// NewFeedbackIndicator returns an indicator that hands every message to emit.
func NewFeedbackIndicator(emit func(Feedback)) *FeedbackIndicator {
	return &FeedbackIndicator{emit: emit}
}

// ShowPosition marks a touch position.
func (f *FeedbackIndicator) ShowPosition(area indicator.Area, x, y float64) {
	f.emit(Feedback{T: FbPosition, Area: string(area), X: x, Y: y})
}

// ShowVector draws a vector from (x,y).
func (f *FeedbackIndicator) ShowVector(area indicator.Area, x, y, dx, dy float64) {
	f.emit(Feedback{T: FbVector, Area: string(area), X: x, Y: y, DX: dx, DY: dy})
}

// ShowText sets the area label.
func (f *FeedbackIndicator) ShowText(area indicator.Area, text string, highlight bool) {
	f.emit(Feedback{T: FbText, Area: string(area), Text: text, Highlight: highlight})
}

// ShowButton updates a button highlight.
func (f *FeedbackIndicator) ShowButton(b command.Button, held, toggled bool) {
	f.emit(Feedback{T: FbButton, Button: string(b), Held: held, Toggled: toggled})
}

// Clear removes the drawing of area.
func (f *FeedbackIndicator) Clear(area indicator.Area) {
	f.emit(Feedback{T: FbClear, Area: string(area)})
}
