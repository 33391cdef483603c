// Package indicator defines the visual feedback surface used by gesture handlers.
package indicator

import "github.com/frudas24/touchmouse/internal/command"

// Area names a region of the touch page.
type Area string

const (
	AreaMove   Area = "move"
	AreaScroll Area = "scroll"
)

// Indicator draws feedback. Every method must be safe to ignore.
type Indicator interface {
	ShowPosition(area Area, x, y float64)
	ShowVector(area Area, x, y, dx, dy float64)
	ShowText(area Area, text string, highlight bool)
	ShowButton(b command.Button, held, toggled bool)
	Clear(area Area)
}

// Nop discards all feedback.
type Nop struct{}

var _ Indicator = Nop{}

// ShowPosition does nothing.
func (Nop) ShowPosition(Area, float64, float64) {}

// ShowVector does nothing.
func (Nop) ShowVector(Area, float64, float64, float64, float64) {}

// ShowText does nothing.
func (Nop) ShowText(Area, string, bool) {}

// ShowButton does nothing.
func (Nop) ShowButton(command.Button, bool, bool) {}

// Clear does nothing.
func (Nop) Clear(Area) {}
