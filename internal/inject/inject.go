// Package inject replays host commands as operating system mouse input.
package inject

import (
	"errors"

	"github.com/frudas24/touchmouse/internal/command"
)

// ErrUnsupported indicates input injection is not available on this platform.
var ErrUnsupported = errors.New("inject: input injection is not supported on this platform")

// Injector defines the mouse operations used by the host interpreter.
type Injector interface {
	MoveRel(dx, dy int) error
	Button(b command.Button, a command.Action) error
	// Wheel scrolls by notches; positive scrolls down.
	Wheel(notches int) error
	Close() error
}

// New returns the platform injector, or a logging injector when dryRun is set.
func New(dryRun bool) (Injector, error) {
	if dryRun {
		return NewDryRun(), nil
	}
	return newPlatform()
}

// click presses and releases b through press.
func click(b command.Button, press func(command.Button, bool) error) error {
	if err := press(b, true); err != nil {
		return err
	}
	return press(b, false)
}

// pressButton maps a button action onto press and release calls.
func pressButton(b command.Button, a command.Action, press func(command.Button, bool) error) error {
	switch a {
	case command.Click:
		return click(b, press)
	case command.Down:
		return press(b, true)
	case command.Up:
		return press(b, false)
	default:
		return errors.New("inject: unknown button action " + string(a))
	}
}
