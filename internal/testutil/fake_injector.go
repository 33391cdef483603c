package testutil

import (
	"fmt"
	"sync"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/inject"
)

// Call records a single injected action.
type Call struct {
	Name   string
	X      int
	Y      int
	Button command.Button
	Action command.Action
}

// String renders the call compactly for assertions.
func (c Call) String() string {
	switch c.Name {
	case "Button":
		return fmt.Sprintf("Button %s %s", c.Button, c.Action)
	case "Wheel":
		return fmt.Sprintf("Wheel %d", c.Y)
	case "MoveRel":
		return fmt.Sprintf("MoveRel %d %d", c.X, c.Y)
	default:
		return c.Name
	}
}

// FakeInjector implements inject.Injector and records calls for tests.
type FakeInjector struct {
	mu     sync.Mutex
	calls  []Call
	Closed bool
}

// Ensure FakeInjector implements the interface.
var _ inject.Injector = (*FakeInjector)(nil)

// MoveRel records a relative move.
func (f *FakeInjector) MoveRel(dx, dy int) error {
	f.record(Call{Name: "MoveRel", X: dx, Y: dy})
	return nil
}

// Button records a button action.
func (f *FakeInjector) Button(b command.Button, a command.Action) error {
	f.record(Call{Name: "Button", Button: b, Action: a})
	return nil
}

// Wheel records a mouse wheel step.
func (f *FakeInjector) Wheel(notches int) error {
	f.record(Call{Name: "Wheel", Y: notches})
	return nil
}

// Close records that the injector was closed.
func (f *FakeInjector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeInjector) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Moved returns the sum of all relative moves.
func (f *FakeInjector) Moved() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var x, y int
	for _, c := range f.calls {
		if c.Name == "MoveRel" {
			x += c.X
			y += c.Y
		}
	}
	return x, y
}

// record appends c under the lock.
func (f *FakeInjector) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}
