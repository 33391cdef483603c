package command

import "time"

const (
	// DefaultWiggle is the jitter distance used to arm smooth scrolling.
	DefaultWiggle = 25.0
	// DefaultBracketDelay separates the steps of the middle button bracket.
	DefaultBracketDelay = 10 * time.Millisecond
)

// Sender accepts commands for the host.
type Sender interface {
	// Send queues c for delivery. It never blocks on the network.
	Send(c Command)
	// Ready reports whether commands are currently delivered.
	Ready() bool
}

// SendAll sends every command in order.
func SendAll(s Sender, cmds []Command) {
	for _, c := range cmds {
		s.Send(c)
	}
}

// MiddleBracket returns the virtual middle button sequence for action. The
// jitter moves sum to zero so the cursor ends where it started, and the host
// sees a drag rather than a click.
func MiddleBracket(action Action, wiggle float64, delay time.Duration) []Command {
	return []Command{
		Sleep(delay),
		ButtonCmd(Middle, action),
		Sleep(delay),
		Touch(0, wiggle),
		Sleep(delay),
		Touch(0, -2*wiggle),
		Sleep(delay),
		Touch(0, wiggle),
	}
}
