// Package command defines the text command vocabulary sent from the pad to the host.
package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Decimals is the number of fractional digits kept on the wire.
const Decimals = 3

var (
	// ErrEmpty indicates a blank command line.
	ErrEmpty = errors.New("command: empty line")
	// ErrUnknownVerb indicates a command whose first token is not in the vocabulary.
	ErrUnknownVerb = errors.New("command: unknown verb")
	// ErrBadArgs indicates a known verb with missing or unparsable arguments.
	ErrBadArgs = errors.New("command: bad arguments")
)

// Kind identifies a command verb.
type Kind int

const (
	KindButton Kind = iota + 1
	KindTouch
	KindScroll
	KindSpin
	KindSleep
	KindComment
)

// Button names a logical mouse button.
type Button string

const (
	Left   Button = "left"
	Middle Button = "middle"
	Right  Button = "right"
)

// Buttons lists every logical button in display order.
var Buttons = []Button{Left, Middle, Right}

// Action is what happens to a button.
type Action string

const (
	Click Action = "click"
	Down  Action = "down"
	Up    Action = "up"
)

// Command is a single parsed or built command.
type Command struct {
	Kind   Kind
	Button Button
	Action Action
	DX     float64
	DY     float64
	Delay  time.Duration
	Text   string
}

// ButtonCmd builds "<button> <action>".
func ButtonCmd(b Button, a Action) Command {
	return Command{Kind: KindButton, Button: b, Action: a}
}

// Touch builds a relative pointer move.
func Touch(dx, dy float64) Command {
	return Command{Kind: KindTouch, DX: dx, DY: dy}
}

// Scroll builds a wheel step of n notches.
func Scroll(n float64) Command {
	return Command{Kind: KindScroll, DY: n}
}

// Spin builds a momentum fling vector.
func Spin(dx, dy float64) Command {
	return Command{Kind: KindSpin, DX: dx, DY: dy}
}

// Sleep builds a host-side delay.
func Sleep(d time.Duration) Command {
	return Command{Kind: KindSleep, Delay: d}
}

// Comment builds a log line for the host.
func Comment(text string) Command {
	return Command{Kind: KindComment, Text: text}
}

// Discrete reports whether the command changes button state on the host.
func (c Command) Discrete() bool {
	return c.Kind == KindButton
}

// String renders the wire text.
func (c Command) String() string {
	switch c.Kind {
	case KindButton:
		return string(c.Button) + " " + string(c.Action)
	case KindTouch:
		return "touch " + FormatNumber(c.DX) + " " + FormatNumber(c.DY)
	case KindScroll:
		return "scroll " + FormatNumber(c.DY)
	case KindSpin:
		return "spin " + FormatNumber(c.DX) + " " + FormatNumber(c.DY)
	case KindSleep:
		return "sleep " + strconv.FormatInt(c.Delay.Milliseconds(), 10)
	case KindComment:
		return "# " + c.Text
	default:
		return "# invalid command"
	}
}

// FormatNumber fixes v to Decimals fractional digits and trims trailing zeros.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	scale := math.Pow10(Decimals)
	r := math.Round(v*scale) / scale
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Parse reads a single wire line.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmpty
	}
	if strings.HasPrefix(line, "#") {
		return Comment(strings.TrimSpace(strings.TrimPrefix(line, "#"))), nil
	}

	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]
	switch verb {
	case string(Left), string(Middle), string(Right):
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: %s needs an action", ErrBadArgs, verb)
		}
		switch a := Action(args[0]); a {
		case Click, Down, Up:
			return ButtonCmd(Button(verb), a), nil
		default:
			return Command{}, fmt.Errorf("%w: unknown action %q", ErrBadArgs, args[0])
		}
	case "touch", "spin":
		xy, err := parseFloats(verb, args, 2)
		if err != nil {
			return Command{}, err
		}
		if verb == "touch" {
			return Touch(xy[0], xy[1]), nil
		}
		return Spin(xy[0], xy[1]), nil
	case "scroll":
		n, err := parseFloats(verb, args, 1)
		if err != nil {
			return Command{}, err
		}
		return Scroll(n[0]), nil
	case "sleep":
		ms, err := parseFloats(verb, args, 1)
		if err != nil {
			return Command{}, err
		}
		if ms[0] < 0 {
			return Command{}, fmt.Errorf("%w: negative sleep", ErrBadArgs)
		}
		return Sleep(time.Duration(ms[0] * float64(time.Millisecond))), nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}
}

// parseFloats parses exactly n finite numeric arguments.
func parseFloats(verb string, args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArgs, verb, n, len(args))
	}
	out := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s argument %q", ErrBadArgs, verb, raw)
		}
		out[i] = v
	}
	return out, nil
}
