//go:build linux

package inject

import (
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/frudas24/touchmouse/internal/command"
)

const (
	x11WheelUp   = 4
	x11WheelDown = 5
	// relativeMotion is the XTEST detail value for relative MotionNotify.
	relativeMotion = 1
)

// X11Injector injects mouse input through the XTEST extension.
type X11Injector struct {
	mu   sync.Mutex
	conn *xgb.Conn
	root xproto.Window
}

// newPlatform connects to $DISPLAY and initializes XTEST.
func newPlatform() (Injector, error) {
	return NewX11(os.Getenv("DISPLAY"))
}

// NewX11 connects to display and initializes XTEST.
func NewX11(display string) (*X11Injector, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("inject: connect X display %q: %w", display, err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("inject: init XTEST: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil || len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("inject: X display %q has no screens", display)
	}
	return &X11Injector{conn: conn, root: setup.Roots[0].Root}, nil
}

// MoveRel moves the pointer relative to its current position.
func (x *X11Injector) MoveRel(dx, dy int) error {
	return x.fake(xproto.MotionNotify, relativeMotion, int16(dx), int16(dy))
}

// Button presses, releases or clicks b.
func (x *X11Injector) Button(b command.Button, a command.Action) error {
	return pressButton(b, a, x.press)
}

// press sends a fake press or release for b.
func (x *X11Injector) press(b command.Button, down bool) error {
	var detail byte
	switch b {
	case command.Left:
		detail = 1
	case command.Middle:
		detail = 2
	case command.Right:
		detail = 3
	default:
		return ErrUnsupported
	}
	return x.pressDetail(detail, down)
}

// pressDetail sends a fake press or release for an X button number.
func (x *X11Injector) pressDetail(detail byte, down bool) error {
	typ := byte(xproto.ButtonRelease)
	if down {
		typ = xproto.ButtonPress
	}
	return x.fake(typ, detail, 0, 0)
}

// Wheel clicks the wheel buttons once per notch.
func (x *X11Injector) Wheel(notches int) error {
	detail := byte(x11WheelDown)
	if notches < 0 {
		detail = x11WheelUp
		notches = -notches
	}
	for i := 0; i < notches; i++ {
		if err := x.pressDetail(detail, true); err != nil {
			return err
		}
		if err := x.pressDetail(detail, false); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the X connection.
func (x *X11Injector) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.conn != nil {
		x.conn.Close()
		x.conn = nil
	}
	return nil
}

// fake sends one XTEST event and waits for the server to accept it.
func (x *X11Injector) fake(typ, detail byte, rx, ry int16) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.conn == nil {
		return fmt.Errorf("inject: X connection closed")
	}
	if err := xtest.FakeInputChecked(x.conn, typ, detail, 0, x.root, rx, ry, 0).Check(); err != nil {
		return fmt.Errorf("inject: fake input: %w", err)
	}
	return nil
}
