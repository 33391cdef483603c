//go:build windows

package inject

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"github.com/frudas24/touchmouse/internal/command"
)

// wheelDelta is one wheel notch in WinAPI units.
const wheelDelta = 120

// WinInjector injects mouse input using SendInput.
type WinInjector struct{}

// newPlatform returns a Windows input injector.
func newPlatform() (Injector, error) {
	return &WinInjector{}, nil
}

// MoveRel moves the cursor relative to its current position.
func (w *WinInjector) MoveRel(dx, dy int) error {
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(dx), int32(dy), 0)
}

// Button presses, releases or clicks b.
func (w *WinInjector) Button(b command.Button, a command.Action) error {
	return pressButton(b, a, w.press)
}

// press sends the down or up flag for b.
func (w *WinInjector) press(b command.Button, down bool) error {
	var flags uint32
	switch b {
	case command.Left:
		flags = win.MOUSEEVENTF_LEFTUP
		if down {
			flags = win.MOUSEEVENTF_LEFTDOWN
		}
	case command.Middle:
		flags = win.MOUSEEVENTF_MIDDLEUP
		if down {
			flags = win.MOUSEEVENTF_MIDDLEDOWN
		}
	case command.Right:
		flags = win.MOUSEEVENTF_RIGHTUP
		if down {
			flags = win.MOUSEEVENTF_RIGHTDOWN
		}
	default:
		return ErrUnsupported
	}
	return sendMouseInput(flags, 0, 0, 0)
}

// Wheel scrolls by whole notches. WinAPI treats positive wheel data as up.
func (w *WinInjector) Wheel(notches int) error {
	return sendMouseInput(win.MOUSEEVENTF_WHEEL, 0, 0, uint32(int32(-notches*wheelDelta)))
}

// Close is a no-op on Windows.
func (w *WinInjector) Close() error {
	return nil
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("inject: SendInput: %w", syscall.Errno(win.GetLastError()))
	}
	return nil
}
