package inject

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/logging"
)

// DryRun logs every operation instead of touching the real pointer.
type DryRun struct {
	mu   sync.Mutex
	held map[command.Button]bool
}

// NewDryRun returns a logging injector.
func NewDryRun() *DryRun {
	return &DryRun{held: make(map[command.Button]bool)}
}

// MoveRel logs a relative move.
func (d *DryRun) MoveRel(dx, dy int) error {
	log.WithFields(log.Fields{"dx": dx, "dy": dy, logging.LocalOnly: true}).Debug("inject: move")
	return nil
}

// Button logs a button action and tracks held buttons.
func (d *DryRun) Button(b command.Button, a command.Action) error {
	return pressButton(b, a, func(b command.Button, down bool) error {
		d.mu.Lock()
		d.held[b] = down
		d.mu.Unlock()
		log.WithFields(log.Fields{"button": b, "down": down, logging.LocalOnly: true}).Info("inject: button")
		return nil
	})
}

// Wheel logs a wheel step.
func (d *DryRun) Wheel(notches int) error {
	log.WithFields(log.Fields{"notches": notches, logging.LocalOnly: true}).Info("inject: wheel")
	return nil
}

// Held reports whether b is currently pressed.
func (d *DryRun) Held(b command.Button) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.held[b]
}

// Close is a no-op.
func (d *DryRun) Close() error {
	return nil
}
