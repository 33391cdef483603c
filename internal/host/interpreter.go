// Package host replays pad commands as mouse input.
package host

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/inject"
	"github.com/frudas24/touchmouse/internal/logging"
)

const (
	// DefaultRefreshHz is the momentum tick rate.
	DefaultRefreshHz = 120.0
	// DefaultSensitivity scales a spin vector into pixels per tick.
	DefaultSensitivity = 0.1
	// DefaultFriction is the momentum decay per tick.
	DefaultFriction = 0.004
)

// Eases maps tuning names to easing curves for spin momentum.
var Eases = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"out-quad":  ease.OutQuad,
	"out-cubic": ease.OutCubic,
	"out-sine":  ease.OutSine,
	"out-expo":  ease.OutExpo,
}

// Config tunes spin momentum.
type Config struct {
	// RefreshHz is the momentum tick rate.
	RefreshHz float64
	// Sensitivity scales the spin vector into pixels per tick.
	Sensitivity float64
	// Friction is how much of the initial speed is lost per tick.
	Friction float64
	// Ease shapes the decay from full speed to rest.
	Ease ease.TweenFunc
}

// DefaultConfig returns the default momentum tuning.
func DefaultConfig() Config {
	return Config{
		RefreshHz:   DefaultRefreshHz,
		Sensitivity: DefaultSensitivity,
		Friction:    DefaultFriction,
		Ease:        ease.Linear,
	}
}

// Interpreter executes commands against an injector. It is safe for concurrent use.
type Interpreter struct {
	inj inject.Injector
	cfg Config

	mu       sync.Mutex
	px, py   Accumulator
	wheel    Accumulator
	vx, vy   float64
	tween    *gween.Tween
	spinning bool
}

// NewInterpreter returns an interpreter driving inj.
func NewInterpreter(inj inject.Injector, cfg Config) *Interpreter {
	def := DefaultConfig()
	if cfg.RefreshHz <= 0 {
		cfg.RefreshHz = def.RefreshHz
	}
	if cfg.Friction <= 0 || cfg.Friction > 1 {
		cfg.Friction = def.Friction
	}
	if cfg.Ease == nil {
		cfg.Ease = def.Ease
	}
	return &Interpreter{inj: inj, cfg: cfg}
}

// Tick returns the momentum tick period.
func (in *Interpreter) Tick() time.Duration {
	return time.Duration(float64(time.Second) / in.cfg.RefreshHz)
}

// Run advances spin momentum until ctx is cancelled.
func (in *Interpreter) Run(ctx context.Context) error {
	period := in.Tick()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			in.step(float32(period.Seconds()))
		}
	}
}

// Spinning reports whether momentum is active.
func (in *Interpreter) Spinning() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.spinning
}

// Handle parses and executes one wire line.
func (in *Interpreter) Handle(ctx context.Context, line string) error {
	cmd, err := command.Parse(line)
	if err != nil {
		return err
	}
	return in.Execute(ctx, cmd)
}

// Execute applies one command.
func (in *Interpreter) Execute(ctx context.Context, cmd command.Command) error {
	switch cmd.Kind {
	case command.KindButton:
		in.mu.Lock()
		defer in.mu.Unlock()
		return in.inj.Button(cmd.Button, cmd.Action)
	case command.KindTouch:
		in.mu.Lock()
		defer in.mu.Unlock()
		in.stopLocked()
		return in.moveLocked(cmd.DX, cmd.DY)
	case command.KindScroll:
		in.mu.Lock()
		defer in.mu.Unlock()
		if n := in.wheel.Take(cmd.DY); n != 0 {
			return in.inj.Wheel(n)
		}
		return nil
	case command.KindSpin:
		in.spin(cmd.DX, cmd.DY)
		return nil
	case command.KindSleep:
		return sleep(ctx, cmd.Delay)
	case command.KindComment:
		lvl, text := logging.ParsePrefix(cmd.Text)
		log.WithFields(log.Fields{"remote": true, logging.LocalOnly: true}).Log(lvl, "pad: "+text)
		return nil
	default:
		return fmt.Errorf("host: unsupported command kind %d", cmd.Kind)
	}
}

// spin starts momentum along (dx, dy), or stops it for a zero vector.
func (in *Interpreter) spin(dx, dy float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if dx == 0 && dy == 0 {
		in.stopLocked()
		return
	}
	ticks := 1 / in.cfg.Friction
	duration := float32(ticks / in.cfg.RefreshHz)
	in.vx = dx * in.cfg.Sensitivity
	in.vy = dy * in.cfg.Sensitivity
	in.tween = gween.New(1, 0, duration, in.cfg.Ease)
	in.spinning = true
}

// step moves the pointer by one momentum tick of dt seconds.
func (in *Interpreter) step(dt float32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.spinning {
		return
	}
	factor, done := in.tween.Update(dt)
	if done {
		in.stopLocked()
		return
	}
	if err := in.moveLocked(in.vx*float64(factor), in.vy*float64(factor)); err != nil {
		log.WithError(err).WithField(logging.LocalOnly, true).Warn("host: momentum move failed")
		in.stopLocked()
	}
}

// stopLocked ends momentum.
func (in *Interpreter) stopLocked() {
	in.spinning = false
	in.tween = nil
	in.vx, in.vy = 0, 0
}

// moveLocked applies a fractional move through the accumulators.
func (in *Interpreter) moveLocked(dx, dy float64) error {
	ix, iy := in.px.Take(dx), in.py.Take(dy)
	if ix == 0 && iy == 0 {
		return nil
	}
	return in.inj.MoveRel(ix, iy)
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EaseByName returns the easing curve called name.
func EaseByName(name string) (ease.TweenFunc, error) {
	fn, ok := Eases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("host: unknown ease %q", name)
	}
	return fn, nil
}
