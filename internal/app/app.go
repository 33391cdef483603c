// Package app wires HTTP, the pad controller and the host interpreter together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/frudas24/touchmouse/internal/channel"
	"github.com/frudas24/touchmouse/internal/command"
	"github.com/frudas24/touchmouse/internal/config"
	"github.com/frudas24/touchmouse/internal/control"
	"github.com/frudas24/touchmouse/internal/gesture"
	"github.com/frudas24/touchmouse/internal/host"
	"github.com/frudas24/touchmouse/internal/indicator"
	"github.com/frudas24/touchmouse/internal/inject"
	"github.com/frudas24/touchmouse/internal/logging"
	"github.com/frudas24/touchmouse/internal/loop"
	"github.com/frudas24/touchmouse/internal/motion"
	"github.com/frudas24/touchmouse/internal/scroll"
	"github.com/frudas24/touchmouse/internal/session"
	"github.com/frudas24/touchmouse/internal/spin"
)

// HostKeyHeader carries UI_PASSWORD on the command channel when login is on.
const HostKeyHeader = "X-Touchmouse-Key"

// App coordinates the HTTP API, the pad websocket, the command channel and the host.
type App struct {
	cfg     config.Config
	session *session.Session
	loop    *loop.Loop
	channel *channel.Client
	pad     *control.Server
	interp  *host.Interpreter
	host    *host.Server
}

// New creates the application with its dependencies wired. inj may be nil when
// the host endpoint is disabled.
func New(cfg config.Config, sess *session.Session, inj inject.Injector) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if cfg.HostEnabled && inj == nil {
		return nil, errors.New("injector is required when the host is enabled")
	}

	a := &App{cfg: cfg, session: sess, loop: loop.New()}

	header := http.Header{}
	if cfg.PasswordMode {
		header.Set(HostKeyHeader, cfg.UIPassword)
	}
	a.channel = channel.New(channel.Config{
		URL:            cfg.HostURL,
		Header:         header,
		ReconnectDelay: config.Millis(cfg.Tuning.ReconnectDelayMs),
		QueueLimit:     cfg.Tuning.QueueLimit,
		OnMessage:      func(text string) { a.pad.HostMessage(text) },
		OnState:        func(ready bool) { a.pad.SetHostReady(ready) },
	})

	ctrlCfg := ControllerConfig(cfg.Tuning)
	a.pad = control.NewServer(sess, a.loop, func(ind indicator.Indicator) *control.Controller {
		return control.NewController(a.loop, a.channel, ind, ctrlCfg)
	})

	if cfg.HostEnabled {
		hostCfg, err := HostConfig(cfg.Tuning)
		if err != nil {
			return nil, err
		}
		a.interp = host.NewInterpreter(inj, hostCfg)
		a.host = host.NewServer(a.interp, a.authorizeHost)
	}
	return a, nil
}

// Run drives the event loop, the command channel and host momentum until ctx ends.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.loop.Run(ctx) })
	g.Go(func() error { return a.channel.Run(ctx) })
	if a.interp != nil {
		g.Go(func() error { return a.interp.Run(ctx) })
	}
	return g.Wait()
}

// CommentHook returns a logrus hook that forwards entries at or above min to the host.
func (a *App) CommentHook(min log.Level) log.Hook {
	return logging.NewCommentHook(a.channel, min)
}

// Sender returns the command channel.
func (a *App) Sender() command.Sender {
	return a.channel
}

// Pad returns the pad websocket handler.
func (a *App) Pad() *control.Server {
	return a.pad
}

// Host returns the host websocket handler, or nil when disabled.
func (a *App) Host() *host.Server {
	return a.host
}

// authorizeHost admits the command channel by key, or any request once logged in.
func (a *App) authorizeHost(r *http.Request) bool {
	if a.session.Authorized() {
		return true
	}
	return a.cfg.UIPassword != "" && r.Header.Get(HostKeyHeader) == a.cfg.UIPassword
}

// ControllerConfig converts tuning into pad controller settings.
func ControllerConfig(t config.Tuning) control.ControllerConfig {
	classifier := gesture.Classifier{
		TapRadius:   t.TapRadius,
		TapDuration: config.Millis(t.TapDurationMs),
	}
	return control.ControllerConfig{
		Buttons: gesture.ButtonsConfig{
			Classifier:     classifier,
			Hold:           config.Millis(t.HoldDurationMs),
			UntoggleClicks: t.UntoggleClicks,
		},
		Pointer: control.PointerConfig{
			Mapper:       mapper(t.MoveSensitivity, t.MoveCurve),
			Classifier:   classifier,
			RateHz:       t.MoveRateHz,
			TapLeftClick: t.TouchLeftClick,
		},
		Scroll: scroll.Config{
			WheelMapper:  mapper(t.WheelSensitivity, t.WheelCurve),
			SmoothMapper: mapper(t.SmoothSensitivity, t.SmoothCurve),
			Classifier:   classifier,
			Interval:     config.Millis(t.ScrollIntervalMs),
			Wiggle:       t.Wiggle,
			BracketDelay: config.Millis(t.BracketDelayMs),
			RateHz:       t.ScrollRateHz,
		},
		Spin: spin.Config{
			Threshold:      t.SpinThreshold,
			SpeedTolerance: t.SpinSpeedTolerance,
			AngleTolerance: t.SpinAngleTolerance,
			Scale:          t.SpinScale,
		},
		HistoryCap: t.HistoryCap,
	}
}

// HostConfig converts tuning into host momentum settings.
func HostConfig(t config.Tuning) (host.Config, error) {
	fn, err := host.EaseByName(t.MomentumEase)
	if err != nil {
		return host.Config{}, fmt.Errorf("momentum_ease: %w", err)
	}
	return host.Config{
		RefreshHz:   t.MomentumRefreshHz,
		Sensitivity: t.MomentumSensitivity,
		Friction:    t.MomentumFriction,
		Ease:        fn,
	}, nil
}

// mapper returns a linear mapper, or an accelerated one when the curve is set.
func mapper(sensitivity float64, c motion.Curve) motion.Mapper {
	if c.Enabled() {
		return motion.Accelerated(sensitivity, c)
	}
	return motion.Linear(sensitivity)
}
