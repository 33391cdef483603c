package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/frudas24/touchmouse/internal/motion"
)

// Tuning holds every gesture threshold and sensitivity.
type Tuning struct {
	TapRadius      float64 `yaml:"tap_radius" toml:"tap_radius"`
	TapDurationMs  int     `yaml:"tap_duration_ms" toml:"tap_duration_ms"`
	HoldDurationMs int     `yaml:"hold_duration_ms" toml:"hold_duration_ms"`
	UntoggleClicks bool    `yaml:"untoggle_clicks" toml:"untoggle_clicks"`
	TouchLeftClick bool    `yaml:"touch_left_click" toml:"touch_left_click"`

	MoveSensitivity   float64      `yaml:"move_sensitivity" toml:"move_sensitivity"`
	MoveCurve         motion.Curve `yaml:"move_curve" toml:"move_curve"`
	WheelSensitivity  float64      `yaml:"wheel_sensitivity" toml:"wheel_sensitivity"`
	WheelCurve        motion.Curve `yaml:"wheel_curve" toml:"wheel_curve"`
	SmoothSensitivity float64      `yaml:"smooth_sensitivity" toml:"smooth_sensitivity"`
	SmoothCurve       motion.Curve `yaml:"smooth_curve" toml:"smooth_curve"`

	ScrollIntervalMs int     `yaml:"scroll_interval_ms" toml:"scroll_interval_ms"`
	MoveRateHz       float64 `yaml:"move_rate_hz" toml:"move_rate_hz"`
	ScrollRateHz     float64 `yaml:"scroll_rate_hz" toml:"scroll_rate_hz"`
	Wiggle           float64 `yaml:"wiggle" toml:"wiggle"`
	BracketDelayMs   int     `yaml:"bracket_delay_ms" toml:"bracket_delay_ms"`

	HistoryCap         int     `yaml:"history_cap" toml:"history_cap"`
	SpinThreshold      float64 `yaml:"spin_threshold" toml:"spin_threshold"`
	SpinSpeedTolerance float64 `yaml:"spin_speed_tolerance" toml:"spin_speed_tolerance"`
	SpinAngleTolerance float64 `yaml:"spin_angle_tolerance" toml:"spin_angle_tolerance"`
	SpinScale          float64 `yaml:"spin_scale" toml:"spin_scale"`

	ReconnectDelayMs int `yaml:"reconnect_delay_ms" toml:"reconnect_delay_ms"`
	QueueLimit       int `yaml:"queue_limit" toml:"queue_limit"`

	MomentumRefreshHz   float64 `yaml:"momentum_refresh_hz" toml:"momentum_refresh_hz"`
	MomentumSensitivity float64 `yaml:"momentum_sensitivity" toml:"momentum_sensitivity"`
	MomentumFriction    float64 `yaml:"momentum_friction" toml:"momentum_friction"`
	MomentumEase        string  `yaml:"momentum_ease" toml:"momentum_ease"`
}

// DefaultTuning returns the built-in tuning.
func DefaultTuning() Tuning {
	return Tuning{
		TapRadius:           20,
		TapDurationMs:       200,
		HoldDurationMs:      200,
		TouchLeftClick:      true,
		MoveSensitivity:     2.0,
		WheelSensitivity:    0.04,
		SmoothSensitivity:   0.015,
		ScrollIntervalMs:    20,
		MoveRateHz:          120,
		ScrollRateHz:        120,
		Wiggle:              25,
		BracketDelayMs:      10,
		HistoryCap:          100,
		SpinThreshold:       0.1,
		SpinSpeedTolerance:  0.8,
		SpinAngleTolerance:  10,
		SpinScale:           100,
		ReconnectDelayMs:    1000,
		QueueLimit:          32,
		MomentumRefreshHz:   120,
		MomentumSensitivity: 0.1,
		MomentumFriction:    0.004,
		MomentumEase:        "linear",
	}
}

// LoadTuning overlays the tuning file at path on the defaults. A missing file
// is an error only when required is set.
func LoadTuning(path string, required bool) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return t, nil
		}
		return Tuning{}, fmt.Errorf("tuning file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
			return Tuning{}, fmt.Errorf("tuning file %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &t)
		if err != nil {
			return Tuning{}, fmt.Errorf("tuning file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Tuning{}, fmt.Errorf("tuning file %s: unknown key %s", path, undecoded[0])
		}
	default:
		return Tuning{}, fmt.Errorf("tuning file %s: unsupported extension", path)
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values the gesture code cannot work with.
func (t Tuning) Validate() error {
	switch {
	case t.TapRadius <= 0:
		return errors.New("tap_radius must be > 0")
	case t.TapDurationMs <= 0:
		return errors.New("tap_duration_ms must be > 0")
	case t.HoldDurationMs <= 0:
		return errors.New("hold_duration_ms must be > 0")
	case t.ScrollIntervalMs <= 0:
		return errors.New("scroll_interval_ms must be > 0")
	case t.MoveRateHz < 0 || t.ScrollRateHz < 0:
		return errors.New("rate limits must be >= 0")
	case t.HistoryCap < 2:
		return errors.New("history_cap must be >= 2")
	case t.SpinSpeedTolerance <= 0 || t.SpinSpeedTolerance > 1:
		return errors.New("spin_speed_tolerance must be in (0, 1]")
	case t.SpinAngleTolerance <= 0:
		return errors.New("spin_angle_tolerance must be > 0")
	case t.ReconnectDelayMs <= 0:
		return errors.New("reconnect_delay_ms must be > 0")
	case t.QueueLimit <= 0:
		return errors.New("queue_limit must be > 0")
	case t.MomentumRefreshHz <= 0:
		return errors.New("momentum_refresh_hz must be > 0")
	case t.MomentumFriction <= 0 || t.MomentumFriction > 1:
		return errors.New("momentum_friction must be in (0, 1]")
	}
	return nil
}

// Millis converts a millisecond tuning value into a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
