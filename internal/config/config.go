// Package config loads environment configuration for TouchMouse.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr = "0.0.0.0:7780"
	defaultDataDir    = "./data"
	defaultHostURL    = "ws://127.0.0.1:7780/ws"
	defaultLogLevel   = "info"
	defaultTuningName = "tuning.yaml"
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr   string
	UIPassword   string
	PasswordMode bool
	DataDir      string
	HostURL      string
	HostEnabled  bool
	DryRun       bool
	LogLevel     string
	TuningPath   string
	Tuning       Tuning
}

// Load reads configuration from ./data/.env, environment variables and the tuning file.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:  defaultListenAddr,
		DataDir:     defaultDataDir,
		HostURL:     defaultHostURL,
		HostEnabled: true,
		LogLevel:    defaultLogLevel,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.HostURL = envString("HOST_URL", cfg.HostURL)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))
	cfg.PasswordMode = envBool("PASSWORD_MODE", false)
	cfg.HostEnabled = envBool("HOST_ENABLED", cfg.HostEnabled)
	cfg.DryRun = envBool("DRY_RUN", false)

	if cfg.PasswordMode && cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required when PASSWORD_MODE is on")
	}
	if !strings.HasPrefix(cfg.HostURL, "ws://") && !strings.HasPrefix(cfg.HostURL, "wss://") {
		return Config{}, fmt.Errorf("HOST_URL must start with ws:// or wss://")
	}

	explicit := strings.TrimSpace(os.Getenv("TUNING_FILE"))
	cfg.TuningPath = explicit
	if cfg.TuningPath == "" {
		cfg.TuningPath = filepath.Join(cfg.DataDir, defaultTuningName)
	}
	tuning, err := LoadTuning(cfg.TuningPath, explicit != "")
	if err != nil {
		return Config{}, err
	}
	cfg.Tuning = tuning

	reconnect, err := envInt("RECONNECT_DELAY_MS", cfg.Tuning.ReconnectDelayMs)
	if err != nil {
		return Config{}, err
	}
	if reconnect <= 0 {
		return Config{}, fmt.Errorf("RECONNECT_DELAY_MS must be > 0")
	}
	cfg.Tuning.ReconnectDelayMs = reconnect

	return cfg, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(value, `"'`)
	return key, value, true
}
