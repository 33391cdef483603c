// Package main starts the TouchMouse server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/frudas24/touchmouse/internal/app"
	"github.com/frudas24/touchmouse/internal/config"
	"github.com/frudas24/touchmouse/internal/inject"
	"github.com/frudas24/touchmouse/internal/logging"
	"github.com/frudas24/touchmouse/internal/session"
)

const shutdownTimeout = 5 * time.Second

// run wires the application and blocks until shutdown.
func run(debug bool, staticDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if err := logging.Setup(level); err != nil {
		return err
	}
	logStartup(cfg)

	sess := session.New(cfg.UIPassword, cfg.PasswordMode)

	var injector inject.Injector
	if cfg.HostEnabled {
		injector, err = inject.New(cfg.DryRun)
		if err != nil {
			return err
		}
		defer func() {
			if err := injector.Close(); err != nil {
				log.WithError(err).Warn("shutdown: injector close")
			}
		}()
	}

	appInstance, err := app.New(cfg, sess, injector)
	if err != nil {
		return err
	}
	log.AddHook(appInstance.CommentHook(log.WarnLevel))

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, staticDir)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return appInstance.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.WithError(err).Error("fatal")
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Info("TouchMouse starting")
	logEnvStatus(cfg)
	logHostStatus(cfg)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file and tuning file were found.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Infof("env check: ok (%s)", envPath)
	} else {
		log.Infof("env check: missing (%s)", envPath)
	}
	if fileExists(cfg.TuningPath) {
		log.Infof("tuning: %s", cfg.TuningPath)
	} else {
		log.Info("tuning: built-in defaults")
	}
	if cfg.PasswordMode {
		log.Info("env UI_PASSWORD: set")
	} else {
		log.Info("env PASSWORD_MODE: disabled (dev mode)")
	}
}

// logHostStatus reports where commands go and how they are injected.
func logHostStatus(cfg config.Config) {
	log.Infof("command channel: %s", cfg.HostURL)
	switch {
	case !cfg.HostEnabled:
		log.Info("host endpoint: disabled")
	case cfg.DryRun:
		log.Info("host endpoint: /ws (dry run, input is only logged)")
	default:
		log.Info("host endpoint: /ws")
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Infof("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Infof("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
