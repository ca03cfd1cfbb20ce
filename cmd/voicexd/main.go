// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/bridge"
	"github.com/voicex-foundation/voicex/lib/api"
	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/config"
	"github.com/voicex-foundation/voicex/lib/eventlog"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/phrase"
	"github.com/voicex-foundation/voicex/lib/process"
	"github.com/voicex-foundation/voicex/lib/service"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/tunables"
	"github.com/voicex-foundation/voicex/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

type flags struct {
	configPath  string
	port        string
	baud        int
	listen      string
	dataDir     string
	logLevel    string
	showVersion bool
}

func run() error {
	var options flags
	flagSet := pflag.NewFlagSet("voicexd", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "path to the YAML config file (default: $"+config.EnvConfig+", else built-in defaults)")
	flagSet.StringVar(&options.port, "port", "", "serial device path (overrides device.port)")
	flagSet.IntVar(&options.baud, "baud", 0, "serial line rate (overrides device.baud)")
	flagSet.StringVar(&options.listen, "listen", "", "HTTP listen address (overrides http.listen)")
	flagSet.StringVar(&options.dataDir, "data-dir", "", "data directory (overrides paths.data_dir)")
	flagSet.StringVar(&options.logLevel, "log-level", "", "debug, info, warn, or error (overrides log.level)")
	flagSet.BoolVar(&options.showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if options.showVersion {
		version.Print("voicexd")
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := config.Resolve(options.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, flagSet, options)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger := service.NewLogger(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, options flags) {
	if flagSet.Changed("port") {
		cfg.Device.Port = options.port
	}
	if flagSet.Changed("baud") {
		cfg.Device.Baud = options.baud
	}
	if flagSet.Changed("listen") {
		cfg.HTTP.Listen = options.listen
	}
	if flagSet.Changed("data-dir") {
		cfg.SetDataDir(options.dataDir)
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = options.logLevel
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	tunableStore := tunables.NewStore(cfg.Paths.Tunables)
	initial, ignored, created, err := tunableStore.LoadOrCreate()
	if err != nil {
		return err
	}
	if created {
		logger.Info("wrote default tunables", "path", tunableStore.Path())
	}
	if len(ignored) > 0 {
		logger.Warn("tunables file has unknown keys", "path", tunableStore.Path(), "keys", ignored)
	}

	eventLog, err := eventlog.Open(cfg.Paths.EventLog)
	if errors.Is(err, eventlog.ErrLocked) {
		return fmt.Errorf("%w: is another voicexd running?", err)
	}
	if err != nil {
		return err
	}
	defer eventLog.Close()

	realClock := clock.Real()
	deviceLink := link.New(link.Config{
		Opener:       link.SerialOpener,
		CommandDelay: cfg.Device.CommandDelay,
		Clock:        realClock,
		Logger:       logger,
	})
	defer deviceLink.Close()

	if err := deviceLink.Connect(cfg.Device.Port, cfg.Device.Baud); err != nil {
		logConnectFailure(logger, err)
	} else {
		logger.Info("connected to device", "port", cfg.Device.Port, "baud", cfg.Device.Baud)
	}

	b, err := bridge.New(bridge.Config{
		Link:            deviceLink,
		Ring:            telemetry.NewRing(cfg.Telemetry.Capacity),
		EventLog:        eventLog,
		EventLogPath:    cfg.Paths.EventLog,
		Tunables:        tunableStore,
		InitialTunables: initial,
		Phrases:         phrase.NewStore(cfg.Paths.Phrases, realClock, logger),
		ReadTimeout:     cfg.Device.ReadTimeout,
		ErrorBackoff:    cfg.Device.ErrorBackoff,
		Clock:           realClock,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	if deviceLink.Connected() {
		if err := b.SyncTunables(ctx); err != nil {
			logger.Error("initial tunables sync failed", "error", err)
		}
		if err := b.Start(ctx); err != nil {
			return err
		}
		defer func() {
			b.Stop()
			b.Wait()
		}()
	}

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.HTTP.Listen,
		Handler: api.NewHandler(api.Config{
			Backend:     b,
			RecentLimit: cfg.Telemetry.RecentLimit,
			Logger:      logger,
		}),
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		Logger:          logger,
	})

	logger.Info("voicexd running",
		"version", version.Info(),
		"listen", cfg.HTTP.Listen,
		"data_dir", cfg.Paths.DataDir,
		"device_connected", deviceLink.Connected(),
	)

	if err := server.Serve(ctx); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func logConnectFailure(logger *slog.Logger, err error) {
	var connectErr *link.ConnectError
	if !errors.As(err, &connectErr) {
		logger.Error("device connection failed; serving without device", "error", err)
		return
	}
	switch connectErr.Kind {
	case link.DeviceAbsent:
		logger.Error("device not found; serving without device", "port", connectErr.Port, "error", err)
	case link.PortBusy:
		logger.Error("device port is busy; serving without device", "port", connectErr.Port, "error", err)
	case link.PermissionDenied:
		logger.Error("permission denied opening device; check the serial group membership",
			"port", connectErr.Port, "error", err)
	default:
		logger.Error("device connection failed; serving without device", "port", connectErr.Port, "error", err)
	}
}
