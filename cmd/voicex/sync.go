// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/tunables"
)

type syncParams struct {
	configPath   string
	port         string
	baud         int
	tunablesPath string
}

func syncCommand(a *app) *cli.Command {
	var params syncParams
	return &cli.Command{
		Name:    "sync",
		Summary: "Push a tunables file to the device",
		Description: "Send every tunable from a tunables file to the device over the serial\n" +
			"port, paced as voicexd paces them. Use while voicexd is stopped.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("sync", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "voicexd config file used for defaults")
			flagSet.StringVar(&params.port, "port", "", "serial device path (default from config)")
			flagSet.IntVar(&params.baud, "baud", 0, "line rate (default from config)")
			flagSet.StringVar(&params.tunablesPath, "tunables", "", "tunables JSON file (default from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			cfg, err := loadConfig(params.configPath)
			if err != nil {
				return err
			}
			port, baud := cfg.Device.Port, cfg.Device.Baud
			if params.port != "" {
				port = params.port
			}
			if params.baud > 0 {
				baud = params.baud
			}
			path := cfg.Paths.Tunables
			if params.tunablesPath != "" {
				path = params.tunablesPath
			}

			store := tunables.NewStore(path)
			values, ignored, err := store.Load()
			if err != nil {
				return err
			}
			if len(ignored) > 0 {
				a.logger.Warn("tunables file has unknown keys", "path", path, "keys", ignored)
			}

			deviceLink := link.New(link.Config{
				Opener:       a.opener,
				CommandDelay: cfg.Device.CommandDelay,
				Clock:        a.clock,
				Logger:       a.logger,
			})
			if err := deviceLink.Connect(port, baud); err != nil {
				return err
			}
			defer deviceLink.Close()

			if err := tunables.NewSynchronizer(deviceLink).Sync(ctx, values); err != nil {
				return err
			}
			for _, pair := range values.Pairs() {
				fmt.Fprintf(a.stdout, "%-22s %d\n", pair.Key, pair.Value)
			}
			a.logger.Info("tunables sent", "port", port, "path", path)
			return nil
		},
	}
}
