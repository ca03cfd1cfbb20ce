// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
)

func portsCommand(a *app) *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:    "ports",
		Summary: "List serial ports",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("ports", pflag.ContinueOnError)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(context.Context, []string) error {
			ports, err := a.listPorts()
			if err != nil {
				return err
			}
			if asJSON {
				return cli.WriteJSON(a.stdout, ports)
			}
			if len(ports) == 0 {
				fmt.Fprintln(a.stderr, "no serial ports found")
				return &cli.ExitError{Code: 1}
			}
			for _, port := range ports {
				fmt.Fprintln(a.stdout, port)
			}
			return nil
		},
	}
}
