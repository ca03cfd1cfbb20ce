// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/protocol"
)

// monitorReadTimeout bounds each read so cancellation is noticed
// promptly.
const monitorReadTimeout = 200 * time.Millisecond

type monitorParams struct {
	configPath string
	port       string
	baud       int
	raw        bool
}

func monitorCommand(a *app) *cli.Command {
	var params monitorParams
	return &cli.Command{
		Name:    "monitor",
		Summary: "Print device events as they arrive",
		Description: "Open the serial port directly and print each decoded device line.\n" +
			"voicexd must not be holding the port.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("monitor", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "voicexd config file used for port defaults")
			flagSet.StringVar(&params.port, "port", "", "serial device path (default from config)")
			flagSet.IntVar(&params.baud, "baud", 0, "line rate (default from config)")
			flagSet.BoolVar(&params.raw, "raw", false, "print every line verbatim instead of decoding")
			return flagSet
		},
		Examples: []cli.Example{
			{Command: "voicex monitor --port /dev/ttyACM0"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			port, baud, err := resolvePort(params.configPath, params.port, params.baud)
			if err != nil {
				return err
			}

			deviceLink := link.New(link.Config{Opener: a.opener, Clock: a.clock, Logger: a.logger})
			if err := deviceLink.Connect(port, baud); err != nil {
				return err
			}
			defer deviceLink.Close()
			a.logger.Info("monitoring device", "port", port, "baud", baud)

			return monitor(ctx, deviceLink, a.stdout, params.raw)
		},
	}
}

// resolvePort fills in the port and baud from configuration when the
// flags leave them unset.
func resolvePort(configPath, port string, baud int) (string, int, error) {
	if port != "" && baud > 0 {
		return port, baud, nil
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return "", 0, err
	}
	if port == "" {
		port = cfg.Device.Port
	}
	if baud <= 0 {
		baud = cfg.Device.Baud
	}
	return port, baud, nil
}

// monitor prints lines until ctx is cancelled or the link fails.
func monitor(ctx context.Context, deviceLink *link.Link, w io.Writer, raw bool) error {
	for ctx.Err() == nil {
		line, ok, err := deviceLink.ReadLine(monitorReadTimeout)
		if err != nil {
			return fmt.Errorf("reading from device: %w", err)
		}
		if !ok {
			continue
		}
		if raw {
			fmt.Fprintln(w, line)
			continue
		}
		if text := describe(protocol.Decode(line), line); text != "" {
			fmt.Fprintln(w, text)
		}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// describe renders event for a human. Ignored lines render as
// themselves so firmware chatter stays visible.
func describe(event protocol.Event, line string) string {
	switch event.Kind {
	case protocol.KindTelemetry:
		fields := make([]string, len(event.Values))
		for i, value := range event.Values {
			fields[i] = strconv.FormatFloat(value, 'g', -1, 64)
		}
		return "telemetry     " + strings.Join(fields, " ")
	case protocol.KindSpeechStart:
		return "speech_start"
	case protocol.KindSpeechEnd:
		return "speech_end    duration=" + event.Duration
	case protocol.KindDeviceError:
		return "device_error  " + event.Message
	case protocol.KindMalformed:
		return fmt.Sprintf("malformed     %s: %q", event.Reason, line)
	default:
		return "              " + line
	}
}
