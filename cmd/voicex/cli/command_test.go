// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesToSubcommand(t *testing.T) {
	t.Parallel()
	var called string
	var received []string

	root := &Command{
		Name: "voicex",
		Subcommands: []*Command{
			{Name: "stats", Run: func(_ context.Context, args []string) error {
				called = "stats"
				return nil
			}},
			{Name: "ports", Run: func(_ context.Context, args []string) error {
				called = "ports"
				received = args
				return nil
			}},
		},
	}

	if err := root.Execute(context.Background(), []string{"ports", "extra"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "ports" {
		t.Errorf("dispatched to %q, want ports", called)
	}
	if len(received) != 1 || received[0] != "extra" {
		t.Errorf("args: got %q, want [extra]", received)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	t.Parallel()
	var port string
	var baud int

	command := &Command{
		Name: "monitor",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("monitor", pflag.ContinueOnError)
			flagSet.StringVar(&port, "port", "", "serial port")
			flagSet.IntVar(&baud, "baud", 115200, "baud rate")
			return flagSet
		},
		Run: func(context.Context, []string) error { return nil },
	}

	if err := command.Execute(context.Background(), []string{"--port", "/dev/ttyACM0", "--baud=9600"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if port != "/dev/ttyACM0" || baud != 9600 {
		t.Errorf("got port=%q baud=%d, want /dev/ttyACM0 and 9600", port, baud)
	}
}

func TestExecuteSuggestsCommand(t *testing.T) {
	t.Parallel()
	root := &Command{
		Name: "voicex",
		Subcommands: []*Command{
			{Name: "monitor", Run: func(context.Context, []string) error { return nil }},
			{Name: "stats", Run: func(context.Context, []string) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"stat"})
	if err == nil {
		t.Fatal("Execute succeeded for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "stats"`) {
		t.Errorf("error %q does not suggest stats", err)
	}
}

func TestExecuteSuggestsFlag(t *testing.T) {
	t.Parallel()
	command := &Command{
		Name: "sync",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("sync", pflag.ContinueOnError)
			flagSet.String("tunables", "", "tunables file")
			return flagSet
		},
		Run: func(context.Context, []string) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--tunable", "x.json"})
	if err == nil {
		t.Fatal("Execute succeeded for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --tunables") {
		t.Errorf("error %q does not suggest --tunables", err)
	}
}

func TestExecuteHelpWritesToStderr(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	ran := false
	root := &Command{
		Name:   "voicex",
		Stderr: &stderr,
		Subcommands: []*Command{
			{
				Name:    "stats",
				Summary: "Show usage statistics",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("stats", pflag.ContinueOnError)
					flagSet.Bool("json", false, "output as JSON")
					return flagSet
				},
				Run: func(context.Context, []string) error {
					ran = true
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"stats", "--help"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ran {
		t.Error("Run called for --help")
	}
	help := stderr.String()
	for _, want := range []string{"Show usage statistics", "voicex stats [flags]", "--json"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	t.Parallel()
	root := &Command{
		Name:        "voicex",
		Subcommands: []*Command{{Name: "ports", Run: func(context.Context, []string) error { return nil }}},
	}
	if err := root.Execute(context.Background(), nil); err == nil {
		t.Error("Execute with no arguments succeeded")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()
	var err error = &ExitError{Code: 2}
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) || coder.ExitCode() != 2 {
		t.Errorf("ExitError does not report code 2")
	}
}

func TestWriteJSONNilSlice(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	var ports []string
	if err := WriteJSON(&buffer, ports); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestNewLoggerFormat(t *testing.T) {
	t.Parallel()
	var buffer bytes.Buffer
	newLogger(&buffer, false, 0).Info("hello", "port", "/dev/ttyUSB0")
	if !strings.HasPrefix(buffer.String(), "{") {
		t.Errorf("piped logger output is not JSON: %q", buffer.String())
	}

	buffer.Reset()
	newLogger(&buffer, true, 0).Info("hello")
	if !strings.Contains(buffer.String(), "msg=hello") {
		t.Errorf("terminal logger output is not text: %q", buffer.String())
	}
}
