// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/usagestats"
)

// maxBarWidth is the widest daily usage bar.
const maxBarWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("245"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type statsParams struct {
	configPath string
	logPath    string
	json       bool
}

func statsCommand(a *app) *cli.Command {
	var params statsParams
	return &cli.Command{
		Name:    "stats",
		Summary: "Show usage statistics from the event log",
		Description: "Replay the activity event log and summarize sessions, speaking time,\n" +
			"and sessions per day. Reads the file directly; voicexd need not run.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stats", pflag.ContinueOnError)
			flagSet.StringVar(&params.configPath, "config", "", "voicexd config file used to locate the event log")
			flagSet.StringVar(&params.logPath, "log", "", "event log path (overrides the config)")
			flagSet.BoolVar(&params.json, "json", false, "output as JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Summarize the default event log", Command: "voicex stats"},
			{Description: "Machine-readable output for a copied log", Command: "voicex stats --log ./usage_log.csv --json"},
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			path := params.logPath
			if path == "" {
				cfg, err := loadConfig(params.configPath)
				if err != nil {
					return err
				}
				path = cfg.Paths.EventLog
			}

			stats, summary, err := usagestats.FromFile(path)
			if err != nil {
				return err
			}
			if params.json {
				return cli.WriteJSON(a.stdout, stats)
			}
			renderStats(a.stdout, path, stats, summary)
			return nil
		},
	}
}

func renderStats(w io.Writer, path string, stats usagestats.Stats, summary usagestats.Summary) {
	fmt.Fprintln(w, titleStyle.Render("VoiceX usage")+"  "+path)
	fmt.Fprintln(w)

	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+value)
	}
	row("Sessions", humanize.Comma(int64(stats.TotalSessions)))
	row("Total speech", formatSeconds(stats.TotalDuration))
	row("Average", formatSeconds(stats.AverageDuration))
	row("Log records", humanize.Comma(int64(summary.Records)))

	damaged := summary.Skipped + summary.CorruptPayloads + summary.UnparsedDurations
	if damaged > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(
			"%s damaged (%d skipped lines, %d corrupt payloads, %d unparsed durations)",
			humanize.Comma(int64(damaged)), summary.Skipped, summary.CorruptPayloads, summary.UnparsedDurations)))
	}

	if len(stats.DailyUsage) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Sessions per day"))

	days := slices.Sorted(maps.Keys(stats.DailyUsage))
	peak := slices.Max(slices.Collect(maps.Values(stats.DailyUsage)))
	for _, day := range days {
		count := stats.DailyUsage[day]
		width := 0
		if peak > 0 {
			width = count * maxBarWidth / peak
		}
		if count > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(w, "%s %s %d\n", labelStyle.Render(day), barStyle.Render(strings.Repeat("█", width)), count)
	}
}

// formatSeconds renders device-reported durations, which are seconds.
func formatSeconds(seconds float64) string {
	if seconds < 60 {
		return humanize.FtoaWithDigits(seconds, 2) + " s"
	}
	minutes := int(seconds) / 60
	remainder := seconds - float64(minutes*60)
	if minutes < 60 {
		return fmt.Sprintf("%dm %.0fs", minutes, remainder)
	}
	return fmt.Sprintf("%sh %dm", humanize.Comma(int64(minutes/60)), minutes%60)
}
