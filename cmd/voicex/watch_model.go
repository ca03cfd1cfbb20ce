// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/voicex-foundation/voicex/bridge"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/usagestats"
)

const (
	// historyLength is how many samples the sparklines span.
	historyLength = 120
	// maxChannels is how many telemetry channels get a sparkline.
	maxChannels = 4
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	collectingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	frameStyle        = lipgloss.NewStyle().Padding(1, 2)
)

// watchKeys are the dashboard's key bindings.
type watchKeys struct {
	Quit key.Binding
}

var defaultWatchKeys = watchKeys{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type pollMsg struct {
	snapshot snapshot
	err      error
	at       time.Time
}

type tickMsg time.Time

type watchModel struct {
	client   *watchClient
	interval time.Duration
	keys     watchKeys

	samples []telemetry.Sample
	lastSeq uint64
	status  bridge.Status
	stats   usagestats.Stats
	polled  time.Time
	err     error
	width   int
}

func newWatchModel(client *watchClient, interval time.Duration) watchModel {
	return watchModel{client: client, interval: interval, keys: defaultWatchKeys, width: 80}
}

func (m watchModel) Init() tea.Cmd {
	return m.poll()
}

func (m watchModel) poll() tea.Cmd {
	client, since := m.client, m.lastSeq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
		defer cancel()
		result, err := client.fetch(ctx, since, historyLength)
		return pollMsg{snapshot: result, err: err, at: time.Now()}
	}
}

func (m watchModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, m.keys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = message.Width
	case pollMsg:
		m.apply(message)
		return m, tea.Tick(m.interval, func(at time.Time) tea.Msg { return tickMsg(at) })
	case tickMsg:
		return m, m.poll()
	}
	return m, nil
}

// apply merges a poll result. A failed poll keeps the previous data on
// screen and shows the error.
func (m *watchModel) apply(message pollMsg) {
	m.err = message.err
	if message.err != nil {
		return
	}
	m.polled = message.at
	m.status = message.snapshot.status
	m.stats = message.snapshot.stats

	fresh := message.snapshot.samples
	if len(fresh) > 0 && fresh[0].Seq > m.lastSeq+1 && m.lastSeq > 0 {
		// The ring evicted samples we never saw; restart the window.
		m.samples = nil
	}
	m.samples = append(m.samples, fresh...)
	if excess := len(m.samples) - historyLength; excess > 0 {
		m.samples = m.samples[excess:]
	}
	if len(m.samples) > 0 {
		m.lastSeq = m.samples[len(m.samples)-1].Seq
	}
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("VoiceX") + "  " + dimStyle.Render(m.client.base.String()) + "\n\n")

	if m.status.Connected {
		b.WriteString(connectedStyle.Render("● connected") + " " + m.status.Port)
	} else {
		b.WriteString(disconnectedStyle.Render("● no device"))
	}
	state := m.status.State
	if state == "collecting" {
		state = collectingStyle.Render(state)
	}
	fmt.Fprintf(&b, "   state %s   up %s\n", state,
		time.Duration(m.status.Uptime*float64(time.Second)).Round(time.Second))
	fmt.Fprintf(&b, "%s\n\n", dimStyle.Render(fmt.Sprintf(
		"lines %s  malformed %s  read errors %s  device errors %s",
		humanize.Comma(int64(m.status.LinesRead)),
		humanize.Comma(int64(m.status.LinesMalformed)),
		humanize.Comma(int64(m.status.ReadErrors)),
		humanize.Comma(int64(m.status.DeviceErrors)))))

	width := max(10, min(historyLength, m.width-20))
	for channel := range m.channels() {
		values := m.channel(channel)
		if len(values) > width {
			values = values[len(values)-width:]
		}
		latest := values[len(values)-1]
		fmt.Fprintf(&b, "ch%-2d %s %s\n", channel, sparkline(values), dimStyle.Render(humanize.FtoaWithDigits(latest, 2)))
	}
	if len(m.samples) == 0 {
		b.WriteString(dimStyle.Render("waiting for telemetry") + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "sessions %s   today %s   speech %s   average %s\n",
		humanize.Comma(int64(m.stats.TotalSessions)),
		humanize.Comma(int64(m.stats.DailyUsage[time.Now().Format(usagestats.DayLayout)])),
		formatSeconds(m.stats.TotalDuration),
		formatSeconds(m.stats.AverageDuration))

	if m.err != nil {
		b.WriteString("\n" + disconnectedStyle.Render("poll failed: ") + m.err.Error() + "\n")
	} else if !m.polled.IsZero() {
		b.WriteString("\n" + dimStyle.Render("updated "+humanize.Time(m.polled)) + "\n")
	}
	help := m.keys.Quit.Help()
	b.WriteString(dimStyle.Render(help.Key + " " + help.Desc))

	return frameStyle.Render(m.clip(b.String()))
}

// clip truncates each line to the space inside the frame so a narrow
// terminal does not wrap the sparklines.
func (m watchModel) clip(text string) string {
	limit := m.width - frameStyle.GetHorizontalFrameSize()
	if limit <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > limit {
			lines[i] = ansi.Truncate(line, limit, "…")
		}
	}
	return strings.Join(lines, "\n")
}

// channels is the number of channels shown, bounded by the narrowest
// sample in the window.
func (m watchModel) channels() int {
	if len(m.samples) == 0 {
		return 0
	}
	count := maxChannels
	for _, sample := range m.samples {
		count = min(count, len(sample.Values))
	}
	return count
}

func (m watchModel) channel(index int) []float64 {
	values := make([]float64, len(m.samples))
	for i, sample := range m.samples {
		values[i] = sample.Values[index]
	}
	return values
}

// sparkline scales values between their own minimum and maximum.
func sparkline(values []float64) string {
	low, high := math.Inf(1), math.Inf(-1)
	for _, value := range values {
		low = math.Min(low, value)
		high = math.Max(high, value)
	}
	runes := make([]rune, len(values))
	top := len(sparkLevels) - 1
	for i, value := range values {
		level := 0
		if high > low {
			level = int(math.Round((value - low) / (high - low) * float64(top)))
		}
		runes[i] = sparkLevels[level]
	}
	return string(runes)
}
