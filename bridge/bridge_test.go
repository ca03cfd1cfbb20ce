// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/eventlog"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/phrase"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/testutil"
	"github.com/voicex-foundation/voicex/lib/tunables"
)

type harness struct {
	bridge  *Bridge
	port    *testutil.FakePort
	link    *link.Link
	store   *tunables.Store
	phrases *phrase.Store
	logPath string
}

type harnessOptions struct {
	connect      bool
	clock        clock.Clock
	tunablesPath string
	// paced keeps the link's default command delay, driven by clock.
	paced bool
}

func newHarness(t *testing.T, options harnessOptions) *harness {
	t.Helper()
	directory := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	port := testutil.NewFakePort()
	linkConfig := link.Config{
		Opener:       func(string, int) (link.Port, error) { return port, nil },
		CommandDelay: -1,
		Logger:       logger,
	}
	if options.paced {
		linkConfig.CommandDelay = 0
		linkConfig.Clock = options.clock
	}
	deviceLink := link.New(linkConfig)
	if options.connect {
		if err := deviceLink.Connect("/dev/ttyFAKE0", 115200); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	}
	t.Cleanup(func() { deviceLink.Close() })

	logPath := filepath.Join(directory, "usage_log.csv")
	writer, err := eventlog.Open(logPath)
	if err != nil {
		t.Fatalf("eventlog.Open: %v", err)
	}
	t.Cleanup(func() { writer.Close() })

	tunablesPath := options.tunablesPath
	if tunablesPath == "" {
		tunablesPath = filepath.Join(directory, "config.json")
	}
	store := tunables.NewStore(tunablesPath)
	phrases := phrase.NewStore(filepath.Join(directory, "phrases"), nil, logger)

	bridge, err := New(Config{
		Link:            deviceLink,
		Ring:            telemetry.NewRing(telemetry.DefaultCapacity),
		EventLog:        writer,
		EventLogPath:    logPath,
		Tunables:        store,
		InitialTunables: tunables.Default(),
		Phrases:         phrases,
		ReadTimeout:     10 * time.Millisecond,
		Clock:           options.clock,
		Logger:          logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(bridge.Stop)

	return &harness{
		bridge:  bridge,
		port:    port,
		link:    deviceLink,
		store:   store,
		phrases: phrases,
		logPath: logPath,
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{}); err == nil {
		t.Fatal("New(Config{}) succeeded")
	}
}

func TestStartRequiresConnection(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{})

	if err := h.bridge.Start(context.Background()); !errors.Is(err, link.ErrNotConnected) {
		t.Errorf("Start: got %v, want ErrNotConnected", err)
	}
	if h.bridge.Status().Ingesting {
		t.Error("Status reports ingesting after failed Start")
	}
}

func TestIngestSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{connect: true})

	if err := h.bridge.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.port.Feed("ESP32 boot\nDEBUG:0,0,0\nSPEECH_START\nDEBUG:1,2,3\n")
	h.port.Feed("DEBUG:4,5,6\nDEBUG:1,x\nSPEECH_END:2.5\nSPEECH_END:9\n")

	testutil.Eventually(t, 5*time.Second, func() bool {
		return h.bridge.Status().LinesRead == 8
	}, "ingestion did not consume all lines")
	h.bridge.Stop()

	status := h.bridge.Status()
	if status.Ingesting {
		t.Error("Status reports ingesting after Stop")
	}
	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"LinesIgnored", status.LinesIgnored, 1},
		{"LinesMalformed", status.LinesMalformed, 1},
		{"SamplesDiscarded", status.SamplesDiscarded, 1},
		{"SamplesStored", status.SamplesStored, 2},
		{"SessionsStarted", status.SessionsStarted, 1},
		{"SessionsCompleted", status.SessionsCompleted, 1},
		{"ReentrantEvents", status.ReentrantEvents, 1},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s: got %d, want %d", check.name, check.got, check.want)
		}
	}
	if status.State != "idle" {
		t.Errorf("State: got %q, want idle", status.State)
	}

	samples := h.bridge.RecentTelemetry(100)
	if len(samples) != 2 || !slices.Equal(samples[0].Values, []float64{1, 2, 3}) {
		t.Errorf("RecentTelemetry: got %+v", samples)
	}
	if since := h.bridge.TelemetrySince(samples[0].Seq, 0); len(since) != 1 {
		t.Errorf("TelemetrySince: got %d samples, want 1", len(since))
	}

	var types []string
	if _, err := eventlog.ScanFile(h.logPath, func(record eventlog.Record) error {
		types = append(types, record.Type)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(types, []string{"speech_start", "speech_end"}) {
		t.Errorf("event log types: got %v", types)
	}

	stats, err := h.bridge.UsageStats()
	if err != nil {
		t.Fatalf("UsageStats: %v", err)
	}
	if stats.TotalSessions != 1 || stats.TotalDuration != 2.5 || stats.AverageDuration != 2.5 {
		t.Errorf("UsageStats: got %+v", stats)
	}
}

func TestIngestBacksOffAfterReadError(t *testing.T) {
	t.Parallel()
	fakeClock := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local))
	h := newHarness(t, harnessOptions{connect: true, clock: fakeClock})

	h.port.FailNextRead(errors.New("usb glitch"))
	if err := h.bridge.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fakeClock.WaitForTimers(1)
	if got := h.bridge.Status().ReadErrors; got != 1 {
		t.Fatalf("ReadErrors: got %d, want 1", got)
	}

	h.port.Feed("SPEECH_START\n")
	fakeClock.Advance(DefaultErrorBackoff)

	testutil.Eventually(t, 5*time.Second, func() bool {
		return h.bridge.Status().SessionsStarted == 1
	}, "ingestion did not resume after back-off")
}

func TestSetConfigIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{connect: true})

	result, err := h.bridge.SetConfig(context.Background(), map[string]any{
		"threshold": float64(700),
		"bogus_key": float64(1),
	})
	if err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	want := tunables.Default()
	want.Threshold = 700
	if result.Config != want || h.bridge.Config() != want {
		t.Errorf("config: got %+v (bridge %+v), want %+v", result.Config, h.bridge.Config(), want)
	}
	if !slices.Equal(result.Ignored, []string{"bogus_key"}) {
		t.Errorf("Ignored: got %v", result.Ignored)
	}
	if !result.Persisted || !result.Synced {
		t.Errorf("Persisted=%v Synced=%v, want both true", result.Persisted, result.Synced)
	}

	saved, _, err := h.store.Load()
	if err != nil || saved != want {
		t.Errorf("saved tunables: got (%+v, %v), want %+v", saved, err, want)
	}

	wantWrites := []string{
		"CONFIG:threshold,700\n",
		"CONFIG:base_frequency,100\n",
		"CONFIG:mod_frequency,200\n",
		"CONFIG:filter_alpha,20\n",
		"CONFIG:min_activity_duration,200\n",
	}
	if got := h.port.Writes(); !slices.Equal(got, wantWrites) {
		t.Errorf("device writes: got %q, want %q", got, wantWrites)
	}
}

func TestConfigReadableDuringPacedSync(t *testing.T) {
	t.Parallel()
	fakeClock := clock.Fake(time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local))
	h := newHarness(t, harnessOptions{connect: true, clock: fakeClock, paced: true})

	done := make(chan SetConfigResult, 1)
	go func() {
		result, err := h.bridge.SetConfig(context.Background(), map[string]any{"threshold": float64(700)})
		if err != nil {
			t.Errorf("SetConfig: %v", err)
		}
		done <- result
	}()
	testutil.RequireReceive(t, h.port.Written(), 5*time.Second, "sync did not start")
	fakeClock.WaitForTimers(1)

	read := make(chan tunables.Config, 1)
	go func() { read <- h.bridge.Config() }()
	got := testutil.RequireReceive(t, read, time.Second, "Config blocked behind a paced sync")
	if got.Threshold != 700 {
		t.Errorf("Threshold during sync: got %d, want 700", got.Threshold)
	}

	for range 5 {
		fakeClock.WaitForTimers(1)
		fakeClock.Advance(link.DefaultCommandDelay)
	}
	result := testutil.RequireReceive(t, done, 5*time.Second, "SetConfig did not return")
	if !result.Synced || !result.Persisted {
		t.Errorf("Persisted=%v Synced=%v, want both true", result.Persisted, result.Synced)
	}
	if got := len(h.port.Writes()); got != 5 {
		t.Errorf("device writes: got %d, want 5", got)
	}
}

func TestSetConfigValidationChangesNothing(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{connect: true})

	_, err := h.bridge.SetConfig(context.Background(), map[string]any{
		"threshold":    "loud",
		"filter_alpha": float64(40),
	})
	var validationErr *tunables.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("SetConfig: got %v, want *tunables.ValidationError", err)
	}
	if h.bridge.Config() != tunables.Default() {
		t.Errorf("config changed to %+v", h.bridge.Config())
	}
	if len(h.port.Writes()) != 0 {
		t.Errorf("device writes after rejected update: %q", h.port.Writes())
	}
	if _, _, err := h.store.Load(); err == nil {
		t.Error("tunables file written for rejected update")
	}
}

func TestSetConfigDisconnectedStillPersists(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{})

	result, err := h.bridge.SetConfig(context.Background(), map[string]any{"mod_frequency": float64(250)})
	if err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if !result.Persisted || result.Synced {
		t.Errorf("Persisted=%v Synced=%v, want true/false", result.Persisted, result.Synced)
	}
	if result.Ignored == nil {
		t.Error("Ignored is nil, want empty list")
	}
}

func TestSetConfigPersistFailureKeepsMemoryUpdate(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{
		tunablesPath: filepath.Join(t.TempDir(), "missing", "config.json"),
	})

	result, err := h.bridge.SetConfig(context.Background(), map[string]any{"threshold": float64(900)})
	if err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if result.Persisted {
		t.Error("Persisted: got true for unwritable path")
	}
	if h.bridge.Config().Threshold != 900 {
		t.Errorf("Threshold: got %d, want 900", h.bridge.Config().Threshold)
	}
}

func TestSyncTunables(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{connect: true})

	if err := h.bridge.SyncTunables(context.Background()); err != nil {
		t.Fatalf("SyncTunables: %v", err)
	}
	if got := len(h.port.Writes()); got != len(tunables.Keys) {
		t.Errorf("writes: got %d, want %d", got, len(tunables.Keys))
	}
}

func TestPlayPhrase(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{connect: true})

	if _, err := h.bridge.SavePhrase(phrase.Definition{"id": "hello", "name": "Hello"}); err != nil {
		t.Fatalf("SavePhrase: %v", err)
	}

	if err := h.bridge.PlayPhrase(context.Background(), "hello"); err != nil {
		t.Fatalf("PlayPhrase: %v", err)
	}
	if got := h.port.Writes(); !slices.Equal(got, []string{"PLAY_PHRASE:hello\n"}) {
		t.Errorf("writes: got %q", got)
	}

	if err := h.bridge.PlayPhrase(context.Background(), "absent"); !errors.Is(err, phrase.ErrNotFound) {
		t.Errorf("PlayPhrase(absent): got %v, want ErrNotFound", err)
	}
	if err := h.bridge.PlayPhrase(context.Background(), "../x"); !errors.Is(err, phrase.ErrInvalidID) {
		t.Errorf("PlayPhrase(../x): got %v, want ErrInvalidID", err)
	}
	if len(h.port.Writes()) != 1 {
		t.Errorf("failed plays wrote to device: %q", h.port.Writes())
	}

	summaries, err := h.bridge.Phrases()
	if err != nil || len(summaries) != 1 || summaries[0].Name != "Hello" {
		t.Errorf("Phrases: got (%+v, %v)", summaries, err)
	}
}

func TestPlayPhraseDisconnected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, harnessOptions{})

	if _, err := h.bridge.SavePhrase(phrase.Definition{"id": "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := h.bridge.PlayPhrase(context.Background(), "hello"); !errors.Is(err, link.ErrNotConnected) {
		t.Errorf("PlayPhrase: got %v, want ErrNotConnected", err)
	}
}
