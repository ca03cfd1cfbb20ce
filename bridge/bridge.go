// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voicex-foundation/voicex/lib/activity"
	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/phrase"
	"github.com/voicex-foundation/voicex/lib/protocol"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/tunables"
	"github.com/voicex-foundation/voicex/lib/usagestats"
)

// Defaults for Config fields left zero.
const (
	DefaultReadTimeout  = 200 * time.Millisecond
	DefaultErrorBackoff = time.Second
)

// Config holds a Bridge's collaborators and settings.
type Config struct {
	// Link is the device connection. Required; it need not be
	// connected.
	Link *link.Link

	// Ring receives telemetry during speech sessions. Required.
	Ring *telemetry.Ring

	// EventLog receives session records. Required.
	EventLog activity.Appender

	// EventLogPath is the file replayed by UsageStats. Required.
	EventLogPath string

	// Tunables persists configuration changes. Required.
	Tunables *tunables.Store

	// InitialTunables is the configuration loaded at startup.
	InitialTunables tunables.Config

	// Phrases is the phrase definition store. Required.
	Phrases *phrase.Store

	// ReadTimeout bounds each ingestion read. Zero uses
	// DefaultReadTimeout.
	ReadTimeout time.Duration

	// ErrorBackoff is the pause after a failed read. Zero uses
	// DefaultErrorBackoff.
	ErrorBackoff time.Duration

	// Clock drives back-off and timestamps. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives structured log output. Nil uses slog.Default().
	Logger *slog.Logger
}

// SetConfigResult reports the outcome of a tunables update.
type SetConfigResult struct {
	// Config is the configuration now in effect.
	Config tunables.Config `json:"config"`
	// Ignored lists unknown keys from the update, sorted.
	Ignored []string `json:"ignored"`
	// Persisted is false when writing the tunables file failed. The
	// in-memory configuration is updated regardless.
	Persisted bool `json:"persisted"`
	// Synced is true when the device was connected and every CONFIG
	// command was written.
	Synced bool `json:"synced"`
}

// Bridge is the runtime context of the daemon.
type Bridge struct {
	link         *link.Link
	ring         *telemetry.Ring
	machine      *activity.Machine
	eventLogPath string
	store        *tunables.Store
	synchronizer *tunables.Synchronizer
	phrases      *phrase.Store
	readTimeout  time.Duration
	errorBackoff time.Duration
	clock        clock.Clock
	logger       *slog.Logger
	startedAt    time.Time

	// updateMutex serializes SetConfig and SyncTunables so saves and
	// device pushes land in order. configMutex guards config alone and
	// is never held across I/O.
	updateMutex sync.Mutex
	configMutex sync.Mutex
	config      tunables.Config

	counters counters

	lifecycleMutex sync.Mutex
	cancel         context.CancelFunc
	done           chan struct{}
}

// New validates config and returns a Bridge. The ingestion loop does
// not run until Start.
func New(config Config) (*Bridge, error) {
	var errs []error
	if config.Link == nil {
		errs = append(errs, errors.New("Link is required"))
	}
	if config.Ring == nil {
		errs = append(errs, errors.New("Ring is required"))
	}
	if config.EventLog == nil {
		errs = append(errs, errors.New("EventLog is required"))
	}
	if config.EventLogPath == "" {
		errs = append(errs, errors.New("EventLogPath is required"))
	}
	if config.Tunables == nil {
		errs = append(errs, errors.New("Tunables is required"))
	}
	if config.Phrases == nil {
		errs = append(errs, errors.New("Phrases is required"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("bridge: %w", errors.Join(errs...))
	}

	if config.ReadTimeout <= 0 {
		config.ReadTimeout = DefaultReadTimeout
	}
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = DefaultErrorBackoff
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Bridge{
		link: config.Link,
		ring: config.Ring,
		machine: activity.New(activity.Config{
			Log:     config.EventLog,
			Samples: config.Ring,
			Clock:   config.Clock,
			Logger:  config.Logger,
		}),
		eventLogPath: config.EventLogPath,
		store:        config.Tunables,
		synchronizer: tunables.NewSynchronizer(config.Link),
		phrases:      config.Phrases,
		readTimeout:  config.ReadTimeout,
		errorBackoff: config.ErrorBackoff,
		clock:        config.Clock,
		logger:       config.Logger,
		startedAt:    config.Clock.Now(),
		config:       config.InitialTunables,
	}, nil
}

// Start launches the ingestion loop in the background. It fails with
// link.ErrNotConnected when the device is not connected, and fails if
// the loop is already running. The loop runs until Stop is called or
// ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) error {
	if !b.link.Connected() {
		return fmt.Errorf("bridge: starting ingestion: %w", link.ErrNotConnected)
	}

	b.lifecycleMutex.Lock()
	defer b.lifecycleMutex.Unlock()
	if b.done != nil {
		return errors.New("bridge: ingestion already started")
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.done = make(chan struct{})
	done := b.done

	go func() {
		defer close(done)
		b.ingest(ctx)
	}()

	b.logger.Info("ingestion started",
		"port", b.link.PortName(),
		"read_timeout", b.readTimeout,
	)
	return nil
}

// Stop cancels the ingestion loop and waits for it to exit. The loop
// finishes its current read first; nothing is drained.
func (b *Bridge) Stop() {
	b.lifecycleMutex.Lock()
	cancel, done := b.cancel, b.done
	b.lifecycleMutex.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Wait blocks until the ingestion loop has stopped. Returns
// immediately if it was never started.
func (b *Bridge) Wait() {
	b.lifecycleMutex.Lock()
	done := b.done
	b.lifecycleMutex.Unlock()

	if done != nil {
		<-done
	}
}

// running reports whether the ingestion loop is active.
func (b *Bridge) running() bool {
	b.lifecycleMutex.Lock()
	done := b.done
	b.lifecycleMutex.Unlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Config returns the tunables in effect.
func (b *Bridge) Config() tunables.Config {
	b.configMutex.Lock()
	defer b.configMutex.Unlock()
	return b.config
}

// SetConfig applies update to the tunables, persists the result, and
// pushes it to the device when connected. Unknown keys are ignored and
// reported. A non-integer value for a known key returns a
// *tunables.ValidationError and changes nothing. Persistence and sync
// failures are logged and reported in the result, not returned.
func (b *Bridge) SetConfig(ctx context.Context, update map[string]any) (SetConfigResult, error) {
	b.updateMutex.Lock()
	defer b.updateMutex.Unlock()

	next, ignored, err := b.Config().Apply(update)
	if err != nil {
		return SetConfigResult{}, err
	}
	b.configMutex.Lock()
	b.config = next
	b.configMutex.Unlock()

	result := SetConfigResult{Config: next, Ignored: ignored}
	if result.Ignored == nil {
		result.Ignored = []string{}
	}
	if len(ignored) > 0 {
		b.logger.Info("ignoring unknown tunables", "keys", ignored)
	}

	if err := b.store.Save(next); err != nil {
		b.logger.Error("persisting tunables failed", "path", b.store.Path(), "error", err)
	} else {
		result.Persisted = true
	}

	if b.link.Connected() {
		if err := b.synchronizer.Sync(ctx, next); err != nil {
			b.logger.Error("pushing tunables to device failed", "error", err)
		} else {
			result.Synced = true
		}
	}

	b.logger.Info("tunables updated",
		"persisted", result.Persisted,
		"synced", result.Synced,
	)
	return result, nil
}

// SyncTunables pushes the current tunables to the device. The daemon
// calls it once after connecting.
func (b *Bridge) SyncTunables(ctx context.Context) error {
	b.updateMutex.Lock()
	defer b.updateMutex.Unlock()
	return b.synchronizer.Sync(ctx, b.Config())
}

// RecentTelemetry returns up to limit of the newest samples, oldest
// first.
func (b *Bridge) RecentTelemetry(limit int) []telemetry.Sample {
	return b.ring.Recent(limit)
}

// TelemetrySince returns samples newer than seq, at most limit.
func (b *Bridge) TelemetrySince(seq uint64, limit int) []telemetry.Sample {
	return b.ring.Since(seq, limit)
}

// TelemetryCapacity returns the ring size.
func (b *Bridge) TelemetryCapacity() int {
	return b.ring.Capacity()
}

// UsageStats replays the event log.
func (b *Bridge) UsageStats() (usagestats.Stats, error) {
	stats, summary, err := usagestats.FromFile(b.eventLogPath)
	if err != nil {
		return usagestats.Stats{}, err
	}
	if summary.Skipped > 0 || summary.CorruptPayloads > 0 || summary.UnparsedDurations > 0 {
		b.logger.Debug("event log has damaged records",
			"skipped", summary.Skipped,
			"corrupt_payloads", summary.CorruptPayloads,
			"unparsed_durations", summary.UnparsedDurations,
		)
	}
	return stats, nil
}

// Phrases lists stored phrase definitions.
func (b *Bridge) Phrases() ([]phrase.Summary, error) {
	return b.phrases.List()
}

// SavePhrase stores a phrase definition and returns its id.
func (b *Bridge) SavePhrase(definition phrase.Definition) (string, error) {
	id, err := b.phrases.Save(definition)
	if err != nil {
		return "", err
	}
	b.logger.Info("phrase saved", "id", id)
	return id, nil
}

// PlayPhrase asks the device to play a stored phrase. It fails with
// phrase.ErrInvalidID, phrase.ErrNotFound, or link.ErrNotConnected
// before anything is written.
func (b *Bridge) PlayPhrase(ctx context.Context, id string) error {
	exists, err := b.phrases.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", phrase.ErrNotFound, id)
	}
	if err := b.link.SendCommands(ctx, []string{protocol.PlayPhraseCommand(id)}); err != nil {
		b.logger.Error("sending phrase failed", "id", id, "error", err)
		return err
	}
	b.logger.Info("phrase sent to device", "id", id)
	return nil
}
