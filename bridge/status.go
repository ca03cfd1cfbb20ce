// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"sync/atomic"
	"time"
)

// counters are written by the ingestion goroutine and read by Status.
type counters struct {
	linesRead         atomic.Uint64
	linesMalformed    atomic.Uint64
	linesIgnored      atomic.Uint64
	readErrors        atomic.Uint64
	samplesStored     atomic.Uint64
	samplesDiscarded  atomic.Uint64
	sessionsStarted   atomic.Uint64
	sessionsCompleted atomic.Uint64
	reentrantEvents   atomic.Uint64
	deviceErrors      atomic.Uint64
}

// Status is a point-in-time snapshot of the bridge.
type Status struct {
	Connected bool      `json:"connected"`
	Port      string    `json:"port,omitempty"`
	Ingesting bool      `json:"ingesting"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"started_at"`
	Uptime    float64   `json:"uptime_seconds"`

	LinesRead         uint64 `json:"lines_read"`
	LinesMalformed    uint64 `json:"lines_malformed"`
	LinesIgnored      uint64 `json:"lines_ignored"`
	ReadErrors        uint64 `json:"read_errors"`
	SamplesStored     uint64 `json:"samples_stored"`
	SamplesDiscarded  uint64 `json:"samples_discarded"`
	SessionsStarted   uint64 `json:"sessions_started"`
	SessionsCompleted uint64 `json:"sessions_completed"`
	ReentrantEvents   uint64 `json:"reentrant_events"`
	DeviceErrors      uint64 `json:"device_errors"`
	LogAppendFailures uint64 `json:"log_append_failures"`

	TelemetryRetained int    `json:"telemetry_retained"`
	TelemetryCapacity int    `json:"telemetry_capacity"`
	TelemetryTotal    uint64 `json:"telemetry_total"`
	TelemetryEvicted  uint64 `json:"telemetry_evicted"`
}

// Status returns current connection state and counters.
func (b *Bridge) Status() Status {
	return Status{
		Connected: b.link.Connected(),
		Port:      b.link.PortName(),
		Ingesting: b.running(),
		State:     b.machine.State().String(),
		StartedAt: b.startedAt,
		Uptime:    b.clock.Now().Sub(b.startedAt).Seconds(),

		LinesRead:         b.counters.linesRead.Load(),
		LinesMalformed:    b.counters.linesMalformed.Load(),
		LinesIgnored:      b.counters.linesIgnored.Load(),
		ReadErrors:        b.counters.readErrors.Load(),
		SamplesStored:     b.counters.samplesStored.Load(),
		SamplesDiscarded:  b.counters.samplesDiscarded.Load(),
		SessionsStarted:   b.counters.sessionsStarted.Load(),
		SessionsCompleted: b.counters.sessionsCompleted.Load(),
		ReentrantEvents:   b.counters.reentrantEvents.Load(),
		DeviceErrors:      b.counters.deviceErrors.Load(),
		LogAppendFailures: b.machine.AppendFailures(),

		TelemetryRetained: b.ring.Len(),
		TelemetryCapacity: b.ring.Capacity(),
		TelemetryTotal:    b.ring.Total(),
		TelemetryEvicted:  b.ring.Evicted(),
	}
}
