// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package activity

import (
	"log/slog"
	"sync/atomic"

	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/eventlog"
	"github.com/voicex-foundation/voicex/lib/protocol"
)

// State is the session state.
type State int32

const (
	// Idle waits for a speech start. Telemetry is not recorded.
	Idle State = iota
	// Collecting records telemetry until the speech ends.
	Collecting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	default:
		return "unknown"
	}
}

// Outcome is what Handle did with an event.
type Outcome int

const (
	// OutcomeIgnored: the event kind has no effect on sessions.
	OutcomeIgnored Outcome = iota
	// OutcomeTransitioned: the state changed and a record was logged
	// (or the append failed and was reported).
	OutcomeTransitioned
	// OutcomeReentrant: a start while Collecting or an end while Idle.
	OutcomeReentrant
	// OutcomeSampleStored: telemetry was appended to the ring.
	OutcomeSampleStored
	// OutcomeSampleDiscarded: telemetry arrived while Idle.
	OutcomeSampleDiscarded
	// OutcomeDeviceError: the device reported a fault.
	OutcomeDeviceError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeTransitioned:
		return "transitioned"
	case OutcomeReentrant:
		return "reentrant"
	case OutcomeSampleStored:
		return "sample_stored"
	case OutcomeSampleDiscarded:
		return "sample_discarded"
	case OutcomeDeviceError:
		return "device_error"
	default:
		return "unknown"
	}
}

// Appender receives session records. *eventlog.Writer implements it.
type Appender interface {
	Append(eventlog.Record) error
}

// SampleSink receives telemetry while a session is active.
// *telemetry.Ring implements it.
type SampleSink interface {
	Append(values []float64) uint64
}

// Config holds a Machine's collaborators.
type Config struct {
	Log     Appender
	Samples SampleSink
	// Clock stamps log records. Nil uses the real clock.
	Clock clock.Clock
	// Logger receives device errors and persistence failures. Nil
	// discards.
	Logger *slog.Logger
}

// Machine is the activity state machine.
type Machine struct {
	log     Appender
	samples SampleSink
	clock   clock.Clock
	logger  *slog.Logger

	state atomic.Int32

	// appendFailures counts event log writes that failed.
	appendFailures atomic.Uint64
}

// New creates a Machine in the Idle state.
func New(config Config) *Machine {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		log:     config.Log,
		samples: config.Samples,
		clock:   config.Clock,
		logger:  config.Logger,
	}
}

// State returns the current state.
func (machine *Machine) State() State {
	return State(machine.state.Load())
}

// AppendFailures returns how many event log appends have failed.
func (machine *Machine) AppendFailures() uint64 {
	return machine.appendFailures.Load()
}

// Handle applies one decoded event.
func (machine *Machine) Handle(event protocol.Event) Outcome {
	switch event.Kind {
	case protocol.KindSpeechStart:
		if machine.State() == Collecting {
			machine.logger.Debug("speech start while collecting, ignoring")
			return OutcomeReentrant
		}
		machine.state.Store(int32(Collecting))
		machine.append(eventlog.TypeSpeechStart, nil)
		return OutcomeTransitioned

	case protocol.KindSpeechEnd:
		if machine.State() == Idle {
			machine.logger.Debug("speech end while idle, ignoring", "duration", event.Duration)
			return OutcomeReentrant
		}
		machine.state.Store(int32(Idle))
		machine.append(eventlog.TypeSpeechEnd, map[string]any{"duration": event.Duration})
		return OutcomeTransitioned

	case protocol.KindTelemetry:
		if machine.State() != Collecting {
			return OutcomeSampleDiscarded
		}
		machine.samples.Append(event.Values)
		return OutcomeSampleStored

	case protocol.KindDeviceError:
		machine.logger.Error("device reported error", "message", event.Message)
		return OutcomeDeviceError

	default:
		return OutcomeIgnored
	}
}

// append writes a transition record. Failure does not undo the
// transition: the in-memory state tracks the device, the log is a
// best-effort history.
func (machine *Machine) append(eventType string, data map[string]any) {
	record := eventlog.Record{
		Timestamp: machine.clock.Now().Truncate(0),
		Type:      eventType,
		Data:      data,
	}
	if err := machine.log.Append(record); err != nil {
		machine.appendFailures.Add(1)
		machine.logger.Error("event log append failed",
			"event_type", eventType,
			"error", err,
		)
	}
}
