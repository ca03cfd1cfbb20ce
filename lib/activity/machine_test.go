// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/voicex-foundation/voicex/lib/clock"
	"github.com/voicex-foundation/voicex/lib/eventlog"
	"github.com/voicex-foundation/voicex/lib/protocol"
	"github.com/voicex-foundation/voicex/lib/telemetry"
)

type recordingLog struct {
	records []eventlog.Record
	err     error
}

func (log *recordingLog) Append(record eventlog.Record) error {
	if log.err != nil {
		return log.err
	}
	log.records = append(log.records, record)
	return nil
}

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

func newMachine(log Appender) (*Machine, *telemetry.Ring, *clock.FakeClock) {
	ring := telemetry.NewRing(16)
	fakeClock := clock.Fake(epoch)
	machine := New(Config{Log: log, Samples: ring, Clock: fakeClock})
	return machine, ring, fakeClock
}

func TestSessionWritesTwoRecordsInOrder(t *testing.T) {
	t.Parallel()
	log := &recordingLog{}
	machine, _, fakeClock := newMachine(log)

	if got := machine.Handle(protocol.Decode("SPEECH_START")); got != OutcomeTransitioned {
		t.Fatalf("start: got %v, want transitioned", got)
	}
	if machine.State() != Collecting {
		t.Fatalf("state after start: got %v, want collecting", machine.State())
	}

	fakeClock.Advance(3 * time.Second)
	if got := machine.Handle(protocol.Decode("SPEECH_END:3.2")); got != OutcomeTransitioned {
		t.Fatalf("end: got %v, want transitioned", got)
	}
	if machine.State() != Idle {
		t.Fatalf("state after end: got %v, want idle", machine.State())
	}

	if len(log.records) != 2 {
		t.Fatalf("got %d records, want 2", len(log.records))
	}
	start, end := log.records[0], log.records[1]
	if start.Type != eventlog.TypeSpeechStart || start.Data != nil {
		t.Errorf("first record: got %+v", start)
	}
	if !start.Timestamp.Equal(epoch) {
		t.Errorf("start timestamp: got %v, want %v", start.Timestamp, epoch)
	}
	if end.Type != eventlog.TypeSpeechEnd || end.Data["duration"] != "3.2" {
		t.Errorf("second record: got %+v", end)
	}
	if !end.Timestamp.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("end timestamp: got %v", end.Timestamp)
	}
}

func TestSpeechEndWithoutDuration(t *testing.T) {
	t.Parallel()
	log := &recordingLog{}
	machine, _, _ := newMachine(log)

	machine.Handle(protocol.Decode("SPEECH_START"))
	machine.Handle(protocol.Decode("SPEECH_END"))

	if got := log.records[1].Data["duration"]; got != protocol.UnknownDuration {
		t.Errorf("duration: got %v, want %q", got, protocol.UnknownDuration)
	}
}

func TestTelemetryGatedByState(t *testing.T) {
	t.Parallel()
	machine, ring, _ := newMachine(&recordingLog{})

	if got := machine.Handle(protocol.Decode("DEBUG:1,2,3")); got != OutcomeSampleDiscarded {
		t.Errorf("idle telemetry: got %v, want sample_discarded", got)
	}
	if ring.Len() != 0 {
		t.Fatalf("ring after idle telemetry: got %d samples, want 0", ring.Len())
	}

	machine.Handle(protocol.Decode("SPEECH_START"))
	if got := machine.Handle(protocol.Decode("DEBUG:4,5,6")); got != OutcomeSampleStored {
		t.Errorf("collecting telemetry: got %v, want sample_stored", got)
	}
	machine.Handle(protocol.Decode("SPEECH_END:1"))
	machine.Handle(protocol.Decode("DEBUG:7,8,9"))

	samples := ring.Recent(10)
	if len(samples) != 1 || samples[0].Values[0] != 4 {
		t.Errorf("ring contents: got %+v, want one sample starting with 4", samples)
	}
}

func TestReentrantEventsAreNoOps(t *testing.T) {
	t.Parallel()
	log := &recordingLog{}
	machine, _, _ := newMachine(log)

	if got := machine.Handle(protocol.Decode("SPEECH_END:1")); got != OutcomeReentrant {
		t.Errorf("end while idle: got %v, want reentrant", got)
	}
	machine.Handle(protocol.Decode("SPEECH_START"))
	if got := machine.Handle(protocol.Decode("SPEECH_START")); got != OutcomeReentrant {
		t.Errorf("start while collecting: got %v, want reentrant", got)
	}
	if machine.State() != Collecting {
		t.Errorf("state: got %v, want collecting", machine.State())
	}
	if len(log.records) != 1 {
		t.Errorf("got %d records, want 1", len(log.records))
	}
}

func TestAppendFailureStillTransitions(t *testing.T) {
	t.Parallel()
	log := &recordingLog{err: errors.New("disk full")}
	machine, _, _ := newMachine(log)

	if got := machine.Handle(protocol.Decode("SPEECH_START")); got != OutcomeTransitioned {
		t.Errorf("start: got %v, want transitioned", got)
	}
	if machine.State() != Collecting {
		t.Errorf("state: got %v, want collecting", machine.State())
	}
	if machine.AppendFailures() != 1 {
		t.Errorf("AppendFailures: got %d, want 1", machine.AppendFailures())
	}
}

func TestDeviceErrorAndIgnoredLeaveState(t *testing.T) {
	t.Parallel()
	log := &recordingLog{}
	machine, _, _ := newMachine(log)
	machine.Handle(protocol.Decode("SPEECH_START"))

	if got := machine.Handle(protocol.Decode("ERROR:overrun")); got != OutcomeDeviceError {
		t.Errorf("device error: got %v, want device_error", got)
	}
	if got := machine.Handle(protocol.Decode("boot banner")); got != OutcomeIgnored {
		t.Errorf("chatter: got %v, want ignored", got)
	}
	if got := machine.Handle(protocol.Decode("DEBUG:1,x,3")); got != OutcomeIgnored {
		t.Errorf("malformed: got %v, want ignored", got)
	}
	if machine.State() != Collecting {
		t.Errorf("state: got %v, want collecting", machine.State())
	}
	if len(log.records) != 1 {
		t.Errorf("device error was persisted: %d records", len(log.records))
	}
}
