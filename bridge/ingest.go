// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"context"
	"errors"

	"github.com/voicex-foundation/voicex/lib/activity"
	"github.com/voicex-foundation/voicex/lib/link"
	"github.com/voicex-foundation/voicex/lib/protocol"
)

// ingest is the ingestion loop. The bounded ReadLine is the only wait
// between empty reads.
func (b *Bridge) ingest(ctx context.Context) {
	defer b.logger.Info("ingestion stopped")

	for ctx.Err() == nil {
		line, ok, err := b.link.ReadLine(b.readTimeout)
		if err != nil {
			b.counters.readErrors.Add(1)
			if errors.Is(err, link.ErrNotConnected) {
				b.logger.Debug("device not connected, waiting", "backoff", b.errorBackoff)
			} else {
				b.logger.Warn("device read failed", "error", err, "backoff", b.errorBackoff)
			}
			select {
			case <-ctx.Done():
				return
			case <-b.clock.After(b.errorBackoff):
			}
			continue
		}
		if !ok {
			continue
		}
		b.handleLine(line)
	}
}

// handleLine decodes one device line and applies it.
func (b *Bridge) handleLine(line string) {
	b.counters.linesRead.Add(1)

	event := protocol.Decode(line)
	switch event.Kind {
	case protocol.KindMalformed:
		b.counters.linesMalformed.Add(1)
		b.logger.Debug("malformed device line", "reason", event.Reason, "line", line)
		return
	case protocol.KindIgnored:
		b.counters.linesIgnored.Add(1)
		b.logger.Debug("unrecognized device line", "line", line)
		return
	}

	outcome := b.machine.Handle(event)
	switch outcome {
	case activity.OutcomeTransitioned:
		if event.Kind == protocol.KindSpeechStart {
			b.counters.sessionsStarted.Add(1)
			b.logger.Info("speech started")
		} else {
			b.counters.sessionsCompleted.Add(1)
			b.logger.Info("speech ended", "duration", event.Duration)
		}
	case activity.OutcomeReentrant:
		b.counters.reentrantEvents.Add(1)
	case activity.OutcomeSampleStored:
		b.counters.samplesStored.Add(1)
	case activity.OutcomeSampleDiscarded:
		b.counters.samplesDiscarded.Add(1)
	case activity.OutcomeDeviceError:
		b.counters.deviceErrors.Add(1)
	}
}
