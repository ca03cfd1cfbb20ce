// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package usagestats

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/voicex-foundation/voicex/lib/eventlog"
)

// DayLayout is the key format of Stats.DailyUsage.
const DayLayout = "2006-01-02"

// Stats is the usage summary served to operators.
type Stats struct {
	TotalSessions   int            `json:"total_sessions"`
	TotalDuration   float64        `json:"total_duration"`
	AverageDuration float64        `json:"average_duration"`
	DailyUsage      map[string]int `json:"daily_usage"`
}

// Summary reports what the scan behind a Stats saw.
type Summary struct {
	// Records is the number of well-formed log records.
	Records int `json:"records"`
	// Skipped counts malformed lines.
	Skipped int `json:"skipped"`
	// CorruptPayloads counts records whose additional_data was not JSON.
	CorruptPayloads int `json:"corrupt_payloads"`
	// UnparsedDurations counts speech_end records whose duration
	// contributed zero because it was missing or not a finite number.
	UnparsedDurations int `json:"unparsed_durations"`
}

// Compute scans a log and aggregates it in one pass.
func Compute(reader io.Reader) (Stats, Summary, error) {
	var aggregator aggregator
	result, err := eventlog.Scan(reader, aggregator.add)
	if err != nil {
		return Stats{}, Summary{}, fmt.Errorf("computing usage stats: %w", err)
	}
	return aggregator.finish(result)
}

// FromFile computes stats for the log at path. A missing file yields
// zero stats.
func FromFile(path string) (Stats, Summary, error) {
	var aggregator aggregator
	result, err := eventlog.ScanFile(path, aggregator.add)
	if err != nil {
		return Stats{}, Summary{}, fmt.Errorf("computing usage stats: %w", err)
	}
	return aggregator.finish(result)
}

type aggregator struct {
	stats             Stats
	unparsedDurations int
}

func (aggregator *aggregator) add(record eventlog.Record) error {
	if aggregator.stats.DailyUsage == nil {
		aggregator.stats.DailyUsage = make(map[string]int)
	}

	day := record.Timestamp.Format(DayLayout)
	if _, seen := aggregator.stats.DailyUsage[day]; !seen {
		aggregator.stats.DailyUsage[day] = 0
	}

	switch record.Type {
	case eventlog.TypeSpeechStart:
		aggregator.stats.TotalSessions++
		aggregator.stats.DailyUsage[day]++
	case eventlog.TypeSpeechEnd:
		duration, ok := Duration(record.Data)
		if !ok {
			aggregator.unparsedDurations++
		}
		aggregator.stats.TotalDuration += duration
	}
	return nil
}

func (aggregator *aggregator) finish(result eventlog.ScanResult) (Stats, Summary, error) {
	stats := aggregator.stats
	if stats.DailyUsage == nil {
		stats.DailyUsage = map[string]int{}
	}
	if stats.TotalSessions > 0 {
		stats.AverageDuration = stats.TotalDuration / float64(stats.TotalSessions)
	}
	return stats, Summary{
		Records:           result.Records,
		Skipped:           result.Skipped,
		CorruptPayloads:   result.Corrupt,
		UnparsedDurations: aggregator.unparsedDurations,
	}, nil
}

// Duration extracts the "duration" field of a speech_end payload. The
// device reports it as text, so both strings and JSON numbers are
// accepted. ok is false (and the duration 0) when the field is missing,
// unparsable, or not finite.
func Duration(data map[string]any) (float64, bool) {
	var value float64
	switch raw := data["duration"].(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	case float64:
		value = raw
	case json.Number:
		parsed, err := raw.Float64()
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
