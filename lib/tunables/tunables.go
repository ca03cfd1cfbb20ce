// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package tunables

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Tunable keys, in device sync order.
const (
	KeyThreshold           = "threshold"
	KeyBaseFrequency       = "base_frequency"
	KeyModFrequency        = "mod_frequency"
	KeyFilterAlpha         = "filter_alpha"
	KeyMinActivityDuration = "min_activity_duration"
)

// Keys lists every tunable in the order they are sent to the device.
var Keys = []string{
	KeyThreshold,
	KeyBaseFrequency,
	KeyModFrequency,
	KeyFilterAlpha,
	KeyMinActivityDuration,
}

// Config is the full set of tunables.
type Config struct {
	Threshold           int `json:"threshold"`
	BaseFrequency       int `json:"base_frequency"`
	ModFrequency        int `json:"mod_frequency"`
	FilterAlpha         int `json:"filter_alpha"`
	MinActivityDuration int `json:"min_activity_duration"`
}

// Default returns the factory tunables.
func Default() Config {
	return Config{
		Threshold:           500,
		BaseFrequency:       100,
		ModFrequency:        200,
		FilterAlpha:         20,
		MinActivityDuration: 200,
	}
}

// Pair is one key and its value.
type Pair struct {
	Key   string
	Value int
}

// Pairs returns every tunable in sync order.
func (c Config) Pairs() []Pair {
	pairs := make([]Pair, 0, len(Keys))
	for _, key := range Keys {
		value, _ := c.Get(key)
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

// Get returns the value of key. ok is false for an unknown key.
func (c Config) Get(key string) (value int, ok bool) {
	field := c.field(key)
	if field == nil {
		return 0, false
	}
	return *field, true
}

func (c *Config) field(key string) *int {
	switch key {
	case KeyThreshold:
		return &c.Threshold
	case KeyBaseFrequency:
		return &c.BaseFrequency
	case KeyModFrequency:
		return &c.ModFrequency
	case KeyFilterAlpha:
		return &c.FilterAlpha
	case KeyMinActivityDuration:
		return &c.MinActivityDuration
	default:
		return nil
	}
}

// ValidationError rejects an update whose value for a known key is
// not an integer.
type ValidationError struct {
	Key   string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tunable %q must be an integer, got %v (%T)", e.Key, e.Value, e.Value)
}

// Apply returns c with every known key in update replaced. Unknown
// keys are returned, sorted, in ignored. If any known key has a
// non-integer value Apply returns a *ValidationError and c unchanged.
//
// Values may be json.Number (decoders using UseNumber), float64
// (plain decoding) with no fractional part, or any Go integer type.
func (c Config) Apply(update map[string]any) (result Config, ignored []string, err error) {
	result = c
	for key, raw := range update {
		field := result.field(key)
		if field == nil {
			ignored = append(ignored, key)
			continue
		}
		value, ok := toInt(raw)
		if !ok {
			return c, nil, &ValidationError{Key: key, Value: raw}
		}
		*field = value
	}
	slices.Sort(ignored)
	return result, ignored, nil
}

func toInt(raw any) (int, bool) {
	switch value := raw.(type) {
	case json.Number:
		parsed, err := value.Int64()
		if err != nil || parsed < math.MinInt32 || parsed > math.MaxInt32 {
			return 0, false
		}
		return int(parsed), true
	case float64:
		if value != math.Trunc(value) || value < math.MinInt32 || value > math.MaxInt32 {
			return 0, false
		}
		return int(value), true
	case int:
		return value, value >= math.MinInt32 && value <= math.MaxInt32
	case int64:
		return int(value), value >= math.MinInt32 && value <= math.MaxInt32
	case uint64:
		return int(value), value <= math.MaxInt32
	default:
		return 0, false
	}
}
