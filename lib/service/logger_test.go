// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestJSONLoggerLevelAndFormat(t *testing.T) {
	var buffer bytes.Buffer
	logger := newJSONLogger(&buffer, slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept", "port", "/dev/ttyUSB0")

	var entry map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a single JSON object: %v\n%s", err, buffer.String())
	}
	if entry["msg"] != "kept" || entry["port"] != "/dev/ttyUSB0" {
		t.Errorf("entry = %v", entry)
	}
}
