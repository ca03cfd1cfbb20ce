// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package tunables

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/voicex-foundation/voicex/lib/atomicfile"
)

// Store persists tunables as a JSON object. Reads accept comments and
// trailing commas so operators can annotate the file by hand; writes
// are atomic.
type Store struct {
	path string
}

// NewStore returns a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file location.
func (store *Store) Path() string {
	return store.path
}

// Load reads the file and applies it over Default, so keys missing
// from the file keep their defaults. Unknown keys in the file are
// returned in ignored. A missing file is reported as an error wrapping
// fs.ErrNotExist.
func (store *Store) Load() (config Config, ignored []string, err error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("reading tunables: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return Config{}, nil, fmt.Errorf("parsing tunables %s: %w", store.path, err)
	}

	config, ignored, err = Default().Apply(raw)
	if err != nil {
		return Config{}, nil, fmt.Errorf("loading tunables %s: %w", store.path, err)
	}
	return config, ignored, nil
}

// LoadOrCreate loads the file, or writes and returns Default when the
// file does not exist. created reports the latter.
func (store *Store) LoadOrCreate() (config Config, ignored []string, created bool, err error) {
	config, ignored, err = store.Load()
	if err == nil {
		return config, ignored, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, false, err
	}

	config = Default()
	if err := store.Save(config); err != nil {
		return Config{}, nil, false, err
	}
	return config, nil, true, nil
}

// Save atomically replaces the file with config.
func (store *Store) Save(config Config) error {
	if err := atomicfile.WriteJSON(store.path, config); err != nil {
		return fmt.Errorf("saving tunables: %w", err)
	}
	return nil
}
