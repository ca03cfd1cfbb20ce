// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package phrase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/voicex-foundation/voicex/lib/atomicfile"
	"github.com/voicex-foundation/voicex/lib/clock"
)

var (
	// ErrNotFound is returned for an id with no definition file.
	ErrNotFound = errors.New("phrase not found")
	// ErrInvalidID is returned for an id that is not 1-64 characters
	// of [A-Za-z0-9_-].
	ErrInvalidID = errors.New("invalid phrase id")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const fileExtension = ".json"

// Definition is a stored phrase document.
type Definition map[string]any

// Summary is the listing view of a definition.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Store is a directory of definitions.
type Store struct {
	directory string
	clock     clock.Clock
	logger    *slog.Logger
}

// NewStore returns a Store over directory. The directory is created on
// first Save. A nil clock uses the real clock; a nil logger discards.
func NewStore(directory string, clk clock.Clock, logger *slog.Logger) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{directory: directory, clock: clk, logger: logger}
}

// ValidID reports whether id may name a phrase.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Exists reports whether a definition file exists for id.
func (store *Store) Exists(id string) (bool, error) {
	path, err := store.path(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking phrase %s: %w", id, err)
	}
	return true, nil
}

// Get reads the definition for id.
func (store *Store) Get(id string) (Definition, error) {
	path, err := store.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading phrase %s: %w", id, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()
	var definition Definition
	if err := decoder.Decode(&definition); err != nil {
		return nil, fmt.Errorf("parsing phrase %s: %w", id, err)
	}
	if definition == nil {
		return nil, fmt.Errorf("parsing phrase %s: not a JSON object", id)
	}
	return definition, nil
}

// Save writes definition and returns its id. The id comes from the
// definition's "id" field (string or integer) or, when absent, the
// current Unix time in seconds. An existing definition with the same
// id is replaced.
func (store *Store) Save(definition Definition) (string, error) {
	id, err := store.idFor(definition)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(store.directory, 0o755); err != nil {
		return "", fmt.Errorf("creating phrase directory: %w", err)
	}
	path := filepath.Join(store.directory, id+fileExtension)
	if err := atomicfile.WriteJSON(path, definition); err != nil {
		return "", fmt.Errorf("saving phrase %s: %w", id, err)
	}
	return id, nil
}

// List returns a summary of every readable definition, sorted by id.
// Unreadable or unparsable files are logged and skipped. A missing
// directory is an empty list.
func (store *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(store.directory)
	if errors.Is(err, fs.ErrNotExist) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing phrases: %w", err)
	}

	summaries := []Summary{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		id := strings.TrimSuffix(name, fileExtension)
		if !ValidID(id) {
			continue
		}
		definition, err := store.Get(id)
		if err != nil {
			store.logger.Warn("skipping unreadable phrase", "id", id, "error", err)
			continue
		}
		summaries = append(summaries, summarize(id, definition))
	}
	slices.SortFunc(summaries, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return summaries, nil
}

func summarize(id string, definition Definition) Summary {
	summary := Summary{ID: id, Name: id}
	if name, ok := definition["name"].(string); ok {
		summary.Name = name
	}
	if description, ok := definition["description"].(string); ok {
		summary.Description = description
	}
	return summary
}

func (store *Store) idFor(definition Definition) (string, error) {
	var id string
	switch raw := definition["id"].(type) {
	case nil:
		id = strconv.FormatInt(store.clock.Now().Unix(), 10)
	case string:
		id = raw
	case json.Number:
		id = raw.String()
	case float64:
		if raw != float64(int64(raw)) {
			return "", fmt.Errorf("%w: %v", ErrInvalidID, raw)
		}
		id = strconv.FormatInt(int64(raw), 10)
	case int64:
		id = strconv.FormatInt(raw, 10)
	case uint64:
		id = strconv.FormatUint(raw, 10)
	default:
		return "", fmt.Errorf("%w: %v", ErrInvalidID, raw)
	}
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return id, nil
}

func (store *Store) path(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(store.directory, id+fileExtension), nil
}
