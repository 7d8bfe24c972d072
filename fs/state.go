// Package fs provides file-based storage for tracked links and their state.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/stockwatch"
)

// Ensure StateStore implements stockwatch.StateStore at compile time.
var _ stockwatch.StateStore = (*StateStore)(nil)

// StateStore implements stockwatch.StateStore as an indented JSON document
// keyed by link. Saves go to a temporary file in the same directory that is
// renamed over the previous file, so a crash mid-write leaves the old file intact.
type StateStore struct {
	path string
}

// NewStateStore creates a new StateStore backed by the file at path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the location of the state file.
func (s *StateStore) Path() string {
	return s.path
}

// Load reads the state file. A missing file yields the all-unknown map;
// unparsable content returns an EINVALID error.
func (s *StateStore) Load(ctx context.Context, links []string) (stockwatch.StateMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, iofs.ErrNotExist) {
		return stockwatch.NewStateMap(links), nil
	} else if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state stockwatch.StateMap
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, stockwatch.Errorf(stockwatch.EINVALID, "malformed state file %s: %v", s.path, err)
	}
	for link, snap := range state {
		if err := snap.Validate(); err != nil {
			return nil, stockwatch.Errorf(stockwatch.EINVALID, "malformed entry for %s in %s: %s", link, s.path, stockwatch.ErrorMessage(err))
		}
		state[link] = snap.Normalize()
	}

	return state.WithDefaults(links), nil
}

// Save writes state atomically.
func (s *StateStore) Save(ctx context.Context, state stockwatch.StateMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file unless it was renamed into place.
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	committed = true

	return nil
}
