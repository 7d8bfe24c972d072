package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/stockwatch"
)

// Compile-time interface verification.
var _ stockwatch.StateStore = (*StateStore)(nil)

// StateStore implements stockwatch.StateStore using SQLite.
// Each save replaces all given entries in a single transaction; rows for
// links missing from the saved map are left untouched.
type StateStore struct {
	db *DB
}

// NewStateStore creates a new StateStore.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Load returns every stored snapshot plus defaults for links without a row.
func (s *StateStore) Load(ctx context.Context, links []string) (stockwatch.StateMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT link, name, state, sizes FROM snapshots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := make(stockwatch.StateMap)
	for rows.Next() {
		var link, name, availability string
		var sizes sql.NullString
		if err := rows.Scan(&link, &name, &availability, &sizes); err != nil {
			return nil, err
		}

		snap := stockwatch.Snapshot{Name: name}
		if err := snap.State.UnmarshalText([]byte(availability)); err != nil {
			return nil, stockwatch.Errorf(stockwatch.EINVALID, "malformed snapshot for %s: %v", link, err)
		}
		if sizes.Valid {
			if err := json.Unmarshal([]byte(sizes.String), &snap.Sizes); err != nil {
				return nil, stockwatch.Errorf(stockwatch.EINVALID, "malformed sizes for %s: %v", link, err)
			}
		}
		if err := snap.Validate(); err != nil {
			return nil, stockwatch.Errorf(stockwatch.EINVALID, "malformed snapshot for %s: %s", link, stockwatch.ErrorMessage(err))
		}
		state[link] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return state.WithDefaults(links), nil
}

// Save upserts every entry of state in one transaction.
func (s *StateStore) Save(ctx context.Context, state stockwatch.StateMap) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for link, snap := range state {
		availability, err := snap.State.MarshalText()
		if err != nil {
			return fmt.Errorf("encoding state for %s: %w", link, err)
		}

		var sizes sql.NullString
		if snap.Sizes != nil {
			data, err := json.Marshal(snap.Sizes)
			if err != nil {
				return fmt.Errorf("encoding sizes for %s: %w", link, err)
			}
			sizes = sql.NullString{String: string(data), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (link, name, state, sizes, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(link) DO UPDATE SET
				name = excluded.name,
				state = excluded.state,
				sizes = excluded.sizes,
				updated_at = excluded.updated_at
		`, link, snap.Name, string(availability), sizes, now); err != nil {
			return fmt.Errorf("saving snapshot for %s: %w", link, err)
		}
	}

	return tx.Commit()
}
