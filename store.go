package stockwatch

import "context"

// StateStore persists the last known snapshot of every tracked link.
type StateStore interface {
	// Load returns the persisted state with every link in links present.
	// Links without a stored entry get the unknown snapshot; stored entries
	// for links not in the list are kept. A missing store yields the
	// all-unknown map. Malformed content returns an EINVALID error.
	Load(ctx context.Context, links []string) (StateMap, error)

	// Save replaces the persisted state. A failed Save leaves the
	// previously saved state readable.
	Save(ctx context.Context, state StateMap) error
}
