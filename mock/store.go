package mock

import (
	"context"

	"github.com/fwojciec/stockwatch"
)

var _ stockwatch.StateStore = (*StateStore)(nil)

// StateStore is a mock implementation of stockwatch.StateStore.
type StateStore struct {
	LoadFn func(ctx context.Context, links []string) (stockwatch.StateMap, error)
	SaveFn func(ctx context.Context, state stockwatch.StateMap) error
}

func (s *StateStore) Load(ctx context.Context, links []string) (stockwatch.StateMap, error) {
	return s.LoadFn(ctx, links)
}

func (s *StateStore) Save(ctx context.Context, state stockwatch.StateMap) error {
	return s.SaveFn(ctx, state)
}
