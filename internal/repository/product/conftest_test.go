package product

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	ensureIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	upsertFn      func(ctx context.Context, index string, items []db.Item) error
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.ensureIndexFn != nil {
		return m.ensureIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) Upsert(ctx context.Context, index string, items []db.Item) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, index, items)
	}
	return nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
