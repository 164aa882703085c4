package db

import (
	"context"
	"time"
)

// Store is the vector index facade every backend implements.
type Store interface {
	Pinger
	IndexManager
	Upserter
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks index connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	// EnsureIndex creates the index if it does not exist yet. An existing index is left as is.
	EnsureIndex(ctx context.Context, def *IndexDefinition) error
}

// Item is a single record written to the index: a vector plus its metadata.
type Item struct {
	Key      string
	Vector   []float32
	Tags     map[string]string
	Numerics map[string]float64
}

// Upserter writes records to an index.
type Upserter interface {
	Upsert(ctx context.Context, index string, items []Item) error
}

// Searcher provides nearest-neighbour search over an index.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
