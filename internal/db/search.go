package db

import (
	"errors"

	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName       string
	Filters         filter.Expression
	Vector          []float32
	K               int
	IncludeMetadata bool
}

// Validate checks the query fields every backend relies on.
func (q *KNNQuery) Validate() error {
	if q.IndexName == "" {
		return errors.New("index name is required")
	}
	if len(q.Vector) == 0 {
		return errors.New("vector is required")
	}
	if q.K <= 0 {
		return errors.New("k must be positive")
	}
	return nil
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit from a search. Fields is empty unless metadata was requested.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// DistanceToScore converts an L2 distance into a similarity in (0, 1].
func DistanceToScore(d float64) float64 {
	if d < 0 {
		d = 0
	}
	return 1 / (1 + d)
}
