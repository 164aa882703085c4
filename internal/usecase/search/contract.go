package search

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	"github.com/kailas-cloud/storefront/internal/domain/search/result"
)

// Repository defines the storage contract for catalog search.
type Repository interface {
	Search(ctx context.Context, vector []float32, filters filter.Expression, topK int) ([]result.Result, error)
}
