package seed

import (
	"context"

	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
)

// Catalog writes products to the vector index.
type Catalog interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, products []domprod.Product) error
}
