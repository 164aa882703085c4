package result

import "github.com/kailas-cloud/storefront/internal/domain/product"

// Result is a single catalog hit returned by the vector index.
type Result struct {
	id      string
	score   float64
	product product.Product
}

// New creates a search result.
func New(id string, score float64, p product.Product) Result {
	return Result{id: id, score: score, product: p}
}

// ID returns the index record identifier.
func (r *Result) ID() string { return r.id }

// Score returns the similarity score reported by the index.
func (r *Result) Score() float64 { return r.score }

// Product returns the product metadata stored with the record.
func (r *Result) Product() product.Product { return r.product }
