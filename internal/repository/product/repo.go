package product

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/product/field"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	"github.com/kailas-cloud/storefront/internal/domain/search/result"
)

// store is the consumer interface for catalog operations (ISP).
type store interface {
	EnsureIndex(ctx context.Context, def *db.IndexDefinition) error
	Upsert(ctx context.Context, index string, items []db.Item) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo stores products in one vector index and maps raw hits back to domain results.
type Repo struct {
	store store
	index string
}

// New creates a product repository over the named index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// EnsureIndex creates the product index if the backend supports it.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.index)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.EnsureIndex(ctx, def); err != nil {
		return fmt.Errorf("ensure index %s: %w", r.index, err)
	}
	return nil
}

// Upsert writes products with their sort vectors.
func (r *Repo) Upsert(ctx context.Context, products []domprod.Product) error {
	if len(products) == 0 {
		return nil
	}
	items := make([]db.Item, len(products))
	for i := range products {
		items[i] = productToItem(&products[i])
	}
	if err := r.store.Upsert(ctx, r.index, items); err != nil {
		return fmt.Errorf("upsert %d products: %w", len(products), err)
	}
	return nil
}

// Search runs one filtered nearest-neighbour query with metadata included.
func (r *Repo) Search(
	ctx context.Context, vector []float32, filters filter.Expression, topK int,
) ([]result.Result, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:       r.index,
		Filters:         filters,
		Vector:          vector,
		K:               topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w: %w", r.index, domain.ErrIndexUnavailable, err)
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		results = append(results, result.New(e.Key, e.Score, fieldsToProduct(e.Key, e.Fields)))
	}
	return results, nil
}

// buildIndex derives the index definition from the product schema.
func buildIndex(name string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name)
	for _, f := range field.Schema() {
		switch f.FieldType() {
		case field.Tag:
			b = b.Tag(f.Name())
		case field.Numeric:
			b = b.Numeric(f.Name())
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.FieldType())
		}
	}
	// FLAT/L2: the catalogue is small and the sort component is a price, not a direction
	return b.VectorFlat("__vector", "vector", domain.VectorDim, db.DistanceL2).Build()
}

func productToItem(p *domprod.Product) db.Item {
	return db.Item{
		Key:    p.ID(),
		Vector: p.Vector(),
		Tags: map[string]string{
			field.ID:      p.ID(),
			field.Name:    p.Name(),
			field.Color:   string(p.Color()),
			field.Size:    string(p.Size()),
			field.ImageID: p.ImageID(),
		},
		Numerics: map[string]float64{
			field.Price: p.Price(),
		},
	}
}

// fieldsToProduct hydrates metadata without validation; records written by other
// tools may lack fields.
func fieldsToProduct(key string, fields map[string]string) domprod.Product {
	id := fields[field.ID]
	if id == "" {
		id = key
	}
	var price float64
	if v, ok := fields[field.Price]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			price = f
		}
	}
	return domprod.Reconstruct(
		id,
		fields[field.Name],
		price,
		domprod.Size(fields[field.Size]),
		domprod.Color(fields[field.Color]),
		fields[field.ImageID],
	)
}
