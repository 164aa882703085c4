package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
)

// DefaultBatchSize is the number of products written per upsert call.
const DefaultBatchSize = 100

// VariantsPerCombination is the number of shirts generated per color and size.
const VariantsPerCombination = 3

// Prices are the list prices a generated shirt can carry.
var Prices = []float64{9.99, 19.99, 29.99, 39.99, 49.99}

// Service generates the demo catalogue and loads it into the index.
type Service struct {
	catalog   Catalog
	seed      int64
	batchSize int
}

// New creates a seed service. The same seed always yields the same catalogue.
func New(catalog Catalog, seed int64) *Service {
	return &Service{catalog: catalog, seed: seed, batchSize: DefaultBatchSize}
}

// WithBatchSize configures the upsert batch size.
func (s *Service) WithBatchSize(size int) *Service {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

// Generate builds one product per color, size and variant number.
func (s *Service) Generate() ([]domprod.Product, error) {
	//nolint:gosec // demo data, not security sensitive
	rng := rand.New(rand.NewPCG(uint64(s.seed), uint64(s.seed)))

	colors := domprod.Colors()
	sizes := domprod.Sizes()
	products := make([]domprod.Product, 0, len(colors)*len(sizes)*VariantsPerCombination)

	for _, color := range colors {
		for _, size := range sizes {
			for n := 1; n <= VariantsPerCombination; n++ {
				p, err := domprod.New(
					fmt.Sprintf("%s-%s-%d", color, size, n),
					fmt.Sprintf("%s shirt %d", capitalize(string(color)), n),
					Prices[rng.IntN(len(Prices))],
					size,
					color,
					fmt.Sprintf("/%s_%d.png", color, n),
				)
				if err != nil {
					return nil, fmt.Errorf("generate product: %w", err)
				}
				products = append(products, p)
			}
		}
	}
	return products, nil
}

// Run ensures the index exists and upserts the generated catalogue in batches.
// Returns the number of products written.
func (s *Service) Run(ctx context.Context) (int, error) {
	products, err := s.Generate()
	if err != nil {
		return 0, err
	}

	if err := s.catalog.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	written := 0
	for offset := 0; offset < len(products); offset += s.batchSize {
		end := min(offset+s.batchSize, len(products))
		if err := s.catalog.Upsert(ctx, products[offset:end]); err != nil {
			return written, fmt.Errorf("upsert batch at %d: %w", offset, err)
		}
		written = end
	}
	return written, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
