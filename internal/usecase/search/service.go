package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/order"
	"github.com/kailas-cloud/storefront/internal/domain/search/request"
	"github.com/kailas-cloud/storefront/internal/domain/search/result"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/observability"
)

// Service answers catalog filter queries with one nearest-neighbour lookup.
type Service struct {
	repo   Repository
	prices order.Prices
	topK   int
}

// New creates a search service. Zero prices or topK fall back to the catalog defaults.
func New(repo Repository, prices order.Prices, topK int) *Service {
	if prices.Max <= 0 {
		prices.Max = domain.DefaultMaxPrice
	}
	if prices.Avg <= 0 {
		prices.Avg = domain.DefaultAvgPrice
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Service{repo: repo, prices: prices, topK: topK}
}

// Search builds the filter expression and sort vector for req and queries the index.
// Results are returned in index order.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	ctx, span := observability.StartSearchSpan(ctx, string(req.Sort()), s.topK)
	defer span.End()

	expr := req.Filter()
	vector := req.Sort().Vector(s.prices)

	logger.FromContext(ctx).Debug("Catalog search",
		zap.String("filter", expr.String()),
		zap.Float32s("vector", vector),
		zap.Int("top_k", s.topK),
	)

	results, err := s.repo.Search(ctx, vector, expr, s.topK)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	if results == nil {
		results = []result.Result{}
	}
	return results, nil
}
