// Package instrumented decorates a vector index store with metrics, spans and logs.
package instrumented

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/metrics"
	"github.com/kailas-cloud/storefront/internal/observability"
)

// Store wraps a db.Store and records per-driver index metrics.
type Store struct {
	inner  db.Store
	driver string
	logger *zap.Logger
}

var _ db.Store = (*Store)(nil)

// New wraps inner. driver labels every metric and span.
func New(inner db.Store, driver string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{inner: inner, driver: driver, logger: logger}
}

// Ping delegates to the inner store.
func (s *Store) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// WaitForReady delegates to the inner store.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.inner.WaitForReady(ctx, timeout)
}

// Close delegates to the inner store.
func (s *Store) Close() {
	s.inner.Close()
}

// EnsureIndex creates the index and logs the outcome.
func (s *Store) EnsureIndex(ctx context.Context, def *db.IndexDefinition) error {
	ctx, span := observability.StartIndexSpan(ctx, "ensure_index", s.driver, def.Name)
	defer span.End()

	if err := s.inner.EnsureIndex(ctx, def); err != nil {
		observability.RecordError(span, err)
		s.logger.Error("Ensure index failed",
			zap.String("driver", s.driver),
			zap.String("index", def.Name),
			zap.Error(err),
		)
		return err
	}
	s.logger.Debug("Index ready", zap.String("driver", s.driver), zap.String("index", def.Name))
	return nil
}

// Upsert writes items and counts them by outcome.
func (s *Store) Upsert(ctx context.Context, index string, items []db.Item) error {
	ctx, span := observability.StartIndexSpan(ctx, "upsert", s.driver, index)
	defer span.End()

	start := time.Now()
	err := s.inner.Upsert(ctx, index, items)
	metrics.IndexUpsertedTotal.WithLabelValues(s.driver, metrics.Status(err)).Add(float64(len(items)))

	if err != nil {
		observability.RecordError(span, err)
		s.logger.Error("Index upsert failed",
			zap.String("driver", s.driver),
			zap.String("index", index),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("Index upsert completed",
		zap.String("driver", s.driver),
		zap.String("index", index),
		zap.Int("items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// SearchKNN runs the query and records latency, status and result count.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	ctx, span := observability.StartIndexSpan(ctx, "search", s.driver, q.IndexName)
	defer span.End()

	start := time.Now()
	res, err := s.inner.SearchKNN(ctx, q)
	duration := time.Since(start)

	metrics.IndexQueriesTotal.WithLabelValues(s.driver, metrics.Status(err)).Inc()
	metrics.IndexQueryDuration.WithLabelValues(s.driver).Observe(duration.Seconds())

	if err != nil {
		observability.RecordError(span, err)
		s.logger.Error("Index query failed",
			zap.String("driver", s.driver),
			zap.String("index", q.IndexName),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.IndexResults.WithLabelValues(s.driver).Observe(float64(len(res.Entries)))
	s.logger.Debug("Index query completed",
		zap.String("driver", s.driver),
		zap.String("index", q.IndexName),
		zap.String("filter", q.Filters.String()),
		zap.Int("k", q.K),
		zap.Int("results", len(res.Entries)),
		zap.Duration("duration", duration),
	)
	return res, nil
}
