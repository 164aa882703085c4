// Package upstash implements db.Store on top of the Upstash Vector SDK.
package upstash

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	vector "github.com/upstash/vector-go"

	"github.com/kailas-cloud/storefront/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultRequestTimeout = 10 * time.Second

// Config holds connection parameters for an Upstash Vector index.
type Config struct {
	URL   string
	Token string
	// Namespace selects a namespace inside the index. Empty means the default namespace.
	Namespace string
	Timeout   time.Duration
}

// vectors is the data-plane subset shared by the index and its namespaces.
type vectors interface {
	UpsertMany(upserts []vector.Upsert) error
	Query(q vector.Query) ([]vector.VectorScore, error)
}

// Store talks to one hosted index. The index is provisioned out of band and addressed
// by URL, so logical index names are ignored.
type Store struct {
	index  *vector.Index
	data   vectors
	client *http.Client
}

// NewStore creates an Upstash Vector store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("url is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("token is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := &http.Client{Timeout: timeout}
	index := vector.NewIndexWith(vector.Options{
		Url:    strings.TrimRight(cfg.URL, "/"),
		Token:  cfg.Token,
		Client: client,
	})

	s := &Store{index: index, data: index, client: client}
	if cfg.Namespace != "" {
		s.data = index.Namespace(cfg.Namespace)
	}
	return s, nil
}

// Ping checks that the index answers /info.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.info(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() {
	s.client.CloseIdleConnections()
}

// WaitForReady polls Ping until the index responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for vector index: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// call runs one SDK request and returns early when ctx ends first. The SDK call
// itself is bounded by the client timeout.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v, err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case o := <-done:
		return o.val, o.err
	}
}
