// Package memory implements db.Store as an in-process HNSW index for local
// development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/coder/hnsw"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type record struct {
	vector   []float32
	tags     map[string]string
	numerics map[string]float64
}

type index struct {
	dim     int
	graph   *hnsw.Graph[string]
	records map[string]record
}

// DefaultExactScanLimit is the index size up to which searches scan every record
// instead of walking the graph.
const DefaultExactScanLimit = 1024

// Store keeps every index in memory. Writes take mu exclusively; searches share it.
type Store struct {
	mu        sync.RWMutex
	indexes   map[string]*index
	exactScan int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{indexes: make(map[string]*index), exactScan: DefaultExactScanLimit}
}

// WithExactScanLimit sets the index size up to which searches are exact. Zero always
// walks the graph first.
func (s *Store) WithExactScanLimit(n int) *Store {
	s.exactScan = max(n, 0)
	return s
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// WaitForReady always succeeds.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Close drops all indexes.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes = make(map[string]*index)
}

// EnsureIndex creates an empty index for def unless one exists.
func (s *Store) EnsureIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	vf, ok := def.VectorField()
	if !ok {
		return fmt.Errorf("index %s: vector field is required", def.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indexes[def.Name]; ok {
		return nil
	}

	g := hnsw.NewGraph[string]()
	g.Distance = hnsw.EuclideanDistance
	if vf.VectorM > 0 {
		g.M = vf.VectorM
	}
	s.indexes[def.Name] = &index{
		dim:     vf.VectorDim,
		graph:   g,
		records: make(map[string]record),
	}
	return nil
}

// Upsert adds or replaces records. A replaced vector is re-linked in the graph.
func (s *Store) Upsert(_ context.Context, name string, items []db.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[name]
	if !ok {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("%s: %w", name, db.ErrIndexNotFound)}
	}

	for i := range items {
		if len(items[i].Vector) != idx.dim {
			return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("key %s: %w: got %d, want %d",
				items[i].Key, db.ErrDimMismatch, len(items[i].Vector), idx.dim)}
		}
	}

	for i := range items {
		item := &items[i]
		vec := slices.Clone(item.Vector)
		prev, exists := idx.records[item.Key]
		if !exists || !slices.Equal(prev.vector, vec) {
			if exists {
				idx.graph.Delete(item.Key)
			}
			idx.graph.Add(hnsw.MakeNode(item.Key, vec))
		}
		idx.records[item.Key] = record{
			vector:   vec,
			tags:     cloneMap(item.Tags),
			numerics: cloneMap(item.Numerics),
		}
	}
	return nil
}

// SearchKNN returns the K nearest records that pass the filter. Small indexes are
// scanned exactly; larger ones walk the graph and fall back to a scan when the walk
// comes up short.
func (s *Store) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("%s: %w", q.IndexName, db.ErrIndexNotFound)}
	}
	if len(q.Vector) != idx.dim {
		return nil, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("%w: got %d, want %d",
			db.ErrDimMismatch, len(q.Vector), idx.dim)}
	}

	total := idx.graph.Len()
	if total == 0 || !q.Filters.Satisfiable() {
		return &db.SearchResult{Entries: []db.SearchEntry{}}, nil
	}

	var entries []db.SearchEntry
	if total > s.exactScan {
		entries = graphSearch(idx, q, total)
	}
	// The graph walk is approximate and misses nodes when many vectors coincide.
	if len(entries) < q.K {
		entries = scan(idx, q)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > q.K {
		entries = entries[:q.K]
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// graphSearch walks the graph with a growing candidate window until K records pass
// the filter or the window covers the whole index.
func graphSearch(idx *index, q *db.KNNQuery, total int) []db.SearchEntry {
	var entries []db.SearchEntry
	for window := min(q.K*4, total); ; window = min(window*2, total) {
		entries = entries[:0]
		for _, node := range idx.graph.Search(q.Vector, window) {
			if rec, ok := idx.records[node.Key]; ok && matches(q.Filters, rec) {
				entries = append(entries, entryOf(node.Key, rec, q))
			}
		}
		if len(entries) >= q.K || window >= total {
			return entries
		}
	}
}

// scan scores every record that passes the filter.
func scan(idx *index, q *db.KNNQuery) []db.SearchEntry {
	entries := make([]db.SearchEntry, 0, min(len(idx.records), q.K))
	for key, rec := range idx.records {
		if matches(q.Filters, rec) {
			entries = append(entries, entryOf(key, rec, q))
		}
	}
	return entries
}

func entryOf(key string, rec record, q *db.KNNQuery) db.SearchEntry {
	entry := db.SearchEntry{
		Key:   key,
		Score: db.DistanceToScore(float64(hnsw.EuclideanDistance(q.Vector, rec.vector))),
	}
	if q.IncludeMetadata {
		entry.Fields = fieldsOf(rec)
	}
	return entry
}

// matches evaluates the expression against one record: every clause must hold.
func matches(expr filter.Expression, rec record) bool {
	for _, c := range expr.Clauses() {
		if c.IsRange() {
			v, ok := rec.numerics[c.Key()]
			if !ok || !c.Range().Contains(v) {
				return false
			}
			continue
		}
		v, ok := rec.tags[c.Key()]
		if !ok || !slices.Contains(c.Values(), v) {
			return false
		}
	}
	return true
}

func fieldsOf(rec record) map[string]string {
	out := make(map[string]string, len(rec.tags)+len(rec.numerics))
	for k, v := range rec.tags {
		out[k] = v
	}
	for k, v := range rec.numerics {
		out[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
