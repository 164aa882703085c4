package upstash

import (
	"context"
	"fmt"
	"strconv"

	vector "github.com/upstash/vector-go"

	"github.com/kailas-cloud/storefront/internal/db"
)

// Upsert writes items with their tags and numerics as metadata.
func (s *Store) Upsert(ctx context.Context, _ string, items []db.Item) error {
	if len(items) == 0 {
		return nil
	}

	upserts := make([]vector.Upsert, len(items))
	for i := range items {
		item := &items[i]
		meta := make(map[string]any, len(item.Tags)+len(item.Numerics))
		for k, v := range item.Tags {
			meta[k] = v
		}
		for k, v := range item.Numerics {
			meta[k] = v
		}
		upserts[i] = vector.Upsert{Id: item.Key, Vector: item.Vector, Metadata: meta}
	}

	_, err := call(ctx, func() (struct{}, error) {
		return struct{}{}, s.data.UpsertMany(upserts)
	})
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// SearchKNN sends one query with the expression rendered in the hosted filter syntax.
// Scores are passed through as the index reports them.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	query := vector.Query{
		Vector:          q.Vector,
		TopK:            q.K,
		IncludeMetadata: q.IncludeMetadata,
		Filter:          q.Filters.String(),
	}
	hits, err := call(ctx, func() ([]vector.VectorScore, error) {
		return s.data.Query(query)
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(hits))
	for _, h := range hits {
		entries = append(entries, db.SearchEntry{
			Key:    h.Id,
			Score:  float64(h.Score),
			Fields: flattenMetadata(h.Metadata),
		})
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func flattenMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
