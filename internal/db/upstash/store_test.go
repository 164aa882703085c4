package upstash

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Wire shapes of the REST API, decoded independently of the SDK.
type upsertItem struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Filter          string    `json:"filter"`
}

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, err := NewStore(Config{URL: srv.URL + "/", Token: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStore_Validation(t *testing.T) {
	if _, err := NewStore(Config{Token: "x"}); err == nil {
		t.Error("expected error for missing url")
	}
	if _, err := NewStore(Config{URL: "http://x"}); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestSearchKNN_SendsQuery(t *testing.T) {
	var got queryRequest
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/query") {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write([]byte(`{"result":[
			{"id":"blue-S-1","score":0.97,"metadata":{"id":"blue-S-1","color":"blue","size":"S","price":9.99}},
			{"id":"white-S-3","score":0.5,"metadata":{"color":"white","price":39.99}}
		]}`))
	})

	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:       "products",
		Filters:         filter.Build([]string{"white", "blue"}, []string{"S"}, 0, 40),
		Vector:          []float32{0, 0, 0},
		K:               30,
		IncludeMetadata: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFilter := `(color = "white" OR color = "blue") AND (size = "S") AND (price >= 0 AND price <= 40)`
	if got.Filter != wantFilter {
		t.Errorf("filter = %s", got.Filter)
	}
	if got.TopK != 30 || !got.IncludeMetadata || len(got.Vector) != 3 {
		t.Errorf("request = %+v", got)
	}

	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("result = %+v", res)
	}
	e := res.Entries[0]
	if e.Key != "blue-S-1" || math.Abs(e.Score-0.97) > 1e-6 {
		t.Errorf("entry = %+v", e)
	}
	if e.Fields["price"] != "9.99" || e.Fields["color"] != "blue" {
		t.Errorf("fields = %v", e.Fields)
	}
}

func TestSearchKNN_EmptyResult(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	})
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "products", Vector: []float32{0, 0, 25}, K: 30,
		Filters: filter.Build(nil, nil, 0, 100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entries == nil || len(res.Entries) != 0 {
		t.Errorf("entries = %#v, want empty non-nil", res.Entries)
	}
}

func TestSearchKNN_APIError(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid filter","status":400}`))
	})
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "products", Vector: []float32{0, 0, 0}, K: 30,
	})

	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpQuery {
		t.Fatalf("expected query db.Error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid filter") {
		t.Errorf("error should carry the index message, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	if _, err := s.SearchKNN(context.Background(), &db.KNNQuery{IndexName: "p", K: 1}); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestUpsert_Namespace(t *testing.T) {
	var items []upsertItem
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upsert/shop" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write([]byte(`{"result":"Success"}`))
	}))
	defer srv.Close()

	s, err := NewStore(Config{URL: srv.URL, Token: "tok", Namespace: "shop"})
	if err != nil {
		t.Fatal(err)
	}
	err = s.Upsert(context.Background(), "products", []db.Item{{
		Key:      "green-L-2",
		Vector:   []float32{0, 0, 29.99},
		Tags:     map[string]string{"color": "green", "size": "L"},
		Numerics: map[string]float64{"price": 29.99},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "green-L-2" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Metadata["color"] != "green" || items[0].Metadata["price"] != 29.99 {
		t.Errorf("metadata = %v", items[0].Metadata)
	}
}

func TestEnsureIndex_DimensionCheck(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"vectorCount":45,"dimension":1536,"similarityFunction":"COSINE"}}`))
	})
	def := db.NewIndex("products").Tag("color").VectorFlat("__vector", "vector", 3, db.DistanceL2).MustBuild()

	err := s.EnsureIndex(context.Background(), def)
	if !errors.Is(err, db.ErrDimMismatch) {
		t.Fatalf("expected ErrDimMismatch, got %v", err)
	}
}

func TestEnsureIndex_OK(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"vectorCount":0,"dimension":3,"similarityFunction":"EUCLIDEAN"}}`))
	})
	def := db.NewIndex("products").Tag("color").VectorFlat("__vector", "vector", 3, db.DistanceL2).MustBuild()
	if err := s.EnsureIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"result":[]}`))
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SearchKNN(ctx, &db.KNNQuery{IndexName: "products", Vector: []float32{0, 0, 0}, K: 30})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForReady(t *testing.T) {
	var calls atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result":{"dimension":3}}`))
	})
	if err := s.WaitForReady(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlattenMetadata(t *testing.T) {
	got := flattenMetadata(map[string]any{"s": "x", "n": 40.0, "b": true, "z": nil})
	if got["s"] != "x" || got["n"] != "40" || got["b"] != "true" {
		t.Errorf("flatten = %v", got)
	}
	if _, ok := got["z"]; ok {
		t.Error("nil values should be dropped")
	}
	if flattenMetadata(nil) != nil {
		t.Error("nil metadata should stay nil")
	}
}
