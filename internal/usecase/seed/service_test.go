package seed

import (
	"context"
	"errors"
	"slices"
	"testing"

	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
)

// --- Mocks ---

type mockCatalog struct {
	ensureErr error
	upsertErr error
	ensured   bool
	batches   [][]domprod.Product
}

func (m *mockCatalog) EnsureIndex(_ context.Context) error {
	m.ensured = true
	return m.ensureErr
}

func (m *mockCatalog) Upsert(_ context.Context, products []domprod.Product) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.batches = append(m.batches, slices.Clone(products))
	return nil
}

// --- Tests ---

func TestGenerate_Catalogue(t *testing.T) {
	products, err := New(&mockCatalog{}, 42).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 45 {
		t.Fatalf("expected 45 products, got %d", len(products))
	}

	first := products[0]
	if first.ID() != "white-S-1" {
		t.Errorf("first id = %q", first.ID())
	}
	if first.Name() != "White shirt 1" {
		t.Errorf("first name = %q", first.Name())
	}
	if first.ImageID() != "/white_1.png" {
		t.Errorf("first image = %q", first.ImageID())
	}

	ids := make(map[string]bool, len(products))
	for _, p := range products {
		if ids[p.ID()] {
			t.Errorf("duplicate id %q", p.ID())
		}
		ids[p.ID()] = true
		if !slices.Contains(Prices, p.Price()) {
			t.Errorf("%s: unexpected price %v", p.ID(), p.Price())
		}
		if v := p.Vector(); v[2] != float32(p.Price()) {
			t.Errorf("%s: sort component %v != price %v", p.ID(), v[2], p.Price())
		}
	}
	if !ids["purple-L-3"] {
		t.Error("expected purple-L-3 in catalogue")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, _ := New(&mockCatalog{}, 7).Generate()
	b, _ := New(&mockCatalog{}, 7).Generate()

	for i := range a {
		if a[i].Price() != b[i].Price() {
			t.Fatalf("product %d: prices differ for same seed: %v vs %v", i, a[i].Price(), b[i].Price())
		}
	}
}

func TestRun_Batches(t *testing.T) {
	cat := &mockCatalog{}
	n, err := New(cat, 42).WithBatchSize(20).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 45 {
		t.Errorf("expected 45 written, got %d", n)
	}
	if !cat.ensured {
		t.Error("expected EnsureIndex before upserts")
	}
	sizes := make([]int, len(cat.batches))
	for i, b := range cat.batches {
		sizes[i] = len(b)
	}
	if !slices.Equal(sizes, []int{20, 20, 5}) {
		t.Errorf("batch sizes = %v, want [20 20 5]", sizes)
	}
}

func TestRun_DefaultBatchSingleCall(t *testing.T) {
	cat := &mockCatalog{}
	if _, err := New(cat, 1).WithBatchSize(0).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.batches) != 1 {
		t.Errorf("expected one batch, got %d", len(cat.batches))
	}
}

func TestRun_EnsureIndexError(t *testing.T) {
	cat := &mockCatalog{ensureErr: errors.New("dim mismatch")}
	n, err := New(cat, 42).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 0 || len(cat.batches) != 0 {
		t.Errorf("expected no writes, got n=%d batches=%d", n, len(cat.batches))
	}
}

func TestRun_UpsertError(t *testing.T) {
	boom := errors.New("boom")
	cat := &mockCatalog{upsertErr: boom}
	_, err := New(cat, 42).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
