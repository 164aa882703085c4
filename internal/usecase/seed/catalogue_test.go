package seed_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/storefront/internal/db/memory"
	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	productrepo "github.com/kailas-cloud/storefront/internal/repository/product"
	"github.com/kailas-cloud/storefront/internal/usecase/seed"
)

// Every seeded shirt matching a color/size selection must come back from the
// in-memory index, whatever prices the seed happened to draw.
func TestRun_MemoryIndexReturnsEveryMatch(t *testing.T) {
	ctx := context.Background()
	sortVectors := [][]float32{{0, 0, 0}, {0, 0, 25}, {0, 0, 50}}

	for _, limit := range []int{memory.DefaultExactScanLimit, 0} {
		for rs := int64(0); rs < 20; rs++ {
			t.Run(fmt.Sprintf("limit=%d/seed=%d", limit, rs), func(t *testing.T) {
				repo := productrepo.New(memory.NewStore().WithExactScanLimit(limit), "products")
				svc := seed.New(repo, rs)
				if _, err := svc.Run(ctx); err != nil {
					t.Fatalf("seed: %v", err)
				}
				products, err := svc.Generate()
				if err != nil {
					t.Fatal(err)
				}

				for _, c := range domprod.Colors() {
					for _, sz := range domprod.Sizes() {
						want := 0
						for _, p := range products {
							if p.Color() == c && p.Size() == sz {
								want++
							}
						}
						expr := filter.Build([]string{string(c)}, []string{string(sz)}, 0, 100)
						for _, v := range sortVectors {
							got, err := repo.Search(ctx, v, expr, 30)
							if err != nil {
								t.Fatalf("search: %v", err)
							}
							if len(got) != want {
								t.Errorf("%s/%s v=%v: got %d products, want %d", c, sz, v[2], len(got), want)
							}
						}
					}
				}
			})
		}
	}
}
