package request

import (
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	"github.com/kailas-cloud/storefront/internal/domain/search/order"
)

// Request is a validated catalog filter request.
type Request struct {
	colors   []string
	sizes    []string
	minPrice float64
	maxPrice float64
	sort     order.Mode
}

// New validates raw filter selections. colors and sizes must be present (nil is
// rejected, empty is allowed), every value must belong to the catalog, price must hold
// exactly two numbers and sort must be a known mode. min <= max is not enforced.
func New(colors, sizes []string, price []float64, sort string) (Request, error) {
	if colors == nil {
		return Request{}, fmt.Errorf("%w: color is required", domain.ErrInvalidFilter)
	}
	for _, c := range colors {
		if !product.Color(c).IsValid() {
			return Request{}, fmt.Errorf("%w: unknown color %q", domain.ErrInvalidFilter, c)
		}
	}
	if sizes == nil {
		return Request{}, fmt.Errorf("%w: size is required", domain.ErrInvalidFilter)
	}
	for _, s := range sizes {
		if !product.Size(s).IsValid() {
			return Request{}, fmt.Errorf("%w: unknown size %q", domain.ErrInvalidFilter, s)
		}
	}
	if len(price) != 2 {
		return Request{}, fmt.Errorf("%w: price must be a [min, max] pair", domain.ErrInvalidFilter)
	}
	m := order.Mode(sort)
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid sort mode %q", domain.ErrInvalidFilter, sort)
	}

	return Request{
		colors:   append([]string(nil), colors...),
		sizes:    append([]string(nil), sizes...),
		minPrice: price[0],
		maxPrice: price[1],
		sort:     m,
	}, nil
}

// Colors returns the selected colors.
func (r *Request) Colors() []string { return r.colors }

// Sizes returns the selected sizes.
func (r *Request) Sizes() []string { return r.sizes }

// PriceRange returns the requested price bounds as sent.
func (r *Request) PriceRange() (minPrice, maxPrice float64) { return r.minPrice, r.maxPrice }

// Sort returns the sort mode.
func (r *Request) Sort() order.Mode { return r.sort }

// Filter builds the index filter expression for the request.
func (r *Request) Filter() filter.Expression {
	return filter.Build(r.colors, r.sizes, r.minPrice, r.maxPrice)
}
