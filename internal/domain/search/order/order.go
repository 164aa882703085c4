package order

import "github.com/kailas-cloud/storefront/internal/domain"

// Mode is the shopper's sort preference.
type Mode string

// Sort mode constants.
const (
	None      Mode = "none"
	PriceAsc  Mode = "price-asc"
	PriceDesc Mode = "price-desc"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == None || m == PriceAsc || m == PriceDesc
}

// Prices are the reference points the sort component is anchored to.
type Prices struct {
	Max float64
	Avg float64
}

// DefaultPrices returns the catalog reference prices.
func DefaultPrices() Prices {
	return Prices{Max: domain.DefaultMaxPrice, Avg: domain.DefaultAvgPrice}
}

// Vector returns the query vector for the mode. Products store their price in the
// sort component, so querying near 0 yields the cheapest first, near Max the most
// expensive first, and near Avg a price-neutral mix.
func (m Mode) Vector(p Prices) []float32 {
	v := make([]float32, domain.VectorDim)
	switch m {
	case PriceAsc:
		v[domain.SortComponent] = 0
	case PriceDesc:
		v[domain.SortComponent] = float32(p.Max)
	default:
		v[domain.SortComponent] = float32(p.Avg)
	}
	return v
}
