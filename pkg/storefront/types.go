package storefront

import (
	"fmt"
	"strings"
)

// SortMode is the shopper's sort preference.
type SortMode string

// Sort modes accepted by the API.
const (
	SortNone      SortMode = "none"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// Catalog values offered by the storefront filter panel.
var (
	Colors = []string{"beige", "blue", "green", "purple", "white"}
	Sizes  = []string{"S", "M", "L"}
)

// FilterRequest is one product query. Empty Color or Size selects nothing.
type FilterRequest struct {
	Color []string   `json:"color"`
	Size  []string   `json:"size"`
	Price [2]float64 `json:"price"`
	Sort  SortMode   `json:"sort"`
}

// Product is the metadata stored with each index record.
type Product struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Size    string  `json:"size"`
	Color   string  `json:"color"`
	ImageID string  `json:"imageId"`
}

// Caption renders the product card subtitle, e.g. "Size M, blue".
func (p Product) Caption() string {
	return fmt.Sprintf("Size %s, %s", strings.ToUpper(p.Size), p.Color)
}

// Result is one hit of a product query.
type Result struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Metadata Product `json:"metadata"`
}

type productsBody struct {
	Filter FilterRequest `json:"filter"`
}
