package chi

import "github.com/kailas-cloud/storefront/internal/domain/search/result"

// FilterBody is the shopper's filter selection as sent by the storefront.
// Nil slices mean the field was absent or null; empty slices are explicit "none".
type FilterBody struct {
	Color []string  `json:"color"`
	Size  []string  `json:"size"`
	Price []float64 `json:"price"`
	Sort  string    `json:"sort"`
}

// ProductsRequest is the POST /api/products body.
type ProductsRequest struct {
	Filter *FilterBody `json:"filter"`
}

// ProductMetadata is the product stored alongside each index record.
type ProductMetadata struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Size    string  `json:"size"`
	Color   string  `json:"color"`
	ImageID string  `json:"imageId"`
}

// ProductResult is one entry of the product list response.
type ProductResult struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"`
	Metadata ProductMetadata `json:"metadata"`
}

// ErrorResponse is the body of every failed product query.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// internalErrorMessage is the only error text the product endpoint exposes.
const internalErrorMessage = "Internal Server error occurred"

func resultToDTO(r *result.Result) ProductResult {
	p := r.Product()
	return ProductResult{
		ID:    r.ID(),
		Score: r.Score(),
		Metadata: ProductMetadata{
			ID:      p.ID(),
			Name:    p.Name(),
			Price:   p.Price(),
			Size:    string(p.Size()),
			Color:   string(p.Color()),
			ImageID: p.ImageID(),
		},
	}
}
