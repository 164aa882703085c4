package product

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/storefront/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Color is a product color offered by the storefront.
type Color string

// Catalog colors.
const (
	White  Color = "white"
	Beige  Color = "beige"
	Blue   Color = "blue"
	Green  Color = "green"
	Purple Color = "purple"
)

// Colors returns every catalog color in display order.
func Colors() []Color {
	return []Color{White, Beige, Blue, Green, Purple}
}

// IsValid reports whether c is a catalog color.
func (c Color) IsValid() bool {
	switch c {
	case White, Beige, Blue, Green, Purple:
		return true
	}
	return false
}

// Size is a product size.
type Size string

// Catalog sizes.
const (
	Small  Size = "S"
	Medium Size = "M"
	Large  Size = "L"
)

// Sizes returns every catalog size in display order.
func Sizes() []Size {
	return []Size{Small, Medium, Large}
}

// IsValid reports whether s is a catalog size.
func (s Size) IsValid() bool {
	return s == Small || s == Medium || s == Large
}

// Product is a catalog item as stored in the vector index metadata.
type Product struct {
	id      string
	name    string
	price   float64
	size    Size
	color   Color
	imageID string
}

// New validates and creates a Product.
func New(id, name string, price float64, size Size, color Color, imageID string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: id is required", domain.ErrInvalidProduct)
	}
	if len(id) > 256 || !idRegex.MatchString(id) {
		return Product{}, fmt.Errorf("%w: id %q must be alphanumeric with underscores and hyphens", domain.ErrInvalidProduct, id)
	}
	if name == "" {
		return Product{}, fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	}
	if price < 0 {
		return Product{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidProduct)
	}
	if !size.IsValid() {
		return Product{}, fmt.Errorf("%w: unknown size %q", domain.ErrInvalidProduct, size)
	}
	if !color.IsValid() {
		return Product{}, fmt.Errorf("%w: unknown color %q", domain.ErrInvalidProduct, color)
	}
	return Product{id: id, name: name, price: price, size: size, color: color, imageID: imageID}, nil
}

// Reconstruct creates a Product without validation (index hydration).
func Reconstruct(id, name string, price float64, size Size, color Color, imageID string) Product {
	return Product{id: id, name: name, price: price, size: size, color: color, imageID: imageID}
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Name returns the display name.
func (p Product) Name() string { return p.name }

// Price returns the price in dollars.
func (p Product) Price() float64 { return p.price }

// Size returns the product size.
func (p Product) Size() Size { return p.size }

// Color returns the product color.
func (p Product) Color() Color { return p.color }

// ImageID returns the image reference.
func (p Product) ImageID() string { return p.imageID }

// Vector returns the embedding stored for the product. Only the price component carries
// information, which lets a nearest-neighbour query order results by price.
func (p Product) Vector() []float32 {
	v := make([]float32, domain.VectorDim)
	v[domain.SortComponent] = float32(p.price)
	return v
}
