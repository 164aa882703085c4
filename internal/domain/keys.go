package domain

// KeyPrefix namespaces every key the service writes to a shared key-value backend.
const KeyPrefix = "storefront:"

// Query vector layout: two unused placeholders followed by the sort component.
const (
	VectorDim     = 3
	SortComponent = 2
)

// Catalog query defaults.
const (
	DefaultTopK     = 30
	DefaultMaxPrice = 50
	DefaultAvgPrice = 25
)
