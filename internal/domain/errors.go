package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilter signals a filter request that failed validation.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidProduct signals a product that cannot be stored in the index.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrIndexUnavailable signals a vector index that could not be reached or rejected the query.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
