package db

import "errors"

// Sentinel errors for index operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrDimMismatch   = errors.New("db: vector dimension mismatch")
)

// Op constants name the backend call for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpPing        = "PING"

	OpQuery  = "query"
	OpUpsert = "upsert"
	OpInfo   = "info"

	OpCreateCollection = "CreateCollection"
	OpCollectionExists = "CollectionExists"
	OpCreateFieldIndex = "CreateFieldIndex"
	OpUpsertPoints     = "Upsert"
	OpSearchPoints     = "Search"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
