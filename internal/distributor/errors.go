package distributor

import "errors"

var (
	// ErrEmptyCatalog is returned when no transformer types are configured.
	ErrEmptyCatalog = errors.New("transformer type catalog must contain at least one type")
	// ErrInvalidCatalog is returned when a catalog entry has a non-positive
	// capacity, safe load, or breaker count.
	ErrInvalidCatalog = errors.New("transformer types must have positive capacity, safe load, and breaker count")
)
