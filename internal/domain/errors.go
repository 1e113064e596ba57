package domain

import "errors"

var (
	// ErrNotFound means the product id is absent from one or both mappings.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation means a tool was called with malformed arguments.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrComputation means policy data makes the arithmetic undefined (e.g. maxStock = 0).
	ErrComputation = errors.New("computation error")
	// ErrInvalidDataset means a loaded dataset failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")
)
