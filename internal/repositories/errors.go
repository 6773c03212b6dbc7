package repositories

import "errors"

// Sentinel errors shared by every repository implementation. Services and
// handlers match on these with errors.Is instead of string comparison.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrDuplicateOrderID = errors.New("order id already exists")
)
