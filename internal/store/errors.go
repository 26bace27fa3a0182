package store

import "errors"

// ErrNotFound is wrapped into errors returned when a lookup by id
// finds nothing.
var ErrNotFound = errors.New("not found")
