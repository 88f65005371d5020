package store

import "errors"

// ErrNotFound is returned when a record or object does not exist.
var ErrNotFound = errors.New("not found")
