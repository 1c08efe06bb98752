package storage

import "errors"

// ErrNotFound is returned by Load when no document exists under the key.
var ErrNotFound = errors.New("snapshot not found")
