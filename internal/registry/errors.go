package registry

import "errors"

// ErrNotFound is returned by every provider when the requested record does
// not exist. The engine maps it onto the resource-specific NotFound error.
var ErrNotFound = errors.New("record not found")
