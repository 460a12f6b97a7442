package filter

import "errors"

// ErrInvalidValue is returned by ParseSet when a CSV token is not an integer.
var ErrInvalidValue = errors.New("filter: invalid value")
