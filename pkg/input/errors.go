package input

import "errors"

var (
	// ErrInvalidHeader indicates a header not in "Name: value" form.
	ErrInvalidHeader = errors.New("input: invalid header")

	// ErrInvalidTarget indicates a target URL that cannot be fuzzed.
	ErrInvalidTarget = errors.New("input: invalid target")
)
