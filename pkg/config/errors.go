package config

import "errors"

// Sentinel errors for configuration failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidConfig indicates the settings file could not be parsed or
	// holds values that make no sense (negative threads, etc.).
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrNotDirectory indicates a path that must name a directory does not.
	ErrNotDirectory = errors.New("config: not a directory")
)
