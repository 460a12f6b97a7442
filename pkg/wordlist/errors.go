package wordlist

import "errors"

var (
	// ErrEmpty is returned when a wordlist holds no usable lines.
	ErrEmpty = errors.New("wordlist: empty wordlist")

	// ErrNoCandidate is returned when no known wordlist fits a prompt.
	ErrNoCandidate = errors.New("wordlist: no suitable wordlist found")

	// ErrUnsupportedPrompt is returned by Generate for prompts it cannot
	// turn into words.
	ErrUnsupportedPrompt = errors.New("wordlist: cannot generate words for prompt")
)
