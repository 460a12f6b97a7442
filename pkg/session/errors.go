package session

import "errors"

// Configuration errors. All are reported before any request is sent.
var (
	// ErrNoPlaceholder indicates the URL template lacks the keyword.
	ErrNoPlaceholder = errors.New("session: URL template does not contain the placeholder")

	// ErrWordlist indicates the wordlist could not be read or was empty.
	ErrWordlist = errors.New("session: wordlist unavailable")

	// ErrOutput indicates the output file could not be created.
	ErrOutput = errors.New("session: output unavailable")

	// ErrTransport indicates the HTTP client could not be built, usually
	// because of a bad proxy URL.
	ErrTransport = errors.New("session: transport unavailable")
)
