package main

import (
	"errors"
	"fmt"

	"github.com/fuzzai/fuzzai/pkg/config"
	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/input"
	"github.com/fuzzai/fuzzai/pkg/session"
	"github.com/fuzzai/fuzzai/pkg/sink"
	"github.com/fuzzai/fuzzai/pkg/ui"
	"github.com/fuzzai/fuzzai/pkg/wordlist"
)

// userErrors are configuration mistakes the operator can fix.
var userErrors = []error{
	session.ErrNoPlaceholder,
	session.ErrWordlist,
	session.ErrOutput,
	session.ErrTransport,
	wordlist.ErrEmpty,
	wordlist.ErrNoCandidate,
	wordlist.ErrUnsupportedPrompt,
	config.ErrInvalidConfig,
	config.ErrNotDirectory,
	input.ErrInvalidHeader,
	input.ErrInvalidTarget,
	sink.ErrUnknownFormat,
}

// exitCode maps err to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return defaults.ExitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return defaults.ExitUserError
		}
	}
	return defaults.ExitFailure
}

// exitWithError prints err and returns the matching exit code.
func exitWithError(err error) int {
	ui.PrintError(err.Error())
	return exitCode(err)
}

// exitWithUsage prints an error message followed by a usage hint and
// returns the user-error exit code.
func exitWithUsage(msg, usage string) int {
	ui.PrintError(msg)
	w := ui.Stderr()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:", usage)
	return defaults.ExitUserError
}
