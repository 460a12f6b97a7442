package defaults

// Exit codes for the CLI.
const (
	ExitSuccess     = 0   // Run completed
	ExitFailure     = 1   // Unexpected runtime failure
	ExitUserError   = 2   // Invalid arguments, template, wordlist or output file
	ExitInterrupted = 130 // Operator interrupt, stats were still reported
)
