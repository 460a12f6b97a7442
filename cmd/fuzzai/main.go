// Command fuzzai discovers content on web servers by substituting wordlist
// entries into a URL template.
package main

import (
	"fmt"
	"os"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches a subcommand and returns the exit code. Arguments that do
// not name a subcommand are handed to fuzz.
func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return defaults.ExitUserError
	}

	switch args[0] {
	case "fuzz":
		return runFuzz(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version", "-version", "--version":
		printVersion()
		return defaults.ExitSuccess
	case "help", "-h", "--help":
		printUsage()
		return defaults.ExitSuccess
	default:
		return runFuzz(args)
	}
}

func printVersion() {
	fmt.Fprintf(ui.Stdout(), "%s v%s (commit %s, built %s)\n", defaults.ToolName, defaults.Version, ui.Commit, ui.BuildDate)
}

func printUsage() {
	w := ui.Stderr()
	fmt.Fprintf(w, `%s v%s - AI-assisted web fuzzer

Usage:
  %[1]s [fuzz] -u URL (-w WORDLIST | -ai PROMPT | -gen PROMPT) [options]
  %[1]s config [-seclists DIR] [-add-path DIR] [-show] [-json]
  %[1]s version

Examples:
  %[1]s -u https://example.com/FUZZ -w common.txt -fc 404
  %[1]s -u https://FUZZ.example.com -ai "subdomains" -t 50
  %[1]s -u https://example.com/api/users/FUZZ -gen "numbers 1-1000" -mc 200

Run '%[1]s fuzz -h' for all fuzzing options.
`, defaults.ToolName, defaults.Version)
}
