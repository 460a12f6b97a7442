package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fuzzai/fuzzai/pkg/defaults"
)

// Build metadata, overridable via ldflags:
// go build -ldflags "-X github.com/fuzzai/fuzzai/pkg/ui.Commit=abc123"
var (
	BuildDate = "unknown"
	Commit    = "dev"
)

// Global UI state
var (
	silentMode  bool
	noColorMode bool
	stderr      io.Writer = os.Stderr
	stdout      io.Writer = os.Stdout
	uiMu        sync.RWMutex
)

// SetSilent enables or disables silent mode (suppresses banner and
// informational output; results are still printed)
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

// SetOutput redirects result output (out) and diagnostic output (errOut).
// A nil writer leaves that stream unchanged.
func SetOutput(out, errOut io.Writer) {
	uiMu.Lock()
	defer uiMu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Stdout returns the writer results are printed to.
func Stdout() io.Writer {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return stdout
}

// Stderr returns the writer diagnostics are printed to.
func Stderr() io.Writer {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return stderr
}

const bannerArt = `
 ___ _   _ ___ ___  _   ___
| __| | | |_  )_  )/_\ |_ _|
| _|| |_| |/ / / // _ \ | |
|_|  \___//___/___/_/ \_\___|
`

const separator = "________________________________________________"

// PrintBanner prints the application banner with version info
func PrintBanner() {
	if IsSilent() {
		return
	}
	w := Stderr()
	for _, line := range strings.Split(bannerArt, "\n") {
		if line != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "        AI-assisted web fuzzer %s\n\n", VersionStyle.Render("v"+defaults.Version))
}

// PrintDivider prints a stylized divider
func PrintDivider() {
	if IsSilent() {
		return
	}
	fmt.Fprintln(Stderr(), DividerStyle.Render(separator))
}

// PrintSection prints a section header
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	w := Stderr()
	fmt.Fprintln(w)
	fmt.Fprintln(w, SectionStyle.Render(":: "+title))
}

// PrintConfigLine prints a single config line
// Format:  :: Key              : Value
func PrintConfigLine(key, value string) {
	if IsSilent() || value == "" {
		return
	}
	fmt.Fprintf(Stderr(), " :: %s : %s\n",
		ConfigLabelStyle.Render(fmt.Sprintf("%-16s", key)),
		ConfigValueStyle.Render(value),
	)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(Stderr(), SuccessStyle.Render("[+]")+" "+message)
}

// PrintError prints an error message. Errors are shown even in silent mode.
func PrintError(message string) {
	fmt.Fprintln(Stderr(), ErrorStyle.Render("[X]")+" "+message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(Stderr(), WarningStyle.Render("[!]")+" "+message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(Stderr(), InfoStyle.Render("[*]")+" "+message)
}
