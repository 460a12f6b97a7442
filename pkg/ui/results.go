package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/fuzz"
)

// FormatFuzzResult renders one displayed result.
// Format: 200  https://t/admin  [Size: 12, Words: 2, Lines: 1]
func FormatFuzzResult(url string, resp filter.Response) string {
	var b strings.Builder
	b.WriteString(StatusCodeStyle(resp.StatusCode).Render(fmt.Sprintf("%-3d", resp.StatusCode)))
	b.WriteString("  ")
	b.WriteString(URLStyle.Render(url))
	b.WriteString("  ")
	b.WriteString(BracketStyle.Render("["))
	fmt.Fprintf(&b, "Size: %d, Words: %d, Lines: %d", resp.Size, resp.Words, resp.Lines)
	b.WriteString(BracketStyle.Render("]"))
	return b.String()
}

// PrintResult writes a result line to stdout. Results are printed even in
// silent mode.
func PrintResult(r *fuzz.Result) {
	w := Stdout()
	line := FormatFuzzResult(r.URL, r.Response)
	if IsTerminal(w) {
		// Overwrite any progress line sharing the terminal.
		line = "\r\033[K" + line
	}
	fmt.Fprintln(w, line)
}

// FormatElapsed renders d as seconds with two decimals.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// PrintStats prints the end-of-run statistics block
func PrintStats(s *fuzz.Stats) {
	if s == nil {
		return
	}
	w := Stderr()
	fmt.Fprintln(w)
	fmt.Fprintln(w, DividerStyle.Render(separator))
	fmt.Fprintln(w, SectionStyle.Render("Statistics:"))
	printStat("Total requests", fmt.Sprintf("%d", s.TotalWords))
	printStat("Results found", SuccessStyle.Render(fmt.Sprintf("%d", s.Displayed)))
	printStat("Filtered out", fmt.Sprintf("%d", s.Filtered))
	if s.Errors > 0 {
		printStat("Errors", WarningStyle.Render(fmt.Sprintf("%d", s.Errors)))
	}
	printStat("Elapsed time", FormatElapsed(s.Elapsed()))
	printStat("Requests/sec", fmt.Sprintf("%.1f", s.RequestsPerSec()))
	if s.Interrupted {
		printStat("Status", WarningStyle.Render(fmt.Sprintf("interrupted after %d/%d", s.Processed(), s.TotalWords)))
	}
	fmt.Fprintln(w, DividerStyle.Render(separator))
}

func printStat(label, value string) {
	fmt.Fprintf(Stderr(), "  %s %s\n", StatLabelStyle.Render(fmt.Sprintf("%-18s", label+":")), value)
}
