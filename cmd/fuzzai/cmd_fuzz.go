package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fuzzai/fuzzai/pkg/config"
	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
	"github.com/fuzzai/fuzzai/pkg/filter"
	"github.com/fuzzai/fuzzai/pkg/fuzz"
	"github.com/fuzzai/fuzzai/pkg/input"
	"github.com/fuzzai/fuzzai/pkg/metrics"
	"github.com/fuzzai/fuzzai/pkg/probe"
	"github.com/fuzzai/fuzzai/pkg/session"
	"github.com/fuzzai/fuzzai/pkg/tracing"
	"github.com/fuzzai/fuzzai/pkg/ui"
	"github.com/fuzzai/fuzzai/pkg/wordlist"
)

const fuzzUsage = "fuzzai fuzz -u https://example.com/FUZZ -w wordlist.txt [options]"

// generatedDir is where -gen and numeric -ai prompts write their lists.
var generatedDir = filepath.Join("wordlists", "generated")

// fuzzFlags holds the parsed fuzz command line.
type fuzzFlags struct {
	target    string
	wordlist  string
	aiPrompt  string
	genPrompt string

	threads  int
	timeout  int
	delay    time.Duration
	method   string
	data     string
	headers  input.HeaderFlag
	insecure bool
	redirect bool
	proxy    string
	noProbe  bool

	filters filter.Options

	output       string
	outputFormat string

	verbose bool
	noColor bool
	silent  bool

	metricsAddr  string
	otelEndpoint string
	otelInsecure bool

	set map[string]bool
}

func parseFuzzFlags(args []string) (*fuzzFlags, error) {
	f := &fuzzFlags{}
	fs := flag.NewFlagSet("fuzz", flag.ContinueOnError)
	fs.SetOutput(ui.Stderr())

	// Target and wordlist
	fs.StringVar(&f.target, "u", "", "Target URL containing the FUZZ keyword")
	fs.StringVar(&f.wordlist, "w", "", "Wordlist file or URL")
	fs.StringVar(&f.aiPrompt, "ai", "", "Describe the wordlist to pick, e.g. \"admin panels\"")
	fs.StringVar(&f.genPrompt, "gen", "", "Generate a wordlist, e.g. \"numbers 1-500\"")

	// Execution
	fs.IntVar(&f.threads, "t", defaults.Concurrency, "Number of concurrent threads")
	fs.IntVar(&f.timeout, "timeout", int(duration.Request/time.Second), "Request timeout in seconds")
	fs.DurationVar(&f.delay, "delay", 0, "Delay after each request per thread (e.g. 100ms)")
	fs.BoolVar(&f.noProbe, "no-probe", false, "Skip the reachability check")

	// Request
	fs.StringVar(&f.method, "X", defaults.Method, "HTTP method")
	fs.StringVar(&f.data, "d", "", "Request body (may contain FUZZ)")
	fs.Var(&f.headers, "H", "Header \"Name: value\" (repeatable)")
	fs.BoolVar(&f.insecure, "k", false, "Skip TLS certificate verification")
	fs.BoolVar(&f.redirect, "r", false, "Follow redirects")
	fs.StringVar(&f.proxy, "proxy", "", "HTTP or SOCKS5 proxy URL")

	// Filters
	fs.StringVar(&f.filters.FilterCodes, "fc", "", "Filter status codes (comma-separated)")
	fs.StringVar(&f.filters.FilterSizes, "fs", "", "Filter response sizes")
	fs.StringVar(&f.filters.FilterLines, "fl", "", "Filter line counts")
	fs.StringVar(&f.filters.FilterWords, "fw", "", "Filter word counts")

	// Matchers
	fs.StringVar(&f.filters.MatchCodes, "mc", "", "Match status codes (comma-separated)")
	fs.StringVar(&f.filters.MatchSizes, "ms", "", "Match response sizes")
	fs.StringVar(&f.filters.MatchLines, "ml", "", "Match line counts")
	fs.StringVar(&f.filters.MatchWords, "mw", "", "Match word counts")

	// Output
	fs.StringVar(&f.output, "o", "", "Write displayed results to file")
	fs.StringVar(&f.outputFormat, "of", defaults.OutputFormatTSV, "Output file format: tsv, jsonl")
	fs.BoolVar(&f.verbose, "v", false, "Verbose output")
	fs.BoolVar(&f.noColor, "nc", false, "No color output")
	fs.BoolVar(&f.silent, "s", false, "Silent mode, print results only")

	// Telemetry
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVar(&f.otelEndpoint, "otel-endpoint", "", "OTLP gRPC collector for traces, e.g. localhost:4317")
	fs.BoolVar(&f.otelInsecure, "otel-insecure", false, "Connect to the OTLP collector without TLS")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// applySettings fills flags the operator did not set from saved defaults.
func (f *fuzzFlags) applySettings(s *config.Settings) {
	if !f.set["t"] && s.Defaults.Threads > 0 {
		f.threads = s.Defaults.Threads
	}
	if !f.set["timeout"] && s.Defaults.Timeout > 0 {
		f.timeout = int(s.Defaults.Timeout / time.Second)
	}
}

func (f *fuzzFlags) wordlistSources() int {
	n := 0
	for _, s := range []string{f.wordlist, f.aiPrompt, f.genPrompt} {
		if s != "" {
			n++
		}
	}
	return n
}

func runFuzz(args []string) int {
	f, err := parseFuzzFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return defaults.ExitSuccess
	}
	if err != nil {
		return exitWithUsage(err.Error(), fuzzUsage)
	}

	ui.SetNoColor(f.noColor || os.Getenv("NO_COLOR") != "")
	ui.SetSilent(f.silent)
	logger := ui.NewLogger(ui.Stderr(), f.verbose)
	slog.SetDefault(logger)

	if f.target == "" {
		return exitWithUsage("target URL is required (-u)", fuzzUsage)
	}
	if f.wordlistSources() != 1 {
		return exitWithUsage("exactly one of -w, -ai or -gen is required", fuzzUsage)
	}

	target, err := input.ValidateTarget(f.target, defaults.Placeholder)
	if err != nil {
		return exitWithError(err)
	}
	headers, err := f.headers.Map()
	if err != nil {
		return exitWithError(err)
	}

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return exitWithError(err)
	}
	f.applySettings(settings)

	ui.PrintBanner()

	wordlistPath, err := resolveWordlist(f, settings, logger)
	if err != nil {
		return exitWithError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{Endpoint: f.otelEndpoint, Insecure: f.otelInsecure})
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), duration.TelemetryShutdown)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Debug("tracing shutdown failed", "error", err)
		}
	}()

	var collector *metrics.Collector
	if f.metricsAddr != "" {
		collector = metrics.NewCollector()
		srv, err := metrics.Serve(f.metricsAddr, collector, logger)
		if err != nil {
			return exitWithError(err)
		}
		defer srv.Close()
		ui.PrintInfo("Metrics at " + srv.URL())
	}

	fuzzCfg := fuzz.Config{
		Template:        target,
		Body:            f.data,
		Method:          f.method,
		Headers:         headers,
		FollowRedirects: f.redirect,
		SkipVerify:      f.insecure,
		Proxy:           f.proxy,
		Concurrency:     f.threads,
		Timeout:         time.Duration(f.timeout) * time.Second,
		Delay:           f.delay,
	}.WithDefaults()

	sess := session.New(session.Options{
		Fuzz:         fuzzCfg,
		Wordlist:     wordlistPath,
		Filters:      f.filters,
		OutputPath:   f.output,
		OutputFormat: f.outputFormat,
		Metrics:      collector,
		SkipProbe:    f.noProbe,
	}, logger)

	printRunConfig(f, fuzzCfg, wordlistPath, sess.Filters())

	progress := ui.NewProgress(0, sess.Counts)
	sess.OnProbe = func(r probe.Result) {
		if r.Verified {
			ui.PrintSuccess(fmt.Sprintf("Target reachable (%s mode, HTTP %d)", r.Mode, r.Status))
		}
	}
	sess.OnStart = func(total int) {
		progress = ui.NewProgress(total, sess.Counts)
		ui.PrintSection(fmt.Sprintf("Fuzzing with %d words", total))
		progress.Start()
	}
	sess.OnResult = ui.PrintResult

	stats, err := sess.Run(ctx)
	progress.Stop()
	if err != nil {
		return exitWithError(err)
	}

	ui.PrintStats(stats)
	if f.output != "" {
		ui.PrintSuccess("Results saved to " + f.output)
	}
	if stats.Interrupted {
		ui.PrintWarning("Interrupted, partial results shown")
		return defaults.ExitInterrupted
	}
	return defaults.ExitSuccess
}

// resolveWordlist turns -w, -ai or -gen into a wordlist path or URL.
func resolveWordlist(f *fuzzFlags, settings *config.Settings, logger *slog.Logger) (string, error) {
	switch {
	case f.wordlist != "":
		return f.wordlist, nil

	case f.genPrompt != "":
		path, err := wordlist.Generate(f.genPrompt, generatedDir)
		if err != nil {
			return "", err
		}
		ui.PrintSuccess("Generated wordlist " + path)
		return path, nil

	default:
		resolver := wordlist.NewResolver(settings.SearchPaths(), logger)
		sel, err := wordlist.NewSelector(resolver, logger).Select(f.aiPrompt)
		if err != nil {
			return "", fmt.Errorf("%w for %q, set one with -w or run 'fuzzai config -seclists DIR'", err, f.aiPrompt)
		}
		if sel.Range != nil {
			path, err := wordlist.WriteGenerated(wordlist.Numeric(*sel.Range), f.aiPrompt, generatedDir)
			if err != nil {
				return "", err
			}
			ui.PrintSuccess("Generated wordlist " + path)
			return path, nil
		}
		ui.PrintSuccess("Selected wordlist " + sel.Path)
		logger.Debug("wordlist selection", "score", sel.Score, "why", sel.Explanation)
		return sel.Path, nil
	}
}

// printRunConfig shows the effective settings, after defaults and clamping.
func printRunConfig(f *fuzzFlags, cfg fuzz.Config, wordlistPath string, spec *filter.Spec) {
	ui.PrintSection("Configuration")
	ui.PrintConfigLine("Target", cfg.Template)
	ui.PrintConfigLine("Method", cfg.Method)
	ui.PrintConfigLine("Wordlist", wordlistPath)
	ui.PrintConfigLine("Threads", strconv.Itoa(cfg.Concurrency))
	ui.PrintConfigLine("Timeout", cfg.Timeout.String())
	if cfg.Delay > 0 {
		ui.PrintConfigLine("Delay", cfg.Delay.String())
	}
	ui.PrintConfigLine("Proxy", cfg.Proxy)
	if cfg.FollowRedirects {
		ui.PrintConfigLine("Redirects", "follow")
	}
	if f.output != "" {
		ui.PrintConfigLine("Output", f.output+" ("+f.outputFormat+")")
	}
	if spec.HasFilters() {
		ui.PrintConfigLine("Filters", spec.Summary())
	}
	ui.PrintDivider()
}
