package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fuzzai/fuzzai/pkg/fuzz"
)

// CountsFunc returns a live snapshot of run counters.
type CountsFunc func() fuzz.Counts

// Progress renders a single self-overwriting status line on a terminal
// while a run is in progress.
type Progress struct {
	total    int
	counts   CountsFunc
	w        io.Writer
	interval time.Duration
	spinner  Spinner

	start   time.Time
	done    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
	running bool
}

// NewProgress creates a progress line for a run of total words.
func NewProgress(total int, counts CountsFunc) *Progress {
	sp := DefaultSpinner()
	return &Progress{
		total:    total,
		counts:   counts,
		w:        Stderr(),
		interval: sp.Interval,
		spinner:  sp,
	}
}

// Enabled reports whether the progress line should be drawn at all.
func (p *Progress) Enabled() bool {
	return !IsSilent() && IsTerminal(p.w)
}

// Start begins rendering. It does nothing when output is not a terminal.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running || !p.Enabled() {
		return
	}
	p.running = true
	p.start = time.Now()
	p.done = make(chan struct{})
	p.stopped = make(chan struct{})
	go p.renderLoop()
}

// Stop halts rendering and clears the line.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	close(p.done)
	<-p.stopped
	p.running = false
	fmt.Fprint(p.w, "\r\033[K")
}

func (p *Progress) renderLoop() {
	defer close(p.stopped)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ticker.C:
			frame++
			fmt.Fprint(p.w, "\r\033[K"+p.Line(frame, time.Since(p.start)))
		case <-p.done:
			return
		}
	}
}

// Line renders the status line for the given frame and elapsed time.
func (p *Progress) Line(frame int, elapsed time.Duration) string {
	c := p.counts()
	processed := c.Processed()

	rps := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rps = float64(processed) / secs
	}

	var b strings.Builder
	b.WriteString(SpinnerStyle.Render(p.spinner.Frame(frame)))
	b.WriteString(" ")
	b.WriteString(StatValueStyle.Render(fmt.Sprintf("%d/%d", processed, p.total)))
	b.WriteString(BracketStyle.Render(" | "))
	fmt.Fprintf(&b, "%.1f req/s", rps)
	b.WriteString(BracketStyle.Render(" | "))
	b.WriteString(SuccessStyle.Render(fmt.Sprintf("found %d", c.Displayed)))
	fmt.Fprintf(&b, " filtered %d", c.Filtered)
	if c.Errors > 0 {
		b.WriteString(" ")
		b.WriteString(WarningStyle.Render(fmt.Sprintf("errors %d", c.Errors)))
	}
	b.WriteString(BracketStyle.Render(" | "))
	b.WriteString(StatLabelStyle.Render(formatDuration(elapsed)))
	return b.String()
}

// formatDuration formats a duration as MM:SS or HH:MM:SS
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
