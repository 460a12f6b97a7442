// Package iohelper provides helpers for bounded reads of HTTP bodies and
// line-oriented wordlist input.
package iohelper

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// maxLineSize bounds a single wordlist line; longer lines fail the scan.
const maxLineSize = 1024 * 1024

// ReadBody reads at most maxSize bytes from r. A nil reader yields an
// empty body. The second return reports whether the body was cut at maxSize.
func ReadBody(r io.Reader, maxSize int64) ([]byte, bool, error) {
	if r == nil {
		return []byte{}, false, nil
	}
	// Read one extra byte so truncation is observable.
	body, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if int64(len(body)) > maxSize {
		return body[:maxSize], true, err
	}
	return body, false, err
}

// DrainAndClose discards what is left of r (up to 64KB) and closes it when
// it is an io.ReadCloser, so keep-alive connections can be reused.
// Always returns nil to allow use in defer.
func DrainAndClose(r io.Reader) error {
	if r == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64*1024))
	if rc, ok := r.(io.ReadCloser); ok {
		rc.Close()
	}
	return nil
}

// ReadLines returns the whitespace-trimmed, non-empty lines of r.
// A leading UTF-8 byte order mark is dropped.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
			first = false
		}
		if s := strings.TrimSpace(string(line)); s != "" {
			lines = append(lines, s)
		}
	}
	return lines, scanner.Err()
}
