// Package wordlist loads, discovers, selects and generates wordlists.
package wordlist

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
	"github.com/fuzzai/fuzzai/pkg/httpclient"
	"github.com/fuzzai/fuzzai/pkg/iohelper"
)

// maxDownloadSize bounds a fetched wordlist.
const maxDownloadSize = 100 << 20

// Load returns the non-empty, whitespace-trimmed lines of the wordlist at
// source. source is a file path (optionally .gz) or an http(s) URL.
func Load(source string) ([]string, error) {
	return LoadContext(context.Background(), source)
}

// LoadContext is Load with a context bounding remote downloads.
func LoadContext(ctx context.Context, source string) ([]string, error) {
	if IsURL(source) {
		return Fetch(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return readWords(r, source)
}

// IsURL reports whether source names a remote wordlist.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch downloads a wordlist over HTTP.
func Fetch(ctx context.Context, url string) ([]string, error) {
	client, err := httpclient.New(httpclient.Config{Timeout: duration.WordlistDownload, FollowRedirects: true})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	req.Header.Set("User-Agent", defaults.UserAgent("wordlist"))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer iohelper.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}
	return readWords(io.LimitReader(resp.Body, maxDownloadSize), url)
}

func readWords(r io.Reader, source string) ([]string, error) {
	words, err := iohelper.ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("error reading wordlist: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, source)
	}
	return words, nil
}
