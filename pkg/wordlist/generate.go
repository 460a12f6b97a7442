package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/jsonutil"
)

// maxRangeSize caps generated ranges to keep memory and disk bounded.
const maxRangeSize = 10_000_000

var rangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s*(?:-|\.\.|to)\s*(\d+)\b`),
	regexp.MustCompile(`numbers?\s*(\d+)\s*(?:-|to|until)\s*(\d+)`),
}

// Range is an inclusive integer range.
type Range struct {
	Start int
	End   int
}

// Len is the number of values in r.
func (r Range) Len() int { return r.End - r.Start + 1 }

// ParseRange finds "1-200", "1..200" or "1 to 200" in prompt. Reversed
// bounds are swapped.
func ParseRange(prompt string) (Range, bool) {
	for _, re := range rangePatterns {
		m := re.FindStringSubmatch(strings.ToLower(prompt))
		if m == nil {
			continue
		}
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		if start > end {
			start, end = end, start
		}
		return Range{Start: start, End: end}, true
	}
	return Range{}, false
}

// Numeric returns the values of r as strings, capped at maxRangeSize.
func Numeric(r Range) []string {
	end := r.End
	if end-r.Start >= maxRangeSize {
		end = r.Start + maxRangeSize - 1
	}
	words := make([]string, 0, end-r.Start+1)
	for i := r.Start; i <= end; i++ {
		words = append(words, strconv.Itoa(i))
	}
	return words
}

// Generate writes a wordlist for prompt under dir and returns its path.
// Only numeric range prompts are supported; anything else returns
// ErrUnsupportedPrompt. A JSON metadata file is written next to the list.
func Generate(prompt, dir string) (string, error) {
	r, ok := ParseRange(prompt)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPrompt, prompt)
	}
	return WriteGenerated(Numeric(r), prompt, dir)
}

// WriteGenerated saves words as <prompt>_<timestamp>.txt in dir.
func WriteGenerated(words []string, prompt, dir string) (string, error) {
	if len(words) == 0 {
		return "", ErrEmpty
	}
	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		return "", fmt.Errorf("create wordlist directory: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_%s.txt", safeName(prompt), now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaults.FilePerm)
	if err != nil {
		return "", fmt.Errorf("create wordlist: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		w.WriteString(word)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("write wordlist: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write wordlist: %w", err)
	}

	meta, err := jsonutil.MarshalIndent(struct {
		Prompt      string    `json:"prompt"`
		GeneratedAt time.Time `json:"generated_at"`
		Count       int       `json:"count"`
		Filename    string    `json:"filename"`
	}{prompt, now, len(words), name}, "  ")
	if err == nil {
		metaPath := strings.TrimSuffix(path, ".txt") + ".json"
		_ = os.WriteFile(metaPath, meta, defaults.FilePerm)
	}
	return path, nil
}

// safeName keeps the first 30 characters of prompt, replacing anything that
// is not a letter or digit with '_'.
func safeName(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			runes[i] = '_'
		}
	}
	return string(runes)
}
