package wordlist

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Category groups wordlists by purpose.
type Category string

const (
	CategoryWebContent Category = "web-content"
	CategoryAdmin      Category = "admin"
	CategoryAPI        Category = "api"
	CategoryDirectory  Category = "directory"
	CategoryFile       Category = "file"
	CategoryUser       Category = "user"
	CategoryPassword   Category = "password"
	CategoryParameter  Category = "parameter"
	CategoryGeneric    Category = "generic"
	CategoryOther      Category = "other"
)

// categoryRules are checked in order; the first hit wins. Web content is
// matched on the whole path, the rest on the file name.
var categoryRules = []struct {
	category Category
	onPath   bool
	needles  []string
}{
	{CategoryWebContent, true, []string{"web-content", "discovery", "raft", "dirbuster"}},
	{CategoryAdmin, false, []string{"admin", "panel", "dashboard", "manager"}},
	{CategoryAPI, false, []string{"api", "endpoint", "swagger", "rest"}},
	{CategoryDirectory, false, []string{"directory", "directories", "dir", "folder"}},
	{CategoryFile, false, []string{"file", "extension", "ext", "backup"}},
	{CategoryUser, false, []string{"user", "username", "account", "names"}},
	{CategoryPassword, false, []string{"password", "pass", "pwd"}},
	{CategoryParameter, false, []string{"parameter", "param", "params"}},
	{CategoryGeneric, false, []string{"common", "small", "medium", "big", "large"}},
}

var (
	wordlistExts    = []string{".txt", ".list", ".dict", ".csv"}
	excludedMarkers = []string{".md", ".json", ".xml", ".html", "readme", "license"}
)

// Entry describes a wordlist file found on disk.
type Entry struct {
	Path     string
	Filename string
	RelPath  string
	Category Category
	Size     int64
}

// Scored is an Entry ranked against keywords.
type Scored struct {
	Entry
	Score int
}

// Resolver finds wordlists under a set of directories. The scan runs once
// and is cached until Refresh.
type Resolver struct {
	paths  []string
	logger *slog.Logger

	mu      sync.Mutex
	entries []Entry
	scanned bool
}

// NewResolver returns a resolver over paths. Missing directories are skipped.
func NewResolver(paths []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{paths: paths, logger: logger}
}

// IsWordlist reports whether a file name looks like a wordlist: a known
// text extension or none at all, and not documentation or markup.
func IsWordlist(filename string) bool {
	lower := strings.ToLower(filename)
	for _, m := range excludedMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	if !strings.Contains(filename, ".") {
		return true
	}
	for _, ext := range wordlistExts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// Categorize assigns a category from the path and file name.
func Categorize(path, filename string) Category {
	lowerPath := strings.ToLower(path)
	lowerName := strings.ToLower(filename)
	for _, rule := range categoryRules {
		target := lowerName
		if rule.onPath {
			target = lowerPath
		}
		for _, n := range rule.needles {
			if strings.Contains(target, n) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// All returns every wordlist under the configured paths.
func (r *Resolver) All() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.scanned {
		r.entries = r.scan()
		r.scanned = true
	}
	return slices.Clone(r.entries)
}

// Refresh drops the cached scan.
func (r *Resolver) Refresh() {
	r.mu.Lock()
	r.scanned = false
	r.entries = nil
	r.mu.Unlock()
}

func (r *Resolver) scan() []Entry {
	var entries []Entry
	for _, base := range r.paths {
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			continue
		}
		r.logger.Debug("scanning for wordlists", "path", base)

		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				r.logger.Debug("skipping unreadable path", "path", path, "error", err)
				return nil
			}
			if d.IsDir() || !IsWordlist(d.Name()) {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			rel, _ := filepath.Rel(base, path)
			entries = append(entries, Entry{
				Path:     path,
				Filename: d.Name(),
				RelPath:  rel,
				Category: Categorize(path, d.Name()),
				Size:     fi.Size(),
			})
			return nil
		})
	}
	r.logger.Debug("wordlist scan complete", "found", len(entries))
	return entries
}

// ByCategory returns the wordlists of one category.
func (r *Resolver) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range r.All() {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Search ranks wordlists by keyword hits: +10 in the file name, +5 in the
// path, +3 in the category, +2 for a separator-insensitive file name match,
// +1 for broad categories and -2 for files over 10MB. Only positive scores
// are returned, best first, smaller files first on ties.
func (r *Resolver) Search(keywords []string, limit int) []Scored {
	var scored []Scored
	for _, e := range r.All() {
		if s := scoreEntry(e, keywords); s > 0 {
			scored = append(scored, Scored{Entry: e, Score: s})
		}
	}
	slices.SortStableFunc(scored, func(a, b Scored) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		}
		return 0
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func scoreEntry(e Entry, keywords []string) int {
	path := strings.ToLower(e.Path)
	name := strings.ToLower(e.Filename)
	category := string(e.Category)

	score := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(name, kw) {
			score += 10
		}
		if strings.Contains(path, kw) {
			score += 5
		}
		if strings.Contains(category, kw) {
			score += 3
		}
		if strings.Contains(stripSeparators(name), stripSeparators(kw)) {
			score += 2
		}
	}
	switch e.Category {
	case CategoryWebContent, CategoryDirectory, CategoryGeneric:
		score++
	}
	if e.Size > 10_000_000 {
		score -= 2
	}
	return score
}

func stripSeparators(s string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}
