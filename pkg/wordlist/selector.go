package wordlist

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// synonyms expand a prompt token into related file name fragments.
var synonyms = map[string][]string{
	"admin":         {"admin", "panel", "dashboard", "cpanel", "backend", "manager"},
	"login":         {"login", "auth", "signin", "logout", "credentials", "authn", "authz"},
	"api":           {"api", "endpoint", "rest", "swagger", "graphql", "jsonrpc"},
	"username":      {"user", "username", "users", "account", "accounts", "profile"},
	"directory":     {"dir", "directory", "folder", "path"},
	"file":          {"file", "backup", "bak", "config", "conf", "extension"},
	"cms":           {"wordpress", "drupal", "joomla", "magento", "cms"},
	"numbers":       {"numbers", "range"},
	"quick":         {"quick", "small", "fast", "short"},
	"comprehensive": {"comprehensive", "thorough", "large", "extensive", "big"},
	"subdomain":     {"subdomain", "subdomains", "sub-domain", "hosts", "hostname"},
}

var typos = map[string]string{
	"suddomain": "subdomain",
	"subomain":  "subdomain",
	"adm1n":     "admin",
	"adminl":    "admin",
	"aapi":      "api",
}

// folderWeights rank path fragments and categories by how well they suit
// content discovery.
var folderWeights = map[string]float64{
	"discovery/web-content": 3.0,
	"web-content":           3.0,
	"discovery":             2.5,
	"raft":                  2.5,
	"dirbuster":             2.5,
	"api":                   3.0,
	"user":                  2.0,
	"usernames":             2.0,
	"password":              1.0,
	"file-extensions":       1.5,
	"cms":                   2.0,
	"dns":                   2.5,
	"subdomain":             3.0,
	"generic":               1.0,
	"other":                 0.5,
}

var (
	broadLists     = []string{"common.txt", "raft-medium-directories.txt", "directory-list-2.3-medium.txt", "raft-medium-words.txt", "big.txt"}
	fallbackLists  = []string{"common.txt", "directory-list-2.3-medium.txt", "raft-medium-directories.txt"}
	languageTags   = []string{"italian", "spanish", "french", "german", "portuguese", "russian", "dutch", "polish", "japanese", "chinese", "arabic"}
	techTags       = []string{"admin", "base64", "base32", "hex", "servlet", "jsp", "aspx", "php", "java", "rails", "wordpress"}
	narrowPaths    = []string{"/api/", "service-specific", "vendor", "ispsystem", "oauth", "specific", "java", "rails", "cms"}
	discoveryWords = []string{"admin", "directory", "api", "login", "auth", "panel", "dashboard"}

	punctuation = regexp.MustCompile(`[.,;:!?()]`)
	tokenRe     = regexp.MustCompile(`[0-9a-z\-_]{2,}`)
)

// SizePreference is inferred from prompt wording.
type SizePreference string

const (
	SizeSmall  SizePreference = "small"
	SizeMedium SizePreference = "medium"
	SizeLarge  SizePreference = "large"
)

// Selection is the outcome of Select. Exactly one of Path or Range is set.
type Selection struct {
	// Path of the chosen wordlist file.
	Path string
	// Range is set when the prompt asked for a numeric sequence instead.
	Range *Range
	Score float64
	// Explanation is a one-line reason shown to the user.
	Explanation string
}

// Selector picks the best installed wordlist for a free-text prompt.
type Selector struct {
	resolver *Resolver
	logger   *slog.Logger
	fold     cases.Caser
}

// NewSelector returns a selector backed by resolver.
func NewSelector(resolver *Resolver, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{resolver: resolver, logger: logger, fold: cases.Fold()}
}

// Select maps prompt to a wordlist. A prompt naming a numeric range
// ("numbers 1-200") yields a Range to generate instead of a file.
func (s *Selector) Select(prompt string) (Selection, error) {
	prompt = strings.TrimSpace(prompt)
	if r, ok := ParseRange(prompt); ok {
		return Selection{Range: &r, Explanation: fmt.Sprintf("numeric range %d-%d, generating instead of selecting a file", r.Start, r.End)}, nil
	}

	tokens := s.Tokens(prompt)
	pref := DetectSizePreference(prompt)
	s.logger.Debug("selecting wordlist", "prompt", prompt, "tokens", strings.Join(tokens, ","), "size", string(pref))

	all := s.resolver.All()
	var candidates []Entry
	for _, sc := range s.resolver.Search(tokens, 50) {
		candidates = append(candidates, sc.Entry)
	}
	if len(candidates) == 0 {
		s.logger.Debug("no keyword matches, using popular wordlists")
		candidates = fallbackCandidates(all)
	}

	best, ok := s.best(candidates, tokens, pref)
	if !ok {
		return Selection{}, ErrNoCandidate
	}
	return best, nil
}

func (s *Selector) best(candidates []Entry, tokens []string, pref SizePreference) (Selection, bool) {
	discovery := slices.ContainsFunc(tokens, func(t string) bool { return slices.Contains(discoveryWords, t) })

	var out Selection
	var bestSize int64
	found := false
	for _, c := range candidates {
		score, why := scoreCandidate(c, tokens, pref, discovery)
		if !found || score > out.Score || (score == out.Score && c.Size < bestSize) {
			out = Selection{Path: c.Path, Score: score, Explanation: why}
			bestSize = c.Size
			found = true
		}
	}
	return out, found
}

// Tokens lowercases prompt, splits it into words of two or more characters,
// fixes common typos and adds synonyms.
func (s *Selector) Tokens(prompt string) []string {
	clean := punctuation.ReplaceAllString(s.fold.String(prompt), " ")

	var base []string
	for _, tok := range tokenRe.FindAllString(clean, -1) {
		tok = strings.Trim(tok, "-_")
		if tok == "" {
			continue
		}
		if fixed, ok := typos[tok]; ok {
			tok = fixed
		}
		base = append(base, tok)
	}

	seen := map[string]bool{}
	var out []string
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range base {
		add(t)
	}
	for _, t := range base {
		for key, syns := range synonyms {
			if t == key || slices.Contains(syns, t) {
				add(key)
				for _, syn := range syns {
					add(syn)
				}
			}
		}
	}
	slices.Sort(out)
	return out
}

// DetectSizePreference reads small or large hints from the prompt.
func DetectSizePreference(prompt string) SizePreference {
	p := strings.ToLower(prompt)
	if containsAny(p, "quick", "small", "fast", "short") {
		return SizeSmall
	}
	if containsAny(p, "comprehensive", "large", "thorough", "extensive") {
		return SizeLarge
	}
	return SizeMedium
}

func scoreCandidate(c Entry, tokens []string, pref SizePreference, discovery bool) (float64, string) {
	path := strings.ToLower(c.Path)
	name := strings.ToLower(c.Filename)
	rel := strings.ToLower(c.RelPath)

	folder := folderWeights[string(c.Category)]
	for frag, w := range folderWeights {
		if strings.Contains(path, frag) || strings.Contains(rel, frag) || strings.Contains(name, frag) {
			folder = math.Max(folder, w)
		}
	}

	overlap := 0.0
	if len(tokens) > 0 {
		searchable := name + " " + rel + " " + path
		hits := 0
		for _, t := range tokens {
			if strings.Contains(searchable, t) {
				hits++
			}
		}
		overlap = float64(hits) / float64(len(tokens))
	}

	size := sizeScore(c.Size, pref)

	bonus, penalty := 0.0, 0.0
	switch {
	case slices.Contains(broadLists, name):
		bonus = 6
	case containsAny(name, "raft-medium", "directory-list", "dirbuster"):
		bonus = 4
	case containsAny(name, "subdomain", "dns"):
		if containsAny(name, languageTags...) {
			penalty = -4
		} else {
			bonus = 5
		}
	case strings.Contains(name, "common"):
		if containsAny(name, techTags...) {
			penalty = -2.5
		} else {
			bonus = 3
		}
	}
	if penalty == 0 && containsAny(path, narrowPaths...) &&
		!containsAny(name, "raft", "directory-list", "common.txt", "subdomain", "dns") {
		penalty = -2.5
		if discovery {
			penalty = -3.5
		}
	}

	raw := folder*2 + overlap + size*0.5 + bonus + penalty
	why := fmt.Sprintf("folder_weight=%.2f, token_overlap=%.2f, size_score=%.2f, coverage_bonus=%.2f, coverage_penalty=%.2f -> raw_score=%.2f",
		folder, overlap, size, bonus, penalty, raw)
	return raw, why
}

// sizeScore maps a file size to [0,1]: small prefers under ~200KB, large
// grows with megabytes, medium peaks around 200KB.
func sizeScore(size int64, pref SizePreference) float64 {
	if size <= 0 {
		return 0
	}
	kb := float64(size) / 1024
	switch pref {
	case SizeSmall:
		return math.Max(0, 1-kb/200)
	case SizeLarge:
		return math.Tanh(kb / 1024)
	default:
		const ideal = 200.0
		return math.Min(1, 1/(1+math.Abs(kb-ideal)/ideal))
	}
}

func fallbackCandidates(all []Entry) []Entry {
	var out []Entry
	for _, e := range all {
		if containsAny(strings.ToLower(e.Filename), fallbackLists...) {
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		return out
	}
	sorted := slices.Clone(all)
	slices.SortFunc(sorted, func(a, b Entry) int { return cmp.Compare(a.Size, b.Size) })
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}
	return sorted
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
