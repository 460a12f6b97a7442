// Package filter decides whether a classified response is displayed.
// Modeled after ffuf's -mc/-ms/-ml/-mw and -fc/-fs/-fl/-fw flags.
package filter

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Dimension names one response attribute a set applies to.
type Dimension string

const (
	DimCode  Dimension = "codes"
	DimSize  Dimension = "sizes"
	DimLines Dimension = "lines"
	DimWords Dimension = "words"
)

// dimensions is the fixed evaluation order.
var dimensions = []Dimension{DimCode, DimSize, DimLines, DimWords}

// Response is the classified form of an HTTP response.
type Response struct {
	StatusCode int
	Size       int // raw body length in bytes
	Lines      int // newline count of the decoded body
	Words      int // whitespace separated fields of the decoded body
	Elapsed    time.Duration
	BodyHash   uint32
}

func (r Response) value(d Dimension) int {
	switch d {
	case DimCode:
		return r.StatusCode
	case DimSize:
		return r.Size
	case DimLines:
		return r.Lines
	default:
		return r.Words
	}
}

// Set is a set of integers. The zero value is an empty set.
type Set map[int]struct{}

// NewSet returns a set holding vals.
func NewSet(vals ...int) Set {
	s := make(Set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v int) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (s Set) String() string {
	vals := s.Sorted()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// ParseSet parses comma separated integers. Blank tokens are skipped.
// Any token that is not an integer empties the whole set and the error
// wraps ErrInvalidValue.
func ParseSet(csv string) (Set, error) {
	s := Set{}
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return Set{}, fmt.Errorf("%w: %q in %q", ErrInvalidValue, tok, csv)
		}
		s[v] = struct{}{}
	}
	return s, nil
}

// Options carries the raw CSV strings from the command line.
type Options struct {
	MatchCodes  string
	MatchSizes  string
	MatchLines  string
	MatchWords  string
	FilterCodes string
	FilterSizes string
	FilterLines string
	FilterWords string
}

// Spec holds four match sets and four filter sets. It is immutable after
// NewSpec and safe for concurrent use.
type Spec struct {
	match  map[Dimension]Set
	filter map[Dimension]Set
}

// NewSpec parses opts. A malformed dimension is logged and left empty;
// the other dimensions are unaffected.
func NewSpec(opts Options, logger *slog.Logger) *Spec {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Spec{match: map[Dimension]Set{}, filter: map[Dimension]Set{}}

	parse := func(kind string, d Dimension, raw string) Set {
		if raw == "" {
			return Set{}
		}
		set, err := ParseSet(raw)
		if err != nil {
			logger.Warn("ignoring invalid filter value", "kind", kind, "dimension", string(d), "value", raw)
		}
		return set
	}

	s.match[DimCode] = parse("match", DimCode, opts.MatchCodes)
	s.match[DimSize] = parse("match", DimSize, opts.MatchSizes)
	s.match[DimLines] = parse("match", DimLines, opts.MatchLines)
	s.match[DimWords] = parse("match", DimWords, opts.MatchWords)
	s.filter[DimCode] = parse("filter", DimCode, opts.FilterCodes)
	s.filter[DimSize] = parse("filter", DimSize, opts.FilterSizes)
	s.filter[DimLines] = parse("filter", DimLines, opts.FilterLines)
	s.filter[DimWords] = parse("filter", DimWords, opts.FilterWords)

	for _, d := range dimensions {
		if len(s.match[d]) > 0 {
			logger.Debug("match set", "dimension", string(d), "values", s.match[d].String())
		}
		if len(s.filter[d]) > 0 {
			logger.Debug("filter set", "dimension", string(d), "values", s.filter[d].String())
		}
	}
	return s
}

// Decision is the outcome of Decide.
type Decision struct {
	Display bool
	// Reason is set when a filter set rejected the response,
	// e.g. "filtered by codes: 404". A match rejection leaves it empty.
	Reason    string
	Dimension Dimension
}

// Decide applies the match phase, then the filter phase.
//
// Match: when any match set is non-empty the response must be a member of
// at least one of the non-empty match sets. Filter: dimensions are checked
// in order codes, sizes, lines, words and the first hit rejects.
func (s *Spec) Decide(r Response) Decision {
	if s.hasMatch() {
		matched := false
		for _, d := range dimensions {
			if set := s.match[d]; len(set) > 0 && set.Has(r.value(d)) {
				matched = true
				break
			}
		}
		if !matched {
			return Decision{}
		}
	}

	for _, d := range dimensions {
		v := r.value(d)
		if s.filter[d].Has(v) {
			return Decision{
				Reason:    fmt.Sprintf("filtered by %s: %d", d, v),
				Dimension: d,
			}
		}
	}
	return Decision{Display: true}
}

// ShouldDisplay is shorthand for Decide(r).Display.
func (s *Spec) ShouldDisplay(r Response) bool {
	return s.Decide(r).Display
}

func (s *Spec) hasMatch() bool {
	for _, d := range dimensions {
		if len(s.match[d]) > 0 {
			return true
		}
	}
	return false
}

// HasFilters reports whether any of the eight sets is non-empty.
func (s *Spec) HasFilters() bool {
	if s.hasMatch() {
		return true
	}
	for _, d := range dimensions {
		if len(s.filter[d]) > 0 {
			return true
		}
	}
	return false
}

// MatchSet returns a copy of the match set for d.
func (s *Spec) MatchSet(d Dimension) Set { return copySet(s.match[d]) }

// FilterSet returns a copy of the filter set for d.
func (s *Spec) FilterSet(d Dimension) Set { return copySet(s.filter[d]) }

func copySet(src Set) Set {
	out := make(Set, len(src))
	for v := range src {
		out[v] = struct{}{}
	}
	return out
}

// Summary renders the active sets, filters first, e.g.
// "Filtering codes: 404 | Matching sizes: 0".
func (s *Spec) Summary() string {
	var parts []string
	for _, d := range dimensions {
		if set := s.filter[d]; len(set) > 0 {
			parts = append(parts, fmt.Sprintf("Filtering %s: %s", d, set))
		}
	}
	for _, d := range dimensions {
		if set := s.match[d]; len(set) > 0 {
			parts = append(parts, fmt.Sprintf("Matching %s: %s", d, set))
		}
	}
	if len(parts) == 0 {
		return "No filters active"
	}
	return strings.Join(parts, " | ")
}
