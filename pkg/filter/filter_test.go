package filter

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuzzai/fuzzai/pkg/testutil"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{name: "single", in: "404", want: []int{404}},
		{name: "list with spaces", in: "200, 301 ,302", want: []int{200, 301, 302}},
		{name: "blank tokens skipped", in: "1,,2,", want: []int{1, 2}},
		{name: "empty", in: "", want: []int{}},
		{name: "duplicates collapse", in: "5,5,5", want: []int{5}},
		{name: "bad token empties dimension", in: "abc,123", want: []int{}, wantErr: true},
		{name: "bad trailing token", in: "200,30x", want: []int{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSet(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestNewSpec_DegradesOnlyBadDimension(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s := NewSpec(Options{FilterSizes: "abc,123", FilterCodes: "404"}, logger)

	assert.Empty(t, s.FilterSet(DimSize))
	assert.Equal(t, []int{404}, s.FilterSet(DimCode).Sorted())
	assert.Contains(t, buf.String(), "ignoring invalid filter value")
	assert.Contains(t, buf.String(), "dimension=sizes")
}

func TestNewSpec_NilLogger(t *testing.T) {
	require.NotPanics(t, func() {
		NewSpec(Options{MatchCodes: "x"}, nil)
	})
}

func TestDecide_NoSetsDisplaysEverything(t *testing.T) {
	s := NewSpec(Options{}, nil)
	for _, code := range []int{200, 404, 500} {
		assert.True(t, s.ShouldDisplay(Response{StatusCode: code}))
	}
}

func TestDecide_MatchIsOrAcrossDimensions(t *testing.T) {
	s := NewSpec(Options{
		MatchCodes: "200",
		MatchSizes: "1234",
		MatchLines: "77",
		MatchWords: "99",
	}, nil)

	// Only the size dimension matches.
	d := s.Decide(Response{StatusCode: 500, Size: 1234, Lines: 1, Words: 1})
	assert.True(t, d.Display)

	d = s.Decide(Response{StatusCode: 500, Size: 1, Lines: 1, Words: 1})
	assert.False(t, d.Display)
	assert.Empty(t, d.Reason)
}

func TestDecide_EmptyMatchDimensionContributesNothing(t *testing.T) {
	s := NewSpec(Options{MatchCodes: "200"}, nil)
	assert.False(t, s.ShouldDisplay(Response{StatusCode: 404, Size: 0}))
	assert.True(t, s.ShouldDisplay(Response{StatusCode: 200, Size: 0}))
}

func TestDecide_MatchBeforeFilter(t *testing.T) {
	s := NewSpec(Options{MatchCodes: "200", FilterCodes: "404"}, nil)

	// Fails match, so the filter reason is never produced.
	d := s.Decide(Response{StatusCode: 404})
	assert.False(t, d.Display)
	assert.Empty(t, d.Reason)
	assert.Empty(t, d.Dimension)

	s = NewSpec(Options{MatchCodes: "200", FilterSizes: "0"}, nil)
	d = s.Decide(Response{StatusCode: 200, Size: 0})
	assert.False(t, d.Display)
	assert.Equal(t, DimSize, d.Dimension)
	assert.Equal(t, "filtered by sizes: 0", d.Reason)
}

func TestDecide_FilterOrder(t *testing.T) {
	s := NewSpec(Options{FilterCodes: "404", FilterSizes: "10", FilterLines: "1", FilterWords: "2"}, nil)

	tests := []struct {
		resp Response
		want Dimension
	}{
		{Response{StatusCode: 404, Size: 10, Lines: 1, Words: 2}, DimCode},
		{Response{StatusCode: 200, Size: 10, Lines: 1, Words: 2}, DimSize},
		{Response{StatusCode: 200, Size: 11, Lines: 1, Words: 2}, DimLines},
		{Response{StatusCode: 200, Size: 11, Lines: 3, Words: 2}, DimWords},
	}
	for _, tt := range tests {
		d := s.Decide(tt.resp)
		assert.False(t, d.Display)
		assert.Equal(t, tt.want, d.Dimension)
	}
	assert.True(t, s.ShouldDisplay(Response{StatusCode: 200, Size: 11, Lines: 3, Words: 4}))
}

func TestHasFilters(t *testing.T) {
	assert.False(t, NewSpec(Options{}, nil).HasFilters())
	assert.False(t, NewSpec(Options{FilterCodes: "abc"}, nil).HasFilters())

	for _, opts := range []Options{
		{MatchCodes: "1"}, {MatchSizes: "1"}, {MatchLines: "1"}, {MatchWords: "1"},
		{FilterCodes: "1"}, {FilterSizes: "1"}, {FilterLines: "1"}, {FilterWords: "1"},
	} {
		assert.True(t, NewSpec(opts, nil).HasFilters(), "%+v", opts)
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "No filters active", NewSpec(Options{}, nil).Summary())

	s := NewSpec(Options{FilterCodes: "404,403", MatchSizes: "0"}, nil)
	assert.Equal(t, "Filtering codes: 403, 404 | Matching sizes: 0", s.Summary())
}

func TestSetCopiesAreIndependent(t *testing.T) {
	s := NewSpec(Options{FilterCodes: "404"}, nil)
	c := s.FilterSet(DimCode)
	c[500] = struct{}{}
	assert.False(t, s.FilterSet(DimCode).Has(500))
}

func TestDecide_ConcurrentUse(t *testing.T) {
	t.Parallel()

	s := NewSpec(Options{FilterCodes: "404", MatchCodes: "200,404"}, nil)
	testutil.RunConcurrently(50, func(idx int) {
		for j := 0; j < 100; j++ {
			code := 200
			if (idx+j)%2 == 0 {
				code = 404
			}
			d := s.Decide(Response{StatusCode: code, Size: j})
			assert.Equal(t, code == 200, d.Display)
		}
	})
}
