package defaults_test

import (
	"strings"
	"testing"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "fuzzai/"+defaults.Version, defaults.UserAgent(""))
	assert.Equal(t, "fuzzai/"+defaults.Version+" (probe)", defaults.UserAgent("probe"))
}

func TestProbeWordsOrder(t *testing.T) {
	assert.Equal(t, []string{"test", "123", "admin"}, defaults.ProbeWords)
	for _, w := range defaults.ProbeWords {
		assert.False(t, strings.Contains(w, defaults.Placeholder))
	}
}

func TestExitCodesDistinct(t *testing.T) {
	codes := []int{
		defaults.ExitSuccess,
		defaults.ExitFailure,
		defaults.ExitUserError,
		defaults.ExitInterrupted,
	}
	seen := make(map[int]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
}
