package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"path", "https://example.com/FUZZ", "https://example.com/FUZZ", false},
		{"subdomain", "http://FUZZ.example.com/", "http://FUZZ.example.com/", false},
		{"query", " https://example.com/?q=FUZZ ", "https://example.com/?q=FUZZ", false},
		{"upper scheme", "HTTPS://example.com/FUZZ", "HTTPS://example.com/FUZZ", false},
		{"empty", "", "", true},
		{"no scheme", "example.com/FUZZ", "", true},
		{"ftp", "ftp://example.com/FUZZ", "", true},
		{"no placeholder", "https://example.com/admin", "", true},
		{"no host", "http:///FUZZ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTarget(tt.raw, "FUZZ")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateTarget_CustomKeyword(t *testing.T) {
	_, err := ValidateTarget("https://example.com/FUZZ", "W1")
	assert.ErrorIs(t, err, ErrInvalidTarget)

	got, err := ValidateTarget("https://example.com/W1", "W1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/W1", got)
}
