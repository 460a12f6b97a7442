package input

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateTarget checks that raw is an http(s) URL template containing
// keyword and returns it trimmed.
func ValidateTarget(raw, keyword string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", fmt.Errorf("%w: no URL given", ErrInvalidTarget)
	}
	lower := strings.ToLower(target)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", fmt.Errorf("%w: %s must start with http:// or https://", ErrInvalidTarget, target)
	}
	if !strings.Contains(target, keyword) {
		return "", fmt.Errorf("%w: %s does not contain the %s placeholder", ErrInvalidTarget, target, keyword)
	}
	// The placeholder may sit anywhere, including the host, so parse a
	// sample substitution rather than the template itself.
	sample := strings.ReplaceAll(target, keyword, "x")
	u, err := url.Parse(sample)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %s has no host", ErrInvalidTarget, target)
	}
	return target, nil
}
