package input

import (
	"fmt"
	"strings"
)

// ParseHeader splits "Name: value" into its parts. The name must be
// non-empty and contain no whitespace.
func ParseHeader(raw string) (name, value string, err error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("%w: %q (want \"Name: value\")", ErrInvalidHeader, raw)
	}
	return name, strings.TrimSpace(value), nil
}

// ParseHeaders parses a list of "Name: value" strings into a map.
func ParseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, r := range raw {
		name, value, err := ParseHeader(r)
		if err != nil {
			return nil, err
		}
		headers[name] = value
	}
	return headers, nil
}
