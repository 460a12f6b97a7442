package input

import "strings"

// StringSliceFlag implements flag.Value for repeated/comma-separated string flags
type StringSliceFlag []string

func (s *StringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *StringSliceFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

// HeaderFlag implements flag.Value for repeated -H flags. Values are kept
// whole since header values may contain commas.
type HeaderFlag []string

func (h *HeaderFlag) String() string {
	return strings.Join(*h, "; ")
}

func (h *HeaderFlag) Set(value string) error {
	if _, _, err := ParseHeader(value); err != nil {
		return err
	}
	*h = append(*h, value)
	return nil
}

// Map parses every collected header. Later values for the same name win.
func (h HeaderFlag) Map() (map[string]string, error) {
	return ParseHeaders(h)
}
