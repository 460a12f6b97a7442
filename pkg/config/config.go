// Package config stores persistent fuzzai settings in a YAML file under the
// user's home directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/duration"
)

// Environment overrides.
const (
	EnvConfigPath = "FUZZAI_CONFIG"
	EnvSeclists   = "FUZZAI_SECLISTS"
)

// systemWordlistDirs are searched after ./wordlists/ and before the
// configured paths.
var systemWordlistDirs = []string{
	"/usr/share/seclists",
	"/usr/share/wordlists",
}

// Defaults holds fallback values for flags the user did not set.
type Defaults struct {
	Threads int           `yaml:"threads"`
	Timeout time.Duration `yaml:"timeout"`
}

// Settings is the on-disk configuration.
type Settings struct {
	SeclistsPath  string   `yaml:"seclists_path,omitempty"`
	WordlistPaths []string `yaml:"wordlist_paths,omitempty"`
	Defaults      Defaults `yaml:"defaults"`

	path string
}

// New returns settings with built-in defaults bound to path.
func New(path string) *Settings {
	return &Settings{
		Defaults: Defaults{
			Threads: defaults.Concurrency,
			Timeout: duration.Request,
		},
		path: path,
	}
}

// DefaultPath returns $FUZZAI_CONFIG, or ~/.fuzzai/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("."+defaults.ToolName, "config.yaml")
	}
	return filepath.Join(home, "."+defaults.ToolName, "config.yaml")
}

// Load reads settings from path. A missing file is not an error and yields
// the defaults.
func Load(path string) (*Settings, error) {
	s := New(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the loaded values.
func (s *Settings) Validate() error {
	if s.Defaults.Threads < 0 {
		return fmt.Errorf("%w: defaults.threads must not be negative", ErrInvalidConfig)
	}
	if s.Defaults.Threads > defaults.ConcurrencyMax {
		return fmt.Errorf("%w: defaults.threads exceeds %d", ErrInvalidConfig, defaults.ConcurrencyMax)
	}
	if s.Defaults.Timeout < 0 {
		return fmt.Errorf("%w: defaults.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Path returns the file the settings are bound to.
func (s *Settings) Path() string {
	return s.path
}

// Save writes the settings back to their file, creating the parent directory.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), defaults.DirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(s.path, data, defaults.FilePerm)
}

// SetSeclistsPath records the SecLists checkout location. The path must be
// an existing directory.
func (s *Settings) SetSeclistsPath(p string) error {
	abs, err := checkDir(p)
	if err != nil {
		return err
	}
	s.SeclistsPath = abs
	return nil
}

// AddWordlistPath appends an extra directory to search. Duplicates are
// ignored.
func (s *Settings) AddWordlistPath(p string) error {
	abs, err := checkDir(p)
	if err != nil {
		return err
	}
	if !slices.Contains(s.WordlistPaths, abs) {
		s.WordlistPaths = append(s.WordlistPaths, abs)
	}
	return nil
}

// Seclists returns $FUZZAI_SECLISTS when set, otherwise the saved path.
func (s *Settings) Seclists() string {
	if p := os.Getenv(EnvSeclists); p != "" {
		return ExpandHome(p)
	}
	return s.SeclistsPath
}

// SearchPaths returns every directory to search for wordlists, in
// priority order, keeping only those that exist.
func (s *Settings) SearchPaths() []string {
	candidates := []string{"wordlists"}
	candidates = append(candidates, systemWordlistDirs...)
	if p := s.Seclists(); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, s.WordlistPaths...)

	var out []string
	for _, c := range candidates {
		if info, err := os.Stat(c); err != nil || !info.IsDir() {
			continue
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func checkDir(p string) (string, error) {
	p = ExpandHome(strings.TrimSpace(p))
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotDirectory, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	return abs, nil
}
