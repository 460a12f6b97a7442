package main

import (
	"errors"
	"flag"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fuzzai/fuzzai/pkg/config"
	"github.com/fuzzai/fuzzai/pkg/defaults"
	"github.com/fuzzai/fuzzai/pkg/input"
	"github.com/fuzzai/fuzzai/pkg/jsonutil"
	"github.com/fuzzai/fuzzai/pkg/ui"
)

const configUsage = "fuzzai config [-seclists DIR] [-add-path DIR] [-show] [-json]"

// settingsView is what -show prints: the saved settings plus the effective
// search paths.
type settingsView struct {
	Path          string   `json:"path" yaml:"path"`
	SeclistsPath  string   `json:"seclists_path" yaml:"seclists_path"`
	WordlistPaths []string `json:"wordlist_paths" yaml:"wordlist_paths"`
	Threads       int      `json:"threads" yaml:"threads"`
	Timeout       string   `json:"timeout" yaml:"timeout"`
	SearchPaths   []string `json:"search_paths" yaml:"search_paths"`
}

func runConfig(args []string) int {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(ui.Stderr())
	seclists := fs.String("seclists", "", "Set the SecLists directory")
	var addPaths input.StringSliceFlag
	fs.Var(&addPaths, "add-path", "Add a wordlist directory (repeatable)")
	show := fs.Bool("show", false, "Print the current settings")
	asJSON := fs.Bool("json", false, "Print settings as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return defaults.ExitSuccess
		}
		return exitWithUsage(err.Error(), configUsage)
	}

	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return exitWithError(err)
	}

	changed := false
	if *seclists != "" {
		if err := settings.SetSeclistsPath(*seclists); err != nil {
			return exitWithError(err)
		}
		changed = true
	}
	for _, p := range addPaths {
		if err := settings.AddWordlistPath(p); err != nil {
			return exitWithError(err)
		}
		changed = true
	}
	if changed {
		if err := settings.Save(); err != nil {
			return exitWithError(err)
		}
		ui.PrintSuccess("Saved " + settings.Path())
	}

	if *show || *asJSON || !changed {
		if err := printSettings(settings, *asJSON); err != nil {
			return exitWithError(err)
		}
	}
	return defaults.ExitSuccess
}

func printSettings(s *config.Settings, asJSON bool) error {
	view := settingsView{
		Path:          s.Path(),
		SeclistsPath:  s.Seclists(),
		WordlistPaths: s.WordlistPaths,
		Threads:       s.Defaults.Threads,
		Timeout:       s.Defaults.Timeout.String(),
		SearchPaths:   s.SearchPaths(),
	}
	if view.WordlistPaths == nil {
		view.WordlistPaths = []string{}
	}
	if view.SearchPaths == nil {
		view.SearchPaths = []string{}
	}

	var data []byte
	var err error
	if asJSON {
		data, err = jsonutil.MarshalIndent(view, "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(view)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = ui.Stdout().Write(data)
	return err
}
