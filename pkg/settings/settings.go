// Package settings loads the optional YAML settings file for sshcfg.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sshcfg/pkg/sshconfig"
)

const (
	appDirName      = "sshcfg"
	defaultFileName = "config.yaml"
)

// Settings is the on-disk YAML structure. Every field is optional.
//
// Example YAML:
//
//	in_file: ~/.ssh/config
//	out_file: ~/.ssh/config.new
//	strict: false
//	backup: true
//	theme: dark
//	keys:
//	  quit: [q, esc]
//	  delete: [x, delete]
type Settings struct {
	InFile  string `yaml:"in_file,omitempty"`
	OutFile string `yaml:"out_file,omitempty"`

	// Strict makes key lines before the first Host line a parse error.
	Strict bool `yaml:"strict,omitempty"`

	// Backup keeps a .bak copy of an existing output file before replacing it.
	Backup bool `yaml:"backup,omitempty"`

	// Theme is one of: dark | light | catppuccin | none. Empty defers to
	// $SSHCFG_THEME, then automatic detection.
	Theme string `yaml:"theme,omitempty"`

	// Keys overrides the key bindings of individual editor actions.
	Keys map[string][]string `yaml:"keys,omitempty"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		InFile:  filepath.Join("~", ".ssh", "config"),
		OutFile: filepath.Join("~", ".ssh", "config.new"),
	}
}

// Load discovers and reads the settings file. If explicitPath is empty it
// searches, in order:
//  1. $SSHCFG_CONFIG
//  2. $XDG_CONFIG_HOME/sshcfg/config.yaml
//  3. ~/.config/sshcfg/config.yaml
//
// A missing file is not an error: defaults are returned with an empty path.
// An explicit path that does not exist is an error.
func Load(explicitPath string) (Settings, string, error) {
	if explicitPath != "" {
		p := sshconfig.ExpandPath(explicitPath)
		s, err := loadFile(p)
		return s, p, err
	}
	for _, p := range PathCandidates() {
		p = sshconfig.ExpandPath(p)
		if p == "" {
			continue
		}
		s, err := loadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return s, p, err
	}
	return Default(), "", nil
}

// PathCandidates returns the settings search path in priority order.
func PathCandidates() []string {
	var out []string
	if env := os.Getenv("SSHCFG_CONFIG"); env != "" {
		out = append(out, env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, appDirName, defaultFileName))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", appDirName, defaultFileName))
	}
	return out
}

// Dir returns the application config directory: $XDG_CONFIG_HOME/sshcfg or
// ~/.config/sshcfg.
func Dir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func loadFile(p string) (Settings, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Default(), fmt.Errorf("read settings %s: %w", p, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse yaml %s: %w", p, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid settings %s: %w", p, err)
	}
	return s, nil
}

// Validate performs basic sanity checks.
//
// - theme must be one of: "" | dark | light | catppuccin | none
// - every keys entry must name at least one non-empty key
func (s *Settings) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Theme)) {
	case "", "dark", "light", "catppuccin", "none":
	default:
		return fmt.Errorf("theme: invalid value %q (expected: dark|light|catppuccin|none)", s.Theme)
	}
	for action, keys := range s.Keys {
		if strings.TrimSpace(action) == "" {
			return errors.New("keys: empty action name")
		}
		if len(keys) == 0 {
			return fmt.Errorf("keys.%s: at least one key is required", action)
		}
		for i, k := range keys {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("keys.%s[%d]: empty key", action, i)
			}
		}
	}
	return nil
}

// ResolvedInFile returns InFile with ~ and environment variables expanded.
func (s Settings) ResolvedInFile() string { return sshconfig.ExpandPath(s.InFile) }

// ResolvedOutFile returns OutFile with ~ and environment variables expanded.
func (s Settings) ResolvedOutFile() string { return sshconfig.ExpandPath(s.OutFile) }
