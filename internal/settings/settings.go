// Package settings persists user-editable preferences to the XDG config
// directory. Unlike config, which is read-only layered configuration,
// settings are written back by commands such as `deckhand config set`.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "deckhand"
	settingsFile = "settings.yaml"
)

// Settings are the persisted user preferences.
type Settings struct {
	DefaultWorkspace string `yaml:"default_workspace,omitempty"`
	DefaultProject   string `yaml:"default_project,omitempty"`
	OutputFormat     string `yaml:"output_format,omitempty"`
}

// Path returns the location of the settings file.
func Path() string {
	configDir := gfconfig.GetAppConfigDir(appName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, settingsFile)
}

// Load reads settings from disk. A missing file yields zero settings.
func Load() (*Settings, error) {
	path := Path()
	if path == "" {
		return &Settings{}, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from XDG discovery
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := &Settings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to disk, creating the config directory if needed.
func Save(settings *Settings) error {
	if settings == nil {
		return errors.New("settings are required")
	}

	path := Path()
	if path == "" {
		return errors.New("config directory could not be determined")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
