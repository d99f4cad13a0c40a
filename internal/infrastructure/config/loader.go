// Package config loads the YAML configuration file, writing the embedded
// defaults on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/asoforge/assets"
	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// FileLoader loads YAML configuration from ~/.asoforge/config.yaml
// (overridable via ASOFORGE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path falls back to the env
// override and then the home-directory default.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. Missing file writes the embedded
// defaults first so the user has something to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Save writes cfg back to the resolved config path.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Reset overwrites the config file with the embedded defaults and returns
// the resulting configuration.
func (l *FileLoader) Reset() (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, 0o600); err != nil {
		return domain.Config{}, err
	}
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved configuration file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("ASOFORGE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".asoforge", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Backend.AuthEnvVar == "" {
		cfg.Backend.AuthEnvVar = "ASOFORGE_TOKEN"
	}
	if cfg.Tools.Country == "" {
		cfg.Tools.Country = "us"
	}
	if cfg.Export.Root == "" {
		cfg.Export.Root = "~/asoforge-exports"
	}
	if cfg.Images.OpenAIModel == "" {
		cfg.Images.OpenAIModel = "dall-e-3"
	}
	if cfg.Images.GeminiModel == "" {
		cfg.Images.GeminiModel = "gemini-2.5-flash-image"
	}
	return cfg
}

// ExpandPath resolves ~/ prefixes and relative paths against the home
// directory and working directory respectively.
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
