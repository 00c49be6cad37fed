// Package config handles configuration loading and persistence
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a specific file path on top of the defaults
func Load(path string) (*Config, error) {
	cfg, err := NewLoader().SkipGlobal().WithFile(path).Load()
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to load config file: %s", path), err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. The file holds
// credentials so it is written owner-only.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.ConfigError("failed to encode config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to create config directory for %s", path), err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to write config file: %s", path), err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o600); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to restrict config file: %s", path), err)
	}
	return nil
}

// SaveServer replaces the server section of the config file at path,
// keeping every other section already stored there
func SaveServer(path string, server ServerConfig) error {
	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	cfg.Server = server
	cfg.Server.URL = strings.TrimSpace(cfg.Server.URL)
	cfg.Server.Username = strings.TrimSpace(cfg.Server.Username)
	cfg.Server.Token = strings.TrimSpace(cfg.Server.Token)
	return Save(path, cfg)
}
