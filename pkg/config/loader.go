// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "ITMS_PUBLISHER"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".itms-publisher.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".itms-publisher"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	homeDir     string
	skipGlobal  bool
	explicit    string
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithHomeDir overrides the directory the global config is searched in.
func (l *Loader) WithHomeDir(dir string) *Loader {
	l.homeDir = dir
	return l
}

// WithFile loads path in place of the project config. The file must exist.
func (l *Loader) WithFile(path string) *Loader {
	l.explicit = path
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.itms-publisher/config.yaml)
// 3. Project Config (./.itms-publisher.yaml) or the explicit file
// 4. Environment Variables (ITMS_PUBLISHER_*)
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if !l.skipGlobal {
		globalCfg, err := l.loadOptional(l.GlobalPath())
		if err != nil {
			return nil, err
		}
		if globalCfg != nil {
			mergeConfig(cfg, globalCfg)
		}
	}

	if l.explicit != "" {
		fileCfg, err := l.LoadFromPath(l.explicit)
		if err != nil {
			return nil, err
		}
		mergeConfig(cfg, fileCfg)
	} else {
		projectCfg, err := l.loadOptional(GetProjectConfigPath(l.projectRoot))
		if err != nil {
			return nil, err
		}
		if projectCfg != nil {
			mergeConfig(cfg, projectCfg)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Trim()
	return cfg, nil
}

// GlobalPath returns the global config file path.
func (l *Loader) GlobalPath() string {
	if l.homeDir != "" {
		return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
	}
	return GetDefaultConfigPath()
}

// LoadFromPath loads a single config file without defaults.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// loadOptional loads path if it exists. A missing file is not an error,
// a malformed one is.
func (l *Loader) loadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return l.LoadFromPath(path)
}

// EnvKey returns the environment variable overriding a dotted config key:
// "server.url" is read from ITMS_PUBLISHER_SERVER__URL.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// applyEnvOverrides applies environment variable overrides.
// Format: ITMS_PUBLISHER_SECTION__KEY=value
func applyEnvOverrides(cfg *Config) error {
	for key, dst := range cfg.StringFields() {
		if v := os.Getenv(EnvKey(key)); v != "" {
			*dst = v
		}
	}

	for key, dst := range cfg.BoolFields() {
		v := os.Getenv(EnvKey(key))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: EnvKey(key), Err: err}
		}
		*dst = b
	}

	return nil
}

// mergeConfig merges src into dst (src overrides dst).
// Empty strings and false booleans in src leave dst unchanged.
func mergeConfig(dst, src *Config) {
	dstStrings := dst.StringFields()
	for key, v := range src.StringFields() {
		if *v != "" {
			*dstStrings[key] = *v
		}
	}

	dstBools := dst.BoolFields()
	for key, v := range src.BoolFields() {
		if *v {
			*dstBools[key] = true
		}
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "config error in " + e.Path + ": " + e.Err.Error()
	}
	if e.Field != "" {
		return "config error for " + e.Field + ": " + e.Err.Error()
	}
	return "config error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
