// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
)

// TestDefaultConfig tests the default configuration.
func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Publish.ReportFormat != "Cucumber Json" {
		t.Errorf("Expected default format 'Cucumber Json', got '%s'", cfg.Publish.ReportFormat)
	}

	if cfg.Jenkins.TokenEnv != "JENKINS_API_TOKEN" {
		t.Errorf("Expected default Jenkins token env 'JENKINS_API_TOKEN', got '%s'", cfg.Jenkins.TokenEnv)
	}

	if cfg.Global.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.Global.LogLevel)
	}

	if cfg.Publish.PreserveNewlines {
		t.Error("Expected newlines to be stripped by default")
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

// TestLoadFromPath tests loading config from a file.
func TestLoadFromPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configPath, `
server:
  url: https://itms.example.com/api/automation
  username: alice
  token_env: ITMS_TOKEN

publish:
  report_folder: /target/cucumber
  report_format: Cucumber JUnit
  project_key: PRJ
  ticket_key: PRJ-12
  cycle_name: Sprint 7
  preserve_newlines: true

global:
  log_level: debug
`)

	cfg, err := config.NewLoader().LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.URL != "https://itms.example.com/api/automation" {
		t.Errorf("Unexpected server url '%s'", cfg.Server.URL)
	}
	if cfg.Server.TokenEnv != "ITMS_TOKEN" {
		t.Errorf("Expected token_env 'ITMS_TOKEN', got '%s'", cfg.Server.TokenEnv)
	}
	if cfg.Publish.ReportFormat != "Cucumber JUnit" {
		t.Errorf("Expected format 'Cucumber JUnit', got '%s'", cfg.Publish.ReportFormat)
	}
	if !cfg.Publish.PreserveNewlines {
		t.Error("Expected preserve_newlines to be true")
	}
	if cfg.Global.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Global.LogLevel)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := config.NewLoader().LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeConfig(t, bad, "server: [unclosed")
	_, err := config.NewLoader().LoadFromPath(bad)
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Path != bad {
		t.Errorf("Expected ConfigError for %s, got %v", bad, err)
	}
}

// TestLoadPrecedence checks defaults < global < project < environment.
func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	writeConfig(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), `
server:
  url: https://global.example.com
  username: global-user
  token: global-token
publish:
  project_key: GLOBAL
  cycle_name: Global Cycle
`)
	writeConfig(t, filepath.Join(project, config.ProjectConfigFile), `
publish:
  project_key: PROJECT
  ticket_key: PROJECT-1
  report_folder: "  /target/report  "
`)
	t.Setenv("ITMS_PUBLISHER_PUBLISH__TICKET_KEY", "ENV-9")
	t.Setenv("ITMS_PUBLISHER_PUBLISH__REPORT_SKIPPED", "true")

	cfg, err := config.NewLoader().WithHomeDir(home).WithProjectRoot(project).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	checks := map[string][2]string{
		"server.url":            {cfg.Server.URL, "https://global.example.com"},
		"server.username":       {cfg.Server.Username, "global-user"},
		"publish.project_key":   {cfg.Publish.ProjectKey, "PROJECT"},
		"publish.cycle_name":    {cfg.Publish.CycleName, "Global Cycle"},
		"publish.ticket_key":    {cfg.Publish.TicketKey, "ENV-9"},
		"publish.report_folder": {cfg.Publish.ReportFolder, "/target/report"},
		"publish.report_format": {cfg.Publish.ReportFormat, "Cucumber Json"},
		"global.log_level":      {cfg.Global.LogLevel, "info"},
	}
	for key, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s: expected '%s', got '%s'", key, c[1], c[0])
		}
	}
	if !cfg.Publish.ReportSkipped {
		t.Error("Expected report_skipped from environment")
	}
}

func TestLoadSkipGlobal(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile), "server:\n  username: global-user\n")

	cfg, err := config.NewLoader().WithHomeDir(home).WithProjectRoot(t.TempDir()).SkipGlobal().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Username != "" {
		t.Errorf("Expected global config to be skipped, got username '%s'", cfg.Server.Username)
	}
}

func TestLoadInvalidEnvBool(t *testing.T) {
	t.Setenv("ITMS_PUBLISHER_PUBLISH__PRESERVE_NEWLINES", "sometimes")

	_, err := config.NewLoader().WithHomeDir(t.TempDir()).WithProjectRoot(t.TempDir()).Load()
	if err == nil {
		t.Fatal("Expected error for invalid boolean")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yaml")
	writeConfig(t, path, "publish:\n  cycle_name: Nightly\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Publish.CycleName != "Nightly" {
		t.Errorf("Expected cycle 'Nightly', got '%s'", cfg.Publish.CycleName)
	}
	if cfg.Publish.ReportFormat != "Cucumber Json" {
		t.Errorf("Expected defaults to apply, got format '%s'", cfg.Publish.ReportFormat)
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit file")
	}
}

func TestEnvKey(t *testing.T) {
	if got := config.EnvKey("server.url"); got != "ITMS_PUBLISHER_SERVER__URL" {
		t.Errorf("EnvKey = %s", got)
	}
	if got := config.EnvKey("publish.report_folder"); got != "ITMS_PUBLISHER_PUBLISH__REPORT_FOLDER" {
		t.Errorf("EnvKey = %s", got)
	}
}

func TestResolveToken(t *testing.T) {
	t.Setenv("MY_ITMS_TOKEN", "from-env")

	if got := (config.ServerConfig{Token: "inline", TokenEnv: "MY_ITMS_TOKEN"}).ResolveToken(); got != "inline" {
		t.Errorf("Expected inline token, got '%s'", got)
	}
	if got := (config.ServerConfig{TokenEnv: "MY_ITMS_TOKEN"}).ResolveToken(); got != "from-env" {
		t.Errorf("Expected token from env, got '%s'", got)
	}
	if got := (config.ServerConfig{}).ResolveToken(); got != "" {
		t.Errorf("Expected no token, got '%s'", got)
	}
}

func TestSubmissionAddress(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{URL: "https://itms"}}
	if cfg.SubmissionAddress() != "https://itms" {
		t.Errorf("Expected fallback to server url, got '%s'", cfg.SubmissionAddress())
	}
	cfg.Publish.Address = "https://itms/api/automation"
	if cfg.SubmissionAddress() != "https://itms/api/automation" {
		t.Errorf("Expected publish address, got '%s'", cfg.SubmissionAddress())
	}
}

func TestSaveServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.GlobalConfigDir, config.GlobalConfigFile)
	writeConfig(t, path, "publish:\n  project_key: KEEP\n")

	err := config.SaveServer(path, config.ServerConfig{
		URL:      " https://itms.example.com ",
		Username: "alice ",
		Token:    " s3cret",
	})
	if err != nil {
		t.Fatalf("SaveServer failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	cfg, err := config.NewLoader().LoadFromPath(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if cfg.Server.URL != "https://itms.example.com" || cfg.Server.Username != "alice" || cfg.Server.Token != "s3cret" {
		t.Errorf("Unexpected server section %+v", cfg.Server)
	}
	if cfg.Publish.ProjectKey != "KEEP" {
		t.Errorf("Expected other sections to be kept, got project key '%s'", cfg.Publish.ProjectKey)
	}
}
