// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for itms-publisher.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.itms-publisher/config.yaml
// 3. Project Config: ./.itms-publisher.yaml
// 4. Environment Variables: ITMS_PUBLISHER_*
// 5. Command-line flags (applied by the CLI)
package config

import (
	"os"
	"strings"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Publish PublishConfig `yaml:"publish"`
	Jenkins JenkinsConfig `yaml:"jenkins"`
	Global  GlobalConfig  `yaml:"global"`
}

// ServerConfig holds the iTMS server address and credentials.
type ServerConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Token    string `yaml:"token,omitempty"`
	TokenEnv string `yaml:"token_env,omitempty"` // e.g., "ITMS_TOKEN"
}

// ResolveToken returns the token, reading it from TokenEnv when not set inline.
func (s ServerConfig) ResolveToken() string {
	if s.Token != "" {
		return s.Token
	}
	if s.TokenEnv != "" {
		return os.Getenv(s.TokenEnv)
	}
	return ""
}

// PublishConfig describes what a publish run submits.
type PublishConfig struct {
	// Address receives the submissions. Falls back to server.url.
	Address          string `yaml:"address"`
	ReportFolder     string `yaml:"report_folder"`
	ReportFormat     string `yaml:"report_format"`
	ProjectKey       string `yaml:"project_key"`
	TicketKey        string `yaml:"ticket_key"`
	CycleName        string `yaml:"cycle_name"`
	PreserveNewlines bool   `yaml:"preserve_newlines"`
	ReportSkipped    bool   `yaml:"report_skipped"`
}

// SubmissionAddress returns the address submissions are posted to.
func (c *Config) SubmissionAddress() string {
	if c.Publish.Address != "" {
		return c.Publish.Address
	}
	return c.Server.URL
}

// JenkinsConfig holds the optional Jenkins REST credentials used to look up
// the build result and triggering user.
type JenkinsConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	TokenEnv string `yaml:"token_env"` // e.g., "JENKINS_API_TOKEN"
}

// Token returns the Jenkins API token from the environment.
func (j JenkinsConfig) Token() string {
	if j.TokenEnv == "" {
		return ""
	}
	return os.Getenv(j.TokenEnv)
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	LogFile     string `yaml:"log_file"`     // JSON log file, rotated
	MetricsFile string `yaml:"metrics_file"` // Prometheus textfile output
}

// Trim removes surrounding whitespace from every user supplied string.
func (c *Config) Trim() {
	for _, s := range []*string{
		&c.Server.URL, &c.Server.Username, &c.Server.Token, &c.Server.TokenEnv,
		&c.Publish.Address, &c.Publish.ReportFolder, &c.Publish.ReportFormat,
		&c.Publish.ProjectKey, &c.Publish.TicketKey, &c.Publish.CycleName,
		&c.Jenkins.URL, &c.Jenkins.Username, &c.Jenkins.TokenEnv,
		&c.Global.LogLevel, &c.Global.LogFile, &c.Global.MetricsFile,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// StringFields maps dotted keys such as "publish.report_folder" to the
// string settings of c. Environment and flag overrides are applied through it.
func (c *Config) StringFields() map[string]*string {
	return map[string]*string{
		"server.url":            &c.Server.URL,
		"server.username":       &c.Server.Username,
		"server.token":          &c.Server.Token,
		"server.token_env":      &c.Server.TokenEnv,
		"publish.address":       &c.Publish.Address,
		"publish.report_folder": &c.Publish.ReportFolder,
		"publish.report_format": &c.Publish.ReportFormat,
		"publish.project_key":   &c.Publish.ProjectKey,
		"publish.ticket_key":    &c.Publish.TicketKey,
		"publish.cycle_name":    &c.Publish.CycleName,
		"jenkins.url":           &c.Jenkins.URL,
		"jenkins.username":      &c.Jenkins.Username,
		"jenkins.token_env":     &c.Jenkins.TokenEnv,
		"global.log_level":      &c.Global.LogLevel,
		"global.log_file":       &c.Global.LogFile,
		"global.metrics_file":   &c.Global.MetricsFile,
	}
}

// BoolFields is the boolean counterpart of StringFields.
func (c *Config) BoolFields() map[string]*bool {
	return map[string]*bool{
		"publish.preserve_newlines": &c.Publish.PreserveNewlines,
		"publish.report_skipped":    &c.Publish.ReportSkipped,
	}
}
