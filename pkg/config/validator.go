// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/itms-toolkit/itms-publisher/pkg/report"
)

// Form messages shown to the user by the test actions.
const (
	MsgServerRequired   = "Please enter the iTMS server address"
	MsgUsernameRequired = "Please enter the username"
	MsgTokenRequired    = "Please enter the token"
	MsgInvalidURL       = "This value is not a valid url!"
	MsgFolderSlash      = "Please begin with forward slash! Ex: /target/report "
	MsgFolderRequired   = "Please enter the report folder"
	MsgProjectRequired  = "Please enter the project key"
	MsgTicketRequired   = "Please enter the ticket key"
	MsgCycleRequired    = "Please enter the cycle name"
	MsgConnectionOK     = "Connection to iTMS has been validated"
	MsgConfigurationOK  = "Configuration is valid!"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks everything a publish run needs and reports every
// problem found, not just the first.
func (v *Validator) Validate(cfg *Config) error {
	var result *multierror.Error

	if err := v.ValidateServer(&cfg.Server); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.ValidatePublish(cfg); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.ValidateGlobal(&cfg.Global); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// ValidateServer validates the credentials section.
func (v *Validator) ValidateServer(cfg *ServerConfig) error {
	var result *multierror.Error
	if isBlank(cfg.Username) {
		result = multierror.Append(result, &ValidationError{Field: "server.username", Message: MsgUsernameRequired})
	}
	if isBlank(cfg.ResolveToken()) {
		result = multierror.Append(result, &ValidationError{Field: "server.token", Message: MsgTokenRequired})
	}
	return result.ErrorOrNil()
}

// ValidatePublish validates the submission target and report settings.
func (v *Validator) ValidatePublish(cfg *Config) error {
	var result *multierror.Error
	p := cfg.Publish

	address := cfg.SubmissionAddress()
	switch {
	case isBlank(address):
		result = multierror.Append(result, &ValidationError{Field: "publish.address", Message: MsgServerRequired})
	case !IsValidURL(address):
		result = multierror.Append(result, &ValidationError{Field: "publish.address", Value: address, Message: MsgInvalidURL})
	}

	switch {
	case isBlank(p.ReportFolder):
		result = multierror.Append(result, &ValidationError{Field: "publish.report_folder", Message: MsgFolderRequired})
	case !strings.HasPrefix(p.ReportFolder, "/"):
		result = multierror.Append(result, &ValidationError{Field: "publish.report_folder", Value: p.ReportFolder, Message: MsgFolderSlash})
	}

	if _, err := report.ParseFormat(p.ReportFormat); err != nil {
		result = multierror.Append(result, &ValidationError{
			Field:   "publish.report_format",
			Value:   p.ReportFormat,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(formatNames(), ", ")),
		})
	}

	required := []struct {
		field, value, msg string
	}{
		{"publish.project_key", p.ProjectKey, MsgProjectRequired},
		{"publish.ticket_key", p.TicketKey, MsgTicketRequired},
		{"publish.cycle_name", p.CycleName, MsgCycleRequired},
	}
	for _, r := range required {
		if isBlank(r.value) {
			result = multierror.Append(result, &ValidationError{Field: r.field, Message: r.msg})
		}
	}

	return result.ErrorOrNil()
}

// ValidateGlobal validates global configuration.
func (v *Validator) ValidateGlobal(cfg *GlobalConfig) error {
	if cfg.LogLevel != "" {
		valid := false
		for _, level := range validLogLevels {
			if strings.EqualFold(cfg.LogLevel, level) {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{
				Field:   "global.log_level",
				Value:   cfg.LogLevel,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
			}
		}
	}
	return nil
}

// ValidateConnection runs the checks of the test connection action and
// returns the first failure.
func ValidateConnection(server, username, token string) error {
	switch {
	case isBlank(server):
		return &ValidationError{Field: "server.url", Message: MsgServerRequired}
	case isBlank(username):
		return &ValidationError{Field: "server.username", Message: MsgUsernameRequired}
	case isBlank(token):
		return &ValidationError{Field: "server.token", Message: MsgTokenRequired}
	}
	return nil
}

// ValidateConfiguration runs the checks of the test configuration action
// and returns the first failure.
func ValidateConfiguration(address, folder, projectKey, ticketKey, cycleName string) error {
	switch {
	case isBlank(address):
		return &ValidationError{Field: "publish.address", Message: MsgServerRequired}
	case !IsValidURL(address):
		return &ValidationError{Field: "publish.address", Value: address, Message: MsgInvalidURL}
	case isBlank(folder):
		return &ValidationError{Field: "publish.report_folder", Message: MsgFolderRequired}
	case !strings.HasPrefix(strings.TrimSpace(folder), "/"):
		return &ValidationError{Field: "publish.report_folder", Value: folder, Message: MsgFolderSlash}
	case isBlank(projectKey):
		return &ValidationError{Field: "publish.project_key", Message: MsgProjectRequired}
	case isBlank(ticketKey):
		return &ValidationError{Field: "publish.ticket_key", Message: MsgTicketRequired}
	case isBlank(cycleName):
		return &ValidationError{Field: "publish.cycle_name", Message: MsgCycleRequired}
	}
	return nil
}

// IsValidURL reports whether s is an absolute http or https URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func formatNames() []string {
	names := make([]string, 0, 2)
	for _, f := range report.Formats() {
		names = append(names, f.String())
	}
	return names
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
