// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package report discovers Cucumber result files in a report folder.
package report

import (
	"fmt"
	"strings"
)

// Format selects which report files are ingested.
type Format string

const (
	// FormatJSON selects Cucumber JSON reports (*.json).
	FormatJSON Format = "Cucumber Json"
	// FormatJUnit selects Cucumber JUnit XML reports (*.xml).
	FormatJUnit Format = "Cucumber JUnit"
)

// Formats returns the selector values in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatJUnit}
}

// ParseFormat converts a user supplied selector into a Format.
// Display names are matched case-insensitively; json, junit and xml are accepted as short forms.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(string(FormatJSON)), "json":
		return FormatJSON, nil
	case strings.ToLower(string(FormatJUnit)), "junit", "xml":
		return FormatJUnit, nil
	default:
		return "", fmt.Errorf("unknown report format %q: must be one of %q, %q", s, FormatJSON, FormatJUnit)
	}
}

// String returns the display name.
func (f Format) String() string {
	return string(f)
}

// Extension returns the lower-case file extension matched by the format.
func (f Format) Extension() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".xml"
}

// IsJSON reports whether the format is the JSON selector.
func (f Format) IsJSON() bool {
	return f == FormatJSON
}

// Matches reports whether a file name carries the format's extension.
func (f Format) Matches(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), f.Extension())
}
