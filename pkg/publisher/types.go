// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package publisher submits a build's Cucumber reports to iTMS.
//
// A run discovers the report files of one folder, reads each one, wraps its
// content with build metadata and posts it. Every file ends in an Outcome;
// failures are recorded, never returned.
package publisher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/itms-toolkit/itms-publisher/pkg/itms"
	"github.com/itms-toolkit/itms-publisher/pkg/report"
)

// Config is the validated input of one run.
type Config struct {
	Address      string
	Credentials  itms.Credentials
	ReportFolder string
	Format       report.Format
	ProjectKey   string
	TicketKey    string
	CycleName    string
	Content      report.ContentPolicy
}

// BuildContext describes the finished build. It is read once per run.
type BuildContext struct {
	Number    int
	Result    string
	User      string
	Workspace string
}

// Status returns the build result as transmitted.
func (b BuildContext) Status() string {
	s := strings.ToLower(strings.TrimSpace(b.Result))
	if s == "" {
		return "unknown"
	}
	return s
}

// ReportFolderPath resolves a report folder against the workspace root.
func ReportFolderPath(workspace, folder string) string {
	if workspace == "" {
		return filepath.Clean(folder)
	}
	return filepath.Join(workspace, folder)
}

// OutcomeKind classifies what happened to one report file.
type OutcomeKind string

const (
	// OutcomeSent means iTMS answered, whatever the status code.
	OutcomeSent OutcomeKind = "sent"
	// OutcomeEmpty means the file had no content and nothing was posted.
	OutcomeEmpty OutcomeKind = "empty"
	// OutcomeSkipped means the entry did not match the format.
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeReadFailed means the file could not be read.
	OutcomeReadFailed OutcomeKind = "read_failed"
	// OutcomeSendFailed means the POST did not produce a response.
	OutcomeSendFailed OutcomeKind = "send_failed"
)

// Outcome is the result for one file.
type Outcome struct {
	Kind OutcomeKind
	File string
	// Code and Body are set for OutcomeSent.
	Code int
	Body string
	// Err is set for the failure kinds.
	Err error
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSent:
		return fmt.Sprintf("%s: iTMS response code: %d, message: %s", o.File, o.Code, o.Body)
	case OutcomeEmpty:
		return fmt.Sprintf("%s is empty!", o.File)
	case OutcomeSkipped:
		return fmt.Sprintf("%s skipped: extension does not match the report format", o.File)
	case OutcomeReadFailed:
		return fmt.Sprintf("%s could not be read: %v", o.File, o.Err)
	case OutcomeSendFailed:
		return fmt.Sprintf("%s could not be sent: %v", o.File, o.Err)
	default:
		return o.File
	}
}

// Result collects the outcomes of one run in discovery order.
type Result struct {
	RunID    string
	Folder   string
	Matched  int
	Outcomes []Outcome
	// FolderErr is set when the report folder could not be listed.
	FolderErr error
}

// Count returns the number of outcomes of kind.
func (r *Result) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Summary is a one line description of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d matched, %d sent, %d empty, %d failed",
		r.Matched,
		r.Count(OutcomeSent),
		r.Count(OutcomeEmpty),
		r.Count(OutcomeReadFailed)+r.Count(OutcomeSendFailed))
}
