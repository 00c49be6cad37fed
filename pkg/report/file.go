// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package report

import (
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/itms-toolkit/itms-publisher/pkg/errors"
)

// ContentPolicy controls how line separators are treated when a report is read.
type ContentPolicy int

const (
	// StripNewlines joins the file's lines without separators.
	StripNewlines ContentPolicy = iota
	// Verbatim keeps the file content byte for byte.
	Verbatim
)

var errInvalidUTF8 = stderrors.New("content is not valid UTF-8")

var lineSeparators = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// ReportFile is a report folder entry matching the selected format.
// Its content is read only when Content is called.
type ReportFile struct {
	Name string
	Path string

	fs afero.Fs
}

// NewReportFile returns a ReportFile backed by fs.
func NewReportFile(fs afero.Fs, name, path string) *ReportFile {
	return &ReportFile{Name: name, Path: path, fs: fs}
}

// Content reads the whole file as UTF-8 text.
func (f *ReportFile) Content(policy ContentPolicy) (string, error) {
	data, err := afero.ReadFile(f.fs, f.Path)
	if err != nil {
		return "", errors.FileReadError(f.Name, err)
	}
	if !utf8.Valid(data) {
		return "", errors.FileReadError(f.Name, errInvalidUTF8)
	}

	content := string(data)
	if policy == StripNewlines {
		content = lineSeparators.Replace(content)
	}
	return content, nil
}
