// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package report

import (
	"iter"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/itms-toolkit/itms-publisher/pkg/errors"
)

// Entry is a regular file found in the report folder.
type Entry struct {
	Name    string
	Path    string
	Matched bool
}

// Discoverer lists report folders on a filesystem.
type Discoverer struct {
	fs      afero.Fs
	skipped func(Entry)
}

// NewDiscoverer creates a Discoverer. A nil fs means the OS filesystem.
func NewDiscoverer(fs afero.Fs) *Discoverer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Discoverer{fs: fs}
}

// OnSkipped registers fn to be called, in iteration order, for every regular
// file that does not match the format.
func (d *Discoverer) OnSkipped(fn func(Entry)) *Discoverer {
	d.skipped = fn
	return d
}

// Scan lists the regular files directly inside dir and marks those matching format.
// Subdirectories are not recursed. A missing or unlistable dir yields an
// ErrDirectoryUnavailable error.
func (d *Discoverer) Scan(dir string, format Format) ([]Entry, error) {
	infos, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return nil, errors.DirectoryUnavailable(dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name:    info.Name(),
			Path:    filepath.Join(dir, info.Name()),
			Matched: format.Matches(info.Name()),
		})
	}
	return entries, nil
}

// Discover returns the report files in dir matching format.
// Files are yielded one at a time and their content is not read until requested.
func (d *Discoverer) Discover(dir string, format Format) (iter.Seq[*ReportFile], error) {
	entries, err := d.Scan(dir, format)
	if err != nil {
		return nil, err
	}

	return func(yield func(*ReportFile) bool) {
		for _, e := range entries {
			if !e.Matched {
				if d.skipped != nil {
					d.skipped(e)
				}
				continue
			}
			if !yield(NewReportFile(d.fs, e.Name, e.Path)) {
				return
			}
		}
	}, nil
}

// Discover is a convenience wrapper around NewDiscoverer(fs).Discover.
func Discover(fs afero.Fs, dir string, format Format) (iter.Seq[*ReportFile], error) {
	return NewDiscoverer(fs).Discover(dir, format)
}
