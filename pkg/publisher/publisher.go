// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package publisher

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/itms-toolkit/itms-publisher/pkg/itms"
	"github.com/itms-toolkit/itms-publisher/pkg/observability"
	"github.com/itms-toolkit/itms-publisher/pkg/report"
)

// Submitter posts one submission. *itms.Client implements it.
type Submitter interface {
	Submit(ctx context.Context, s *itms.Submission) (*itms.Response, error)
}

// Publisher runs the discover, read, assemble, send sequence.
type Publisher struct {
	fs            afero.Fs
	submitter     Submitter
	logger        observability.Logger
	console       io.Writer
	metrics       *observability.Metrics
	runID         string
	reportSkipped bool
	now           func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithFs sets the filesystem report folders are read from.
func WithFs(fs afero.Fs) Option {
	return func(p *Publisher) { p.fs = fs }
}

// WithLogger sets the structured logger.
func WithLogger(l observability.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

// WithConsole sets where human readable progress lines go.
func WithConsole(w io.Writer) Option {
	return func(p *Publisher) { p.console = w }
}

// WithMetrics records run metrics into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(p *Publisher) { p.runID = id }
}

// WithSkippedEntries records an OutcomeSkipped for every non-matching file.
func WithSkippedEntries(enabled bool) Option {
	return func(p *Publisher) { p.reportSkipped = enabled }
}

// New creates a Publisher sending through submitter.
func New(submitter Submitter, opts ...Option) *Publisher {
	p := &Publisher{
		fs:        afero.NewOsFs(),
		submitter: submitter,
		logger:    observability.NewNop(),
		console:   io.Discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.logger = p.logger.With(observability.String("run_id", p.runID))
	return p
}

// RunID identifies this publisher's runs in logs and request headers.
func (p *Publisher) RunID() string {
	return p.runID
}

// BuildSubmission assembles the payload for one file's content.
func BuildSubmission(content string, cfg *Config, build BuildContext) *itms.Submission {
	user := build.User
	if user == "" {
		user = cfg.Credentials.Username
	}

	return &itms.Submission{
		Username:    cfg.Credentials.Username,
		ServiceName: itms.ServiceName,
		Token:       cfg.Credentials.Token,
		ProjectName: cfg.ProjectKey,
		Attributes: []itms.ExecutionAttributes{{
			BuildNumber: build.Number,
			BuildStatus: build.Status(),
			User:        user,
			ReportType:  cfg.Format.String(),
		}},
		TicketKey:     cfg.TicketKey,
		CycleName:     cfg.CycleName,
		IsJSON:        cfg.Format.IsJSON(),
		ReportContent: content,
	}
}

// Process reads one report file and, if it has content, posts it.
func (p *Publisher) Process(ctx context.Context, file *report.ReportFile, cfg *Config, build BuildContext) Outcome {
	log := p.logger.With(observability.String("file", file.Name))

	content, err := file.Content(cfg.Content)
	if err != nil {
		log.Error("failed to read report file", observability.Err(err))
		return Outcome{Kind: OutcomeReadFailed, File: file.Name, Err: err}
	}

	if len(content) == 0 {
		log.Warn("report file is empty")
		return Outcome{Kind: OutcomeEmpty, File: file.Name}
	}

	start := p.now()
	resp, err := p.submitter.Submit(ctx, BuildSubmission(content, cfg, build))
	p.metrics.RecordSubmission(p.now().Sub(start))
	if err != nil {
		log.Error("failed to send report file", observability.Err(err))
		return Outcome{Kind: OutcomeSendFailed, File: file.Name, Err: err}
	}

	log.Info("report file sent",
		observability.Int("status", resp.Code),
		observability.Int("bytes", len(content)))
	return Outcome{Kind: OutcomeSent, File: file.Name, Code: resp.Code, Body: resp.Body}
}

// Run publishes every matching file of the report folder. It never fails:
// folder and per-file problems are recorded in the Result.
func (p *Publisher) Run(ctx context.Context, cfg *Config, build BuildContext) *Result {
	folder := ReportFolderPath(build.Workspace, cfg.ReportFolder)
	result := &Result{RunID: p.runID, Folder: folder}
	defer func() { p.metrics.RecordRunFinished(p.now()) }()

	p.printf("Starting iTMS report publishing")
	p.printf("Report folder: %s", folder)
	p.logger.Info("publishing reports",
		observability.String("folder", folder),
		observability.String("format", cfg.Format.String()),
		observability.Int("build_number", build.Number))

	discoverer := report.NewDiscoverer(p.fs)
	if p.reportSkipped {
		discoverer.OnSkipped(func(e report.Entry) {
			o := Outcome{Kind: OutcomeSkipped, File: e.Name}
			p.record(result, o)
		})
	}

	files, err := discoverer.Discover(folder, cfg.Format)
	if err != nil {
		result.FolderErr = err
		p.logger.Warn("report folder unavailable", observability.Err(err))
		p.printf("Report folder is empty or unreadable: %s", folder)
		p.printf("Finished iTMS report publishing")
		return result
	}

	for file := range files {
		result.Matched++
		p.metrics.RecordMatched()
		p.printf("Read report file: %s", file.Name)
		p.record(result, p.Process(ctx, file, cfg, build))
	}

	if result.Matched == 0 {
		p.logger.Info("no report file matched", observability.String("folder", folder))
		p.printf("Report file not found! Check your report folder and format type")
	}

	p.printf("Finished iTMS report publishing")
	return result
}

func (p *Publisher) record(result *Result, o Outcome) {
	result.Outcomes = append(result.Outcomes, o)
	p.metrics.RecordOutcome(string(o.Kind))
	p.printf("%s", o)
}

func (p *Publisher) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.console, format+"\n", args...)
}
