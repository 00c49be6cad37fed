// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/itms-toolkit/itms-publisher/pkg/config"
	"github.com/itms-toolkit/itms-publisher/pkg/errors"
	"github.com/itms-toolkit/itms-publisher/pkg/itms"
	"github.com/itms-toolkit/itms-publisher/pkg/jenkins"
	"github.com/itms-toolkit/itms-publisher/pkg/observability"
	"github.com/itms-toolkit/itms-publisher/pkg/publisher"
	"github.com/itms-toolkit/itms-publisher/pkg/report"
)

// publishFlags holds the build context flags of the publish command.
// Everything else is a config key bound through publishBindings.
type publishFlags struct {
	workspace   string
	jobName     string
	buildNumber int
	buildStatus string
	buildUser   string
	timeout     time.Duration
}

var serverBindings = []binding{
	{"server.url", "server"},
	{"server.username", "username"},
	{"server.token", "token"},
}

var publishBindings = append([]binding{
	{"publish.address", "address"},
	{"publish.report_folder", "report-folder"},
	{"publish.report_format", "report-format"},
	{"publish.project_key", "project-key"},
	{"publish.ticket_key", "ticket-key"},
	{"publish.cycle_name", "cycle-name"},
	{"publish.preserve_newlines", "preserve-newlines"},
	{"publish.report_skipped", "report-skipped"},
	{"global.metrics_file", "metrics-file"},
}, serverBindings...)

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("server", "", "iTMS server address")
	cmd.Flags().String("username", "", "iTMS username")
	cmd.Flags().String("token", "", "iTMS token")
}

func addPublishFlags(cmd *cobra.Command) {
	addServerFlags(cmd)
	cmd.Flags().String("address", "", "address submissions are posted to (default is the server address)")
	cmd.Flags().StringP("report-folder", "f", "", "report folder relative to the workspace, e.g. /target/report")
	cmd.Flags().String("report-format", "", `report format: "Cucumber Json" or "Cucumber JUnit"`)
	cmd.Flags().String("project-key", "", "iTMS project key")
	cmd.Flags().String("ticket-key", "", "iTMS ticket key")
	cmd.Flags().String("cycle-name", "", "iTMS test cycle name")
}

func newPublishCmd(g *globalOptions) *cobra.Command {
	opts := &publishFlags{}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the build's report files to iTMS",
		Long: `Publish every report file of the report folder to iTMS.

Each matching file is posted once. Empty files are reported and skipped.
Per-file failures are printed but do not fail the command; only an invalid
configuration does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, publishBindings...)
			if err != nil {
				return err
			}
			return runPublish(cmd, cfg, opts)
		},
	}

	addPublishFlags(cmd)
	cmd.Flags().Bool("preserve-newlines", false, "send report content verbatim instead of stripping line separators")
	cmd.Flags().Bool("report-skipped", false, "list files that do not match the report format")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics of the run to this file")
	cmd.Flags().StringVar(&opts.workspace, "workspace", "", "workspace root (default is $WORKSPACE or the current directory)")
	cmd.Flags().StringVar(&opts.jobName, "job-name", "", "Jenkins job name (default is $JOB_NAME)")
	cmd.Flags().IntVar(&opts.buildNumber, "build-number", 0, "build number (default is $BUILD_NUMBER)")
	cmd.Flags().StringVar(&opts.buildStatus, "build-status", "", "build result, e.g. SUCCESS or FAILURE")
	cmd.Flags().StringVar(&opts.buildUser, "build-user", "", "user who triggered the build")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "timeout of each request to iTMS (default is no timeout)")

	return cmd
}

func runPublish(cmd *cobra.Command, cfg *config.Config, opts *publishFlags) error {
	if err := config.NewValidator().Validate(cfg); err != nil {
		return errors.ValidationError("invalid configuration", err)
	}
	format, err := report.ParseFormat(cfg.Publish.ReportFormat)
	if err != nil {
		return errors.ValidationError("invalid report format", err)
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	build, err := resolveBuild(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	content := report.StripNewlines
	if cfg.Publish.PreserveNewlines {
		content = report.Verbatim
	}

	runID := uuid.NewString()
	client := itms.New(cfg.SubmissionAddress(),
		itms.WithRequestID(runID),
		itms.WithTimeout(opts.timeout))
	metrics := observability.NewMetrics()

	pub := publisher.New(client,
		publisher.WithFs(afero.NewOsFs()),
		publisher.WithLogger(logger),
		publisher.WithConsole(cmd.OutOrStdout()),
		publisher.WithMetrics(metrics),
		publisher.WithRunID(runID),
		publisher.WithSkippedEntries(cfg.Publish.ReportSkipped))

	result := pub.Run(ctx, &publisher.Config{
		Address: client.Address(),
		Credentials: itms.Credentials{
			Username: cfg.Server.Username,
			Token:    cfg.Server.ResolveToken(),
		},
		ReportFolder: cfg.Publish.ReportFolder,
		Format:       format,
		ProjectKey:   cfg.Publish.ProjectKey,
		TicketKey:    cfg.Publish.TicketKey,
		CycleName:    cfg.Publish.CycleName,
		Content:      content,
	}, build)

	fmt.Fprintf(cmd.OutOrStdout(), "Summary: %s\n", result.Summary())

	if cfg.Global.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Global.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file",
				observability.String("path", cfg.Global.MetricsFile),
				observability.Err(err))
		}
	}

	return nil
}

// resolveBuild combines the Jenkins environment, the command-line flags and,
// when the result or user is still unknown, the Jenkins REST API.
func resolveBuild(ctx context.Context, cfg *config.Config, opts *publishFlags, logger observability.Logger) (publisher.BuildContext, error) {
	b, err := jenkins.FromEnv(os.Getenv)
	if err != nil {
		return publisher.BuildContext{}, errors.ConfigError("invalid build environment", err)
	}

	if opts.workspace != "" {
		b.Workspace = opts.workspace
	}
	if opts.jobName != "" {
		b.JobName = opts.jobName
	}
	if opts.buildNumber > 0 {
		b.Number = opts.buildNumber
	}
	if opts.buildStatus != "" {
		b.Result = opts.buildStatus
	}
	if opts.buildUser != "" {
		b.User = opts.buildUser
	}
	if b.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return publisher.BuildContext{}, errors.ConfigError("failed to determine workspace", err)
		}
		b.Workspace = wd
	}

	if (b.Result == "" || b.User == "") && b.JobName != "" && b.Number > 0 {
		resolveFromJenkins(ctx, cfg, b, logger)
	}

	logger.Debug("build context resolved",
		observability.Bool("jenkins", jenkins.Detect(os.Getenv)),
		observability.String("job", b.JobName),
		observability.Int("build_number", b.Number),
		observability.String("result", b.Result),
		observability.String("user", b.User))

	return publisher.BuildContext{
		Number:    b.Number,
		Result:    b.Result,
		User:      b.User,
		Workspace: b.Workspace,
	}, nil
}

func resolveFromJenkins(ctx context.Context, cfg *config.Config, b *jenkins.Build, logger observability.Logger) {
	baseURL := cfg.Jenkins.URL
	if baseURL == "" {
		baseURL = b.URL
	}
	if baseURL == "" || cfg.Jenkins.Username == "" {
		return
	}

	client, err := jenkins.NewClient(baseURL, cfg.Jenkins.Username, cfg.Jenkins.Token())
	if err == nil {
		err = client.Resolve(ctx, b)
	}
	if err != nil {
		logger.Warn("failed to resolve build from Jenkins", observability.Err(err))
	}
}
