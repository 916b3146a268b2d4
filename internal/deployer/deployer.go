// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package deployer orchestrates a deployment run: it resolves configuration, optionally
// runs preflight checks, discovers scripts, executes them in order and reports the outcome.
package deployer

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/discovery"
	"github.com/matt-FFFFFF/indexdeploy/internal/preflight"
	"github.com/matt-FFFFFF/indexdeploy/internal/report"
	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
	"github.com/sethvargo/go-envconfig"
)

// ErrNoScripts is returned when no scripts were found and empty runs are configured to fail.
var ErrNoScripts = errors.New("no scripts found")

// Deployer runs one deployment. Zero values are replaced with production defaults.
type Deployer struct {
	// Lookuper supplies configuration values, see config.Lookuper.
	Lookuper envconfig.Lookuper
	// RunID identifies the run in logs and artifact names. A random UUID is used when empty.
	RunID string
	// Now is the clock, time.Now by default.
	Now func() time.Time
	// Console receives the human readable summary, os.Stdout by default.
	Console io.Writer
	// OutputOptions controls the console summary.
	OutputOptions *runbatch.OutputOptions
	// Artifacts names the run artifacts. When unset they are derived from the resolved log directory.
	Artifacts report.Artifacts
	// Signals are forwarded to the running script.
	Signals <-chan os.Signal
	// NewExecutor creates the script executor, runbatch.NewToolExecutor by default.
	NewExecutor func(cfg *config.Config) runbatch.Executor
	// Preflight runs the preflight checks when enabled, preflight.Checker by default.
	Preflight func(ctx context.Context, cfg *config.Config) error

	state atomic.Int32
}

// State returns the current stage of the run.
func (d *Deployer) State() State {
	return State(d.state.Load())
}

func (d *Deployer) setState(ctx context.Context, s State) {
	prev := State(d.state.Swap(int32(s)))
	ctxlog.Debug(ctx, "state transition", "from", prev.String(), "to", s.String())
}

func (d *Deployer) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}

// ID returns the run ID, generating one on first use.
func (d *Deployer) ID() string {
	if d.RunID == "" {
		d.RunID = uuid.NewString()
	}

	return d.RunID
}

// Run performs the deployment. The returned summary is never nil.
//
// A non-nil error means the run was aborted before any script executed:
// a *config.ConfigurationError, a *preflight.Error, a *discovery.DiscoveryError or ErrNoScripts.
// Script failures are reported in the summary only.
func (d *Deployer) Run(ctx context.Context) (*runbatch.Summary, error) {
	summary := runbatch.NewSummary(d.ID(), "", d.now())
	ctx = ctxlog.New(ctx, ctxlog.Logger(ctx).With("runId", summary.RunID))

	ctxlog.Info(ctx, "index deployment started")

	d.setState(ctx, StateResolvingConfig)

	cfg, err := d.resolve(ctx)
	if err != nil {
		return d.abort(ctx, nil, summary, err)
	}

	summary.Directory = cfg.ScriptDirectory

	if cfg.Preflight {
		d.setState(ctx, StatePreflight)

		if err := d.preflight(ctx, cfg); err != nil {
			return d.abort(ctx, cfg, summary, err)
		}
	}

	d.setState(ctx, StateDiscovering)

	scripts, dir, cleanup, err := d.discover(ctx, cfg)
	defer cleanup()

	if err != nil {
		return d.abort(ctx, cfg, summary, err)
	}

	summary.Directory = dir
	summary.Discovered = discovery.Names(scripts)

	if len(scripts) == 0 {
		ctxlog.Warn(ctx, "no scripts found", "directory", dir, "extension", cfg.ScriptExtension)

		if cfg.FailOnEmpty {
			return d.abort(ctx, cfg, summary, ErrNoScripts)
		}
	}

	d.setState(ctx, StateExecuting)

	batch := &runbatch.SerialBatch{
		Executor: d.executor(cfg),
		Scripts:  scripts,
	}
	batch.Run(ctx, summary)

	d.summarize(ctx, cfg, summary)
	d.setState(ctx, StateDone)

	return summary, nil
}

// Plan resolves the configuration and discovers the scripts a run would execute, in order,
// without executing anything. The cleanup function removes a fetched script source and is never nil.
func (d *Deployer) Plan(ctx context.Context) (*config.Config, []discovery.ScriptFile, func(), error) {
	cfg, err := d.resolve(ctx)
	if err != nil {
		return nil, nil, func() {}, err
	}

	scripts, _, cleanup, err := d.discover(ctx, cfg)

	return cfg, scripts, cleanup, err
}

func (d *Deployer) resolve(ctx context.Context) (*config.Config, error) {
	l := d.Lookuper
	if l == nil {
		var err error

		l, err = config.Lookuper(nil, "")
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	cfg, err := config.Resolve(ctx, l)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	ctxlog.Info(ctx, "configuration resolved",
		"connection", cfg.ConnectionString,
		"directory", cfg.ScriptDirectory,
		"source", cfg.ScriptSource,
		"timeout", cfg.ScriptTimeout.String(),
		"tool", cfg.Tool,
		"preflight", cfg.Preflight)

	return cfg, nil
}

func (d *Deployer) preflight(ctx context.Context, cfg *config.Config) error {
	if d.Preflight != nil {
		return d.Preflight(ctx, cfg)
	}

	return preflight.New(cfg).Run(ctx)
}

// discover fetches the script source if one is configured and lists the scripts.
// The returned cleanup function is never nil.
func (d *Deployer) discover(ctx context.Context, cfg *config.Config) ([]discovery.ScriptFile, string, func(), error) {
	dir := cfg.ScriptDirectory
	cleanup := func() {}

	if cfg.ScriptSource != "" {
		ctxlog.Info(ctx, "fetching script source", "source", cfg.ScriptSource)

		fetched, fetchCleanup, err := discovery.Fetch(ctx, cfg.ScriptSource)
		if err != nil {
			return nil, cfg.ScriptSource, fetchCleanup, err //nolint:wrapcheck
		}

		dir, cleanup = fetched, fetchCleanup
	}

	scripts, err := discovery.Discover(ctx, dir, cfg.ScriptExtension)
	if err != nil {
		return nil, dir, cleanup, err //nolint:wrapcheck
	}

	ctxlog.Info(ctx, "scripts discovered", "directory", dir, "count", len(scripts))

	for i, s := range scripts {
		ctxlog.Info(ctx, "discovered script", "script", s.Name, "order", i+1)
	}

	return scripts, dir, cleanup, nil
}

func (d *Deployer) executor(cfg *config.Config) runbatch.Executor {
	if d.NewExecutor != nil {
		return d.NewExecutor(cfg)
	}

	return runbatch.NewToolExecutor(cfg, d.Signals)
}

// abort records a fatal error, writes what can be reported and returns it.
func (d *Deployer) abort(ctx context.Context, cfg *config.Config, summary *runbatch.Summary, err error) (*runbatch.Summary, error) {
	ctxlog.Error(ctx, "deployment aborted", "state", d.State().String(), "error", err)

	summary.Abort(err)
	d.summarize(ctx, cfg, summary)
	d.setState(ctx, StateAborted)

	return summary, err
}

// summarize logs the outcome, prints the console summary and writes the artifacts.
// Failures to write artifacts are logged and never change the outcome of the run.
func (d *Deployer) summarize(ctx context.Context, cfg *config.Config, summary *runbatch.Summary) {
	d.setState(ctx, StateSummarizing)
	summary.Finalize(d.now())

	ctxlog.Info(ctx, "deployment finished",
		"success", summary.OK(),
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.Duration().String())

	for _, r := range summary.FailedResults() {
		ctxlog.Error(ctx, "script did not succeed",
			"script", r.Script,
			"status", r.Status,
			"cause", r.Cause,
			"reason", r.Reason())
	}

	console := d.Console
	if console == nil {
		console = os.Stdout
	}

	if err := runbatch.WriteSummary(console, summary, d.OutputOptions); err != nil {
		ctxlog.Warn(ctx, "could not write console summary", "error", err)
	}

	artifacts := d.Artifacts
	metricsFile := ""

	if cfg != nil {
		metricsFile = cfg.MetricsFile

		if artifacts.Basename == "" {
			artifacts = report.NewArtifacts(cfg.LogDir, summary.StartedAt, summary.RunID)
		}
	}

	if artifacts.Basename == "" {
		dir := config.DefaultLogDir
		if d.Lookuper != nil {
			dir = config.LogDir(d.Lookuper)
		}

		artifacts = report.NewArtifacts(dir, summary.StartedAt, summary.RunID)
	}

	if err := report.Write(ctx, artifacts, metricsFile, summary); err != nil {
		ctxlog.Warn(ctx, "could not write run artifacts", "error", err)
	}
}

// ExitCode maps the outcome of Run to the process exit code:
// 0 when the run was not aborted and every script succeeded, 1 otherwise.
func ExitCode(summary *runbatch.Summary, err error) int {
	if err != nil || summary == nil || !summary.OK() {
		return 1
	}

	return 0
}
