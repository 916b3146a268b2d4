// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package deploy implements the deploy command, which runs every index script in order.
package deploy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/cmdstate"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/flags"
	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/deployer"
	"github.com/matt-FFFFFF/indexdeploy/internal/report"
	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
	"github.com/urfave/cli/v3"
)

const (
	showOutputFlag = "show-output"
	cliExitStr     = ""
)

// Now is the clock used to name the run artifacts.
var Now = time.Now

// Flags returns the flags that only apply to a deployment.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        showOutputFlag,
			Usage:       "Include the captured output of failed scripts in the summary",
			DefaultText: "false",
			OnlyOnce:    true,
		},
	}
}

// DeployCmd runs a deployment. It is also the action of the root command.
var DeployCmd = &cli.Command{
	Name:  "deploy",
	Usage: "Run every index script in lexicographic order",
	Description: `Run every eligible script in the index directory, one at a time, with the database shell.

A failing script does not stop the run. Every script is attempted and the outcome of each
is reported in the summary, the run log and the YAML summary written to the log directory.
The exit code is 0 only when every script succeeded.

Send SIGINT or SIGTERM once to pass it to the running script, twice to stop the run.`,
	Action: Action,
}

// Action runs a deployment configured from the command flags and the environment.
func Action(ctx context.Context, cmd *cli.Command) error {
	l, err := flags.Lookuper(cmd)
	if err != nil {
		ctxlog.Error(ctx, "deployment aborted", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	runID := uuid.NewString()
	artifacts := report.NewArtifacts(config.LogDir(l), Now(), runID)

	runLog, err := ctxlog.OpenRunLog(artifacts.LogPath(), ctxlog.Logger(ctx).Handler())
	if err != nil {
		ctxlog.Warn(ctx, "could not open run log, logging to console only", "path", artifacts.LogPath(), "error", err)
	} else {
		ctx = runLog.Context(ctx)

		defer func() {
			if err := runLog.Close(); err != nil {
				ctxlog.Warn(ctx, "could not close run log", "path", runLog.Path, "error", err)
			}
		}()

		ctxlog.Info(ctx, "run log opened", "path", runLog.Path)
	}

	d := &deployer.Deployer{
		Lookuper: l,
		RunID:    runID,
		Now:      Now,
		Console:  cmd.Root().Writer,
		OutputOptions: &runbatch.OutputOptions{
			IncludeOutput: cmd.Bool(showOutputFlag),
		},
		Artifacts: artifacts,
		Signals:   cmdstate.Signals(ctx),
	}

	summary, err := d.Run(ctx)
	if code := deployer.ExitCode(summary, err); code != 0 {
		return cli.Exit(cliExitStr, code)
	}

	return nil
}
