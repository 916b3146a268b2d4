// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the indexdeploy command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/matt-FFFFFF/indexdeploy"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/cmdstate"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/config"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/deploy"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/flags"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/list"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// newRootCmd returns the root command. Running it without a subcommand deploys.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			deploy.DeployCmd,
			list.ListCmd,
			config.ConfigCmd,
		},
		Flags:     slices.Concat(flags.Config(), deploy.Flags()),
		Action:    deploy.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "indexdeploy",
		Description: `indexdeploy applies MongoDB index scripts to a database.

Every script with the configured extension in the index directory is run with the database shell,
one at a time, in lexicographic order of file name. A failing script never stops the run.

Configuration is read from flags, then the environment, then a .env file.
MONGODB_CONNECTION_STRING is required and is never written to logs.`,
		Usage:     "indexdeploy --dir ./indexes",
		Version:   fmt.Sprintf("%s (commit: %s)", indexdeploy.Version, indexdeploy.Commit),
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	// Unbuffered, so a signal is only forwarded while a script is running.
	forward := make(chan os.Signal)

	go signalbroker.Watch(ctx, sigCh, cancel, forward)

	ctx = cmdstate.WithSignals(ctx, forward)

	err := newRootCmd().Run(ctx, os.Args) // Exit codes are handled by the cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", context.Cause(ctx))
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
