// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the list command, which prints the execution order without running anything.
package list

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/flags"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/deployer"
	"github.com/urfave/cli/v3"
)

const cliExitStr = ""

// ListCmd prints the scripts a deployment would run, in order.
var ListCmd = &cli.Command{
	Name:   "list",
	Usage:  "Print the scripts a deployment would run, in execution order",
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	l, err := flags.Lookuper(cmd)
	if err != nil {
		ctxlog.Error(ctx, "could not list scripts", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	d := &deployer.Deployer{Lookuper: l}

	cfg, scripts, cleanup, err := d.Plan(ctx)
	defer cleanup()

	if err != nil {
		ctxlog.Error(ctx, "could not list scripts", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	w := cmd.Root().Writer

	fmt.Fprintf(w, "%d %s script(s) in %s\n", len(scripts), cfg.ScriptExtension, cfg.ScriptDirectory) //nolint:errcheck

	for i, s := range scripts {
		fmt.Fprintf(w, "%4d. %s\n", i+1, s.Name) //nolint:errcheck
	}

	return nil
}
