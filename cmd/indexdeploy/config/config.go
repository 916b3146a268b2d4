// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the config command, which prints the resolved configuration.
package config

import (
	"context"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/indexdeploy/cmd/indexdeploy/flags"
	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const cliExitStr = ""

// ConfigCmd prints the configuration a deployment would use, with the connection string redacted.
var ConfigCmd = &cli.Command{
	Name:   "config",
	Usage:  "Print the resolved configuration",
	Action: actionFunc,
}

type view struct {
	Connection  string   `yaml:"connection"`
	Directory   string   `yaml:"directory"`
	Source      string   `yaml:"source,omitempty"`
	Extension   string   `yaml:"extension"`
	Timeout     string   `yaml:"timeout"`
	Tool        string   `yaml:"tool"`
	ToolArgs    []string `yaml:"toolArgs,omitempty"`
	Preflight   bool     `yaml:"preflight"`
	FailOnEmpty bool     `yaml:"failOnEmpty"`
	MetricsFile string   `yaml:"metricsFile,omitempty"`
	LogDir      string   `yaml:"logDir"`
}

func newView(cfg *config.Config) view {
	return view{
		Connection:  cfg.ConnectionString.Redacted(),
		Directory:   cfg.ScriptDirectory,
		Source:      cfg.ScriptSource,
		Extension:   cfg.ScriptExtension,
		Timeout:     cfg.ScriptTimeout.String(),
		Tool:        cfg.Tool,
		ToolArgs:    cfg.ToolArgs,
		Preflight:   cfg.Preflight,
		FailOnEmpty: cfg.FailOnEmpty,
		MetricsFile: cfg.MetricsFile,
		LogDir:      cfg.LogDir,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	l, err := flags.Lookuper(cmd)
	if err != nil {
		ctxlog.Error(ctx, "invalid configuration", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	cfg, err := config.Resolve(ctx, l)
	if err != nil {
		ctxlog.Error(ctx, "invalid configuration", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	b, err := yaml.Marshal(newView(cfg))
	if err != nil {
		return cli.Exit("failed to encode configuration: "+err.Error(), 1)
	}

	if _, err := cmd.Root().Writer.Write(b); err != nil {
		return cli.Exit("failed to write configuration: "+err.Error(), 1)
	}

	return nil
}
