// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package flags defines the configuration flags shared by the subcommands and layers
// the flags that were set over the environment.
package flags

import (
	"strconv"
	"strings"

	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/sethvargo/go-envconfig"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	Dir         = "dir"
	Source      = "source"
	Timeout     = "timeout"
	Tool        = "tool"
	ToolArg     = "tool-arg"
	Extension   = "extension"
	Preflight   = "preflight"
	FailOnEmpty = "fail-on-empty"
	MetricsFile = "metrics-file"
	LogDir      = "log-dir"
	EnvFile     = "env-file"
)

// Config returns the flags that override configuration values.
// Every flag is optional; an unset flag leaves the environment value in place.
func Config() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      Dir,
			Aliases:   []string{"d"},
			Usage:     "Directory containing the index scripts (" + config.EnvScriptDirectory + ")",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name: Source,
			Usage: "Fetch the index scripts from a go-getter source instead of a local directory (" +
				config.EnvScriptSource + "). See https://github.com/hashicorp/go-getter.",
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     Timeout,
			Usage:    "Maximum run time of a single script (" + config.EnvScriptTimeout + ")",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     Tool,
			Usage:    "Database shell used to run scripts (" + config.EnvTool + ")",
			OnlyOnce: true,
		},
		&cli.StringSliceFlag{
			Name:  ToolArg,
			Usage: "Extra argument passed to the tool before --file. Specify multiple times for multiple arguments (" + config.EnvToolArgs + ")",
		},
		&cli.StringFlag{
			Name:     Extension,
			Usage:    "Extension of eligible script files (" + config.EnvScriptExtension + ")",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        Preflight,
			Usage:       "Check the tool and database are reachable before running any script (" + config.EnvPreflight + ")",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        FailOnEmpty,
			Usage:       "Fail the run when no scripts are found (" + config.EnvFailOnEmpty + ")",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:      MetricsFile,
			Usage:     "Write Prometheus metrics for the run to this file (" + config.EnvMetricsFile + ")",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      LogDir,
			Usage:     "Directory for the run log and summary (" + config.EnvLogDir + ")",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      EnvFile,
			Usage:     "Read configuration defaults from this file. Defaults to " + config.DefaultEnvFile + " if present",
			TakesFile: true,
			OnlyOnce:  true,
		},
	}
}

// Overrides returns the configuration values given as flags, keyed by environment variable name.
func Overrides(cmd *cli.Command) map[string]string {
	m := make(map[string]string)

	str := func(flag, env string) {
		if cmd.IsSet(flag) {
			m[env] = cmd.String(flag)
		}
	}

	boolean := func(flag, env string) {
		if cmd.IsSet(flag) {
			m[env] = strconv.FormatBool(cmd.Bool(flag))
		}
	}

	str(Dir, config.EnvScriptDirectory)
	str(Source, config.EnvScriptSource)
	str(Tool, config.EnvTool)
	str(Extension, config.EnvScriptExtension)
	str(MetricsFile, config.EnvMetricsFile)
	str(LogDir, config.EnvLogDir)
	boolean(Preflight, config.EnvPreflight)
	boolean(FailOnEmpty, config.EnvFailOnEmpty)

	if cmd.IsSet(Timeout) {
		m[config.EnvScriptTimeout] = cmd.Duration(Timeout).String()
	}

	if cmd.IsSet(ToolArg) {
		m[config.EnvToolArgs] = strings.Join(cmd.StringSlice(ToolArg), ",")
	}

	return m
}

// Lookuper returns the configuration lookup chain for cmd: flags, then the environment, then the env file.
func Lookuper(cmd *cli.Command) (envconfig.Lookuper, error) {
	return config.Lookuper(Overrides(cmd), cmd.String(EnvFile)) //nolint:wrapcheck
}
