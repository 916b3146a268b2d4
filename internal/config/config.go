// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sethvargo/go-envconfig"
)

// Environment variable names.
const (
	EnvConnectionString = "MONGODB_CONNECTION_STRING"
	EnvScriptDirectory  = "INDEXES_DIRECTORY"
	EnvScriptSource     = "INDEXES_SOURCE"
	EnvScriptTimeout    = "INDEXDEPLOY_SCRIPT_TIMEOUT"
	EnvScriptExtension  = "INDEXDEPLOY_SCRIPT_EXTENSION"
	EnvTool             = "INDEXDEPLOY_TOOL"
	EnvToolArgs         = "INDEXDEPLOY_TOOL_ARGS"
	EnvPreflight        = "INDEXDEPLOY_PREFLIGHT"
	EnvFailOnEmpty      = "INDEXDEPLOY_FAIL_ON_EMPTY"
	EnvMetricsFile      = "INDEXDEPLOY_METRICS_FILE"
	EnvLogDir           = "INDEXDEPLOY_LOG_DIR"
)

// Defaults applied when the corresponding variable is unset or blank.
const (
	DefaultScriptDirectory = "indexes_to_deploy"
	DefaultScriptExtension = ".js"
	DefaultScriptTimeout   = 5 * time.Minute
	DefaultTool            = "mongosh"
	DefaultLogDir          = "deployment_logs"
)

var (
	// ErrMissingConnectionString is returned when the connection string is absent or blank.
	ErrMissingConnectionString = errors.New(EnvConnectionString + " is not set")
	// ErrInvalidTimeout is returned when the per-script timeout is not positive.
	ErrInvalidTimeout = errors.New("script timeout must be greater than zero")
	// ErrProcessEnvironment is returned when the environment cannot be decoded into the configuration.
	ErrProcessEnvironment = errors.New("could not process environment")
)

// Config is the configuration of a single run. It is immutable once resolved.
type Config struct {
	ConnectionString Secret        `env:"MONGODB_CONNECTION_STRING"`
	ScriptDirectory  string        `env:"INDEXES_DIRECTORY,default=indexes_to_deploy"`
	ScriptSource     string        `env:"INDEXES_SOURCE"`
	ScriptTimeout    time.Duration `env:"INDEXDEPLOY_SCRIPT_TIMEOUT,default=5m"`
	ScriptExtension  string        `env:"INDEXDEPLOY_SCRIPT_EXTENSION,default=.js"`
	Tool             string        `env:"INDEXDEPLOY_TOOL,default=mongosh"`
	ToolArgs         []string      `env:"INDEXDEPLOY_TOOL_ARGS"`
	Preflight        bool          `env:"INDEXDEPLOY_PREFLIGHT,default=false"`
	FailOnEmpty      bool          `env:"INDEXDEPLOY_FAIL_ON_EMPTY,default=false"`
	MetricsFile      string        `env:"INDEXDEPLOY_METRICS_FILE"`
	LogDir           string        `env:"INDEXDEPLOY_LOG_DIR,default=deployment_logs"`
}

// ConfigurationError is the fatal error returned when the run cannot be configured.
// Err is a *multierror.Error holding every problem found.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Resolve reads the configuration through l, applies defaults and validates the result.
// Blank values are treated as unset. It performs no network or filesystem access.
func Resolve(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: nonBlankLookuper{l: l},
	}); err != nil {
		return nil, &ConfigurationError{Err: multierror.Append(nil, errors.Join(ErrProcessEnvironment, err))}
	}

	cfg.normalise()

	if err := cfg.validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	return cfg, nil
}

func (c *Config) normalise() {
	if c.ScriptDirectory == "" {
		c.ScriptDirectory = DefaultScriptDirectory
	}

	if c.ScriptExtension == "" {
		c.ScriptExtension = DefaultScriptExtension
	}

	if !strings.HasPrefix(c.ScriptExtension, ".") {
		c.ScriptExtension = "." + c.ScriptExtension
	}

	if c.Tool == "" {
		c.Tool = DefaultTool
	}

	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}

	args := make([]string, 0, len(c.ToolArgs))

	for _, a := range c.ToolArgs {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}

	c.ToolArgs = args
}

func (c *Config) validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.ConnectionString.Reveal()) == "" {
		result = multierror.Append(result, ErrMissingConnectionString)
	}

	if c.ScriptTimeout <= 0 {
		result = multierror.Append(result, ErrInvalidTimeout)
	}

	return result.ErrorOrNil()
}

// nonBlankLookuper reports whitespace-only values as unset so defaults apply to them.
type nonBlankLookuper struct {
	l envconfig.Lookuper
}

func (n nonBlankLookuper) Lookup(key string) (string, bool) {
	v, ok := n.l.Lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}

	return v, true
}

// LogDir returns the artifact directory from l without resolving the rest of the configuration,
// so the run log can be opened before configuration errors are reported.
func LogDir(l envconfig.Lookuper) string {
	if v, ok := (nonBlankLookuper{l: l}).Lookup(EnvLogDir); ok {
		return strings.TrimSpace(v)
	}

	return DefaultLogDir
}
