// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package preflight verifies the shell tool and the database connection before any script runs.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
	"github.com/matt-FFFFFF/indexdeploy/internal/toolpath"
)

const (
	DefaultVersionTimeout = 10 * time.Second
	DefaultPingTimeout    = 30 * time.Second

	// PingCommand is evaluated by the tool to test the connection.
	PingCommand = `db.adminCommand("ping")`
)

var (
	// ErrToolNotInstalled is returned when the shell tool cannot be found.
	ErrToolNotInstalled = errors.New("tool is not installed or not in PATH")
	// ErrVersionCheck is returned when the tool cannot report its version.
	ErrVersionCheck = errors.New("tool version check failed")
	// ErrPing is returned when the tool cannot reach the database.
	ErrPing = errors.New("could not connect to database")
)

// Error is the fatal error returned when a preflight check fails.
type Error struct {
	Check string
	Err   error
}

func (e *Error) Error() string {
	return "preflight " + e.Check + " check failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Checker runs the preflight checks.
type Checker struct {
	Tool             string
	ConnectionString config.Secret
	VersionTimeout   time.Duration
	PingTimeout      time.Duration
}

// New creates a Checker for the resolved configuration.
func New(cfg *config.Config) *Checker {
	return &Checker{
		Tool:             cfg.Tool,
		ConnectionString: cfg.ConnectionString,
		VersionTimeout:   DefaultVersionTimeout,
		PingTimeout:      DefaultPingTimeout,
	}
}

// Run checks that the tool is installed and that the database answers a ping.
func (c *Checker) Run(ctx context.Context) error {
	path, err := toolpath.Find(c.Tool)
	if err != nil {
		return &Error{Check: "tool", Err: fmt.Errorf("%w: %w", ErrToolNotInstalled, err)}
	}

	version, err := c.run(ctx, "version", path, c.VersionTimeout, "--version")
	if err != nil {
		return &Error{Check: "version", Err: fmt.Errorf("%w: %w", ErrVersionCheck, err)}
	}

	ctxlog.Info(ctx, "shell tool found", "tool", path, "version", version)
	ctxlog.Info(ctx, "testing connection to database", "connection", c.ConnectionString)

	if _, err := c.run(ctx, "ping", path, c.PingTimeout, c.ConnectionString.Reveal(), "--quiet", "--eval", PingCommand); err != nil {
		return &Error{Check: "ping", Err: fmt.Errorf("%w: %w", ErrPing, err)}
	}

	ctxlog.Info(ctx, "successfully connected to database")

	return nil
}

// run executes the tool and returns its trimmed output.
func (c *Checker) run(ctx context.Context, label, path string, timeout time.Duration, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeoutCause(ctx, timeout, runbatch.ErrTimeoutExceeded)
	defer cancel()

	cmd := &runbatch.OSCommand{
		Label: "preflight " + label,
		Path:  path,
		Args:  args,
	}

	res := cmd.Run(runCtx)
	out := strings.TrimSpace(string(res.Output))

	switch {
	case errors.Is(res.Err, runbatch.ErrTimeoutExceeded):
		return out, fmt.Errorf("timed out after %s", timeout)
	case res.Err != nil:
		return out, res.Err
	case res.ExitCode != 0:
		msg := "exit code " + strconv.Itoa(res.ExitCode)
		if res.LastLine != "" {
			msg += ": " + res.LastLine
		}

		return out, errors.New(msg)
	}

	return out, nil
}
