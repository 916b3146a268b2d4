// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/discovery"
	"github.com/matt-FFFFFF/indexdeploy/internal/toolpath"
)

// FileFlag is the tool flag that introduces the script path.
const FileFlag = "--file"

// Executor runs a single script and classifies the outcome.
// Implementations never panic and always return a non-nil Result.
type Executor interface {
	Execute(ctx context.Context, script discovery.ScriptFile) *Result
}

var _ Executor = (*ToolExecutor)(nil)

// ToolExecutor runs scripts with the database shell tool:
//
//	<tool> <connection string> [extra args...] --file <script path>
type ToolExecutor struct {
	Tool             string
	ConnectionString config.Secret
	ExtraArgs        []string
	Timeout          time.Duration
	OutputLimit      int
	Signals          <-chan os.Signal
	// Stdout receives a live copy of the tool output when set.
	Stdout io.Writer
}

// NewToolExecutor creates a ToolExecutor from a resolved configuration.
func NewToolExecutor(cfg *config.Config, sigs <-chan os.Signal) *ToolExecutor {
	return &ToolExecutor{
		Tool:             cfg.Tool,
		ConnectionString: cfg.ConnectionString,
		ExtraArgs:        cfg.ToolArgs,
		Timeout:          cfg.ScriptTimeout,
		Signals:          sigs,
	}
}

// Args returns the tool arguments for a script, connection string first.
func (e *ToolExecutor) Args(scriptPath string) []string {
	return slices.Concat(
		[]string{e.ConnectionString.Reveal()},
		e.ExtraArgs,
		[]string{FileFlag, scriptPath},
	)
}

// Execute runs the script and blocks until the tool exits or the timeout fires.
func (e *ToolExecutor) Execute(ctx context.Context, script discovery.ScriptFile) (res *Result) {
	logger := ctxlog.Logger(ctx).With("script", script.Name)
	startedAt := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while executing script", "panic", r, "stack", string(debug.Stack()))

			err := fmt.Errorf("%w: %v", ErrInternal, r)
			res = &Result{
				Script:       script.Name,
				Status:       ResultStatusError,
				Cause:        CauseInternal,
				ExitCode:     -1,
				StartedAt:    startedAt,
				Duration:     time.Since(startedAt),
				ErrorMessage: err.Error(),
				Error:        err,
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return skippedResult(script.Name, CauseInterrupted, fmt.Errorf("%w: %w", ErrInterrupted, err))
	}

	path, err := toolpath.Find(e.Tool)
	if err != nil {
		err = fmt.Errorf("%w %q: %w", ErrLaunchFailure, e.Tool, err)
		logger.Error("script could not be launched", "tool", e.Tool, "error", err)

		return &Result{
			Script:       script.Name,
			Status:       ResultStatusError,
			Cause:        CauseLaunchFailure,
			ExitCode:     -1,
			StartedAt:    startedAt,
			Duration:     time.Since(startedAt),
			ErrorMessage: err.Error(),
			Error:        err,
		}
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = config.DefaultScriptTimeout
	}

	runCtx, cancel := context.WithTimeoutCause(ctx, timeout, ErrTimeoutExceeded)
	defer cancel()

	logger.Info("executing script",
		"tool", path,
		"connection", e.ConnectionString,
		"timeout", timeout.String())

	cmd := &OSCommand{
		Label:       script.Name,
		Path:        path,
		Args:        e.Args(script.Path),
		OutputLimit: e.OutputLimit,
		Signals:     e.Signals,
		Stdout:      e.Stdout,
		OnLine: func(line string) {
			logger.Info("script output", "line", line)
		},
	}

	pr := cmd.Run(runCtx)

	return classify(script.Name, timeout, pr)
}

// classify turns a process outcome into a script result.
func classify(script string, timeout time.Duration, pr *ProcessResult) *Result {
	res := &Result{
		Script:          script,
		ExitCode:        pr.ExitCode,
		Output:          pr.Output,
		OutputTruncated: pr.Truncated,
		Duration:        pr.Duration,
		StartedAt:       pr.StartedAt,
	}

	switch {
	case errors.Is(pr.Err, ErrCouldNotStartProcess):
		res.Status = ResultStatusError
		res.Cause = CauseLaunchFailure
		res.Error = fmt.Errorf("%w: %w", ErrLaunchFailure, pr.Err)
		res.ErrorMessage = res.Error.Error()

	case errors.Is(pr.Err, ErrTimeoutExceeded):
		res.Status = ResultStatusError
		res.Cause = CauseTimeout
		res.ExitCode = -1
		res.ErrorMessage = "timed out after " + strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64) + "s"
		res.Error = fmt.Errorf("%w: %s", ErrScriptTimeout, res.ErrorMessage)

	case errors.Is(pr.Err, ErrCancelled),
		errors.Is(pr.Err, ErrSignalReceived) && pr.ExitCode != 0:
		res.Status = ResultStatusError
		res.Cause = CauseInterrupted
		res.Error = errors.Join(ErrInterrupted, pr.Err)
		res.ErrorMessage = "interrupted (exit code " + strconv.Itoa(pr.ExitCode) + ")"

	case pr.Err != nil && !errors.Is(pr.Err, ErrSignalReceived):
		res.Status = ResultStatusError
		res.Cause = CauseInternal
		res.Error = fmt.Errorf("%w: %w", ErrInternal, pr.Err)
		res.ErrorMessage = res.Error.Error()

	case pr.ExitCode != 0:
		res.Status = ResultStatusError
		res.Cause = CauseExitCode
		res.ErrorMessage = "exit code " + strconv.Itoa(pr.ExitCode)

		if pr.LastLine != "" {
			res.ErrorMessage += ": " + pr.LastLine
		}

		res.Error = fmt.Errorf("%w: %s", ErrScriptFailure, res.ErrorMessage)

	default:
		res.Status = ResultStatusSuccess
	}

	return res
}
