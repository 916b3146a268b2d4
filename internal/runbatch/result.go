// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrScriptFailure is returned when a script ran but did not succeed.
	ErrScriptFailure = errors.New("script failed")
	// ErrScriptTimeout is returned when a script exceeded its timeout and was killed.
	ErrScriptTimeout = fmt.Errorf("%w: timeout exceeded", ErrScriptFailure)
	// ErrLaunchFailure is returned when the shell tool could not be found or started.
	ErrLaunchFailure = errors.New("could not launch tool")
	// ErrInterrupted is returned for scripts stopped or never started because the run was interrupted.
	ErrInterrupted = errors.New("run interrupted")
	// ErrInternal is returned when executing a script panicked.
	ErrInternal = errors.New("internal error")
)

// ResultStatus is the outcome of one script.
type ResultStatus string

const (
	ResultStatusSuccess ResultStatus = "success"
	ResultStatusError   ResultStatus = "error"
	ResultStatusSkipped ResultStatus = "skipped"
)

// Cause classifies why a script did not succeed.
type Cause string

const (
	CauseNone          Cause = ""
	CauseExitCode      Cause = "exit-code"
	CauseTimeout       Cause = "timeout"
	CauseLaunchFailure Cause = "launch-failure"
	CauseInterrupted   Cause = "interrupted"
	CauseInternal      Cause = "internal"
)

// Result is the outcome of running one script. It is not modified once returned.
type Result struct {
	Script          string        // Script file name
	Status          ResultStatus  // Outcome of the script
	Cause           Cause         // Why the script did not succeed, empty on success
	ExitCode        int           // Exit code of the tool, -1 if it did not exit normally
	Output          []byte        // Combined stdout and stderr, capped
	OutputTruncated bool          // Output exceeded the cap
	Duration        time.Duration // Wall-clock run time
	StartedAt       time.Time     // Start time
	ErrorMessage    string        // Human readable reason, empty on success
	Error           error         // Error chain for errors.Is, nil on success
}

// Failed reports whether the script ran and did not succeed.
func (r *Result) Failed() bool {
	return r.Status == ResultStatusError
}

// Reason is a one line explanation of a non-successful result.
func (r *Result) Reason() string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}

	if r.Error != nil {
		return r.Error.Error()
	}

	return string(r.Cause)
}

// Results is an ordered list of script results.
type Results []*Result

func skippedResult(script string, cause Cause, err error) *Result {
	return &Result{
		Script:       script,
		Status:       ResultStatusSkipped,
		Cause:        cause,
		ExitCode:     -1,
		StartedAt:    time.Now(),
		ErrorMessage: err.Error(),
		Error:        err,
	}
}
