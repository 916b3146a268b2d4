// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/teereader"
)

const (
	// outputDrainGrace bounds the wait for the output pipe to close after a normal exit.
	// A descendant that left the process group keeps the pipe open, so a run can take this much longer.
	outputDrainGrace = 2 * time.Second
	// killDrainGrace replaces outputDrainGrace once the group has been killed, so an escaped
	// descendant adds at most this much to a timeout or cancellation.
	killDrainGrace = 100 * time.Millisecond
	lastLineMax    = 120
)

// tickerInterval is the interval for the process watchdog heartbeat.
var tickerInterval = 10 * time.Second

var (
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrTimeoutExceeded is the context cause used when the per-process deadline fires.
	ErrTimeoutExceeded = errors.New("timeout exceeded")
	// ErrCancelled is returned when the process was killed because its parent context was cancelled.
	ErrCancelled = errors.New("process cancelled")
	// ErrSignalReceived is returned when an operating system signal was forwarded to the process.
	ErrSignalReceived = errors.New("signal received")
)

// OSCommand is a single process run with combined output capture.
type OSCommand struct {
	Label       string             // Label used in log messages.
	Path        string             // Full path of the executable.
	Args        []string           // Arguments, not including the executable name.
	Cwd         string             // Working directory, defaults to the current one.
	OutputLimit int                // Bytes of output to retain, defaults to teereader.DefaultLimit.
	OnLine      teereader.LineFunc // Called for every line of output.
	Signals     <-chan os.Signal   // Signals forwarded to the process group while it runs.
	Stdout      io.Writer          // Optional live copy of the output.
	started     func(*os.Process)  // Test hook called once the process has started.
}

// ProcessResult is the raw outcome of an OSCommand.
type ProcessResult struct {
	ExitCode  int
	Output    []byte
	Truncated bool
	LastLine  string
	StartedAt time.Time
	Duration  time.Duration
	// Err is nil when the process ran to completion, whatever its exit code.
	Err error
}

// Run starts the process and blocks until it exits or ctx is done.
// When ctx is done the whole process group is killed and Err records why:
// ErrTimeoutExceeded if the context cause is a timeout, ErrCancelled otherwise.
func (c *OSCommand) Run(ctx context.Context) *ProcessResult {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSCommand", "label", c.Label)

	res := &ProcessResult{
		ExitCode:  -1,
		StartedAt: time.Now(),
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		res.Err = errors.Join(ErrFailedToCreatePipe, err)
		return res
	}

	defer rOut.Close() //nolint:errcheck

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		_ = wOut.Close()
		res.Err = errors.Join(ErrCouldNotStartProcess, err)

		return res
	}

	defer devNull.Close() //nolint:errcheck

	args := slices.Concat([]string{filepath.Base(c.Path)}, c.Args)

	logger.Debug("starting process", "path", c.Path, "cwd", c.Cwd, "argc", len(c.Args))

	ps, err := os.StartProcess(c.Path, args, &os.ProcAttr{
		Dir:   c.Cwd,
		Env:   os.Environ(),
		Files: []*os.File{devNull, wOut, wOut},
		Sys:   sysProcAttr(),
	})

	// The child holds its own copy of the write end; ours must go so the reader sees EOF.
	_ = wOut.Close()

	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrCouldNotStartProcess, err)
		res.Duration = time.Since(res.StartedAt)

		return res
	}

	logger.Debug("process started", "pid", ps.Pid)

	if c.started != nil {
		c.started(ps)
	}

	limit := c.OutputLimit
	if limit == 0 {
		limit = teereader.DefaultLimit
	}

	opts := []teereader.Option{teereader.WithLimit(limit)}
	if c.OnLine != nil {
		opts = append(opts, teereader.WithLineFunc(c.OnLine))
	}

	tee := teereader.New(rOut, opts...)

	// Drain the pipe concurrently so a chatty child never blocks on a full pipe.
	readDone := make(chan struct{})

	go func() {
		defer close(readDone)

		dst := io.Discard
		if c.Stdout != nil {
			dst = c.Stdout
		}

		if _, err := io.Copy(dst, tee); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Debug("output read error", "error", err)
		}

		tee.Flush()
	}()

	done := make(chan struct{})

	var (
		wg       sync.WaitGroup
		killedBy error
	)

	sigs := c.Signals

	wg.Add(1)

	// Watchdog: heartbeat, signal forwarding and context cancellation.
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				attrs := []any{
					"elapsed", time.Since(res.StartedAt).Round(time.Second).String(),
					"lastLine", tee.LastLine(lastLineMax),
				}

				// Progress output is often written without a trailing newline.
				if p := tee.PartialLine(); p != "" {
					if len(p) > lastLineMax {
						p = p[:lastLineMax-3] + "..."
					}

					attrs = append(attrs, "partialLine", p)
				}

				logger.Info("script still running", attrs...)

			case s, ok := <-sigs:
				if !ok {
					sigs = nil
					continue
				}

				logger.Info("forwarding signal to process", "signal", s.String(), "pid", ps.Pid)

				if err := signalProcessGroup(ps, s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

				if killedBy == nil {
					killedBy = ErrSignalReceived
				}

			case <-ctx.Done():
				select {
				case <-done:
					return
				default:
				}

				if errors.Is(context.Cause(ctx), ErrTimeoutExceeded) {
					killedBy = ErrTimeoutExceeded
				} else {
					killedBy = fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
				}

				logger.Info("context done, killing process group", "pid", ps.Pid, "reason", killedBy)
				killPs(ctx, ps)

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()

	close(done)
	wg.Wait()

	grace := outputDrainGrace
	if killedBy != nil {
		grace = killDrainGrace
	}

	select {
	case <-readDone:
	case <-time.After(grace):
		// A descendant outside the process group still holds the pipe.
		logger.Debug("output pipe still open after exit, closing")
		_ = rOut.Close()
		<-readDone
	}

	res.Duration = time.Since(res.StartedAt)
	res.Output = tee.Bytes()
	res.Truncated = tee.Truncated()
	res.LastLine = tee.LastLine(0)

	if state != nil {
		res.ExitCode = state.ExitCode()
	}

	switch {
	case killedBy != nil:
		res.Err = killedBy
	case psErr != nil:
		res.Err = psErr
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "bytes", len(res.Output), "truncated", res.Truncated)

	return res
}

// killPs kills the process group of ps.
func killPs(ctx context.Context, ps *os.Process) {
	if err := killProcessGroup(ps); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Logger(ctx).Debug("process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Logger(ctx).Error("process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Logger(ctx).Info("process killed", "pid", ps.Pid)
}
