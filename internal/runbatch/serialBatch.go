// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/discovery"
)

// SerialBatch runs scripts one at a time in the order given.
// A failed script never stops the batch; only cancellation of the context does,
// in which case every remaining script is recorded as skipped.
type SerialBatch struct {
	Executor Executor
	Scripts  []discovery.ScriptFile
}

// Run executes the batch, appending one result per script to summary.
func (b *SerialBatch) Run(ctx context.Context, summary *Summary) {
	logger := ctxlog.Logger(ctx)
	total := len(b.Scripts)

	for i, script := range slices.All(b.Scripts) {
		if err := ctx.Err(); err != nil {
			for _, rest := range b.Scripts[i:] {
				r := skippedResult(rest.Name, CauseInterrupted, fmt.Errorf("%w: %w", ErrInterrupted, err))
				logger.Warn("script skipped", "script", rest.Name, "status", r.Status, "cause", r.Cause)
				summary.Add(r)
			}

			return
		}

		logger.Info("running script", "script", script.Name, "index", i+1, "total", total)

		r := b.Executor.Execute(ctx, script)
		if r == nil {
			r = &Result{
				Script:       script.Name,
				Status:       ResultStatusError,
				Cause:        CauseInternal,
				ExitCode:     -1,
				ErrorMessage: ErrInternal.Error() + ": no result",
				Error:        ErrInternal,
			}
		}

		logResult(ctx, r)
		summary.Add(r)
	}
}

func logResult(ctx context.Context, r *Result) {
	logger := ctxlog.Logger(ctx)
	args := []any{
		"script", r.Script,
		"status", r.Status,
		"exitCode", r.ExitCode,
		"duration", r.Duration.String(),
	}

	switch r.Status {
	case ResultStatusSuccess:
		logger.Info("script succeeded", args...)
	case ResultStatusSkipped:
		logger.Warn("script skipped", append(args, "cause", r.Cause, "error", r.ErrorMessage)...)
	default:
		if r.OutputTruncated {
			args = append(args, "outputTruncated", true)
		}

		logger.Error("script failed", append(args, "cause", r.Cause, "error", r.ErrorMessage)...)
	}
}
