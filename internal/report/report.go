// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
)

// Write writes every artifact for s. Each artifact is attempted even if another fails;
// the returned error is a *multierror.Error holding every failure.
func Write(ctx context.Context, a Artifacts, metricsFile string, s *runbatch.Summary) error {
	var result *multierror.Error

	if err := WriteSummary(a.SummaryPath(), s); err != nil {
		result = multierror.Append(result, err)
	} else {
		ctxlog.Info(ctx, "summary written", "path", a.SummaryPath())
	}

	if metricsFile != "" {
		if err := WriteMetrics(metricsFile, s); err != nil {
			result = multierror.Append(result, err)
		} else {
			ctxlog.Info(ctx, "metrics written", "path", metricsFile)
		}
	}

	return result.ErrorOrNil()
}
