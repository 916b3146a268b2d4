// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
)

// Watch monitors the signal channel until it is closed or ctx is done.
// The first signal of a given type is passed to forward without blocking, so a running
// script can shut down cleanly. The second signal of that type cancels the run.
// forward may be nil.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc, forward chan<- os.Signal) {
	sigMap := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return

		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, seen := sigMap[sig]; seen {
				ctxlog.Warn(ctx, "watchdog", "detail", "received second signal of type, cancelling run", "signal", sig.String())
				cancel()

				return
			}

			sigMap[sig] = struct{}{}

			if forward == nil {
				ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, send again to cancel", "signal", sig.String())
				continue
			}

			select {
			case forward <- sig:
				ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, forwarded to running script", "signal", sig.String())
			default:
				ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, no script to forward to", "signal", sig.String())
			}
		}
	}
}
