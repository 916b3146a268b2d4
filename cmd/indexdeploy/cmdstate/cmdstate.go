// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate carries process-wide state from main to the subcommands through the context.
package cmdstate

import (
	"context"
	"os"
)

type signalsKey struct{}

// WithSignals returns a child of ctx carrying the channel that signals for the running script arrive on.
func WithSignals(ctx context.Context, ch <-chan os.Signal) context.Context {
	return context.WithValue(ctx, signalsKey{}, ch)
}

// Signals returns the channel stored by WithSignals, or nil.
func Signals(ctx context.Context) <-chan os.Signal {
	ch, _ := ctx.Value(signalsKey{}).(<-chan os.Signal)
	return ch
}
