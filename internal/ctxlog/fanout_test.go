// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanoutHandler(t *testing.T) {
	var info, debug bytes.Buffer

	logger := slog.New(NewFanoutHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		nil,
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	logger.With("run_id", "r1").WithGroup("script").Info("script succeeded", "name", "01_a.js")
	logger.Debug("process started", "pid", 7)

	assert.Contains(t, info.String(), "run_id=r1")
	assert.Contains(t, info.String(), "script.name=01_a.js")
	assert.NotContains(t, info.String(), "process started")

	assert.Contains(t, debug.String(), "script.name=01_a.js")
	assert.Contains(t, debug.String(), "pid=7")
}

func TestFanoutHandler_Enabled(t *testing.T) {
	h := NewFanoutHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, NewFanoutHandler().Enabled(context.Background(), slog.LevelError))
}

func TestFanoutHandler_HandleJoinsErrors(t *testing.T) {
	var buf bytes.Buffer

	h := NewFanoutHandler(&failingHandler{}, slog.NewTextHandler(&buf, nil))
	err := slog.New(h).Handler().Handle(context.Background(), slog.Record{Message: "still written"})

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "still written")
}
