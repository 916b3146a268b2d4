// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noColor(t *testing.T) {
	t.Helper()

	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })
}

func sampleSummary() *Summary {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSummary("run", "indexes", start)
	s.Add(&Result{
		Script:   "01_users.js",
		Status:   ResultStatusSuccess,
		Duration: 1500 * time.Millisecond,
		Output:   []byte("created email_1\n"),
	})
	s.Add(&Result{
		Script:       "02_orders.js",
		Status:       ResultStatusError,
		Cause:        CauseExitCode,
		ExitCode:     1,
		ErrorMessage: "exit code 1: MongoServerError: index exists",
		Output:       []byte("connecting\nMongoServerError: index exists\n"),
	})
	s.Add(&Result{
		Script:       "03_items.js",
		Status:       ResultStatusError,
		Cause:        CauseTimeout,
		ExitCode:     -1,
		ErrorMessage: "timed out after 300s",
	})
	s.Finalize(start.Add(2 * time.Minute))

	return s
}

func TestWriteSummary_Default(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleSummary(), nil))

	out := buf.String()

	assert.Contains(t, out, "DEPLOYMENT SUMMARY")
	assert.Contains(t, out, "✓ 01_users.js [1.5s]")
	assert.Contains(t, out, "✗ 02_orders.js (exit code: 1)")
	assert.Contains(t, out, "➜ Error: exit code 1: MongoServerError: index exists")
	assert.Contains(t, out, "Total scripts: 3\n")
	assert.Contains(t, out, "Successful: 1\n")
	assert.Contains(t, out, "Failed: 2\n")
	assert.Contains(t, out, "Skipped: 0\n")
	assert.Contains(t, out, "Duration: 2m0s")
	assert.Contains(t, out, "Failed scripts:\n  - 02_orders.js: exit code 1: MongoServerError: index exists\n  - 03_items.js: timed out after 300s\n")
	assert.NotContains(t, out, "➜ Output:")
	assert.NotContains(t, out, "\033[")
}

func TestWriteSummary_IncludeOutput(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleSummary(), &OutputOptions{IncludeOutput: true}))

	out := buf.String()

	assert.Contains(t, out, "  ➜ Output:\n     connecting\n     MongoServerError: index exists\n")
	assert.NotContains(t, out, "created email_1", "success output is hidden without ShowSuccessDetails")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, sampleSummary(), &OutputOptions{IncludeOutput: true, ShowSuccessDetails: true}))
	assert.Contains(t, buf.String(), "     created email_1\n")
}

func TestWriteSummary_Empty(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, NewSummary("run", "indexes", time.Now()), nil))

	out := buf.String()

	assert.Contains(t, out, "Total scripts: 0\n")
	assert.NotContains(t, out, "Failed scripts:")
	assert.Equal(t, 3, strings.Count(out, rule), "no separator between an empty result list and the totals")
}

func TestWriteSummary_Aborted(t *testing.T) {
	noColor(t)

	s := NewSummary("run", "indexes", time.Now())
	s.Abort(assert.AnError)

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, s, nil))
	assert.Contains(t, buf.String(), "✗ Aborted: "+assert.AnError.Error())
}

func TestWriteSummary_Colour(t *testing.T) {
	prev := color.SetEnabled(true)
	t.Cleanup(func() { color.SetEnabled(prev) })

	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleSummary(), nil))
	assert.Contains(t, buf.String(), "\033[")
}

func TestFormatOutput(t *testing.T) {
	assert.Equal(t, "  a\n\n  b\n", formatOutput([]byte("a\n\nb\n"), "  "))
}
