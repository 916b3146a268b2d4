// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/color"
)

// OutputOptions controls what is included in the console summary.
type OutputOptions struct {
	IncludeOutput      bool // Whether to include captured script output
	ShowSuccessDetails bool // Whether to show output for successful scripts too
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{}
}

const rule = "================================================================================"

// WriteSummary writes the condensed, human readable summary of a run to w.
// It always states the totals and, for every script that did not succeed, its name and reason.
func WriteSummary(w io.Writer, s *Summary, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString(color.Colorize("DEPLOYMENT SUMMARY", color.Bold) + "\n")
	sb.WriteString(rule + "\n")

	if s.Aborted {
		fmt.Fprintf(&sb, "%s %s\n", color.Colorize("✗ Aborted:", color.FgRed), s.AbortReason)
	}

	for _, r := range s.Results {
		writeResult(&sb, r, options)
	}

	if !s.Empty() {
		sb.WriteString(rule + "\n")
	}

	fmt.Fprintf(&sb, "Total scripts: %d\n", s.Total)
	fmt.Fprintf(&sb, "%s %d\n", color.Colorize("Successful:", color.FgGreen), s.Succeeded)
	fmt.Fprintf(&sb, "%s %d\n", color.Colorize("Failed:", color.FgRed), s.Failed)
	fmt.Fprintf(&sb, "%s %d\n", color.Colorize("Skipped:", color.FgYellow), s.Skipped)

	if d := s.Duration(); d > 0 {
		fmt.Fprintf(&sb, "Duration: %s\n", d.Round(time.Millisecond))
	}

	if failed := s.FailedResults(); len(failed) > 0 {
		sb.WriteString("\n" + color.Colorize("Failed scripts:", color.Bold, color.FgRed) + "\n")

		for _, r := range failed {
			fmt.Fprintf(&sb, "  - %s: %s\n", r.Script, r.Reason())
		}
	}

	sb.WriteString(rule + "\n")

	_, err := io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}

func writeResult(sb *strings.Builder, r *Result, options *OutputOptions) {
	var statusStr, labelPrefix string

	switch r.Status {
	case ResultStatusSkipped:
		statusStr = color.Colorize("~", color.FgYellow)
		labelPrefix = color.ControlString(color.Bold, color.FgYellow)
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = color.ControlString(color.Bold, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = color.ControlString(color.Bold, color.FgGreen)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Script
	if label == "" {
		label = "[unnamed]"
	}

	fmt.Fprintf(sb, "%s %s%s%s", statusStr, labelPrefix, label, color.ControlString(color.Reset))

	if r.ExitCode != 0 {
		fmt.Fprintf(sb, " (exit code: %d)", r.ExitCode)
	}

	if r.Duration > 0 {
		fmt.Fprintf(sb, " [%s]", r.Duration.Round(time.Millisecond))
	}

	sb.WriteString("\n")

	if r.Status != ResultStatusSuccess {
		errColor := color.FgRed
		if r.Status == ResultStatusSkipped {
			errColor = color.FgYellow
		}

		fmt.Fprintf(sb, "  %s %s\n", color.Colorize("➜ Error:", errColor), r.Reason())
	}

	showOutput := options.IncludeOutput && len(r.Output) > 0 &&
		(r.Status != ResultStatusSuccess || options.ShowSuccessDetails)

	if showOutput {
		sb.WriteString("  ➜ Output:\n")
		sb.WriteString(formatOutput(r.Output, "     "))

		if r.OutputTruncated {
			sb.WriteString("     " + color.Colorize("[output truncated]", color.FgYellow) + "\n")
		}
	}
}

// formatOutput formats multi-line output with proper indentation.
func formatOutput(output []byte, indent string) string {
	sb := strings.Builder{}
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line == "" {
			sb.WriteString("\n")
			continue
		}

		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
