// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
	"github.com/spf13/afero"
)

// ErrWriteSummary is returned when the YAML summary cannot be written.
var ErrWriteSummary = errors.New("could not write summary")

// SummaryDocument is the YAML representation of a run summary.
type SummaryDocument struct {
	RunID           string           `yaml:"runId"`
	Directory       string           `yaml:"directory"`
	StartedAt       time.Time        `yaml:"startedAt"`
	FinishedAt      time.Time        `yaml:"finishedAt"`
	DurationSeconds float64          `yaml:"durationSeconds"`
	Success         bool             `yaml:"success"`
	Aborted         bool             `yaml:"aborted,omitempty"`
	AbortReason     string           `yaml:"abortReason,omitempty"`
	Discovered      []string         `yaml:"discovered"`
	Totals          Totals           `yaml:"totals"`
	Scripts         []ScriptDocument `yaml:"scripts"`
}

// Totals holds the run counters.
type Totals struct {
	Total     int `yaml:"total"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
	Skipped   int `yaml:"skipped"`
}

// ScriptDocument is the YAML representation of one script result.
type ScriptDocument struct {
	Name            string    `yaml:"name"`
	Status          string    `yaml:"status"`
	Cause           string    `yaml:"cause,omitempty"`
	ExitCode        int       `yaml:"exitCode"`
	StartedAt       time.Time `yaml:"startedAt"`
	DurationSeconds float64   `yaml:"durationSeconds"`
	Error           string    `yaml:"error,omitempty"`
	OutputTruncated bool      `yaml:"outputTruncated,omitempty"`
}

// NewSummaryDocument converts a run summary for serialization.
func NewSummaryDocument(s *runbatch.Summary) *SummaryDocument {
	doc := &SummaryDocument{
		RunID:           s.RunID,
		Directory:       s.Directory,
		StartedAt:       s.StartedAt.UTC(),
		FinishedAt:      s.FinishedAt.UTC(),
		DurationSeconds: s.Duration().Seconds(),
		Success:         s.OK(),
		Aborted:         s.Aborted,
		AbortReason:     s.AbortReason,
		Discovered:      s.Discovered,
		Totals: Totals{
			Total:     s.Total,
			Succeeded: s.Succeeded,
			Failed:    s.Failed,
			Skipped:   s.Skipped,
		},
		Scripts: make([]ScriptDocument, 0, len(s.Results)),
	}

	if doc.Discovered == nil {
		doc.Discovered = []string{}
	}

	for _, r := range s.Results {
		doc.Scripts = append(doc.Scripts, ScriptDocument{
			Name:            r.Script,
			Status:          string(r.Status),
			Cause:           string(r.Cause),
			ExitCode:        r.ExitCode,
			StartedAt:       r.StartedAt.UTC(),
			DurationSeconds: r.Duration.Seconds(),
			Error:           r.ErrorMessage,
			OutputTruncated: r.OutputTruncated,
		})
	}

	return doc
}

// WriteSummary writes the YAML summary of s to path, creating parent directories.
func WriteSummary(path string, s *runbatch.Summary) error {
	b, err := yaml.Marshal(NewSummaryDocument(s))
	if err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	fs := FsFactory()

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	if err := afero.WriteFile(fs, path, b, 0o644); err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	return nil
}
