// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"time"
)

// Summary aggregates the results of one run.
// Results is append-only and kept in execution order.
type Summary struct {
	RunID       string
	Directory   string
	Discovered  []string
	StartedAt   time.Time
	FinishedAt  time.Time
	Results     Results
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	Aborted     bool
	AbortReason string
}

// NewSummary creates an empty summary for a run.
func NewSummary(runID, dir string, startedAt time.Time) *Summary {
	return &Summary{
		RunID:     runID,
		Directory: dir,
		StartedAt: startedAt,
		Results:   Results{},
	}
}

// Add appends a result and updates the counters.
func (s *Summary) Add(r *Result) {
	s.Results = append(s.Results, r)
	s.Total++

	switch r.Status {
	case ResultStatusSuccess:
		s.Succeeded++
	case ResultStatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Abort marks the run as stopped by a fatal error before scripts were executed.
func (s *Summary) Abort(err error) {
	s.Aborted = true
	if err != nil {
		s.AbortReason = err.Error()
	}
}

// Finalize records the finish time.
func (s *Summary) Finalize(finishedAt time.Time) {
	s.FinishedAt = finishedAt
}

// Duration is the wall-clock time of the run.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}

	return s.FinishedAt.Sub(s.StartedAt)
}

// OK reports whether the run completed with every script succeeding.
// A run with no scripts is OK.
func (s *Summary) OK() bool {
	return !s.Aborted && s.Failed == 0 && s.Skipped == 0
}

// Empty reports whether no scripts were executed.
func (s *Summary) Empty() bool {
	return s.Total == 0
}

// FailedResults returns the results that did not succeed, in execution order.
func (s *Summary) FailedResults() Results {
	var failed Results

	for _, r := range s.Results {
		if r.Status != ResultStatusSuccess {
			failed = append(failed, r)
		}
	}

	return failed
}
