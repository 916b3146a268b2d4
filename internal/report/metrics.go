// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"

	"github.com/matt-FFFFFF/indexdeploy/internal/runbatch"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "indexdeploy"

// ErrWriteMetrics is returned when the metrics textfile cannot be written.
var ErrWriteMetrics = errors.New("could not write metrics")

// NewRegistry returns a registry holding the metrics of one run.
func NewRegistry(s *runbatch.Summary) (*prometheus.Registry, error) {
	scripts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "scripts",
		Help:      "Number of scripts by outcome in the last run.",
	}, []string{"status"})

	scriptDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "script_duration_seconds",
		Help:      "Run time of each script in the last run.",
	}, []string{"script", "status"})

	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of the last run.",
	})

	runSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_success",
		Help:      "1 if every script of the last run succeeded, 0 otherwise.",
	})

	runTimestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})

	reg := prometheus.NewRegistry()

	for _, c := range []prometheus.Collector{scripts, scriptDuration, runDuration, runSuccess, runTimestamp} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrWriteMetrics, err)
		}
	}

	scripts.WithLabelValues(string(runbatch.ResultStatusSuccess)).Set(float64(s.Succeeded))
	scripts.WithLabelValues(string(runbatch.ResultStatusError)).Set(float64(s.Failed))
	scripts.WithLabelValues(string(runbatch.ResultStatusSkipped)).Set(float64(s.Skipped))

	for _, r := range s.Results {
		scriptDuration.WithLabelValues(r.Script, string(r.Status)).Set(r.Duration.Seconds())
	}

	runDuration.Set(s.Duration().Seconds())

	if s.OK() {
		runSuccess.Set(1)
	}

	if !s.FinishedAt.IsZero() {
		runTimestamp.Set(float64(s.FinishedAt.Unix()))
	}

	return reg, nil
}

// WriteMetrics writes the metrics of s in the Prometheus text format to path,
// atomically, for the node_exporter textfile collector.
func WriteMetrics(path string, s *runbatch.Summary) error {
	reg, err := NewRegistry(s)
	if err != nil {
		return err
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.Join(ErrWriteMetrics, err)
	}

	return nil
}
