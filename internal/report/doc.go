// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report names and writes the artifacts of a deployment run:
// the YAML summary next to the run log, and an optional Prometheus textfile.
package report
