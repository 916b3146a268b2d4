// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on log/slog.
//
// The console handler is a pretty, optionally coloured handler. A RunLog fans every record
// out to the console and to a timestamped log artifact, and must be closed when the run ends.
//
// The console level is read from <EXECUTABLE>_LOG_LEVEL (DEBUG, INFO, WARN or ERROR),
// defaulting to INFO.
package ctxlog
