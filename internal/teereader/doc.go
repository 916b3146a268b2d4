// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader captures the combined output of a script while it is read.
// Captured bytes are bounded, complete lines are handed to a callback as they arrive
// and the last complete line is kept for heartbeat messages.
package teereader
