// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discovery enumerates the scripts of a run.
//
// Execution order is the byte-wise order of file names. This is a convention shared with
// script authors, who prefix names with zero-padded numbers (01_, 02_, ... 10_) to sequence
// dependent index definitions.
package discovery
