// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs index scripts one after another with an external shell tool.
//
// Each script runs as its own process group with a wall-clock timeout. Its combined
// output is captured and the outcome is classified into a Result. A SerialBatch drives
// the scripts in order, never stopping on a failed script, and collects the results in a Summary.
package runbatch
