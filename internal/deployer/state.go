// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package deployer

// State is a stage of a deployment run.
type State int32

const (
	StateIdle State = iota
	StateResolvingConfig
	StatePreflight
	StateDiscovering
	StateExecuting
	StateSummarizing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingConfig:
		return "resolving-config"
	case StatePreflight:
		return "preflight"
	case StateDiscovering:
		return "discovering"
	case StateExecuting:
		return "executing"
	case StateSummarizing:
		return "summarizing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
