// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package runbatch

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func killProcessGroup(ps *os.Process) error {
	return ps.Kill() //nolint:wrapcheck
}

func signalProcessGroup(ps *os.Process, sig os.Signal) error {
	return ps.Signal(sig) //nolint:wrapcheck
}
