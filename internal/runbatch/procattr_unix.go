// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package runbatch

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// sysProcAttr places the child in a new process group so it can be killed together with its children.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(ps *os.Process) error {
	if err := unix.Kill(-ps.Pid, unix.SIGKILL); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return os.ErrProcessDone
		}

		return err
	}

	return nil
}

func signalProcessGroup(ps *os.Process, sig os.Signal) error {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return ps.Signal(sig) //nolint:wrapcheck
	}

	return unix.Kill(-ps.Pid, s) //nolint:wrapcheck
}
