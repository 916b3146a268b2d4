// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package testhelper provides a stand-in for the database shell tool.
// The fake tool accepts the same command line as the real one and runs the
// script named by --file with /bin/sh, so test scripts are shell code.
package testhelper

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeToolName is the executable name written by FakeTool.
const FakeToolName = "fakemongosh"

const fakeTool = `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "--file" ]; then
    exec /bin/sh "$2"
  fi
  shift
done
echo "no --file argument" >&2
exit 64
`

// SkipIfWindows skips tests that need a POSIX shell.
func SkipIfWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake tool requires /bin/sh")
	}
}

// FakeTool writes the fake tool into a temporary directory and returns its full path.
func FakeTool(t *testing.T) string {
	t.Helper()
	SkipIfWindows(t)

	p := filepath.Join(t.TempDir(), FakeToolName)
	require.NoError(t, os.WriteFile(p, []byte(fakeTool), 0o755))
	require.NoError(t, os.Chmod(p, 0o755))

	return p
}

// Script writes a script with the given shell body into dir and returns its path.
func Script(t *testing.T, dir, name, body string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body+"\n"), 0o644))

	return p
}
