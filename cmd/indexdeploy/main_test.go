// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/indexdeploy"
	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/matt-FFFFFF/indexdeploy/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Version(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.Writer = out

	require.NoError(t, cmd.Run(context.Background(), []string{"indexdeploy", "--version"}))
	assert.Contains(t, out.String(), indexdeploy.Version)
	assert.Contains(t, out.String(), "commit: "+indexdeploy.Commit)
}

func TestRootCmd_ListInheritsConfigFlags(t *testing.T) {
	t.Setenv(config.EnvConnectionString, "mongodb://localhost:27017")
	t.Setenv(config.EnvScriptSource, "")

	dir := t.TempDir()
	testhelper.Script(t, dir, "01_a.js", "true")

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.Writer = out

	require.NoError(t, cmd.Run(context.Background(), []string{"indexdeploy", "list", "--dir", dir}))
	assert.Contains(t, out.String(), "1. 01_a.js")
}
