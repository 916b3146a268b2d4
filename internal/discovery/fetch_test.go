// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LocalDirectory(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "02_orders.js"), []byte("//"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "01_users.js"), []byte("//"), 0o644))

	dir, cleanup, err := Fetch(context.Background(), src)
	require.NoError(t, err)

	scripts, err := Discover(context.Background(), dir, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"01_users.js", "02_orders.js"}, Names(scripts))

	cleanup()

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "fetched directory is removed by cleanup")
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty source", src: ""},
		{name: "missing local source", src: filepath.Join(t.TempDir(), "missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, cleanup, err := Fetch(context.Background(), tt.src)
			require.NotNil(t, cleanup)
			cleanup()

			assert.Empty(t, dir)

			var discErr *DiscoveryError
			require.ErrorAs(t, err, &discErr)
			assert.ErrorIs(t, err, ErrFetchSource)
		})
	}
}
