// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/indexdeploy/internal/ctxlog"
)

// Fetch downloads a script source into a new temporary directory using go-getter syntax,
// e.g. "git::https://github.com/org/repo.git//indexes?ref=v1.2.0" or a local path.
// It returns the directory holding the scripts and a cleanup function that removes it.
// Failures are returned as a *DiscoveryError.
func Fetch(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}

	if src == "" {
		return "", noop, &DiscoveryError{Dir: src, Err: errors.Join(ErrFetchSource, errors.New("empty source"))}
	}

	tmpDir, err := os.MkdirTemp("", "indexdeploy-source-*")
	if err != nil {
		return "", noop, &DiscoveryError{Dir: src, Err: errors.Join(ErrFetchSource, err)}
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	wd, err := os.Getwd()
	if err != nil {
		cleanup()
		return "", noop, &DiscoveryError{Dir: src, Err: errors.Join(ErrFetchSource, err)}
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "scripts"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
		Copy:    true,
	}

	ctxlog.Debug(ctx, "fetching script source", "source", src, "destination", req.Dst)

	res, err := client.Get(ctx, req)
	if err != nil {
		cleanup()
		return "", noop, &DiscoveryError{Dir: src, Err: errors.Join(ErrFetchSource, err)}
	}

	return res.Dst, cleanup, nil
}
