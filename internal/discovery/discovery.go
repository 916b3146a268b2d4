// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrDirectoryNotFound is returned when the script directory does not exist.
	ErrDirectoryNotFound = errors.New("script directory not found")
	// ErrNotADirectory is returned when the script directory path is a file.
	ErrNotADirectory = errors.New("script directory path is not a directory")
	// ErrReadDirectory is returned when the script directory cannot be listed.
	ErrReadDirectory = errors.New("could not read script directory")
	// ErrFetchSource is returned when a remote script source cannot be fetched.
	ErrFetchSource = errors.New("could not fetch script source")
)

// FsFactory returns the filesystem scripts are discovered on.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ScriptFile is one discovered script. Name is the base name and the ordering key.
type ScriptFile struct {
	Path string
	Name string
}

// DiscoveryError is the fatal error returned when the script directory cannot be enumerated.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return "discovery error for " + e.Dir + ": " + e.Err.Error()
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Discover lists the files in dir whose extension is exactly ext, sorted by name
// using byte-wise comparison. Numeric prefixes therefore sort as strings: "10_x.js" comes
// before "9_x.js". Callers control order by zero-padding their prefixes.
//
// A directory with no eligible files yields an empty slice and no error.
func Discover(ctx context.Context, dir, ext string) ([]ScriptFile, error) {
	select {
	case <-ctx.Done():
		return nil, &DiscoveryError{Dir: dir, Err: ctx.Err()}
	default:
	}

	fsys := FsFactory()

	info, err := fsys.Stat(dir)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &DiscoveryError{Dir: dir, Err: errors.Join(ErrDirectoryNotFound, err)}
	case err != nil:
		return nil, &DiscoveryError{Dir: dir, Err: errors.Join(ErrReadDirectory, err)}
	case !info.IsDir():
		return nil, &DiscoveryError{Dir: dir, Err: ErrNotADirectory}
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: errors.Join(ErrReadDirectory, err)}
	}

	scripts := make([]ScriptFile, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}

		scripts = append(scripts, ScriptFile{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
		})
	}

	slices.SortFunc(scripts, func(a, b ScriptFile) int {
		return strings.Compare(a.Name, b.Name)
	})

	return scripts, nil
}

// Names returns the names of scripts in order.
func Names(scripts []ScriptFile) []string {
	names := make([]string, len(scripts))
	for i, s := range scripts {
		names[i] = s.Name
	}

	return names
}
