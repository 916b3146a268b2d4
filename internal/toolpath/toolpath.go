// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package toolpath resolves the external tool used to run scripts.
package toolpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrNotFound is returned when the tool cannot be located.
	ErrNotFound = errors.New("tool not found")
	// ErrNotExecutable is returned when the tool exists but is not executable.
	ErrNotExecutable = errors.New("tool is not executable")
)

// Find resolves name to an executable path.
// A name containing a path separator is checked directly, otherwise each PATH entry is searched in order.
func Find(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty tool name", ErrNotFound)
	}

	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		if err := check(name); err != nil {
			return "", err
		}

		return name, nil
	}

	var lastErr error

	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if p == "" {
			continue
		}

		for _, candidate := range candidates(filepath.Join(p, name)) {
			err := check(candidate)
			if err == nil {
				return candidate, nil
			}

			if errors.Is(err, ErrNotExecutable) {
				lastErr = err
			}
		}
	}

	if lastErr != nil {
		return "", lastErr
	}

	return "", fmt.Errorf("%w: %s is not in PATH", ErrNotFound, name)
}

func check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotExecutable, path)
	}

	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%w: %s", ErrNotExecutable, path)
	}

	return nil
}

func candidates(path string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(path) != "" {
		return []string{path}
	}

	return []string{path, path + ".exe", path + ".cmd", path + ".bat"}
}
