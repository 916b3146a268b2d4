// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	runLogDirPerm  = 0o755
	runLogFilePerm = 0o644
)

var (
	// ErrOpenRunLog is returned when the run log artifact cannot be created.
	ErrOpenRunLog = errors.New("could not open run log")
	// ErrCloseRunLog is returned when the run log artifact cannot be flushed or closed.
	ErrCloseRunLog = errors.New("could not close run log")
)

// FsFactory returns the filesystem run logs are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// RunLog is the logging context of a single run.
// Every record is written to the console handler and, in logfmt, to the log artifact at Path.
type RunLog struct {
	Path     string
	logger   *slog.Logger
	file     afero.File
	once     sync.Once
	closeErr error
}

// OpenRunLog creates the log artifact at path (and its parent directories) and returns a RunLog
// that fans out to console and the artifact. A nil console handler logs to the artifact only.
func OpenRunLog(path string, console slog.Handler) (*RunLog, error) {
	fs := FsFactory()

	if err := fs.MkdirAll(filepath.Dir(path), runLogDirPerm); err != nil {
		return nil, errors.Join(ErrOpenRunLog, err)
	}

	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, runLogFilePerm)
	if err != nil {
		return nil, errors.Join(ErrOpenRunLog, err)
	}

	file := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return &RunLog{
		Path:   path,
		logger: slog.New(NewFanoutHandler(console, file)),
		file:   f,
	}, nil
}

// Logger returns the run logger.
func (l *RunLog) Logger() *slog.Logger {
	return l.logger
}

// Context returns a child of ctx carrying the run logger.
func (l *RunLog) Context(ctx context.Context) context.Context {
	return New(ctx, l.logger)
}

// Close flushes and closes the log artifact. It is safe to call more than once.
func (l *RunLog) Close() error {
	l.once.Do(func() {
		var errs []error

		if err := l.file.Sync(); err != nil {
			errs = append(errs, err)
		}

		if err := l.file.Close(); err != nil {
			errs = append(errs, err)
		}

		if len(errs) > 0 {
			l.closeErr = errors.Join(append([]error{ErrCloseRunLog}, errs...)...)
		}
	})

	return l.closeErr
}
