// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"path/filepath"
	"time"

	"github.com/matt-FFFFFF/indexdeploy/internal/config"
	"github.com/spf13/afero"
)

const (
	// StampFormat is the timestamp layout used in artifact names.
	StampFormat = "20060102_150405"

	filePrefix  = "index_deployment_"
	runIDLength = 8
)

// FsFactory returns the filesystem artifacts are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Artifacts names the files produced by one run.
// The run ID suffix keeps names unique when two runs start in the same second.
type Artifacts struct {
	Dir      string
	Basename string
}

// NewArtifacts returns the artifact names for a run started at startedAt.
func NewArtifacts(dir string, startedAt time.Time, runID string) Artifacts {
	if dir == "" {
		dir = config.DefaultLogDir
	}

	if len(runID) > runIDLength {
		runID = runID[:runIDLength]
	}

	name := filePrefix + startedAt.Format(StampFormat)
	if runID != "" {
		name += "_" + runID
	}

	return Artifacts{
		Dir:      dir,
		Basename: name,
	}
}

// LogPath is the path of the structured run log.
func (a Artifacts) LogPath() string {
	return filepath.Join(a.Dir, a.Basename+".log")
}

// SummaryPath is the path of the YAML summary.
func (a Artifacts) SummaryPath() string {
	return filepath.Join(a.Dir, a.Basename+".yaml")
}
