// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// DefaultEnvFile is read, if present, when no env file is given explicitly.
const DefaultEnvFile = ".env"

// ErrReadEnvFile is returned when an explicitly requested env file cannot be read.
var ErrReadEnvFile = errors.New("could not read env file")

// Lookuper builds the lookup chain used by Resolve: overrides first (typically CLI flags),
// then the process environment, then values from the env file.
//
// Blank values at any level fall through to the next one.
// When envFile is empty the DefaultEnvFile is used if it exists. An explicit envFile
// that cannot be read is a ConfigurationError.
func Lookuper(overrides map[string]string, envFile string) (envconfig.Lookuper, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	fileValues, err := godotenv.Read(envFile)

	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		fileValues = map[string]string{}
	default:
		return nil, &ConfigurationError{
			Err: multierror.Append(nil, errors.Join(ErrReadEnvFile, err)),
		}
	}

	return envconfig.MultiLookuper(
		nonBlankLookuper{l: envconfig.MapLookuper(overrides)},
		nonBlankLookuper{l: envconfig.OsLookuper()},
		nonBlankLookuper{l: envconfig.MapLookuper(fileValues)},
	), nil
}
