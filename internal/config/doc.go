// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config resolves the run configuration from environment-style inputs.
//
// MONGODB_CONNECTION_STRING is required; everything else has a default.
// A missing connection string, or any other invalid value, is a fatal *ConfigurationError.
package config
