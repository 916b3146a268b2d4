// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"net/url"
)

const redacted = "[REDACTED]"

var _ slog.LogValuer = Secret("")

// Secret is a string that never prints its value.
// Use Reveal to obtain the value for passing to a subprocess.
type Secret string

// Reveal returns the secret value.
func (s Secret) Reveal() string {
	return string(s)
}

// String returns a redacted placeholder.
func (s Secret) String() string {
	if s == "" {
		return ""
	}

	return redacted
}

// GoString keeps the value out of %#v output.
func (s Secret) GoString() string {
	return s.String()
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.Redacted())
}

// Redacted returns the connection target with credentials, path and query removed,
// e.g. "mongodb+srv://cluster0.example.net". Values that are not URLs are fully redacted.
func (s Secret) Redacted() string {
	if s == "" {
		return ""
	}

	u, err := url.Parse(string(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redacted
	}

	return u.Scheme + "://" + u.Host
}
