// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// DefaultLimit is the default number of output bytes retained.
const DefaultLimit = 8 << 20

// LineFunc receives each complete line, without the trailing newline or carriage return.
type LineFunc func(line string)

// Option configures a LineTeeReader.
type Option func(*LineTeeReader)

// WithLimit sets the maximum number of bytes retained. Values <= 0 mean unbounded.
func WithLimit(n int) Option {
	return func(lt *LineTeeReader) {
		lt.limit = n
	}
}

// WithLineFunc registers fn to be called for every complete line.
func WithLineFunc(fn LineFunc) Option {
	return func(lt *LineTeeReader) {
		lt.onLine = fn
	}
}

// LineTeeReader wraps an io.Reader, retaining up to limit bytes of what passes through
// and tracking the last complete line. Reading continues past the limit so the writer never blocks.
// It is safe for concurrent use.
type LineTeeReader struct {
	reader    io.Reader
	buf       bytes.Buffer
	partial   []byte
	lastLine  string
	limit     int
	truncated bool
	onLine    LineFunc
	mu        sync.RWMutex
}

// New creates a LineTeeReader that retains DefaultLimit bytes unless overridden.
func New(r io.Reader, opts ...Option) *LineTeeReader {
	lt := &LineTeeReader{
		reader: r,
		limit:  DefaultLimit,
	}

	for _, opt := range opts {
		opt(lt)
	}

	return lt
}

// Read implements io.Reader.
func (lt *LineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)
	if n > 0 {
		lines := lt.record(p[:n])

		if lt.onLine != nil {
			for _, l := range lines {
				lt.onLine(l)
			}
		}
	}

	return n, err //nolint:wrapcheck
}

// record stores data and returns the lines it completed.
func (lt *LineTeeReader) record(data []byte) []string {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.retain(data)

	var lines []string

	lt.partial = append(lt.partial, data...)

	for {
		i := bytes.IndexByte(lt.partial, '\n')
		if i < 0 {
			break
		}

		line := strings.TrimSuffix(string(lt.partial[:i]), "\r")
		lines = append(lines, line)
		lt.lastLine = line
		lt.partial = lt.partial[i+1:]
	}

	// A line longer than the limit is flushed so partial stays bounded too.
	if lt.limit > 0 && len(lt.partial) > lt.limit {
		line := string(lt.partial)
		lines = append(lines, line)
		lt.lastLine = line
		lt.partial = lt.partial[:0]
	}

	return lines
}

func (lt *LineTeeReader) retain(data []byte) {
	if lt.limit <= 0 {
		lt.buf.Write(data)
		return
	}

	room := lt.limit - lt.buf.Len()
	if room >= len(data) {
		lt.buf.Write(data)
		return
	}

	if room > 0 {
		lt.buf.Write(data[:room])
	}

	lt.truncated = true
}

// Flush emits any trailing partial line to the line callback and records it as the last line.
// Call it once the underlying reader has returned io.EOF.
func (lt *LineTeeReader) Flush() {
	lt.mu.Lock()

	if len(lt.partial) == 0 {
		lt.mu.Unlock()
		return
	}

	line := strings.TrimSuffix(string(lt.partial), "\r")
	lt.lastLine = line
	lt.partial = lt.partial[:0]
	lt.mu.Unlock()

	if lt.onLine != nil {
		lt.onLine(line)
	}
}

// LastLine returns the last complete line, truncated to maxLength with a trailing "..." when maxLength > 3.
func (lt *LineTeeReader) LastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	result := lt.lastLine
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// PartialLine returns the data read after the last newline.
func (lt *LineTeeReader) PartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return string(lt.partial)
}

// Bytes returns a copy of the retained output.
func (lt *LineTeeReader) Bytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return bytes.Clone(lt.buf.Bytes())
}

// Truncated reports whether output was discarded because the limit was reached.
func (lt *LineTeeReader) Truncated() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.truncated
}
