// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignals(t *testing.T) {
	assert.Nil(t, Signals(context.Background()))

	ch := make(chan os.Signal)
	ctx := WithSignals(context.Background(), ch)

	assert.Equal(t, (<-chan os.Signal)(ch), Signals(ctx))
}
