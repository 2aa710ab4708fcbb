// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testutil_test

import (
	"bytes"
	"testing"

	"github.com/nullisxyz/nectar/pkg/util/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRandBytes(t *testing.T) {
	t.Parallel()

	b := testutil.RandBytes(t, 32)
	assert.Len(t, b, 32)
	assert.NotEmpty(t, b)
}

func TestRandBytesWithSeed(t *testing.T) {
	t.Parallel()

	b1 := testutil.RandBytesWithSeed(t, 64, 1)
	b2 := testutil.RandBytesWithSeed(t, 64, 1)
	assert.Len(t, b1, 64)
	assert.True(t, bytes.Equal(b1, b2))
}
