// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmt

import (
	"errors"
)

var (
	// ErrOverflow is returned when input data exceeds the BMT hash capacity.
	ErrOverflow = errors.New("BMT hash capacity exceeded")

	// ErrInvalidIndex is returned when a proof is requested for a segment
	// index outside the chunk geometry.
	ErrInvalidIndex = errors.New("BMT segment index out of bounds")
)
