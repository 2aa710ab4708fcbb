// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmt

import (
	"fmt"

	"github.com/nullisxyz/nectar/pkg/swarm"
)

const (
	// SegmentSize is the size in bytes of one leaf segment of the BMT,
	// stipulated to be the size of the base hash.
	SegmentSize = swarm.SectionSize

	// SegmentPairSize is the size of a base level section, the unit over
	// which leaf level hashing is performed.
	SegmentPairSize = 2 * SegmentSize
)

// SegmentCount returns the number of segments the data occupies,
// the last segment counted even when partial.
// Data longer than the chunk capacity yields ErrOverflow.
func SegmentCount(dataLength int) (int, error) {
	if dataLength > swarm.ChunkSize {
		return 0, fmt.Errorf("data length %d: %w", dataLength, ErrOverflow)
	}
	return (dataLength + SegmentSize - 1) / SegmentSize, nil
}

// PadSegment right-pads a short final segment with zero bytes.
// Full segments pass through unchanged.
func PadSegment(b []byte) []byte {
	if len(b) == SegmentSize {
		return b
	}
	padded := make([]byte, SegmentSize)
	copy(padded, b)
	return padded
}

// LeafIndexForOffset returns the index of the segment containing the
// given byte offset within a chunk.
func LeafIndexForOffset(offset int) int {
	return offset / SegmentSize
}
