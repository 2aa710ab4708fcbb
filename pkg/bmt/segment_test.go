// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmt_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nullisxyz/nectar/pkg/bmt"
	"github.com/nullisxyz/nectar/pkg/swarm"
)

func TestSegmentCount(t *testing.T) {
	for _, tc := range []struct {
		length  int
		want    int
		wantErr error
	}{
		{length: 0, want: 0},
		{length: 1, want: 1},
		{length: 32, want: 1},
		{length: 33, want: 2},
		{length: 64, want: 2},
		{length: 4095, want: 128},
		{length: 4096, want: 128},
		{length: 4097, wantErr: bmt.ErrOverflow},
	} {
		got, err := bmt.SegmentCount(tc.length)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("length %d: got error %v, want %v", tc.length, err, tc.wantErr)
		}
		if err == nil && got != tc.want {
			t.Fatalf("length %d: got %d segments, want %d", tc.length, got, tc.want)
		}
	}
}

func TestPadSegment(t *testing.T) {
	full := bytes.Repeat([]byte{0xab}, bmt.SegmentSize)
	if got := bmt.PadSegment(full); !bytes.Equal(got, full) {
		t.Fatalf("full segment modified by padding: %x", got)
	}

	short := []byte{1, 2, 3}
	want := make([]byte, bmt.SegmentSize)
	copy(want, short)
	if got := bmt.PadSegment(short); !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestLeafIndexForOffset(t *testing.T) {
	for _, tc := range []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 0},
		{offset: 31, want: 0},
		{offset: 32, want: 1},
		{offset: swarm.ChunkSize - 1, want: 127},
	} {
		if got := bmt.LeafIndexForOffset(tc.offset); got != tc.want {
			t.Fatalf("offset %d: got %d, want %d", tc.offset, got, tc.want)
		}
	}
}
