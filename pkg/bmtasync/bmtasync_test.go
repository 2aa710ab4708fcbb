// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmtasync_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nullisxyz/nectar/pkg/bmt"
	"github.com/nullisxyz/nectar/pkg/bmtasync"
	"github.com/nullisxyz/nectar/pkg/bmtpool"
	"github.com/nullisxyz/nectar/pkg/logging"
	"github.com/nullisxyz/nectar/pkg/swarm"
	"github.com/nullisxyz/nectar/pkg/util/testutil"
)

func newTestService(t *testing.T, workers int) *bmtasync.Service {
	t.Helper()

	s := bmtasync.NewService(logging.New(io.Discard, logrus.ErrorLevel), workers)
	testutil.CleanupCloser(t, s)
	return s
}

func syncAddress(t *testing.T, data []byte, span int64) swarm.Address {
	t.Helper()

	hasher := bmtpool.Get()
	defer bmtpool.Put(hasher)
	hasher.SetHeaderInt64(span)
	if _, err := hasher.Write(data); err != nil {
		t.Fatal(err)
	}
	return swarm.NewAddress(hasher.Sum(nil))
}

func TestServiceSingleJob(t *testing.T) {
	t.Parallel()

	s := newTestService(t, 4)

	data := testutil.RandBytesWithSeed(t, 1234, 42)
	want := syncAddress(t, data, int64(len(data)))

	job := s.Submit(context.Background(), data, int64(len(data)))
	res := <-job.C()
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if !res.Address.Equal(want) {
		t.Fatalf("address mismatch. got %s, want %s", res.Address, want)
	}
}

func TestServiceConcurrentJobs(t *testing.T) {
	t.Parallel()

	const count = 64

	s := newTestService(t, 4)

	datas := make([][]byte, count)
	wants := make([]swarm.Address, count)
	for i := 0; i < count; i++ {
		datas[i] = testutil.RandBytesWithSeed(t, i*64+1, int64(i))
		wants[i] = syncAddress(t, datas[i], int64(len(datas[i])))
	}

	jobs := make([]*bmtasync.Job, count)
	for i := 0; i < count; i++ {
		jobs[i] = s.Submit(context.Background(), datas[i], int64(len(datas[i])))
	}
	for i, job := range jobs {
		res := <-job.C()
		if res.Err != nil {
			t.Fatalf("job %d: %v", i, res.Err)
		}
		if !res.Address.Equal(wants[i]) {
			t.Fatalf("job %d: address mismatch. got %s, want %s", i, res.Address, wants[i])
		}
	}
}

func TestServiceOversizedData(t *testing.T) {
	t.Parallel()

	s := newTestService(t, 1)

	data := make([]byte, swarm.ChunkSize+1)
	job := s.Submit(context.Background(), data, int64(len(data)))
	res := <-job.C()
	if !errors.Is(res.Err, bmt.ErrOverflow) {
		t.Fatalf("got error %v, want %v", res.Err, bmt.ErrOverflow)
	}
}

func TestServiceCancelledContext(t *testing.T) {
	t.Parallel()

	s := newTestService(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := s.Submit(ctx, []byte("never hashed"), 12)
	res := <-job.C()
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("got error %v, want %v", res.Err, context.Canceled)
	}
}

func TestServiceShutdown(t *testing.T) {
	t.Parallel()

	s := bmtasync.NewService(logging.New(io.Discard, logrus.ErrorLevel), 1)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	// closing again is a no-op
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	job := s.Submit(context.Background(), []byte("late"), 4)
	res := <-job.C()
	if !errors.Is(res.Err, bmtasync.ErrShutdown) {
		t.Fatalf("got error %v, want %v", res.Err, bmtasync.ErrShutdown)
	}
}
