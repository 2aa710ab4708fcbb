// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bmtasync provides an asynchronous facade over the BMT chunk
// hasher. Callers submit chunk payloads and receive the content address
// on a per-job channel, while a fixed pool of workers drives the
// underlying hashers.
package bmtasync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nullisxyz/nectar/pkg/bmt"
	"github.com/nullisxyz/nectar/pkg/bmtpool"
	"github.com/nullisxyz/nectar/pkg/logging"
	"github.com/nullisxyz/nectar/pkg/swarm"
)

// ErrShutdown is returned on jobs that could not be scheduled before the
// service was closed.
var ErrShutdown = errors.New("bmtasync: service shut down")

// DefaultWorkers is the worker pool size used when the caller passes a
// non-positive count.
const DefaultWorkers = 8

// Result carries the outcome of one hashing job.
type Result struct {
	Address swarm.Address
	Err     error
}

// Job is a single pending chunk hash. Its result is delivered exactly once
// on the channel returned by C.
type Job struct {
	ctx  context.Context
	data []byte
	span int64
	c    chan Result
}

// C returns the channel the job result is delivered on.
func (j *Job) C() <-chan Result {
	return j.c
}

// Service schedules chunk hashing jobs over a fixed worker pool.
type Service struct {
	jobs    chan *Job
	quit    chan struct{}
	wg      sync.WaitGroup
	logger  logging.Logger
	metrics metrics

	closeOnce sync.Once
}

// NewService starts workers goroutines consuming submitted jobs.
func NewService(logger logging.Logger, workers int) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	s := &Service{
		jobs:    make(chan *Job),
		quit:    make(chan struct{}),
		logger:  logger,
		metrics: newMetrics(),
	}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	logger.Debugf("bmtasync: started %d workers", workers)
	return s
}

// Submit enqueues data with the given span for hashing and returns
// immediately. The result arrives on Job.C. Cancelling ctx before a worker
// picks the job up delivers the context error instead; a job already being
// hashed runs to completion.
func (s *Service) Submit(ctx context.Context, data []byte, span int64) *Job {
	j := &Job{
		ctx:  ctx,
		data: data,
		span: span,
		c:    make(chan Result, 1),
	}
	s.metrics.TotalSubmitted.Inc()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case s.jobs <- j:
		case <-ctx.Done():
			s.metrics.TotalCancelled.Inc()
			j.c <- Result{Err: ctx.Err()}
		case <-s.quit:
			j.c <- Result{Err: ErrShutdown}
		}
	}()
	return j
}

// Close stops the workers and waits for in-flight jobs to finish. Jobs not
// yet scheduled fail with ErrShutdown.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
	s.logger.Debug("bmtasync: closed")
	return nil
}

// Metrics implements the metrics.Collector interface.
func (s *Service) Metrics() []prometheus.Collector {
	return s.metrics.Metrics()
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.quit:
			return
		case j := <-s.jobs:
			select {
			case <-j.ctx.Done():
				s.metrics.TotalCancelled.Inc()
				j.c <- Result{Err: j.ctx.Err()}
				continue
			default:
			}
			addr, err := s.hash(j)
			if err != nil {
				s.metrics.TotalErrors.Inc()
				s.logger.Debugf("bmtasync: hash job failed: %v", err)
			} else {
				s.metrics.TotalHashed.Inc()
			}
			j.c <- Result{Address: addr, Err: err}
		}
	}
}

func (s *Service) hash(j *Job) (swarm.Address, error) {
	if len(j.data) > swarm.ChunkSize {
		return swarm.ZeroAddress, fmt.Errorf("chunk data length %d: %w", len(j.data), bmt.ErrOverflow)
	}
	hasher := bmtpool.Get()
	defer bmtpool.Put(hasher)

	hasher.SetHeaderInt64(j.span)
	if _, err := hasher.Write(j.data); err != nil {
		return swarm.ZeroAddress, err
	}
	return swarm.NewAddress(hasher.Sum(nil)), nil
}
