// Copyright 2021 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bmtasync

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/nullisxyz/nectar/pkg/metrics"
)

type metrics struct {
	TotalSubmitted m.Counter
	TotalHashed    m.Counter
	TotalErrors    m.Counter
	TotalCancelled m.Counter
}

func newMetrics() metrics {
	subsystem := "bmtasync"

	return metrics{
		TotalSubmitted: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "total_submitted",
			Help:      "Total number of hashing jobs submitted.",
		}),
		TotalHashed: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "total_hashed",
			Help:      "Total number of chunks hashed successfully.",
		}),
		TotalErrors: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "total_errors",
			Help:      "Total number of hashing jobs that failed.",
		}),
		TotalCancelled: m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "total_cancelled",
			Help:      "Total number of hashing jobs cancelled before execution.",
		}),
	}
}

func (mt metrics) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(mt)
}
