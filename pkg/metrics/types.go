// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is prefixed before every metric. If it is changed, it must be done
// before any metrics collector is registered.
const Namespace = "nectar"

// Collector is the interface implemented by anything that can be registered
// with a metrics registry.
type Collector interface {
	Metrics() []prometheus.Collector
}

// Prometheus types aliases
type (
	Metric = prometheus.Metric

	Counter     = prometheus.Counter
	CounterOpts = prometheus.CounterOpts

	Gauge     = prometheus.Gauge
	GaugeOpts = prometheus.GaugeOpts

	Histogram     = prometheus.Histogram
	HistogramOpts = prometheus.HistogramOpts
)
