// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package hierarchy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

type metrics struct {
	fetches  *prometheus.CounterVec
	memoHits prometheus.Counter
	duration *prometheus.HistogramVec
}

// newMetrics creates the collector metrics. A nil registerer leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vudl",
			Subsystem: "hierarchy",
			Name:      "fetches_total",
			Help:      "Repository object fetches by outcome.",
		}, []string{"outcome"}),
		memoHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vudl",
			Subsystem: "hierarchy",
			Name:      "memo_hits_total",
			Help:      "Ancestor lookups served by the per-call memo.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vudl",
			Subsystem: "hierarchy",
			Name:      "resolution_seconds",
			Help:      "Duration of hierarchy resolutions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}
}
