// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package oracle

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oracle"

type metrics struct {
	updates         prometheus.Counter
	rejectedUpdates prometheus.Counter
	staleReads      prometheus.Counter
	nativeRate      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates",
			Help:      "number of accepted rate updates",
		}),
		rejectedUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_updates",
			Help:      "number of rate updates rejected as invalid",
		}),
		staleReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_reads",
			Help:      "number of reads served a stale rate",
		}),
		nativeRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "native_rate_nano_usd",
			Help:      "last accepted native token rate in nanoUSD per base unit",
		}),
	}
	err := errors.Join(
		reg.Register(m.updates),
		reg.Register(m.rejectedUpdates),
		reg.Register(m.staleReads),
		reg.Register(m.nativeRate),
	)
	return m, err
}
