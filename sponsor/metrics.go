// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sponsor

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sponsor"

type metrics struct {
	reservations prometheus.Counter
	releases     prometheus.Counter
	reservedUSD  prometheus.Counter
	denials      *prometheus.CounterVec
	poolBalance  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations",
			Help:      "number of successful sponsorship reservations",
		}),
		releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "releases",
			Help:      "number of compensating sponsorship releases",
		}),
		reservedUSD: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reserved_nano_usd",
			Help:      "total nanoUSD reserved from the pool",
		}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "denials",
			Help:      "number of sponsorship denials by reason",
		}, []string{"reason"}),
		poolBalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_balance_nano_usd",
			Help:      "remaining pool funds in nanoUSD",
		}),
	}
	err := errors.Join(
		reg.Register(m.reservations),
		reg.Register(m.releases),
		reg.Register(m.reservedUSD),
		reg.Register(m.denials),
		reg.Register(m.poolBalance),
	)
	return m, err
}
