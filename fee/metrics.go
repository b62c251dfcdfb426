// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fee

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fee"

type metrics struct {
	distributions prometheus.Counter
	shares        *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		distributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributions",
			Help:      "number of fee distributions performed",
		}),
		shares: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "distributed_native_units",
			Help:      "total native units distributed by stakeholder",
		}, []string{"stakeholder"}),
	}
	err := errors.Join(
		reg.Register(m.distributions),
		reg.Register(m.shares),
	)
	return m, err
}
