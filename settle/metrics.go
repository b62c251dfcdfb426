// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settle

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "settle"

type metrics struct {
	settlements      *prometheus.CounterVec
	failures         *prometheus.CounterVec
	bridgedSecondary prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements",
			Help:      "number of successful settlements by funding path",
		}, []string{"path"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures",
			Help:      "number of failed settlements by reason",
		}, []string{"reason"}),
		bridgedSecondary: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridged_secondary_units",
			Help:      "total secondary units auto bridged to cover fees",
		}),
	}
	err := errors.Join(
		reg.Register(m.settlements),
		reg.Register(m.failures),
		reg.Register(m.bridgedSecondary),
	)
	return m, err
}
