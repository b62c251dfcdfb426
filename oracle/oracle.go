// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracle holds the engine's view of the native token price. The
// rate is written by a single external feed and read, lock free, by every
// pricing and settlement call.
package oracle

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dujyo/creativegas/utils/logging"
	"github.com/dujyo/creativegas/utils/timer/mockable"
)

var ErrInvalidRate = errors.New("invalid rate")

// Rate is a point-in-time exchange rate snapshot written by the price feed.
type Rate struct {
	// NanoUSD per native base unit. Always > 0.
	NativeUSD uint64
	// NanoUSD per secondary base unit. Always > 0.
	SecondaryUSD uint64
	// When the feed last reported this rate.
	UpdatedAt time.Time
}

// Snapshot is what readers observe. Stale is set when the feed has been
// silent for longer than the configured max age; the rate is still usable.
type Snapshot struct {
	Rate
	Stale bool
}

type Config struct {
	// How long a rate may go without a feed update before reads flag it
	// stale.
	MaxAge time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAge: 5 * time.Minute,
	}
}

type Handle struct {
	log     logging.Logger
	clock   *mockable.Clock
	maxAge  time.Duration
	metrics *metrics

	rate atomic.Pointer[Rate]
}

func New(
	config Config,
	initial Rate,
	log logging.Logger,
	clock *mockable.Clock,
	reg prometheus.Registerer,
) (*Handle, error) {
	if initial.NativeUSD == 0 || initial.SecondaryUSD == 0 {
		return nil, ErrInvalidRate
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		log:     log,
		clock:   clock,
		maxAge:  config.MaxAge,
		metrics: m,
	}
	if initial.UpdatedAt.IsZero() {
		initial.UpdatedAt = clock.Time()
	}
	h.rate.Store(&initial)
	m.nativeRate.Set(float64(initial.NativeUSD))
	return h, nil
}

// CurrentRate returns the last known rate. It never blocks on the feed. If
// the feed has been silent past the max age the snapshot is flagged stale
// and a warning is emitted, but pricing proceeds on the stale value.
func (h *Handle) CurrentRate() Snapshot {
	rate := h.rate.Load()
	snapshot := Snapshot{Rate: *rate}
	if age := h.clock.Time().Sub(rate.UpdatedAt); age > h.maxAge {
		snapshot.Stale = true
		h.metrics.staleReads.Inc()
		h.log.Warn("price oracle is stale",
			zap.Duration("age", age),
			zap.Duration("maxAge", h.maxAge),
		)
	}
	return snapshot
}

// UpdateRate replaces the current rate. Only the external price feed should
// call this. Non-positive rates are rejected and the previous rate is
// retained.
func (h *Handle) UpdateRate(nativeUSD, secondaryUSD uint64) error {
	if nativeUSD == 0 || secondaryUSD == 0 {
		h.metrics.rejectedUpdates.Inc()
		return ErrInvalidRate
	}
	h.rate.Store(&Rate{
		NativeUSD:    nativeUSD,
		SecondaryUSD: secondaryUSD,
		UpdatedAt:    h.clock.Time(),
	})
	h.metrics.updates.Inc()
	h.metrics.nativeRate.Set(float64(nativeUSD))
	h.log.Debug("updated oracle rate",
		zap.Uint64("nativeUSD", nativeUSD),
		zap.Uint64("secondaryUSD", secondaryUSD),
	)
	return nil
}
