// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sponsor manages the shared subsidy pool that waives gas for
// first-time, high-value actions. All budget checks and deductions happen
// under one narrow lock scoped to the pool record, so unrelated pricing
// calls are never serialized behind sponsorship bookkeeping.
package sponsor

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dujyo/creativegas/gas"
	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/utils/logging"
	safemath "github.com/dujyo/creativegas/utils/math"
	"github.com/dujyo/creativegas/utils/timer/mockable"
	"github.com/dujyo/creativegas/utils/units"
)

var (
	// Denials are normal negative results, not faults. Callers fall
	// through to direct payment.
	ErrNotEligible      = errors.New("transaction not eligible for sponsorship")
	ErrPoolExhausted    = errors.New("sponsorship pool exhausted")
	ErrActorCapExceeded = errors.New("actor daily sponsorship cap exceeded")
	ErrDailyCapExceeded = errors.New("global daily sponsorship cap exceeded")
)

type Config struct {
	// Funds initially available, in nanoUSD.
	InitialPoolUSD uint64
	// Most an actor may be sponsored per UTC day, in nanoUSD.
	PerActorDailyCapUSD uint64
	// Most the pool may pay out per UTC day, in nanoUSD.
	GlobalDailyCapUSD uint64
}

func DefaultConfig() Config {
	return Config{
		InitialPoolUSD:      10_000 * units.USD,
		PerActorDailyCapUSD: 50 * units.USD,
		GlobalDailyCapUSD:   1_000 * units.USD,
	}
}

func (c *Config) Verify() error {
	if c.PerActorDailyCapUSD > c.GlobalDailyCapUSD {
		return errors.New("per-actor cap exceeds the global daily cap")
	}
	return nil
}

// Pool tracks the subsidy budget. Per-actor counters live in a slot arena
// indexed through actorSlot, so counter updates never alias user-held
// pointers.
type Pool struct {
	log     logging.Logger
	clock   *mockable.Clock
	config  Config
	metrics *metrics

	lock      sync.Mutex
	balance   uint64
	day       time.Time // UTC midnight the daily counters belong to
	dailyUsed uint64
	slots     []uint64
	actorSlot map[ids.ShortID]int
}

func New(
	config Config,
	log logging.Logger,
	clock *mockable.Clock,
	reg prometheus.Registerer,
) (*Pool, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		log:       log,
		clock:     clock,
		config:    config,
		metrics:   m,
		balance:   config.InitialPoolUSD,
		day:       clock.Time().UTC().Truncate(24 * time.Hour),
		actorSlot: make(map[ids.ShortID]int),
	}
	m.poolBalance.Set(float64(p.balance))
	return p, nil
}

// Reservation is the token handed out by TryReserve. Releasing through the
// token rather than a raw amount makes double release a no-op.
type Reservation struct {
	Actor  ids.ShortID
	Amount uint64 // nanoUSD

	slot     int
	day      time.Time
	released bool
}

// TryReserve atomically checks eligibility and every cap, then deducts the
// amount from the pool. Whether this is the actor's first time performing
// the action is the ledger collaborator's call; the pool does not track
// first-time state itself.
func (p *Pool) TryReserve(
	actor ids.ShortID,
	kind gas.TransactionKind,
	amountUSD uint64,
	isFirstTimeAction bool,
) (*Reservation, error) {
	if !kind.Sponsorable() || !isFirstTimeAction {
		p.metrics.denials.WithLabelValues("not_eligible").Inc()
		return nil, ErrNotEligible
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	p.rollDayLocked()

	if amountUSD > p.balance {
		p.metrics.denials.WithLabelValues("pool_exhausted").Inc()
		return nil, ErrPoolExhausted
	}
	newDaily, err := safemath.Add(p.dailyUsed, amountUSD)
	if err != nil || newDaily > p.config.GlobalDailyCapUSD {
		p.metrics.denials.WithLabelValues("daily_cap").Inc()
		return nil, ErrDailyCapExceeded
	}
	slot := p.slotLocked(actor)
	newActorUsed, err := safemath.Add(p.slots[slot], amountUSD)
	if err != nil || newActorUsed > p.config.PerActorDailyCapUSD {
		p.metrics.denials.WithLabelValues("actor_cap").Inc()
		return nil, ErrActorCapExceeded
	}

	p.balance -= amountUSD
	p.dailyUsed = newDaily
	p.slots[slot] = newActorUsed

	p.metrics.reservations.Inc()
	p.metrics.reservedUSD.Add(float64(amountUSD))
	p.metrics.poolBalance.Set(float64(p.balance))
	p.log.Debug("reserved sponsorship",
		zap.Stringer("actor", actor),
		zap.Stringer("kind", kind),
		zap.Uint64("amountUSD", amountUSD),
	)
	return &Reservation{
		Actor:  actor,
		Amount: amountUSD,
		slot:   slot,
		day:    p.day,
	}, nil
}

// Release is the compensating action for a sponsored transaction that
// failed downstream. It restores the budget exactly and is idempotent:
// releasing the same reservation twice has no additional effect.
func (p *Pool) Release(r *Reservation) {
	if r == nil {
		return
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if r.released {
		return
	}
	r.released = true

	p.balance += r.Amount
	// Daily counters only unwind if the day they were charged against is
	// still current; after a rollover they were already reset.
	if r.day.Equal(p.day) {
		p.dailyUsed, _ = safemath.Sub(p.dailyUsed, r.Amount)
		p.slots[r.slot], _ = safemath.Sub(p.slots[r.slot], r.Amount)
	}

	p.metrics.releases.Inc()
	p.metrics.poolBalance.Set(float64(p.balance))
	p.log.Debug("released sponsorship",
		zap.Stringer("actor", r.Actor),
		zap.Uint64("amountUSD", r.Amount),
	)
}

// TopUp adds operator funds to the pool. It never alters the caps.
func (p *Pool) TopUp(amountUSD uint64) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	newBalance, err := safemath.Add(p.balance, amountUSD)
	if err != nil {
		return err
	}
	p.balance = newBalance
	p.metrics.poolBalance.Set(float64(p.balance))
	p.log.Info("topped up sponsorship pool",
		zap.Uint64("amountUSD", amountUSD),
		zap.Uint64("balanceUSD", p.balance),
	)
	return nil
}

// Balance returns the remaining pool funds in nanoUSD.
func (p *Pool) Balance() uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.balance
}

// DailyUsed returns the amount paid out so far today in nanoUSD.
func (p *Pool) DailyUsed() uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.rollDayLocked()
	return p.dailyUsed
}

// ActorUsed returns the amount the actor has been sponsored today.
func (p *Pool) ActorUsed(actor ids.ShortID) uint64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.rollDayLocked()
	slot, ok := p.actorSlot[actor]
	if !ok {
		return 0
	}
	return p.slots[slot]
}

func (p *Pool) rollDayLocked() {
	today := p.clock.Time().UTC().Truncate(24 * time.Hour)
	if today.Equal(p.day) {
		return
	}
	p.day = today
	p.dailyUsed = 0
	// Keep the arena mapping stable; only the counters reset.
	for i := range p.slots {
		p.slots[i] = 0
	}
}

func (p *Pool) slotLocked(actor ids.ShortID) int {
	if slot, ok := p.actorSlot[actor]; ok {
		return slot
	}
	slot := len(p.slots)
	p.slots = append(p.slots, 0)
	p.actorSlot[actor] = slot
	return slot
}
