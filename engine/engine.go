// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine assembles the gas pricing and settlement components behind
// one facade. The node embeds a single Engine and routes transaction
// processing, the price feed, and operator actions through it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dujyo/creativegas/fee"
	"github.com/dujyo/creativegas/gas"
	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/oracle"
	"github.com/dujyo/creativegas/settle"
	"github.com/dujyo/creativegas/sponsor"
	"github.com/dujyo/creativegas/utils/logging"
	"github.com/dujyo/creativegas/utils/timer/mockable"
)

type Config struct {
	Oracle     oracle.Config
	Classifier gas.ClassifierConfig
	Sponsor    sponsor.Config
	Fee        fee.Config
	Settle     settle.Config

	// Window of recent activity consulted for abuse detection. The activity
	// counter owns the window semantics; this only sizes the ask.
	ActivityWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Oracle:         oracle.DefaultConfig(),
		Classifier:     gas.DefaultClassifierConfig(),
		Sponsor:        sponsor.DefaultConfig(),
		Fee:            fee.DefaultConfig(),
		Settle:         settle.DefaultConfig(),
		ActivityWindow: time.Hour,
	}
}

func (c *Config) Verify() error {
	if c.ActivityWindow <= 0 {
		return errors.New("activity window must be positive")
	}
	return errors.Join(
		c.Classifier.Verify(),
		c.Sponsor.Verify(),
		c.Fee.Verify(),
		c.Settle.Verify(),
	)
}

// Collaborators are the node-side services the engine depends on.
type Collaborators struct {
	Ledger     settle.Ledger
	Swapper    settle.Swapper
	Validators settle.ValidatorRegistry
	Activity   gas.ActivityCounter
}

// Engine is the top-level pricing and settlement facade. All methods are
// safe for concurrent use.
type Engine struct {
	log      logging.Logger
	config   Config
	activity gas.ActivityCounter

	oracle      *oracle.Handle
	calculator  *gas.Calculator
	pool        *sponsor.Pool
	distributor *fee.Distributor
	coordinator *settle.Coordinator
}

func New(
	config Config,
	initialRate oracle.Rate,
	collaborators Collaborators,
	log logging.Logger,
	clock *mockable.Clock,
	reg prometheus.Registerer,
) (*Engine, error) {
	if err := config.Verify(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	oracleHandle, err := oracle.New(config.Oracle, initialRate, log, clock, reg)
	if err != nil {
		return nil, fmt.Errorf("initializing price oracle: %w", err)
	}
	classifier, err := gas.NewClassifier(config.Classifier)
	if err != nil {
		return nil, fmt.Errorf("initializing classifier: %w", err)
	}
	pool, err := sponsor.New(config.Sponsor, log, clock, reg)
	if err != nil {
		return nil, fmt.Errorf("initializing sponsorship pool: %w", err)
	}
	distributor, err := fee.New(config.Fee, log, reg)
	if err != nil {
		return nil, fmt.Errorf("initializing fee distributor: %w", err)
	}
	coordinator, err := settle.New(
		config.Settle,
		collaborators.Ledger,
		collaborators.Swapper,
		collaborators.Validators,
		oracleHandle,
		pool,
		distributor,
		log,
		clock,
		reg,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing settlement coordinator: %w", err)
	}

	return &Engine{
		log:         log,
		config:      config,
		activity:    collaborators.Activity,
		oracle:      oracleHandle,
		calculator:  gas.NewCalculator(classifier, oracleHandle, clock),
		pool:        pool,
		distributor: distributor,
		coordinator: coordinator,
	}, nil
}

// CalculateGas prices a transaction for the actor. The only failure mode is
// the activity counter: pricing itself always succeeds.
func (e *Engine) CalculateGas(kind gas.TransactionKind, actor ids.ShortID, tier gas.ActorTier) (gas.Quote, error) {
	recent, err := e.activity.RecentCount(actor, e.config.ActivityWindow)
	if err != nil {
		return gas.Quote{}, fmt.Errorf("reading recent activity: %w", err)
	}
	return e.calculator.CalculateGas(kind, actor, tier, recent), nil
}

// Settle executes payment for a previously issued quote.
func (e *Engine) Settle(ctx context.Context, req settle.Request) (settle.Result, error) {
	return e.coordinator.Settle(ctx, req)
}

// ReleaseSponsorship hands a sponsored budget back after the wrapped action
// failed downstream. Safe to call more than once.
func (e *Engine) ReleaseSponsorship(r *sponsor.Reservation) {
	e.pool.Release(r)
}

// Distribute splits an already collected fee without settling a quote.
// Settle performs this internally for its own collections; this entry point
// serves fees gathered outside the settlement flow.
func (e *Engine) Distribute(totalFee uint64, proposerIsCreativeValidator bool) fee.DistributionRecord {
	return e.distributor.Distribute(totalFee, proposerIsCreativeValidator)
}

// UpdateRate ingests a fresh rate from the external price feed.
func (e *Engine) UpdateRate(nativeUSD, secondaryUSD uint64) error {
	return e.oracle.UpdateRate(nativeUSD, secondaryUSD)
}

// CurrentRate reports the rate pricing is currently using.
func (e *Engine) CurrentRate() oracle.Snapshot {
	return e.oracle.CurrentRate()
}

// TopUpPool adds operator funds to the sponsorship pool.
func (e *Engine) TopUpPool(amountUSD uint64) error {
	if err := e.pool.TopUp(amountUSD); err != nil {
		return err
	}
	e.log.Info("sponsorship pool topped up",
		zap.Uint64("amountUSD", amountUSD),
		zap.Uint64("balanceUSD", e.pool.Balance()),
	)
	return nil
}

// PoolBalance reports the sponsorship pool's remaining funds in nanoUSD.
func (e *Engine) PoolBalance() uint64 {
	return e.pool.Balance()
}
