// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package settle turns a gas quote into a completed payment. It tries the
// sponsorship pool, then the actor's native balance, then an automatic
// bridge of secondary balance, and finally distributes the collected fee.
package settle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dujyo/creativegas/fee"
	"github.com/dujyo/creativegas/gas"
	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/oracle"
	"github.com/dujyo/creativegas/sponsor"
	"github.com/dujyo/creativegas/utils/logging"
	safemath "github.com/dujyo/creativegas/utils/math"
	"github.com/dujyo/creativegas/utils/timer/mockable"
)

var (
	// ErrInsufficientBalance: neither the native balance nor the bridgeable
	// secondary balance covers the fee. No balance was touched. Retryable
	// after funding.
	ErrInsufficientBalance = errors.New("insufficient balance to cover gas fee")
	// ErrQuoteExpired: the oracle rate moved beyond tolerance, or the quote
	// aged out, between quoting and settlement. The caller should re-quote.
	ErrQuoteExpired = errors.New("gas quote expired")
	// ErrBridgeFailed: the exchange rejected or under-delivered the swap.
	ErrBridgeFailed = errors.New("secondary bridge failed")
	// ErrBridgeTimeout: the exchange did not answer within the bridge
	// timeout. Nothing was bridged.
	ErrBridgeTimeout = errors.New("secondary bridge timed out")
	// ErrReconciliation: the bridge succeeded but the fee debit failed and
	// the bridge could not be unwound. Requires operator attention.
	ErrReconciliation = errors.New("bridge left unreconciled")
)

type Config struct {
	// How long a bridge swap may take before it is treated as failed.
	BridgeTimeout time.Duration

	// A quote is rejected if the live oracle rate drifted more than this
	// many basis points from the quote's snapshot...
	MaxRateDriftBps uint64
	// ...or if the quote is older than this.
	MaxQuoteAge time.Duration

	// Accounts receiving the treasury and liquidity incentive shares. The
	// burn share is debited and credited nowhere.
	TreasuryAccount  ids.ShortID
	LiquidityAccount ids.ShortID
}

func DefaultConfig() Config {
	return Config{
		BridgeTimeout:   10 * time.Second,
		MaxRateDriftBps: 500,
		MaxQuoteAge:     30 * time.Second,
	}
}

func (c *Config) Verify() error {
	switch {
	case c.BridgeTimeout <= 0:
		return errors.New("bridge timeout must be positive")
	case c.MaxQuoteAge <= 0:
		return errors.New("max quote age must be positive")
	default:
		return nil
	}
}

// Request is one settlement attempt.
type Request struct {
	Actor ids.ShortID
	Quote gas.Quote

	// Whether this is the actor's first time performing Quote.Kind, as
	// reported by the account ledger. Gates sponsorship eligibility.
	IsFirstTimeAction bool

	// Block proposer receiving the validator share of the fee.
	Proposer ids.ShortID
}

// Coordinator drives settlements. It holds no lock of its own: the only
// shared state it touches is the sponsorship pool (internally locked) and
// the oracle (lock free), so unrelated settlements never serialize, and no
// engine lock is ever held across the bridge call.
type Coordinator struct {
	log     logging.Logger
	clock   *mockable.Clock
	config  Config
	metrics *metrics

	ledger      Ledger
	swapper     Swapper
	registry    ValidatorRegistry
	oracle      *oracle.Handle
	pool        *sponsor.Pool
	distributor *fee.Distributor
}

func New(
	config Config,
	ledger Ledger,
	swapper Swapper,
	registry ValidatorRegistry,
	oracle *oracle.Handle,
	pool *sponsor.Pool,
	distributor *fee.Distributor,
	log logging.Logger,
	clock *mockable.Clock,
	reg prometheus.Registerer,
) (*Coordinator, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		log:         log,
		clock:       clock,
		config:      config,
		metrics:     m,
		ledger:      ledger,
		swapper:     swapper,
		registry:    registry,
		oracle:      oracle,
		pool:        pool,
		distributor: distributor,
	}, nil
}

// Settle executes one settlement. On failure all shared state (pool,
// balances) is exactly as it was before the call, and the error reports
// which path was attempted and why it failed.
func (c *Coordinator) Settle(ctx context.Context, req Request) (Result, error) {
	quote := req.Quote
	if quote.Free() {
		c.metrics.settlements.WithLabelValues(PathDirectPay.String()).Inc()
		return Result{Path: PathDirectPay}, nil
	}

	if err := c.checkQuoteFresh(&quote); err != nil {
		return Result{}, c.failure("quote_expired", err)
	}

	// Sponsorship first: denials are normal negative results that fall
	// through to the paid paths.
	reservation, err := c.pool.TryReserve(req.Actor, quote.Kind, quote.EffectiveUSD, req.IsFirstTimeAction)
	if err == nil {
		c.metrics.settlements.WithLabelValues(PathSponsored.String()).Inc()
		c.log.Debug("settled with sponsorship",
			zap.Stringer("actor", req.Actor),
			zap.Stringer("kind", quote.Kind),
		)
		return Result{
			Path:        PathSponsored,
			Reservation: reservation,
		}, nil
	}
	if !errors.Is(err, sponsor.ErrNotEligible) {
		c.log.Debug("sponsorship denied",
			zap.Stringer("actor", req.Actor),
			zap.Error(err),
		)
	}

	nativeBalance, err := c.ledger.GetBalance(req.Actor, UnitNative)
	if err != nil {
		return Result{}, c.failure("ledger", fmt.Errorf("reading native balance: %w", err))
	}
	if nativeBalance >= quote.NativeAmount {
		return c.directPay(req, quote)
	}
	return c.bridgeAndPay(ctx, req, quote, nativeBalance)
}

func (c *Coordinator) directPay(req Request, quote gas.Quote) (Result, error) {
	if err := c.ledger.Debit(req.Actor, UnitNative, quote.NativeAmount); err != nil {
		// The balance moved between the read and the debit.
		return Result{}, c.failure("insufficient_balance",
			fmt.Errorf("%w: direct debit of %d native failed: %w", ErrInsufficientBalance, quote.NativeAmount, err))
	}
	result := Result{
		Path:    PathDirectPay,
		FeePaid: quote.NativeAmount,
	}
	return c.distributeCollected(req, quote, result)
}

func (c *Coordinator) bridgeAndPay(
	ctx context.Context,
	req Request,
	quote gas.Quote,
	nativeBalance uint64,
) (Result, error) {
	shortfall := quote.NativeAmount - nativeBalance

	// The bridge amount comes from the quote's own rate snapshot, never
	// the live rate: checkQuoteFresh already bounded the drift, and using
	// the snapshot removes the time-of-check/time-of-use gap. Rounding up
	// buys the minimum sufficient amount.
	secondaryNeeded, err := safemath.MulDivCeil(shortfall, quote.Rate.NativeUSD, quote.Rate.SecondaryUSD)
	if err != nil {
		return Result{}, c.failure("bridge_failed",
			fmt.Errorf("%w: computing bridge amount: %w", ErrBridgeFailed, err))
	}

	secondaryBalance, err := c.ledger.GetBalance(req.Actor, UnitSecondary)
	if err != nil {
		return Result{}, c.failure("ledger", fmt.Errorf("reading secondary balance: %w", err))
	}
	if secondaryBalance < secondaryNeeded {
		return Result{}, c.failure("insufficient_balance", fmt.Errorf(
			"%w: fee is %d native, short %d; bridging needs %d secondary, have %d",
			ErrInsufficientBalance, quote.NativeAmount, shortfall, secondaryNeeded, secondaryBalance))
	}

	bridgeCtx, cancel := context.WithTimeout(ctx, c.config.BridgeTimeout)
	defer cancel()
	bridged, err := c.swapper.Swap(bridgeCtx, req.Actor, UnitSecondary, UnitNative, secondaryNeeded)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, c.failure("bridge_timeout",
				fmt.Errorf("%w after %s", ErrBridgeTimeout, c.config.BridgeTimeout))
		}
		return Result{}, c.failure("bridge_failed", fmt.Errorf("%w: %w", ErrBridgeFailed, err))
	}

	if bridged < shortfall {
		// The exchange under-delivered. Unwind before reporting failure.
		if uerr := c.unwindBridge(req.Actor, bridged); uerr != nil {
			return Result{}, uerr
		}
		return Result{}, c.failure("bridge_failed", fmt.Errorf(
			"%w: swap returned %d native for a %d shortfall", ErrBridgeFailed, bridged, shortfall))
	}

	if err := c.ledger.Debit(req.Actor, UnitNative, quote.NativeAmount); err != nil {
		// A concurrent balance change beat us to the bridged funds. The
		// bridge must not outlive the failed settlement.
		if uerr := c.unwindBridge(req.Actor, bridged); uerr != nil {
			return Result{}, uerr
		}
		return Result{}, c.failure("insufficient_balance",
			fmt.Errorf("%w: fee debit after bridge failed: %w", ErrInsufficientBalance, err))
	}

	c.metrics.bridgedSecondary.Add(float64(secondaryNeeded))
	result := Result{
		Path:             PathBridged,
		FeePaid:          quote.NativeAmount,
		BridgedSecondary: secondaryNeeded,
	}
	return c.distributeCollected(req, quote, result)
}

// unwindBridge reverses a bridge whose settlement could not complete.
func (c *Coordinator) unwindBridge(actor ids.ShortID, bridgedNative uint64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.BridgeTimeout)
	defer cancel()
	if _, err := c.swapper.Swap(ctx, actor, UnitNative, UnitSecondary, bridgedNative); err != nil {
		c.log.Error("failed to unwind bridge",
			zap.Stringer("actor", actor),
			zap.Uint64("bridgedNative", bridgedNative),
			zap.Error(err),
		)
		return c.failure("reconciliation", fmt.Errorf(
			"%w: reverse swap of %d native failed: %w", ErrReconciliation, bridgedNative, err))
	}
	return nil
}

func (c *Coordinator) distributeCollected(req Request, quote gas.Quote, result Result) (Result, error) {
	record := c.distributor.Distribute(quote.NativeAmount, c.registry.IsCreativeValidator(req.Proposer))

	// The burn share stays destroyed: debited from the actor, credited to
	// no one.
	err := errors.Join(
		c.ledger.Credit(c.registry.RewardAccount(req.Proposer), UnitNative, record.ValidatorShare),
		c.ledger.Credit(c.config.TreasuryAccount, UnitNative, record.TreasuryShare),
		c.ledger.Credit(c.config.LiquidityAccount, UnitNative, record.LiquidityShare),
	)
	if err != nil {
		// The fee was collected; a failed share credit is a ledger fault,
		// not a settlement rollback.
		return Result{}, c.failure("ledger", fmt.Errorf("crediting fee shares: %w", err))
	}

	c.metrics.settlements.WithLabelValues(result.Path.String()).Inc()
	result.Distribution = &record
	return result, nil
}

func (c *Coordinator) checkQuoteFresh(quote *gas.Quote) error {
	if age := c.clock.Time().Sub(quote.IssuedAt); age > c.config.MaxQuoteAge {
		return fmt.Errorf("%w: issued %s ago (max %s)", ErrQuoteExpired, age, c.config.MaxQuoteAge)
	}
	live := c.oracle.CurrentRate()
	if driftBps(quote.Rate.NativeUSD, live.NativeUSD) > c.config.MaxRateDriftBps ||
		driftBps(quote.Rate.SecondaryUSD, live.SecondaryUSD) > c.config.MaxRateDriftBps {
		return fmt.Errorf("%w: oracle rate drifted more than %d bps since quoting",
			ErrQuoteExpired, c.config.MaxRateDriftBps)
	}
	return nil
}

func (c *Coordinator) failure(reason string, err error) error {
	c.metrics.failures.WithLabelValues(reason).Inc()
	return err
}

func driftBps(quoted, live uint64) uint64 {
	if quoted == 0 {
		return 0
	}
	var diff uint64
	if live > quoted {
		diff = live - quoted
	} else {
		diff = quoted - live
	}
	bps, err := safemath.MulDiv(diff, 10_000, quoted)
	if err != nil {
		return math.MaxUint64
	}
	return bps
}
