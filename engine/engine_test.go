// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dujyo/creativegas/gas"
	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/oracle"
	"github.com/dujyo/creativegas/settle"
	"github.com/dujyo/creativegas/utils/logging"
	"github.com/dujyo/creativegas/utils/timer/mockable"
	"github.com/dujyo/creativegas/utils/units"
)

var (
	engineActor    = ids.ShortID{10}
	engineProposer = ids.ShortID{11}
)

type memLedgerKey struct {
	actor ids.ShortID
	unit  settle.Unit
}

// memLedger is an in-memory account store standing in for the node ledger.
type memLedger struct {
	lock     sync.Mutex
	balances map[memLedgerKey]uint64
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[memLedgerKey]uint64)}
}

func (l *memLedger) GetBalance(actor ids.ShortID, unit settle.Unit) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.balances[memLedgerKey{actor, unit}], nil
}

func (l *memLedger) Debit(actor ids.ShortID, unit settle.Unit, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	key := memLedgerKey{actor, unit}
	if l.balances[key] < amount {
		return errors.New("insufficient funds")
	}
	l.balances[key] -= amount
	return nil
}

func (l *memLedger) Credit(actor ids.ShortID, unit settle.Unit, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.balances[memLedgerKey{actor, unit}] += amount
	return nil
}

type noSwapper struct{}

func (noSwapper) Swap(context.Context, ids.ShortID, settle.Unit, settle.Unit, uint64) (uint64, error) {
	return 0, errors.New("exchange unavailable")
}

type staticRegistry struct{}

func (staticRegistry) IsCreativeValidator(ids.ShortID) bool { return false }

func (staticRegistry) RewardAccount(proposer ids.ShortID) ids.ShortID { return proposer }

// fixedActivity reports the same count for every actor.
type fixedActivity struct {
	count uint64
	err   error
}

func (a fixedActivity) RecentCount(ids.ShortID, time.Duration) (uint64, error) {
	return a.count, a.err
}

func newTestEngine(t *testing.T, ledger *memLedger, activity gas.ActivityCounter) *Engine {
	t.Helper()

	clock := &mockable.Clock{}
	clock.Set(time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC))

	e, err := New(
		DefaultConfig(),
		oracle.Rate{NativeUSD: units.MilliUSD, SecondaryUSD: 10 * units.MicroUSD},
		Collaborators{
			Ledger:     ledger,
			Swapper:    noSwapper{},
			Validators: staticRegistry{},
			Activity:   activity,
		},
		logging.NoWarn{T: t},
		clock,
		prometheus.NewRegistry(),
	)
	require.NoError(t, err)
	return e
}

// The full quote-then-settle round trip through the facade: a cultural
// upload priced at half its $0.02 base, paid from the native balance and
// split 40/30/20/10.
func TestEngineQuoteAndSettle(t *testing.T) {
	require := require.New(t)

	ledger := newMemLedger()
	require.NoError(ledger.Credit(engineActor, settle.UnitNative, 100))
	e := newTestEngine(t, ledger, fixedActivity{count: 3})

	quote, err := e.CalculateGas(gas.UploadContent, engineActor, gas.TierCreator)
	require.NoError(err)
	require.Equal(gas.DefaultCulturalPct, quote.MultiplierPct)
	require.Equal(uint64(50), quote.DiscountPct)
	// $0.02 base, halved, at $0.001 per native unit
	require.Equal(uint64(10), quote.NativeAmount)

	result, err := e.Settle(context.Background(), settle.Request{
		Actor:    engineActor,
		Quote:    quote,
		Proposer: engineProposer,
	})
	require.NoError(err)
	require.Equal(settle.PathDirectPay, result.Path)
	require.Equal(uint64(10), result.FeePaid)
	require.Equal(uint64(4), result.Distribution.ValidatorShare)
	require.Equal(uint64(3), result.Distribution.TreasuryShare)
	require.Equal(uint64(2), result.Distribution.LiquidityShare)
	require.Equal(uint64(1), result.Distribution.BurnShare)

	balance, err := ledger.GetBalance(engineActor, settle.UnitNative)
	require.NoError(err)
	require.Equal(uint64(90), balance)
}

func TestEngineSponsoredRelease(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, newMemLedger(), fixedActivity{})

	quote, err := e.CalculateGas(gas.UploadContent, engineActor, gas.TierRegular)
	require.NoError(err)

	before := e.PoolBalance()
	result, err := e.Settle(context.Background(), settle.Request{
		Actor:             engineActor,
		Quote:             quote,
		IsFirstTimeAction: true,
		Proposer:          engineProposer,
	})
	require.NoError(err)
	require.Equal(settle.PathSponsored, result.Path)
	require.Equal(before-quote.EffectiveUSD, e.PoolBalance())

	e.ReleaseSponsorship(result.Reservation)
	require.Equal(before, e.PoolBalance())
}

func TestEngineActivityCounterFailure(t *testing.T) {
	require := require.New(t)

	counterErr := errors.New("activity store offline")
	e := newTestEngine(t, newMemLedger(), fixedActivity{err: counterErr})

	_, err := e.CalculateGas(gas.SimpleTransfer, engineActor, gas.TierRegular)
	require.ErrorIs(err, counterErr)
}

func TestEngineAbusePenaltyThroughFacade(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, newMemLedger(), fixedActivity{count: gas.DefaultAbuseThreshold + 1})

	quote, err := e.CalculateGas(gas.UploadContent, engineActor, gas.TierRegular)
	require.NoError(err)
	require.Equal(gas.DefaultAbusePct, quote.MultiplierPct)
	require.Zero(quote.DiscountPct)
}

func TestEngineRateUpdateChangesQuotes(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, newMemLedger(), fixedActivity{})

	quote, err := e.CalculateGas(gas.SimpleTransfer, engineActor, gas.TierRegular)
	require.NoError(err)
	require.Equal(uint64(1), quote.NativeAmount) // $0.001 at $0.001 per unit

	// Halving the token price doubles the unit count
	require.NoError(e.UpdateRate(units.MilliUSD/2, 10*units.MicroUSD))
	quote, err = e.CalculateGas(gas.SimpleTransfer, engineActor, gas.TierRegular)
	require.NoError(err)
	require.Equal(uint64(2), quote.NativeAmount)

	require.ErrorIs(e.UpdateRate(0, 10*units.MicroUSD), oracle.ErrInvalidRate)
}

func TestEngineDistribute(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, newMemLedger(), fixedActivity{})

	record := e.Distribute(100, true)
	require.Equal(uint64(45), record.ValidatorShare)
	require.Equal(uint64(25), record.TreasuryShare)
	require.Equal(uint64(20), record.LiquidityShare)
	require.Equal(uint64(10), record.BurnShare)
	require.True(record.CreativeBonusApplied)
}

func TestEngineTopUp(t *testing.T) {
	require := require.New(t)

	e := newTestEngine(t, newMemLedger(), fixedActivity{})

	before := e.PoolBalance()
	require.NoError(e.TopUpPool(25 * units.USD))
	require.Equal(before+25*units.USD, e.PoolBalance())
}

func TestEngineConfigVerify(t *testing.T) {
	require := require.New(t)

	config := DefaultConfig()
	config.ActivityWindow = 0
	require.Error(config.Verify())

	config = DefaultConfig()
	config.Fee.BurnPct = 15
	require.Error(config.Verify())

	config = DefaultConfig()
	require.NoError(config.Verify())
}
