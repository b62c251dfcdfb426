// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/oracle"
	"github.com/dujyo/creativegas/utils/logging"
	"github.com/dujyo/creativegas/utils/timer/mockable"
	"github.com/dujyo/creativegas/utils/units"
)

var testActor = ids.ShortID{1}

func newTestCalculator(t *testing.T, nativeUSD uint64) (*Calculator, *mockable.Clock) {
	t.Helper()

	clock := &mockable.Clock{}
	clock.Set(time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC))

	h, err := oracle.New(
		oracle.DefaultConfig(),
		oracle.Rate{
			NativeUSD:    nativeUSD,
			SecondaryUSD: units.USD,
		},
		logging.NoLog{},
		clock,
		prometheus.NewRegistry(),
	)
	require.NoError(t, err)

	classifier, err := NewClassifier(DefaultClassifierConfig())
	require.NoError(t, err)
	return NewCalculator(classifier, h, clock), clock
}

func TestFreeKindsQuoteZero(t *testing.T) {
	require := require.New(t)

	calc, _ := newTestCalculator(t, units.MilliUSD)

	for _, kind := range []TransactionKind{StreamEarnTick, ProposeBlock} {
		for tier := TierRegular; tier <= TierValidator; tier++ {
			quote := calc.CalculateGas(kind, testActor, tier, 1_000_000)
			require.Zero(quote.NativeAmount)
			require.True(quote.Free())
			// Free kinds never consult the oracle
			require.Zero(quote.Rate.NativeUSD)
		}
	}
}

func TestCulturalDiscountPricing(t *testing.T) {
	require := require.New(t)

	// $0.001 per native unit
	calc, _ := newTestCalculator(t, units.MilliUSD)

	// UploadContent: $0.02 base, 50% cultural discount => $0.01 => 10 units
	quote := calc.CalculateGas(UploadContent, testActor, TierRegular, 0)
	require.Equal(uint64(10), quote.NativeAmount)
	require.Equal(uint64(50), quote.DiscountPct)
	require.Equal(10*units.MilliUSD, quote.EffectiveUSD)

	// A neutral kind at the same base price quotes the full 20 units
	quote = calc.CalculateGas(StakeDeposit, testActor, TierRegular, 0)
	require.Equal(uint64(20), quote.NativeAmount)
	require.Zero(quote.DiscountPct)
}

func TestAbusePenaltyPricing(t *testing.T) {
	require := require.New(t)

	calc, _ := newTestCalculator(t, units.MilliUSD)
	threshold := DefaultAbuseThreshold

	// At the threshold the discount still applies
	quote := calc.CalculateGas(UploadContent, testActor, TierRegular, threshold)
	require.Equal(uint64(10), quote.NativeAmount)

	// Above it, 5x of base dominates: $0.02 * 5 = $0.10 => 100 units
	quote = calc.CalculateGas(UploadContent, testActor, TierRegular, threshold+1)
	require.Equal(uint64(100), quote.NativeAmount)
	require.Zero(quote.DiscountPct)
}

func TestRoundHalfUp(t *testing.T) {
	require := require.New(t)

	// $0.003 per native unit: $0.001 / $0.003 = 0.33.. rounds down,
	// $0.0015 / $0.003 = 0.5 rounds up.
	calc, _ := newTestCalculator(t, 3*units.MilliUSD)

	quote := calc.CalculateGas(SimpleTransfer, testActor, TierRegular, 0)
	require.Equal(uint64(0), quote.NativeAmount)

	quote = calc.CalculateGas(TransferWithData, testActor, TierRegular, 0)
	// $0.002 / $0.003 = 0.66.. rounds up to 1
	require.Equal(uint64(1), quote.NativeAmount)
}

func TestQuoteDeterminism(t *testing.T) {
	require := require.New(t)

	calc, _ := newTestCalculator(t, units.MilliUSD)

	a := calc.CalculateGas(MintCollectible, testActor, TierCreator, 7)
	b := calc.CalculateGas(MintCollectible, testActor, TierCreator, 7)
	require.Equal(a, b)
}

func TestQuoteCarriesStaleFlag(t *testing.T) {
	require := require.New(t)

	calc, clock := newTestCalculator(t, units.MilliUSD)
	clock.Set(clock.Time().Add(oracle.DefaultConfig().MaxAge + time.Minute))

	quote := calc.CalculateGas(UploadContent, testActor, TierRegular, 0)
	require.True(quote.Rate.Stale)
	// Pricing proceeds on the stale rate rather than blocking
	require.Equal(uint64(10), quote.NativeAmount)
}
