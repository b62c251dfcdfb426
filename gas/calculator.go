// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"math"

	"github.com/dujyo/creativegas/ids"
	"github.com/dujyo/creativegas/oracle"
	safemath "github.com/dujyo/creativegas/utils/math"
	"github.com/dujyo/creativegas/utils/timer/mockable"
)

// Calculator is the gas pricing core. CalculateGas never fails: it always
// produces a quote, at worst one flagged stale.
type Calculator struct {
	classifier *Classifier
	oracle     *oracle.Handle
	clock      *mockable.Clock
}

func NewCalculator(classifier *Classifier, oracle *oracle.Handle, clock *mockable.Clock) *Calculator {
	return &Calculator{
		classifier: classifier,
		oracle:     oracle,
		clock:      clock,
	}
}

// CalculateGas converts a transaction intent into a native unit price.
// Quotes are deterministic given (kind, actor, tier, recentTxCount) and the
// current oracle rate.
// The actor does not influence the price directly today (per-actor abuse
// state lives in the external activity counter feeding recentTxCount), but
// it is part of the contract so policy can become actor aware without an
// interface change.
func (c *Calculator) CalculateGas(
	kind TransactionKind,
	actor ids.ShortID,
	tier ActorTier,
	recentTxCount uint64,
) Quote {

	now := c.clock.Time()

	// Free kinds skip the classifier and the oracle entirely, so they stay
	// deterministic even when the feed is down.
	baseUSD := kind.BaseUSD()
	if baseUSD == 0 {
		return Quote{
			Kind:          kind,
			MultiplierPct: DefaultNeutralPct,
			IssuedAt:      now,
		}
	}

	multiplierPct := c.classifier.Multiplier(kind, tier, recentTxCount)
	snapshot := c.oracle.CurrentRate()

	// The rounding direction throughout is half up: the platform may
	// overcharge by half a base unit but never underprices gas.
	effectiveUSD, err := safemath.MulDiv(baseUSD, multiplierPct, 100)
	if err != nil {
		effectiveUSD = math.MaxUint64
	}
	nativeAmount, err := safemath.MulDiv(effectiveUSD, 1, snapshot.NativeUSD)
	if err != nil {
		nativeAmount = math.MaxUint64
	}

	var discountPct uint64
	if multiplierPct < 100 {
		discountPct = 100 - multiplierPct
	}
	return Quote{
		Kind:          kind,
		BaseUSD:       baseUSD,
		EffectiveUSD:  effectiveUSD,
		MultiplierPct: multiplierPct,
		DiscountPct:   discountPct,
		NativeAmount:  nativeAmount,
		Rate:          snapshot,
		IssuedAt:      now,
	}
}
