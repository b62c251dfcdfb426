// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"time"

	"github.com/dujyo/creativegas/oracle"
)

// Quote is a point-in-time price for a single transaction. It is produced
// fresh per request, never persisted, and immutable once returned. The
// oracle snapshot it was priced against travels with it so settlement can
// bridge at the exact same rate.
type Quote struct {
	Kind TransactionKind

	// Base price in nanoUSD before any weighting.
	BaseUSD uint64
	// Price in nanoUSD after the creative weight multiplier.
	EffectiveUSD uint64
	// Percent multiplier the classifier applied.
	MultiplierPct uint64
	// Discount relative to the base price, in percent. Zero when the
	// multiplier is neutral or a penalty.
	DiscountPct uint64

	// Final amount owed in native base units.
	NativeAmount uint64

	// Oracle snapshot the quote was priced at. Zero for free kinds, which
	// never touch the oracle.
	Rate oracle.Snapshot

	IssuedAt time.Time
}

// Free reports whether the quote charges nothing.
func (q *Quote) Free() bool {
	return q.NativeAmount == 0
}
