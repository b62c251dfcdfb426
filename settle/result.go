// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settle

import (
	"github.com/dujyo/creativegas/fee"
	"github.com/dujyo/creativegas/sponsor"
)

// Path names how a settlement was funded.
type Path uint8

const (
	// PathSponsored: the fee was covered by the sponsorship pool.
	PathSponsored Path = iota
	// PathDirectPay: the actor's native balance covered the fee. Also used
	// for free quotes, which move no balance at all.
	PathDirectPay
	// PathBridged: secondary balance was bridged into native first.
	PathBridged
)

func (p Path) String() string {
	switch p {
	case PathSponsored:
		return "sponsored"
	case PathDirectPay:
		return "direct_pay"
	case PathBridged:
		return "bridged"
	default:
		return "unknown"
	}
}

// Result reports a successful settlement.
type Result struct {
	Path Path

	// Native units debited from the actor. Zero for sponsored and free
	// settlements.
	FeePaid uint64
	// Secondary units consumed by the auto bridge. Zero unless Path is
	// PathBridged.
	BridgedSecondary uint64

	// How the collected fee was split. Nil for sponsored and free
	// settlements: sponsorship covers the value internally and is not
	// re-split.
	Distribution *fee.DistributionRecord

	// The sponsorship reservation backing a sponsored settlement. The
	// caller must Release it if the wrapped action fails downstream.
	Reservation *sponsor.Reservation
}
