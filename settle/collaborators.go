// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settle

import (
	"context"

	"github.com/dujyo/creativegas/ids"
)

// Unit names a balance denomination an actor can hold.
type Unit uint8

const (
	// UnitNative is the gas payment token.
	UnitNative Unit = iota
	// UnitSecondary is the bridgeable second balance.
	UnitSecondary
)

func (u Unit) String() string {
	switch u {
	case UnitNative:
		return "native"
	case UnitSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Ledger is the external account balance store. Debit must be atomic: it
// either moves the full amount or fails without overdraft, even under
// concurrent access.
type Ledger interface {
	GetBalance(actor ids.ShortID, unit Unit) (uint64, error)
	Debit(actor ids.ShortID, unit Unit, amount uint64) error
	Credit(actor ids.ShortID, unit Unit, amount uint64) error
}

// Swapper executes a token swap through the external exchange. The swap is
// all or nothing from the engine's perspective: on error no balance moved.
type Swapper interface {
	Swap(ctx context.Context, actor ids.ShortID, from, to Unit, amountIn uint64) (uint64, error)
}

// ValidatorRegistry supplies validator facts and receives the validator
// share of distributed fees.
type ValidatorRegistry interface {
	// IsCreativeValidator reports whether the proposer qualifies for the
	// creative validator bonus.
	IsCreativeValidator(proposer ids.ShortID) bool
	// RewardAccount is the account credited with the proposer's validator
	// share.
	RewardAccount(proposer ids.ShortID) ids.ShortID
}
