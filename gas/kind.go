// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gas prices transactions. A fixed USD base price per transaction
// kind is scaled by the creative weight classifier and converted into
// native units at the oracle rate.
package gas

import "github.com/dujyo/creativegas/utils/units"

// TransactionKind enumerates every economic action the platform charges
// gas for. The set is closed: pricing, sponsorship eligibility and the
// cultural discount are all driven off the static table below, so a new
// kind can't ship without a row.
type TransactionKind uint8

const (
	StreamEarnTick TransactionKind = iota
	UploadContent
	MintCollectible
	CollectibleTransfer
	SimpleTransfer
	TransferWithData
	ExchangeSwap
	AddLiquidity
	RemoveLiquidity
	StakeDeposit
	StakeWithdraw
	ClaimRewards
	RegisterValidator
	ProposeBlock
	Vote

	numKinds = iota
)

type kindProperties struct {
	name string
	// Immutable base price in nanoUSD. Zero marks the kind free: free
	// kinds skip the classifier and the oracle entirely.
	baseUSD uint64
	// Cultural kinds get the classifier's discount multiplier.
	cultural bool
	// Sponsorable kinds may be paid from the sponsorship pool the first
	// time an actor performs them.
	sponsorable bool
}

// The price table is fixed at compile time. Unknown kinds fall back to the
// simple transfer price so a decode bug can never mint free gas.
var kindTable = [numKinds]kindProperties{
	StreamEarnTick:      {name: "stream_earn_tick", baseUSD: 0, cultural: true, sponsorable: true},
	UploadContent:       {name: "upload_content", baseUSD: 20 * units.MilliUSD, cultural: true, sponsorable: true},
	MintCollectible:     {name: "mint_collectible", baseUSD: 50 * units.MilliUSD, cultural: true, sponsorable: true},
	CollectibleTransfer: {name: "collectible_transfer", baseUSD: units.MilliUSD},
	SimpleTransfer:      {name: "simple_transfer", baseUSD: units.MilliUSD},
	TransferWithData:    {name: "transfer_with_data", baseUSD: 2 * units.MilliUSD},
	ExchangeSwap:        {name: "exchange_swap", baseUSD: 30 * units.MilliUSD},
	AddLiquidity:        {name: "add_liquidity", baseUSD: 20 * units.MilliUSD},
	RemoveLiquidity:     {name: "remove_liquidity", baseUSD: 20 * units.MilliUSD},
	StakeDeposit:        {name: "stake_deposit", baseUSD: 20 * units.MilliUSD},
	StakeWithdraw:       {name: "stake_withdraw", baseUSD: 50 * units.MilliUSD},
	ClaimRewards:        {name: "claim_rewards", baseUSD: 10 * units.MilliUSD, sponsorable: true},
	RegisterValidator:   {name: "register_validator", baseUSD: 100 * units.MilliUSD},
	ProposeBlock:        {name: "propose_block", baseUSD: 0},
	Vote:                {name: "vote", baseUSD: units.MilliUSD},
}

func (k TransactionKind) properties() kindProperties {
	if k >= numKinds {
		return kindProperties{
			name:    "unknown",
			baseUSD: units.MilliUSD,
		}
	}
	return kindTable[k]
}

func (k TransactionKind) String() string {
	return k.properties().name
}

// BaseUSD returns the kind's immutable base price in nanoUSD.
func (k TransactionKind) BaseUSD() uint64 {
	return k.properties().baseUSD
}

// Cultural reports whether the kind is eligible for the cultural discount.
func (k TransactionKind) Cultural() bool {
	return k.properties().cultural
}

// Sponsorable reports whether a first-time occurrence of the kind may be
// paid from the sponsorship pool.
func (k TransactionKind) Sponsorable() bool {
	return k.properties().sponsorable
}
