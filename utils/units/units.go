// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package units

// Fixed point denominations of USD value. All USD amounts handled by the
// engine (base prices, oracle rates, sponsorship budgets) are integers
// denominated in NanoUSD.
const (
	NanoUSD  uint64 = 1
	MicroUSD uint64 = 1000 * NanoUSD
	MilliUSD uint64 = 1000 * MicroUSD
	Cent     uint64 = 10 * MilliUSD
	USD      uint64 = 100 * Cent
)

// Denominations of the native token. Gas quotes and fee distributions are
// denominated in NanoDYO, the smallest native unit.
const (
	NanoDYO  uint64 = 1
	MicroDYO uint64 = 1000 * NanoDYO
	MilliDYO uint64 = 1000 * MicroDYO
	DYO      uint64 = 1000 * MilliDYO
)
