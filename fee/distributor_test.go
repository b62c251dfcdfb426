// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fee

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dujyo/creativegas/utils/logging"
)

func newTestDistributor(t *testing.T) *Distributor {
	t.Helper()

	d, err := New(DefaultConfig(), logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(t, err)
	return d
}

func TestDistributeDefaultSplit(t *testing.T) {
	require := require.New(t)

	d := newTestDistributor(t)
	record := d.Distribute(10, false)
	require.Equal(uint64(4), record.ValidatorShare)
	require.Equal(uint64(3), record.TreasuryShare)
	require.Equal(uint64(2), record.LiquidityShare)
	require.Equal(uint64(1), record.BurnShare)
	require.False(record.CreativeBonusApplied)
}

func TestDistributeCreativeBonus(t *testing.T) {
	require := require.New(t)

	d := newTestDistributor(t)
	record := d.Distribute(100, true)
	// 5% of the total moves from treasury to validator; the total is
	// unchanged.
	require.Equal(uint64(45), record.ValidatorShare)
	require.Equal(uint64(25), record.TreasuryShare)
	require.Equal(uint64(20), record.LiquidityShare)
	require.Equal(uint64(10), record.BurnShare)
	require.True(record.CreativeBonusApplied)
}

// The four shares must sum exactly to the fee for any total, with the
// rounding remainder absorbed by the treasury.
func TestDistributeExactSum(t *testing.T) {
	require := require.New(t)

	d := newTestDistributor(t)
	totals := []uint64{0, 1, 2, 3, 7, 9, 10, 11, 99, 100, 101, 12345, 1<<32 + 17, math.MaxUint64}
	for _, total := range totals {
		for _, creative := range []bool{false, true} {
			record := d.Distribute(total, creative)
			sum := record.ValidatorShare + record.TreasuryShare + record.LiquidityShare + record.BurnShare
			require.Equal(total, sum, "total=%d creative=%t", total, creative)
		}
	}
}

func TestDistributeTinyFees(t *testing.T) {
	require := require.New(t)

	d := newTestDistributor(t)

	// A single unit can't be split; the treasury takes it all.
	record := d.Distribute(1, true)
	require.Equal(uint64(0), record.ValidatorShare)
	require.Equal(uint64(1), record.TreasuryShare)
	require.Equal(uint64(0), record.LiquidityShare)
	require.Equal(uint64(0), record.BurnShare)
}

func TestConfigVerify(t *testing.T) {
	require := require.New(t)

	config := DefaultConfig()
	config.BurnPct = 11
	_, err := New(config, logging.NoLog{}, prometheus.NewRegistry())
	require.Error(err)

	config = DefaultConfig()
	config.CreativeBonusPct = config.TreasuryPct + 1
	_, err = New(config, logging.NoLog{}, prometheus.NewRegistry())
	require.Error(err)
}
