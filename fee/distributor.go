// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fee splits collected gas fees across stakeholder shares. The
// split is exact: the four shares always sum to the collected fee, with
// any rounding remainder absorbed by the treasury.
package fee

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dujyo/creativegas/utils/logging"
)

type Config struct {
	// Shares in percent. Must sum to 100.
	ValidatorPct uint64
	TreasuryPct  uint64
	LiquidityPct uint64
	BurnPct      uint64

	// Percent of the total fee moved from the treasury share to the
	// validator share when the block proposer is a creative validator.
	// Redirected, not minted: the total never changes.
	CreativeBonusPct uint64
}

func DefaultConfig() Config {
	return Config{
		ValidatorPct:     40,
		TreasuryPct:      30,
		LiquidityPct:     20,
		BurnPct:          10,
		CreativeBonusPct: 5,
	}
}

func (c *Config) Verify() error {
	total := c.ValidatorPct + c.TreasuryPct + c.LiquidityPct + c.BurnPct
	if total != 100 {
		return fmt.Errorf("distribution shares must sum to 100%%, got %d%%", total)
	}
	if c.CreativeBonusPct > c.TreasuryPct {
		return fmt.Errorf("creative bonus %d%% exceeds the treasury share %d%%", c.CreativeBonusPct, c.TreasuryPct)
	}
	return nil
}

// DistributionRecord reports where a collected fee went, in native base
// units. The shares sum exactly to TotalFee.
type DistributionRecord struct {
	TotalFee       uint64
	ValidatorShare uint64
	TreasuryShare  uint64
	LiquidityShare uint64
	BurnShare      uint64

	CreativeBonusApplied bool
}

type Distributor struct {
	log     logging.Logger
	config  Config
	metrics *metrics
}

func New(config Config, log logging.Logger, reg prometheus.Registerer) (*Distributor, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Distributor{
		log:     log,
		config:  config,
		metrics: m,
	}, nil
}

// Distribute splits totalFee across the configured shares. It never fails:
// validator, liquidity and burn shares round down, the treasury takes the
// remainder, and the creative bonus is redirected from the treasury.
func (d *Distributor) Distribute(totalFee uint64, proposerIsCreativeValidator bool) DistributionRecord {
	validator := pctOf(totalFee, d.config.ValidatorPct)
	liquidity := pctOf(totalFee, d.config.LiquidityPct)
	burn := pctOf(totalFee, d.config.BurnPct)
	treasury := totalFee - validator - liquidity - burn

	record := DistributionRecord{
		TotalFee:       totalFee,
		ValidatorShare: validator,
		TreasuryShare:  treasury,
		LiquidityShare: liquidity,
		BurnShare:      burn,
	}
	if proposerIsCreativeValidator {
		// The floored shares leave the treasury at least its configured
		// percentage, and Verify bounds the bonus by that percentage, so
		// this can't underflow.
		bonus := pctOf(totalFee, d.config.CreativeBonusPct)
		record.ValidatorShare += bonus
		record.TreasuryShare -= bonus
		record.CreativeBonusApplied = true
	}

	d.metrics.distributions.Inc()
	d.metrics.shares.WithLabelValues("validator").Add(float64(record.ValidatorShare))
	d.metrics.shares.WithLabelValues("treasury").Add(float64(record.TreasuryShare))
	d.metrics.shares.WithLabelValues("liquidity").Add(float64(record.LiquidityShare))
	d.metrics.shares.WithLabelValues("burn").Add(float64(record.BurnShare))
	d.log.Verbo("distributed fee",
		zap.Uint64("totalFee", totalFee),
		zap.Uint64("validator", record.ValidatorShare),
		zap.Uint64("treasury", record.TreasuryShare),
		zap.Uint64("liquidity", record.LiquidityShare),
		zap.Uint64("burn", record.BurnShare),
		zap.Bool("creativeBonus", record.CreativeBonusApplied),
	)
	return record
}

// pctOf returns total * pct / 100 rounded down, without overflowing for
// any total as long as pct <= 100.
func pctOf(total, pct uint64) uint64 {
	return total/100*pct + total%100*pct/100
}
