// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"fmt"
)

// Multipliers are expressed in percent of the base price, so 50 halves the
// price and 500 is the 5x abuse penalty.
const (
	DefaultCulturalPct uint64 = 50
	DefaultNeutralPct  uint64 = 100
	DefaultAbusePct    uint64 = 500

	DefaultAbuseThreshold uint64 = 100
)

type ClassifierConfig struct {
	// Multiplier for culturally weighted kinds.
	CulturalPct uint64
	// Multiplier for everything else.
	NeutralPct uint64
	// Multiplier applied when an actor's recent activity exceeds the abuse
	// threshold. Dominates the cultural discount.
	AbusePct uint64

	// Activity count above which the abuse multiplier kicks in. The
	// comparison is strictly greater-than: an actor exactly at the
	// threshold is not penalized.
	AbuseThreshold uint64
	// Optional per-tier threshold overrides. Validators typically get a
	// looser bound since block duties produce bursts of transactions.
	TierAbuseThreshold map[ActorTier]uint64
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		CulturalPct:    DefaultCulturalPct,
		NeutralPct:     DefaultNeutralPct,
		AbusePct:       DefaultAbusePct,
		AbuseThreshold: DefaultAbuseThreshold,
		TierAbuseThreshold: map[ActorTier]uint64{
			TierValidator: 10 * DefaultAbuseThreshold,
		},
	}
}

func (c *ClassifierConfig) Verify() error {
	switch {
	case c.NeutralPct == 0:
		return fmt.Errorf("neutral multiplier must be positive")
	case c.CulturalPct > c.NeutralPct:
		return fmt.Errorf("cultural multiplier %d%% must not exceed neutral %d%%", c.CulturalPct, c.NeutralPct)
	case c.AbusePct < c.NeutralPct:
		return fmt.Errorf("abuse multiplier %d%% must not undercut neutral %d%%", c.AbusePct, c.NeutralPct)
	case c.AbuseThreshold == 0:
		return fmt.Errorf("abuse threshold must be positive")
	default:
		return nil
	}
}

// Classifier maps (kind, tier, recent activity) to a price multiplier. The
// rule table is fixed at construction; operators reconfigure by building a
// new classifier.
type Classifier struct {
	config ClassifierConfig
}

func NewClassifier(config ClassifierConfig) (*Classifier, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	return &Classifier{config: config}, nil
}

// Multiplier returns the percent multiplier for a transaction. The abuse
// penalty dominates the cultural discount.
func (c *Classifier) Multiplier(kind TransactionKind, tier ActorTier, recentTxCount uint64) uint64 {
	threshold := c.config.AbuseThreshold
	if override, ok := c.config.TierAbuseThreshold[tier]; ok {
		threshold = override
	}
	switch {
	case recentTxCount > threshold:
		return c.config.AbusePct
	case kind.Cultural():
		return c.config.CulturalPct
	default:
		return c.config.NeutralPct
	}
}
