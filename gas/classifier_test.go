// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifierMultipliers(t *testing.T) {
	require := require.New(t)

	c, err := NewClassifier(DefaultClassifierConfig())
	require.NoError(err)

	// Cultural kinds are discounted
	require.Equal(DefaultCulturalPct, c.Multiplier(UploadContent, TierRegular, 0))
	require.Equal(DefaultCulturalPct, c.Multiplier(MintCollectible, TierCreator, 0))

	// Everything else is neutral
	require.Equal(DefaultNeutralPct, c.Multiplier(SimpleTransfer, TierRegular, 0))
	require.Equal(DefaultNeutralPct, c.Multiplier(ExchangeSwap, TierRegular, 0))
	require.Equal(DefaultNeutralPct, c.Multiplier(StakeDeposit, TierValidator, 0))
}

func TestAbuseThresholdBoundary(t *testing.T) {
	require := require.New(t)

	config := DefaultClassifierConfig()
	c, err := NewClassifier(config)
	require.NoError(err)

	// Exactly at the threshold: normal multiplier
	require.Equal(DefaultCulturalPct, c.Multiplier(UploadContent, TierRegular, config.AbuseThreshold))
	require.Equal(DefaultNeutralPct, c.Multiplier(SimpleTransfer, TierRegular, config.AbuseThreshold))

	// One above: the penalty dominates the discount
	require.Equal(DefaultAbusePct, c.Multiplier(UploadContent, TierRegular, config.AbuseThreshold+1))
	require.Equal(DefaultAbusePct, c.Multiplier(SimpleTransfer, TierRegular, config.AbuseThreshold+1))
}

func TestTierAbuseOverride(t *testing.T) {
	require := require.New(t)

	config := DefaultClassifierConfig()
	c, err := NewClassifier(config)
	require.NoError(err)

	overThreshold := config.AbuseThreshold + 1
	require.Equal(DefaultAbusePct, c.Multiplier(Vote, TierRegular, overThreshold))
	// Validators get a looser bound
	require.Equal(DefaultNeutralPct, c.Multiplier(Vote, TierValidator, overThreshold))
	require.Equal(DefaultAbusePct, c.Multiplier(Vote, TierValidator, 10*config.AbuseThreshold+1))
}

func TestClassifierConfigVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClassifierConfig)
	}{
		{
			name:   "zero neutral",
			mutate: func(c *ClassifierConfig) { c.NeutralPct = 0 },
		},
		{
			name:   "cultural above neutral",
			mutate: func(c *ClassifierConfig) { c.CulturalPct = c.NeutralPct + 1 },
		},
		{
			name:   "abuse below neutral",
			mutate: func(c *ClassifierConfig) { c.AbusePct = c.NeutralPct - 1 },
		},
		{
			name:   "zero threshold",
			mutate: func(c *ClassifierConfig) { c.AbuseThreshold = 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultClassifierConfig()
			tt.mutate(&config)
			_, err := NewClassifier(config)
			require.Error(t, err)
		})
	}
}
