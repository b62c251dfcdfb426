// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gas

// ActorTier classifies the requesting account. It is supplied by the
// caller and immutable for the duration of a request.
type ActorTier uint8

const (
	TierRegular ActorTier = iota
	TierCreator
	TierValidator

	numTiers = iota
)

func (t ActorTier) String() string {
	switch t {
	case TierRegular:
		return "regular"
	case TierCreator:
		return "creator"
	case TierValidator:
		return "validator"
	default:
		return "unknown"
	}
}
