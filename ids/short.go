// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const ShortIDLen = 20

// ShortEmpty is a useful all zero value
var ShortEmpty = ShortID{}

// ShortID wraps a 20 byte hash used as an actor identifier
type ShortID [ShortIDLen]byte

// ToShortID attempts to convert a byte slice into an id
func ToShortID(bytes []byte) (ShortID, error) {
	if len(bytes) != ShortIDLen {
		return ShortID{}, fmt.Errorf("expected %d bytes but got %d", ShortIDLen, len(bytes))
	}
	var id ShortID
	copy(id[:], bytes)
	return id, nil
}

// ShortFromString is the inverse of ShortID.String()
func ShortFromString(idStr string) (ShortID, error) {
	bytes, err := base58.Decode(idStr)
	if err != nil {
		return ShortID{}, err
	}
	return ToShortID(bytes)
}

func (id ShortID) Bytes() []byte {
	return id[:]
}

func (id ShortID) String() string {
	return base58.Encode(id[:])
}
