// Copyright (C) 2023-2026, Dujyo, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

var (
	ErrOverflow     = errors.New("overflow occurred")
	ErrUnderflow    = errors.New("underflow occurred")
	ErrDivideByZero = errors.New("division by zero")
)

// Add returns:
// 1) a + b
// 2) If there is overflow, an error
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Sub returns:
// 1) a - b
// 2) If there is underflow, an error
func Sub(a, b uint64) (uint64, error) {
	if a < b {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Mul returns:
// 1) a * b
// 2) If there is overflow, an error
func Mul(a, b uint64) (uint64, error) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// MulDiv returns a * b / c rounded half up. The intermediate product is
// computed at 256 bits, so it never overflows.
func MulDiv(a, b, c uint64) (uint64, error) {
	q, r, err := mulDivMod(a, b, c)
	if err != nil {
		return 0, err
	}
	// r < c, so c-r can't underflow
	if r >= c-r {
		return Add(q, 1)
	}
	return q, nil
}

// MulDivCeil returns a * b / c rounded up. The intermediate product is
// computed at 256 bits, so it never overflows.
func MulDivCeil(a, b, c uint64) (uint64, error) {
	q, r, err := mulDivMod(a, b, c)
	if err != nil {
		return 0, err
	}
	if r > 0 {
		return Add(q, 1)
	}
	return q, nil
}

func mulDivMod(a, b, c uint64) (uint64, uint64, error) {
	if c == 0 {
		return 0, 0, ErrDivideByZero
	}
	var (
		prod uint256.Int
		div  uint256.Int
		mod  uint256.Int
	)
	prod.SetUint64(a)
	prod.Mul(&prod, new(uint256.Int).SetUint64(b))
	div.SetUint64(c)
	mod.Mod(&prod, &div)
	prod.Div(&prod, &div)
	if !prod.IsUint64() {
		return 0, 0, ErrOverflow
	}
	return prod.Uint64(), mod.Uint64(), nil
}
