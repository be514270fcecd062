// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chaintest provides box factories for tests.
package chaintest

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

// Box builds a box with a random id.
func Box(value uint64, guard []byte, height uint64, tokens ...chain.Token) chain.Box {
	return chain.Box{
		BoxCandidate: chain.BoxCandidate{
			Value:          value,
			GuardScript:    guard,
			Tokens:         tokens,
			CreationHeight: height,
		},
		ID: ids.GenerateTestID(),
	}
}

// BoxWithRegisters builds a box with a random id and the given
// registers.
func BoxWithRegisters(
	value uint64,
	guard []byte,
	height uint64,
	registers chain.Registers,
	tokens ...chain.Token,
) chain.Box {
	box := Box(value, guard, height, tokens...)
	box.Registers = registers
	return box
}
