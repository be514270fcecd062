// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain defines the UTXO box model the oracle pool operates
// on: boxes carry a value, an opaque guard script, an ordered token
// list and a small set of typed registers. Boxes are immutable once
// created; every state transition produces new boxes.
package chain

import (
	"bytes"
	"errors"

	"github.com/luxfi/ids"
)

const (
	// MaxTokensPerBox bounds the token list of a single box.
	MaxTokensPerBox = 255

	// MinBoxValue is the smallest value a box may hold.
	MinBoxValue uint64 = 1
)

var (
	errZeroBoxValue    = errors.New("box value must be positive")
	errNoGuardScript   = errors.New("box has no guard script")
	errTooManyTokens   = errors.New("too many tokens in box")
	errZeroTokenAmount = errors.New("token amount must be positive")
)

// Token is an amount of a single token type. A token minted with
// amount 1 serves as an unforgeable role marker (NFT).
type Token struct {
	ID     ids.ID `serialize:"true" json:"id"`
	Amount uint64 `serialize:"true" json:"amount"`
}

// BoxCandidate describes an output box before it has been included in
// a transaction and therefore has no id yet.
type BoxCandidate struct {
	Value          uint64    `serialize:"true" json:"value"`
	GuardScript    []byte    `serialize:"true" json:"guardScript"`
	Tokens         []Token   `serialize:"true" json:"tokens"`
	Registers      Registers `serialize:"true" json:"registers"`
	CreationHeight uint64    `serialize:"true" json:"creationHeight"`
}

func (c *BoxCandidate) Verify() error {
	switch {
	case c.Value < MinBoxValue:
		return errZeroBoxValue
	case len(c.GuardScript) == 0:
		return errNoGuardScript
	case len(c.Tokens) > MaxTokensPerBox:
		return errTooManyTokens
	}
	for _, tok := range c.Tokens {
		if tok.Amount == 0 {
			return errZeroTokenAmount
		}
	}
	return c.Registers.Verify()
}

// TokenAmount returns the total amount of the given token carried by
// the candidate.
func (c *BoxCandidate) TokenAmount(tokenID ids.ID) uint64 {
	var amount uint64
	for _, tok := range c.Tokens {
		if tok.ID == tokenID {
			amount += tok.Amount
		}
	}
	return amount
}

// GuardedBy reports whether the candidate is guarded by the given
// script. Guard scripts are opaque and compared by byte equality.
func (c *BoxCandidate) GuardedBy(script []byte) bool {
	return bytes.Equal(c.GuardScript, script)
}

// Box is an unspent output on chain, or a not-yet-confirmed output
// materialized from a locally assembled transaction.
type Box struct {
	BoxCandidate `serialize:"true"`

	ID ids.ID `serialize:"true" json:"id"`
}

// FindToken returns the first token with the given id.
func (b *Box) FindToken(tokenID ids.ID) (Token, bool) {
	for _, tok := range b.Tokens {
		if tok.ID == tokenID {
			return tok, true
		}
	}
	return Token{}, false
}
