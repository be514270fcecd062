// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package builder selects inputs and assembles unsigned transactions
// that satisfy the value and token conservation rules.
package builder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/oracle/chain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")

	errValueOverflow = errors.New("selection value overflow")
)

// BoxSource supplies spendable boxes, typically the node wallet's
// unspent set.
type BoxSource interface {
	UnspentBoxes() ([]chain.Box, error)
}

// BoxSlice is a fixed in-memory BoxSource.
type BoxSlice []chain.Box

func (s BoxSlice) UnspentBoxes() ([]chain.Box, error) {
	return s, nil
}

// SimpleBoxSelector greedily accumulates boxes, largest value first,
// until the value target and every token target are covered.
type SimpleBoxSelector struct{}

// Select returns a greedy selection covering targetValue and
// targetTokens, or ErrInsufficientFunds.
func (SimpleBoxSelector) Select(
	boxes []chain.Box,
	targetValue uint64,
	targetTokens []chain.Token,
) ([]chain.Box, error) {
	sorted := make([]chain.Box, len(boxes))
	copy(sorted, boxes)
	slices.SortStableFunc(sorted, func(a, b chain.Box) int {
		return cmp.Compare(b.Value, a.Value)
	})
	boxes = sorted

	needTokens := make(map[ids.ID]uint64, len(targetTokens))
	for _, tok := range targetTokens {
		needTokens[tok.ID] += tok.Amount
	}

	var (
		selected  []chain.Box
		gotValue  uint64
		gotTokens = make(map[ids.ID]uint64)
	)
	covered := func() bool {
		if gotValue < targetValue {
			return false
		}
		for tokenID, amount := range needTokens {
			if gotTokens[tokenID] < amount {
				return false
			}
		}
		return true
	}

	for _, box := range boxes {
		if covered() {
			break
		}
		selected = append(selected, box)
		var err error
		if gotValue, err = safemath.Add(gotValue, box.Value); err != nil {
			return nil, errValueOverflow
		}
		for _, tok := range box.Tokens {
			if gotTokens[tok.ID], err = safemath.Add(gotTokens[tok.ID], tok.Amount); err != nil {
				return nil, errValueOverflow
			}
		}
	}
	if !covered() {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientFunds, gotValue, targetValue)
	}
	return selected, nil
}
