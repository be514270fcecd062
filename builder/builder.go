// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package builder

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"
	"github.com/luxfi/math/set"

	"github.com/luxfi/oracle/chain"
)

var (
	ErrConservationViolation = errors.New("cannot balance transaction")
	ErrMalformedCandidate    = errors.New("malformed output candidate")

	errNoChangeGuard = errors.New("no change guard script")
)

// Plan describes one transaction to assemble. RequiredInputs are
// always spent; additional funding is drawn from Source when their
// value does not cover the outputs plus the fee.
type Plan struct {
	RequiredInputs []chain.Box
	Candidates     []chain.BoxCandidate
	Fee            uint64
	ChangeGuard    []byte
	CreationHeight uint64
	Source         BoxSource
}

// Assemble turns a plan into an unsigned transaction whose outputs
// are the plan's candidates plus an automatically computed change
// box. The result satisfies value conservation exactly and routes
// every token surplus to change.
func Assemble(plan Plan) (*chain.UnsignedTx, error) {
	if len(plan.ChangeGuard) == 0 {
		return nil, errNoChangeGuard
	}
	for i := range plan.Candidates {
		if err := plan.Candidates[i].Verify(); err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %s", ErrMalformedCandidate, i, err)
		}
	}

	outValue, err := sumCandidateValues(plan.Candidates)
	if err != nil {
		return nil, err
	}
	target, err := safemath.Add(outValue, plan.Fee)
	if err != nil {
		return nil, errValueOverflow
	}

	inputs := make([]chain.Box, len(plan.RequiredInputs))
	copy(inputs, plan.RequiredInputs)
	inValue, err := sumBoxValues(inputs)
	if err != nil {
		return nil, err
	}

	if inValue < target {
		if plan.Source == nil {
			return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientFunds, inValue, target)
		}
		extra, err := selectAdditional(plan.Source, inputs, target-inValue)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, extra...)
		if inValue, err = sumBoxValues(inputs); err != nil {
			return nil, err
		}
	}

	outputs := make([]chain.BoxCandidate, len(plan.Candidates))
	copy(outputs, plan.Candidates)
	change, hasChange, err := changeCandidate(plan, inputs, outputs, inValue, target)
	if err != nil {
		return nil, err
	}
	if hasChange {
		outputs = append(outputs, change)
	}

	tx := &chain.UnsignedTx{
		Inputs:  inputs,
		Outputs: outputs,
		Fee:     plan.Fee,
	}
	if err := tx.SyntacticVerify(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConservationViolation, err)
	}
	return tx, nil
}

// selectAdditional draws funding boxes from the source, skipping
// boxes already spent by the transaction. Tokens carried by the extra
// boxes are not re-targeted; they flow through to change.
func selectAdditional(source BoxSource, have []chain.Box, missing uint64) ([]chain.Box, error) {
	available, err := source.UnspentBoxes()
	if err != nil {
		return nil, err
	}
	spent := set.NewSet[ids.ID](len(have))
	for _, box := range have {
		spent.Add(box.ID)
	}
	candidates := make([]chain.Box, 0, len(available))
	for _, box := range available {
		if !spent.Contains(box.ID) {
			candidates = append(candidates, box)
		}
	}
	return SimpleBoxSelector{}.Select(candidates, missing, nil)
}

// changeCandidate computes the change box balancing the transaction.
// Token surplus with no change value to carry it is unbalanceable.
func changeCandidate(
	plan Plan,
	inputs []chain.Box,
	outputs []chain.BoxCandidate,
	inValue uint64,
	target uint64,
) (chain.BoxCandidate, bool, error) {
	changeValue := inValue - target

	minted := ids.Empty
	if len(inputs) > 0 {
		minted = inputs[0].ID
	}

	surplus := make(map[ids.ID]uint64)
	order := make([]ids.ID, 0)
	for _, in := range inputs {
		for _, tok := range in.Tokens {
			if _, ok := surplus[tok.ID]; !ok {
				order = append(order, tok.ID)
			}
			amount, err := safemath.Add(surplus[tok.ID], tok.Amount)
			if err != nil {
				return chain.BoxCandidate{}, false, errValueOverflow
			}
			surplus[tok.ID] = amount
		}
	}
	for _, out := range outputs {
		for _, tok := range out.Tokens {
			if tok.ID == minted {
				continue
			}
			have, ok := surplus[tok.ID]
			if !ok || have < tok.Amount {
				return chain.BoxCandidate{}, false, fmt.Errorf(
					"%w: token %s not covered by inputs", ErrConservationViolation, tok.ID)
			}
			surplus[tok.ID] = have - tok.Amount
		}
	}

	var changeTokens []chain.Token
	for _, tokenID := range order {
		if amount := surplus[tokenID]; amount > 0 {
			changeTokens = append(changeTokens, chain.Token{ID: tokenID, Amount: amount})
		}
	}

	if changeValue == 0 {
		if len(changeTokens) > 0 {
			return chain.BoxCandidate{}, false, fmt.Errorf(
				"%w: token surplus with no change value", ErrConservationViolation)
		}
		return chain.BoxCandidate{}, false, nil
	}
	return chain.BoxCandidate{
		Value:          changeValue,
		GuardScript:    plan.ChangeGuard,
		Tokens:         changeTokens,
		CreationHeight: plan.CreationHeight,
	}, true, nil
}

func sumBoxValues(boxes []chain.Box) (uint64, error) {
	var total uint64
	for _, box := range boxes {
		var err error
		if total, err = safemath.Add(total, box.Value); err != nil {
			return 0, errValueOverflow
		}
	}
	return total, nil
}

func sumCandidateValues(candidates []chain.BoxCandidate) (uint64, error) {
	var total uint64
	for i := range candidates {
		var err error
		if total, err = safemath.Add(total, candidates[i].Value); err != nil {
			return 0, errValueOverflow
		}
	}
	return total, nil
}
