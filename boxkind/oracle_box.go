// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package boxkind

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

const oracleKind = "oracle"

// OracleBox is one operator's datapoint box: the oracle token marking
// the operator, accumulated reward tokens, and the submitted rate
// with its epoch counter and the operator's public key.
type OracleBox struct {
	box          chain.Box
	operatorKey  []byte
	epochCounter int32
	rate         int64
	oracleToken  chain.Token
	rewardToken  chain.Token
}

// WrapOracleBox validates the raw box as an oracle datapoint box.
func WrapOracleBox(box chain.Box, oracleToken, rewardToken ids.ID) (*OracleBox, error) {
	if len(box.Tokens) < 2 {
		return nil, invalid(oracleKind, box.ID, ErrTooFewTokens)
	}
	marker := box.Tokens[0]
	switch {
	case marker.ID != oracleToken:
		return nil, invalid(oracleKind, box.ID, ErrNFTMismatch)
	case marker.Amount != 1:
		return nil, invalid(oracleKind, box.ID, ErrNotSingleton)
	}
	rewards := box.Tokens[1]
	if rewards.ID != rewardToken {
		return nil, invalid(oracleKind, box.ID, ErrRewardTokenSlot)
	}

	keyReg, ok := box.Registers.Get(chain.R4)
	if !ok {
		return nil, invalid(oracleKind, box.ID, ErrMissingRegister)
	}
	operatorKey, err := keyReg.AsGroupElement()
	if err != nil {
		return nil, invalid(oracleKind, box.ID, ErrMistypedRegister)
	}

	epochReg, ok := box.Registers.Get(chain.R5)
	if !ok {
		return nil, invalid(oracleKind, box.ID, ErrMissingRegister)
	}
	epoch, err := epochReg.AsInt32()
	if err != nil {
		return nil, invalid(oracleKind, box.ID, ErrMistypedRegister)
	}

	rateReg, ok := box.Registers.Get(chain.R6)
	if !ok {
		return nil, invalid(oracleKind, box.ID, ErrMissingRegister)
	}
	rate, err := rateReg.AsInt64()
	if err != nil || rate < 0 {
		return nil, invalid(oracleKind, box.ID, ErrMistypedRegister)
	}

	return &OracleBox{
		box:          box,
		operatorKey:  operatorKey,
		epochCounter: epoch,
		rate:         rate,
		oracleToken:  marker,
		rewardToken:  rewards,
	}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (o *OracleBox) RawBox() chain.Box { return o.box }

// OperatorKey is the serialized public key of the submitting operator.
func (o *OracleBox) OperatorKey() []byte { return o.operatorKey }

// EpochCounter is the epoch the datapoint was submitted for.
func (o *OracleBox) EpochCounter() int32 { return o.epochCounter }

// Rate is the submitted datapoint.
func (o *OracleBox) Rate() uint64 { return uint64(o.rate) }

func (o *OracleBox) OracleToken() chain.Token { return o.oracleToken }

func (o *OracleBox) RewardToken() chain.Token { return o.rewardToken }

// WithIncrementedReward re-emits the box as a candidate with the same
// guard, tokens and registers, one more reward token, and the given
// creation height. Used when a refresh pays the participating
// operators.
func (o *OracleBox) WithIncrementedReward(creationHeight uint64) chain.BoxCandidate {
	tokens := make([]chain.Token, len(o.box.Tokens))
	copy(tokens, o.box.Tokens)
	tokens[1].Amount++
	return chain.BoxCandidate{
		Value:          o.box.Value,
		GuardScript:    o.box.GuardScript,
		Tokens:         tokens,
		Registers:      o.box.Registers,
		CreationHeight: creationHeight,
	}
}
