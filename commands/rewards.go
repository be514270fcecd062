// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"errors"
	"fmt"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/chain"
)

var (
	ErrNoExtractableRewards = errors.New("no extractable reward tokens")
	ErrRewardsNotExtracted  = errors.New("reward tokens not extracted")

	errNoDestinationGuard = errors.New("no destination guard script")
)

// BuildExtractRewardTokens moves the operator's accumulated reward
// tokens out of the local datapoint box. The datapoint box is
// re-emitted with a single reward token, unchanged otherwise; the rest
// goes to a payout box under the destination guard.
func BuildExtractRewardTokens(
	local *boxkind.OracleBox,
	destGuard []byte,
	payoutValue uint64,
	height uint64,
) (*Action, error) {
	if len(destGuard) == 0 {
		return nil, errNoDestinationGuard
	}
	held := local.RewardToken().Amount
	if held <= 1 {
		return nil, fmt.Errorf("%w: datapoint box holds %d", ErrNoExtractableRewards, held)
	}

	in := local.RawBox()
	return &Action{
		Command:        ExtractRewardTokens,
		RequiredInputs: []chain.Box{in},
		Candidates: []chain.BoxCandidate{
			boxkind.NewOracleBoxCandidate(
				in.GuardScript,
				local.OperatorKey(),
				local.EpochCounter(),
				int64(local.Rate()),
				local.OracleToken(),
				chain.Token{ID: local.RewardToken().ID, Amount: 1},
				in.Value,
				height,
			),
			{
				Value:          payoutValue,
				GuardScript:    destGuard,
				Tokens:         []chain.Token{{ID: local.RewardToken().ID, Amount: held - 1}},
				CreationHeight: height,
			},
		},
	}, nil
}

// BuildTransferOracleToken hands the local datapoint box to another
// operator by re-emitting its tokens under the destination guard.
// Accumulated rewards must be extracted first so the transfer carries
// at most one reward token.
func BuildTransferOracleToken(
	local *boxkind.OracleBox,
	destGuard []byte,
	height uint64,
) (*Action, error) {
	if len(destGuard) == 0 {
		return nil, errNoDestinationGuard
	}
	if held := local.RewardToken().Amount; held > 1 {
		return nil, fmt.Errorf("%w: datapoint box still holds %d", ErrRewardsNotExtracted, held)
	}

	in := local.RawBox()
	tokens := make([]chain.Token, len(in.Tokens))
	copy(tokens, in.Tokens)
	return &Action{
		Command:        TransferOracleToken,
		RequiredInputs: []chain.Box{in},
		Candidates: []chain.BoxCandidate{
			{
				Value:          in.Value,
				GuardScript:    destGuard,
				Tokens:         tokens,
				CreationHeight: height,
			},
		},
	}, nil
}
