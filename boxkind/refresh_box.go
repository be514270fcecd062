// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package boxkind

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

const refreshKind = "refresh"

// RefreshBox holds the refresh NFT and the undistributed reward-token
// pool. The consensus thresholds it enforces are carried in the
// refresh contract parameters.
type RefreshBox struct {
	box         chain.Box
	nft         chain.Token
	rewardToken chain.Token
}

// WrapRefreshBox validates the raw box as a refresh box.
func WrapRefreshBox(box chain.Box, refreshNFT, rewardToken ids.ID) (*RefreshBox, error) {
	if len(box.Tokens) < 2 {
		return nil, invalid(refreshKind, box.ID, ErrTooFewTokens)
	}
	nft := box.Tokens[0]
	switch {
	case nft.ID != refreshNFT:
		return nil, invalid(refreshKind, box.ID, ErrNFTMismatch)
	case nft.Amount != 1:
		return nil, invalid(refreshKind, box.ID, ErrNotSingleton)
	}
	rewards := box.Tokens[1]
	if rewards.ID != rewardToken {
		return nil, invalid(refreshKind, box.ID, ErrRewardTokenSlot)
	}
	return &RefreshBox{
		box:         box,
		nft:         nft,
		rewardToken: rewards,
	}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (r *RefreshBox) RawBox() chain.Box { return r.box }

func (r *RefreshBox) NFT() chain.Token { return r.nft }

// RewardToken is the undistributed reward pool.
func (r *RefreshBox) RewardToken() chain.Token { return r.rewardToken }
