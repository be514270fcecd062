// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package boxkind

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

const poolKind = "pool"

// PoolBox is the single live box holding the pool NFT, the reward
// token reserve and the current aggregated rate plus epoch counter.
type PoolBox struct {
	box          chain.Box
	rate         int64
	epochCounter int32
	nft          chain.Token
	rewardToken  chain.Token
}

// WrapPoolBox validates the raw box as a pool box.
func WrapPoolBox(box chain.Box, poolNFT, rewardToken ids.ID) (*PoolBox, error) {
	if len(box.Tokens) < 2 {
		return nil, invalid(poolKind, box.ID, ErrTooFewTokens)
	}
	nft := box.Tokens[0]
	switch {
	case nft.ID != poolNFT:
		return nil, invalid(poolKind, box.ID, ErrNFTMismatch)
	case nft.Amount != 1:
		return nil, invalid(poolKind, box.ID, ErrNotSingleton)
	}
	rewards := box.Tokens[1]
	if rewards.ID != rewardToken {
		return nil, invalid(poolKind, box.ID, ErrRewardTokenSlot)
	}

	rateReg, ok := box.Registers.Get(chain.R4)
	if !ok {
		return nil, invalid(poolKind, box.ID, ErrMissingRegister)
	}
	rate, err := rateReg.AsInt64()
	if err != nil {
		return nil, invalid(poolKind, box.ID, ErrMistypedRegister)
	}

	epochReg, ok := box.Registers.Get(chain.R5)
	if !ok {
		return nil, invalid(poolKind, box.ID, ErrMissingRegister)
	}
	epoch, err := epochReg.AsInt32()
	if err != nil {
		return nil, invalid(poolKind, box.ID, ErrMistypedRegister)
	}

	return &PoolBox{
		box:          box,
		rate:         rate,
		epochCounter: epoch,
		nft:          nft,
		rewardToken:  rewards,
	}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (p *PoolBox) RawBox() chain.Box { return p.box }

// Rate is the currently posted aggregated rate. Zero means undefined
// (freshly bootstrapped pool).
func (p *PoolBox) Rate() int64 { return p.rate }

// EpochCounter is the live epoch id.
func (p *PoolBox) EpochCounter() int32 { return p.epochCounter }

func (p *PoolBox) NFT() chain.Token { return p.nft }

func (p *PoolBox) RewardToken() chain.Token { return p.rewardToken }
