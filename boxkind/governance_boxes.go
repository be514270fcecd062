// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package boxkind

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

const (
	ballotKind  = "ballot"
	updateKind  = "update"
	buybackKind = "buyback"
)

// BallotBox is one operator's governance vote box.
type BallotBox struct {
	box         chain.Box
	voterKey    []byte
	ballotToken chain.Token
}

// WrapBallotBox validates the raw box as a ballot box.
func WrapBallotBox(box chain.Box, ballotToken ids.ID) (*BallotBox, error) {
	if len(box.Tokens) < 1 {
		return nil, invalid(ballotKind, box.ID, ErrTooFewTokens)
	}
	marker := box.Tokens[0]
	switch {
	case marker.ID != ballotToken:
		return nil, invalid(ballotKind, box.ID, ErrNFTMismatch)
	case marker.Amount != 1:
		return nil, invalid(ballotKind, box.ID, ErrNotSingleton)
	}

	keyReg, ok := box.Registers.Get(chain.R4)
	if !ok {
		return nil, invalid(ballotKind, box.ID, ErrMissingRegister)
	}
	voterKey, err := keyReg.AsGroupElement()
	if err != nil {
		return nil, invalid(ballotKind, box.ID, ErrMistypedRegister)
	}

	return &BallotBox{
		box:         box,
		voterKey:    voterKey,
		ballotToken: marker,
	}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (b *BallotBox) RawBox() chain.Box { return b.box }

// VoterKey is the serialized public key of the voting operator.
func (b *BallotBox) VoterKey() []byte { return b.voterKey }

func (b *BallotBox) BallotToken() chain.Token { return b.ballotToken }

// UpdateBox guards the pool contract upgrade path with the update NFT.
type UpdateBox struct {
	box chain.Box
	nft chain.Token
}

// WrapUpdateBox validates the raw box as an update box.
func WrapUpdateBox(box chain.Box, updateNFT ids.ID) (*UpdateBox, error) {
	if len(box.Tokens) < 1 {
		return nil, invalid(updateKind, box.ID, ErrTooFewTokens)
	}
	nft := box.Tokens[0]
	switch {
	case nft.ID != updateNFT:
		return nil, invalid(updateKind, box.ID, ErrNFTMismatch)
	case nft.Amount != 1:
		return nil, invalid(updateKind, box.ID, ErrNotSingleton)
	}
	return &UpdateBox{box: box, nft: nft}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (u *UpdateBox) RawBox() chain.Box { return u.box }

func (u *UpdateBox) NFT() chain.Token { return u.nft }

// BuybackBox accumulates reward tokens bought back from the market.
type BuybackBox struct {
	box         chain.Box
	nft         chain.Token
	rewardToken chain.Token
}

// WrapBuybackBox validates the raw box as a buyback box.
func WrapBuybackBox(box chain.Box, buybackNFT, rewardToken ids.ID) (*BuybackBox, error) {
	if len(box.Tokens) < 2 {
		return nil, invalid(buybackKind, box.ID, ErrTooFewTokens)
	}
	nft := box.Tokens[0]
	switch {
	case nft.ID != buybackNFT:
		return nil, invalid(buybackKind, box.ID, ErrNFTMismatch)
	case nft.Amount != 1:
		return nil, invalid(buybackKind, box.ID, ErrNotSingleton)
	}
	rewards := box.Tokens[1]
	if rewards.ID != rewardToken {
		return nil, invalid(buybackKind, box.ID, ErrRewardTokenSlot)
	}
	return &BuybackBox{box: box, nft: nft, rewardToken: rewards}, nil
}

// RawBox returns the underlying box for reuse as a transaction input.
func (b *BuybackBox) RawBox() chain.Box { return b.box }

func (b *BuybackBox) NFT() chain.Token { return b.nft }

func (b *BuybackBox) RewardToken() chain.Token { return b.rewardToken }

// WithSingleRewardToken re-emits the box as a candidate keeping the
// buyback NFT and exactly one reward token.
func (b *BuybackBox) WithSingleRewardToken(creationHeight uint64) chain.BoxCandidate {
	return chain.BoxCandidate{
		Value:       b.box.Value,
		GuardScript: b.box.GuardScript,
		Tokens: []chain.Token{
			b.nft,
			{ID: b.rewardToken.ID, Amount: 1},
		},
		Registers:      b.box.Registers,
		CreationHeight: creationHeight,
	}
}
