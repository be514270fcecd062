// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contracts holds the immutable parameter sets of the
// deployed oracle-pool contracts. Guard scripts are opaque compiled
// bytecode compared by equality; the numeric thresholds mirror the
// constants baked into the deployed scripts and must match them
// exactly.
package contracts

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/utils/wrappers"
)

var (
	errNoScript            = errors.New("contract has no guard script")
	errNoMinDataPoints     = errors.New("min data points must be at least 1")
	errDeviationOutOfRange = errors.New("max deviation percent must be within [0, 100]")
	errNoEpochLength       = errors.New("epoch length must be positive")
	errNoMinVotes          = errors.New("min votes must be at least 1")
)

// TokenIDs are the six role-token ids of one deployed pool instance.
type TokenIDs struct {
	PoolNFT     ids.ID `yaml:"pool_nft" json:"poolNFT"`
	RefreshNFT  ids.ID `yaml:"refresh_nft" json:"refreshNFT"`
	UpdateNFT   ids.ID `yaml:"update_nft" json:"updateNFT"`
	OracleToken ids.ID `yaml:"oracle_token" json:"oracleToken"`
	RewardToken ids.ID `yaml:"reward_token" json:"rewardToken"`
	BallotToken ids.ID `yaml:"ballot_token" json:"ballotToken"`
}

// PoolParameters parameterize the pool contract.
type PoolParameters struct {
	GuardScript     []byte `yaml:"guard_script" json:"guardScript"`
	RefreshNFTIndex int    `yaml:"refresh_nft_index" json:"refreshNFTIndex"`
	UpdateNFTIndex  int    `yaml:"update_nft_index" json:"updateNFTIndex"`
}

func (p *PoolParameters) Verify() error {
	if len(p.GuardScript) == 0 {
		return errNoScript
	}
	return nil
}

// RefreshParameters parameterize the refresh contract, including the
// consensus thresholds enforced on every epoch refresh.
type RefreshParameters struct {
	GuardScript []byte `yaml:"guard_script" json:"guardScript"`

	PoolNFTIndex     int `yaml:"pool_nft_index" json:"poolNFTIndex"`
	OracleTokenIndex int `yaml:"oracle_token_index" json:"oracleTokenIndex"`

	// MinDataPoints is the minimum number of live datapoints a refresh
	// needs to reach consensus.
	MinDataPoints uint32 `yaml:"min_data_points" json:"minDataPoints"`
	// BufferLength is the number of blocks that must elapse after a
	// refresh before the next one may run.
	BufferLength uint64 `yaml:"buffer_length" json:"bufferLength"`
	// MaxDeviationPercent bounds the spread of surviving datapoints.
	MaxDeviationPercent uint64 `yaml:"max_deviation_percent" json:"maxDeviationPercent"`
	// EpochLength is the nominal length of a price epoch in blocks.
	EpochLength uint64 `yaml:"epoch_length" json:"epochLength"`
}

func (p *RefreshParameters) Verify() error {
	switch {
	case len(p.GuardScript) == 0:
		return errNoScript
	case p.MinDataPoints == 0:
		return errNoMinDataPoints
	case p.MaxDeviationPercent > 100:
		return errDeviationOutOfRange
	case p.EpochLength == 0:
		return errNoEpochLength
	}
	return nil
}

// OracleParameters parameterize the per-operator datapoint contract.
type OracleParameters struct {
	GuardScript         []byte `yaml:"guard_script" json:"guardScript"`
	PoolNFTIndex        int    `yaml:"pool_nft_index" json:"poolNFTIndex"`
	MinStorageRent      uint64 `yaml:"min_storage_rent" json:"minStorageRent"`
	MinStorageRentIndex int    `yaml:"min_storage_rent_index" json:"minStorageRentIndex"`
}

func (p *OracleParameters) Verify() error {
	if len(p.GuardScript) == 0 {
		return errNoScript
	}
	return nil
}

// UpdateParameters parameterize the governance update contract.
type UpdateParameters struct {
	GuardScript      []byte `yaml:"guard_script" json:"guardScript"`
	PoolNFTIndex     int    `yaml:"pool_nft_index" json:"poolNFTIndex"`
	BallotTokenIndex int    `yaml:"ballot_token_index" json:"ballotTokenIndex"`
	MinVotes         uint32 `yaml:"min_votes" json:"minVotes"`
	MinVotesIndex    int    `yaml:"min_votes_index" json:"minVotesIndex"`
}

func (p *UpdateParameters) Verify() error {
	switch {
	case len(p.GuardScript) == 0:
		return errNoScript
	case p.MinVotes == 0:
		return errNoMinVotes
	}
	return nil
}

// BallotParameters parameterize the per-operator ballot contract.
type BallotParameters struct {
	GuardScript         []byte `yaml:"guard_script" json:"guardScript"`
	UpdateNFTIndex      int    `yaml:"update_nft_index" json:"updateNFTIndex"`
	MinStorageRent      uint64 `yaml:"min_storage_rent" json:"minStorageRent"`
	MinStorageRentIndex int    `yaml:"min_storage_rent_index" json:"minStorageRentIndex"`
}

func (p *BallotParameters) Verify() error {
	if len(p.GuardScript) == 0 {
		return errNoScript
	}
	return nil
}

// Parameters aggregates the parameter sets of all pool contracts.
type Parameters struct {
	Pool    PoolParameters    `yaml:"pool" json:"pool"`
	Refresh RefreshParameters `yaml:"refresh" json:"refresh"`
	Oracle  OracleParameters  `yaml:"oracle" json:"oracle"`
	Update  UpdateParameters  `yaml:"update" json:"update"`
	Ballot  BallotParameters  `yaml:"ballot" json:"ballot"`
}

func (p *Parameters) Verify() error {
	errs := wrappers.Errs{}
	errs.Add(
		p.Pool.Verify(),
		p.Refresh.Verify(),
		p.Oracle.Verify(),
		p.Update.Verify(),
		p.Ballot.Verify(),
	)
	return errs.Err
}
