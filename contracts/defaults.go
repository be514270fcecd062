// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contracts

// Default threshold values of the reference contract deployment. The
// guard scripts themselves are deployment-specific and must be
// supplied by the operator configuration.
const (
	DefaultMinDataPoints       uint32 = 4
	DefaultBufferLength        uint64 = 4
	DefaultMaxDeviationPercent uint64 = 5
	DefaultEpochLength         uint64 = 30
	DefaultMinVotes            uint32 = 6
	DefaultMinStorageRent      uint64 = 10_000_000
)

// DefaultParameters returns a parameter set carrying the reference
// thresholds and the given guard scripts.
func DefaultParameters(pool, refresh, oracle, update, ballot []byte) Parameters {
	return Parameters{
		Pool: PoolParameters{
			GuardScript:     pool,
			RefreshNFTIndex: 2,
			UpdateNFTIndex:  3,
		},
		Refresh: RefreshParameters{
			GuardScript:         refresh,
			PoolNFTIndex:        17,
			OracleTokenIndex:    3,
			MinDataPoints:       DefaultMinDataPoints,
			BufferLength:        DefaultBufferLength,
			MaxDeviationPercent: DefaultMaxDeviationPercent,
			EpochLength:         DefaultEpochLength,
		},
		Oracle: OracleParameters{
			GuardScript:         oracle,
			PoolNFTIndex:        5,
			MinStorageRent:      DefaultMinStorageRent,
			MinStorageRentIndex: 2,
		},
		Update: UpdateParameters{
			GuardScript:      update,
			PoolNFTIndex:     6,
			BallotTokenIndex: 10,
			MinVotes:         DefaultMinVotes,
			MinVotesIndex:    14,
		},
		Ballot: BallotParameters{
			GuardScript:         ballot,
			UpdateNFTIndex:      6,
			MinStorageRent:      DefaultMinStorageRent,
			MinStorageRentIndex: 0,
		},
	}
}
