// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package boxkind

import "github.com/luxfi/oracle/chain"

// NewPoolBoxCandidate builds the output candidate of the next pool
// box generation.
func NewPoolBoxCandidate(
	guard []byte,
	rate int64,
	epochCounter int32,
	poolNFT chain.Token,
	rewardTokens chain.Token,
	value uint64,
	creationHeight uint64,
) chain.BoxCandidate {
	return chain.BoxCandidate{
		Value:       value,
		GuardScript: guard,
		Tokens:      []chain.Token{poolNFT, rewardTokens},
		Registers: chain.Registers{}.
			With(chain.R4, chain.Int64Value(rate)).
			With(chain.R5, chain.Int32Value(epochCounter)),
		CreationHeight: creationHeight,
	}
}

// NewRefreshBoxCandidate builds the output candidate of the next
// refresh box generation.
func NewRefreshBoxCandidate(
	guard []byte,
	refreshNFT chain.Token,
	rewardTokens chain.Token,
	value uint64,
	creationHeight uint64,
) chain.BoxCandidate {
	return chain.BoxCandidate{
		Value:          value,
		GuardScript:    guard,
		Tokens:         []chain.Token{refreshNFT, rewardTokens},
		CreationHeight: creationHeight,
	}
}

// NewOracleBoxCandidate builds a fresh datapoint box for an operator.
func NewOracleBoxCandidate(
	guard []byte,
	operatorKey []byte,
	epochCounter int32,
	rate int64,
	oracleToken chain.Token,
	rewardTokens chain.Token,
	value uint64,
	creationHeight uint64,
) chain.BoxCandidate {
	return chain.BoxCandidate{
		Value:       value,
		GuardScript: guard,
		Tokens:      []chain.Token{oracleToken, rewardTokens},
		Registers: chain.Registers{}.
			With(chain.R4, chain.GroupElementValue(operatorKey)).
			With(chain.R5, chain.Int32Value(epochCounter)).
			With(chain.R6, chain.Int64Value(rate)),
		CreationHeight: creationHeight,
	}
}
