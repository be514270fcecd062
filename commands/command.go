// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package commands turns an observed pool state into the input set
// and output candidates of the next pool transaction.
package commands

// Command enumerates the actions the pool state machine can request.
type Command uint8

const (
	None Command = iota
	Refresh
	ExtractRewardTokens
	TransferOracleToken
)

func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case Refresh:
		return "refresh"
	case ExtractRewardTokens:
		return "extractRewardTokens"
	case TransferOracleToken:
		return "transferOracleToken"
	default:
		return "unknown"
	}
}
