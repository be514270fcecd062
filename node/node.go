// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node is the operator's view of a chain node wallet. The
// oracle never holds keys itself; signing and submission are
// delegated to the node.
package node

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

// Scan describes a UTXO tracking rule registered with the node. The
// node keeps the matching unspent boxes indexed under the returned
// scan id.
type Scan struct {
	Name        string   `json:"scanName"`
	TokenID     ids.ID   `json:"tokenId,omitempty"`
	GuardScript []byte   `json:"guardScript,omitempty"`
	Registers   []string `json:"registers,omitempty"`
}

// Client is the wallet and chain surface the oracle needs.
type Client interface {
	// CurrentHeight returns the node's best block height.
	CurrentHeight(ctx context.Context) (uint64, error)

	// UnspentWalletBoxes returns the wallet's spendable boxes.
	UnspentWalletBoxes(ctx context.Context) ([]chain.Box, error)

	// WalletChangeGuard returns the guard script change outputs
	// should carry.
	WalletChangeGuard(ctx context.Context) ([]byte, error)

	// SignTransaction signs every input the wallet can sign.
	SignTransaction(ctx context.Context, unsigned *chain.UnsignedTx) (*chain.Tx, error)

	// SubmitTransaction broadcasts a signed transaction and returns
	// its id.
	SubmitTransaction(ctx context.Context, tx *chain.Tx) (ids.ID, error)

	// RegisterScan registers a tracking rule and returns its scan id.
	RegisterScan(ctx context.Context, scan Scan) (uint64, error)

	// UnspentScanBoxes returns the unspent boxes matched by a scan.
	UnspentScanBoxes(ctx context.Context, scanID uint64) ([]chain.Box, error)
}

// Error carries the failing operation and, for HTTP transports, the
// response status.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("node: %s: status %d: %s", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("node: %s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
