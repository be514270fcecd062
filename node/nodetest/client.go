// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nodetest provides an in-memory node.Client for tests.
package nodetest

import (
	"context"
	"errors"
	"slices"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/node"
)

var errNoSuchScan = errors.New("no such scan")

var _ node.Client = (*Client)(nil)

// Client is a configurable fake node. The zero value is usable; all
// fields may be mutated between calls.
type Client struct {
	Height      uint64
	WalletBoxes []chain.Box
	ChangeGuard []byte
	ScanBoxes   map[uint64][]chain.Box

	// Submitted records every submitted transaction in order.
	Submitted []*chain.Tx
	// SubmitErrs[i] is returned by the i-th SubmitTransaction call.
	SubmitErrs []error

	// SignErr, if set, fails every SignTransaction call.
	SignErr error

	nextScanID uint64
	Scans      []node.Scan
}

func (c *Client) CurrentHeight(context.Context) (uint64, error) {
	return c.Height, nil
}

func (c *Client) UnspentWalletBoxes(context.Context) ([]chain.Box, error) {
	return slices.Clone(c.WalletBoxes), nil
}

func (c *Client) WalletChangeGuard(context.Context) ([]byte, error) {
	return c.ChangeGuard, nil
}

func (c *Client) SignTransaction(_ context.Context, unsigned *chain.UnsignedTx) (*chain.Tx, error) {
	if c.SignErr != nil {
		return nil, c.SignErr
	}
	return chain.NewTx(*unsigned)
}

func (c *Client) SubmitTransaction(_ context.Context, tx *chain.Tx) (ids.ID, error) {
	call := len(c.Submitted)
	if call < len(c.SubmitErrs) && c.SubmitErrs[call] != nil {
		return ids.Empty, c.SubmitErrs[call]
	}
	c.Submitted = append(c.Submitted, tx)

	spent := make(map[ids.ID]struct{}, len(tx.Unsigned.Inputs))
	for _, in := range tx.Unsigned.Inputs {
		spent[in.ID] = struct{}{}
	}
	c.WalletBoxes = slices.DeleteFunc(c.WalletBoxes, func(box chain.Box) bool {
		_, ok := spent[box.ID]
		return ok
	})

	// submitted outputs guarded by the wallet become spendable
	for _, out := range tx.Outputs {
		if slices.Equal(out.GuardScript, c.ChangeGuard) {
			c.WalletBoxes = append(c.WalletBoxes, out)
		}
	}
	return tx.ID, nil
}

func (c *Client) RegisterScan(_ context.Context, scan node.Scan) (uint64, error) {
	c.nextScanID++
	c.Scans = append(c.Scans, scan)
	return c.nextScanID, nil
}

func (c *Client) UnspentScanBoxes(_ context.Context, scanID uint64) ([]chain.Box, error) {
	boxes, ok := c.ScanBoxes[scanID]
	if !ok {
		return nil, errNoSuchScan
	}
	return slices.Clone(boxes), nil
}
