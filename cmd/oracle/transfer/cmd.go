// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transfer

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/oracle/builder"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/commands"
	"github.com/luxfi/oracle/config"
	"github.com/luxfi/oracle/node"
	"github.com/luxfi/oracle/pool"
	"github.com/luxfi/oracle/scan"
)

const (
	configFlag = "config"
	toFlag     = "to"
)

var errNoDatapointBox = errors.New("no local datapoint box on chain")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "transfer-oracle-token",
		Short: "Hands the local oracle token to another operator",
		RunE:  transferFunc,
	}
	c.Flags().String(configFlag, "oracle.yaml", "Path to the operator configuration")
	c.Flags().String(toFlag, "", "Hex guard script of the receiving operator (required)")
	return c
}

func transferFunc(c *cobra.Command, _ []string) error {
	configPath, err := c.Flags().GetString(configFlag)
	if err != nil {
		return err
	}
	destHex, err := c.Flags().GetString(toFlag)
	if err != nil {
		return err
	}
	destGuard, err := hex.DecodeString(destHex)
	if err != nil {
		return fmt.Errorf("decoding --%s: %w", toFlag, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Verify(); err != nil {
		return err
	}

	logger := log.NewLogger("transfer")
	client := node.NewHTTPClient(cfg.NodeURL, cfg.APIKey)

	ctx := c.Context()
	scans, err := scan.Register(
		ctx, logger, client, scan.NewStore(memdb.New()),
		cfg.Tokens, cfg.Contracts.Oracle.GuardScript, cfg.OperatorKey,
	)
	if err != nil {
		return err
	}

	snap, err := pool.New(logger, client, scans, cfg.Tokens).Snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Local == nil {
		return errNoDatapointBox
	}

	action, err := commands.BuildTransferOracleToken(snap.Local, destGuard, snap.Height)
	if err != nil {
		return err
	}

	changeGuard, err := client.WalletChangeGuard(ctx)
	if err != nil {
		return err
	}
	unsigned, err := builder.Assemble(builder.Plan{
		RequiredInputs: action.RequiredInputs,
		Candidates:     action.Candidates,
		Fee:            cfg.BaseFee,
		ChangeGuard:    changeGuard,
		CreationHeight: snap.Height,
		Source:         walletSource{ctx: ctx, client: client},
	})
	if err != nil {
		return err
	}
	tx, err := client.SignTransaction(ctx, unsigned)
	if err != nil {
		return err
	}
	txID, err := client.SubmitTransaction(ctx, tx)
	if err != nil {
		return err
	}

	fmt.Printf("transferred oracle token %s in tx %s\n",
		snap.Local.OracleToken().ID, txID)
	return nil
}

type walletSource struct {
	ctx    context.Context
	client node.Client
}

func (w walletSource) UnspentBoxes() ([]chain.Box, error) {
	return w.client.UnspentWalletBoxes(w.ctx)
}
