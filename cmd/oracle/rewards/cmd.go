// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rewards

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/oracle/config"
	"github.com/luxfi/oracle/node"
	"github.com/luxfi/oracle/pool"
	"github.com/luxfi/oracle/scan"
)

const configFlag = "config"

var errNoDatapointBox = errors.New("no local datapoint box on chain")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "rewards",
		Short: "Prints the reward tokens held by the local datapoint box",
		RunE:  rewardsFunc,
	}
	c.Flags().String(configFlag, "oracle.yaml", "Path to the operator configuration")
	return c
}

func rewardsFunc(c *cobra.Command, _ []string) error {
	configPath, err := c.Flags().GetString(configFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Verify(); err != nil {
		return err
	}

	logger := log.NewLogger("rewards")
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

	reward := snap.Local.RewardToken()
	fmt.Printf("datapoint box %s\n", snap.Local.RawBox().ID)
	fmt.Printf("reward token  %s\n", reward.ID)
	fmt.Printf("amount        %d\n", reward.Amount)
	return nil
}
