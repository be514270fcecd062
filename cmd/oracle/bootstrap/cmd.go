// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bootstrap

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/log"

	"github.com/luxfi/oracle/bootstrap"
	"github.com/luxfi/oracle/config"
	"github.com/luxfi/oracle/node"
)

const (
	configFlag = "config"
	outputFlag = "output"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "bootstrap",
		Short: "Mints the role tokens and creates a new pool on chain",
		RunE:  bootstrapFunc,
	}
	flags := c.Flags()
	flags.String(configFlag, "oracle.yaml", "Operator configuration holding the bootstrap section")
	flags.String(outputFlag, "oracle-generated.yaml", "Where to write the configuration with the minted token ids")
	return c
}

func bootstrapFunc(c *cobra.Command, _ []string) error {
	flags := c.Flags()
	configPath, err := flags.GetString(configFlag)
	if err != nil {
		return err
	}
	outputPath, err := flags.GetString(outputFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Contracts.Verify(); err != nil {
		return err
	}

	logger := log.NewLogger("bootstrap")
	client := node.NewHTTPClient(cfg.NodeURL, cfg.APIKey)

	sequencer := bootstrap.NewSequencer(logger, client, cfg.Contracts, cfg.Bootstrap)
	result, err := sequencer.Run(c.Context())
	if err != nil {
		return err
	}

	cfg.Tokens = result.Tokens
	if err := cfg.Save(outputPath); err != nil {
		return err
	}
	fmt.Printf("bootstrapped pool in %d transactions, wrote %s\n",
		len(result.TxIDs), outputPath)
	return nil
}
