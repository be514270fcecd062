// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/oracle"
	"github.com/luxfi/oracle/api"
	"github.com/luxfi/oracle/config"
	"github.com/luxfi/oracle/metrics"
	"github.com/luxfi/oracle/node"
	"github.com/luxfi/oracle/pool"
	"github.com/luxfi/oracle/scan"
	"github.com/luxfi/oracle/state"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Runs the operator loop against a configured pool",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	flags, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}
	if flags.ListenAddr != "" {
		cfg.ListenAddr = flags.ListenAddr
	}
	if flags.NodeURL != "" {
		cfg.NodeURL = flags.NodeURL
	}
	if err := cfg.Verify(); err != nil {
		return err
	}

	logger := log.NewLogger("oracle")
	client := node.NewHTTPClient(cfg.NodeURL, cfg.APIKey)

	db, err := openDatabase(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context()
	scans, err := scan.Register(
		ctx, logger, client, scan.NewStore(db),
		cfg.Tokens, cfg.Contracts.Oracle.GuardScript, cfg.OperatorKey,
	)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	var server *api.Server
	if cfg.ListenAddr != "" {
		server = api.NewServer(logger, registry)
		go func() {
			if err := server.Serve(ctx, cfg.ListenAddr); err != nil && ctx.Err() == nil {
				logger.Error("status server stopped", log.Err(err))
			}
		}()
	}

	op := oracle.New(
		logger,
		cfg,
		client,
		pool.New(logger, client, scans, cfg.Tokens),
		state.NewMachine(logger, cfg.Contracts.Refresh),
		m,
		server,
	)
	if err := op.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openDatabase(dataDir string) (database.Database, error) {
	if dataDir == "" {
		return memdb.New(), nil
	}
	return badgerdb.New(dataDir, nil, "", nil)
}
