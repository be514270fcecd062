// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/oracle/cmd/oracle/bootstrap"
	"github.com/luxfi/oracle/cmd/oracle/extract"
	"github.com/luxfi/oracle/cmd/oracle/rate"
	"github.com/luxfi/oracle/cmd/oracle/rewards"
	"github.com/luxfi/oracle/cmd/oracle/run"
	"github.com/luxfi/oracle/cmd/oracle/transfer"
)

func main() {
	root := &cobra.Command{
		Use:          "oracle",
		Short:        "Oracle pool operator node",
		SilenceUsage: true,
	}
	root.AddCommand(
		run.Command(),
		bootstrap.Command(),
		rewards.Command(),
		extract.Command(),
		transfer.Command(),
		rate.Command(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
