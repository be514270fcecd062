// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracle runs the operator's observe-decide-submit loop for
// one oracle pool.
package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/luxfi/log"

	"github.com/luxfi/oracle/api"
	"github.com/luxfi/oracle/builder"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/commands"
	"github.com/luxfi/oracle/config"
	"github.com/luxfi/oracle/metrics"
	"github.com/luxfi/oracle/node"
	"github.com/luxfi/oracle/pool"
	"github.com/luxfi/oracle/state"
	"github.com/luxfi/oracle/utils/timer/mockable"
)

// Oracle ties the pool view, the state machine and the transaction
// pipeline together. One goroutine runs the tick loop; the status
// server runs on its own.
type Oracle struct {
	log     log.Logger
	cfg     *config.Config
	client  node.Client
	pool    *pool.OraclePool
	machine *state.Machine
	metrics metrics.Metrics
	server  *api.Server
	clock   mockable.Clock
}

func New(
	logger log.Logger,
	cfg *config.Config,
	client node.Client,
	oraclePool *pool.OraclePool,
	machine *state.Machine,
	m metrics.Metrics,
	server *api.Server,
) *Oracle {
	return &Oracle{
		log:     logger,
		cfg:     cfg,
		client:  client,
		pool:    oraclePool,
		machine: machine,
		metrics: m,
		server:  server,
	}
}

// Run ticks until ctx is canceled. A failed tick backs off for the
// configured interval before the next attempt; it is never retried
// within the same tick.
func (o *Oracle) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		wait := o.cfg.TickInterval
		if err := o.Tick(ctx); err != nil {
			o.metrics.IncTickFailures()
			o.log.Error("tick failed", log.Err(err))
			wait = o.cfg.BackoffInterval
		}
		timer.Reset(wait)
	}
}

// Tick performs one observe-decide-assemble-submit cycle.
func (o *Oracle) Tick(ctx context.Context) error {
	snap, err := o.pool.Snapshot(ctx)
	switch {
	case errors.Is(err, pool.ErrPoolBoxNotFound):
		// not an error: the pool simply is not bootstrapped yet
		o.machine.Observe(ctx, nil)
		o.publish(nil, nil)
		o.metrics.IncTicks()
		return nil
	case err != nil:
		o.publish(nil, err)
		return err
	}

	cmd := o.machine.Observe(ctx, snap)
	epochState := snap.LiveEpoch()
	o.metrics.ObserveRate(epochState.LatestRate)
	o.metrics.ObserveLiveDatapoints(epochState.LiveDatapoints)

	var tickErr error
	if cmd == commands.Refresh {
		tickErr = o.refresh(ctx, snap)
	}
	o.publish(&epochState, tickErr)
	if tickErr != nil {
		return tickErr
	}
	o.metrics.IncTicks()
	return nil
}

func (o *Oracle) refresh(ctx context.Context, snap *pool.Snapshot) error {
	action, err := commands.BuildRefresh(
		o.cfg.Contracts, snap.Pool, snap.Refresh, snap.Datapoints, snap.Height)
	if err != nil {
		if errors.Is(err, commands.ErrFailedToReachConsensus) ||
			errors.Is(err, commands.ErrInsufficientDataPoints) {
			o.metrics.IncConsensusFailures()
		}
		return err
	}

	changeGuard, err := o.client.WalletChangeGuard(ctx)
	if err != nil {
		return err
	}
	unsigned, err := builder.Assemble(builder.Plan{
		RequiredInputs: action.RequiredInputs,
		Candidates:     action.Candidates,
		Fee:            o.cfg.BaseFee,
		ChangeGuard:    changeGuard,
		CreationHeight: snap.Height,
		Source:         &walletSource{ctx: ctx, client: o.client},
	})
	if err != nil {
		return err
	}

	signed, err := o.client.SignTransaction(ctx, unsigned)
	if err != nil {
		return err
	}
	txID, err := o.client.SubmitTransaction(ctx, signed)
	if err != nil {
		return err
	}

	o.metrics.IncRefreshesSubmitted()
	o.log.Info("submitted refresh",
		log.Stringer("txID", txID),
		log.Uint64("height", snap.Height),
		log.Int("survivors", len(action.RequiredInputs)-2),
	)
	return nil
}

func (o *Oracle) publish(epoch *pool.LiveEpochState, err error) {
	if o.server == nil {
		return
	}
	status := api.Status{
		State:     o.machine.Current(),
		Epoch:     epoch,
		UpdatedAt: o.clock.Time(),
	}
	if err != nil {
		status.LastError = err.Error()
	}
	o.server.Publish(status)
}

// walletSource adapts the node wallet to the builder's box source.
type walletSource struct {
	ctx    context.Context
	client node.Client
}

func (w *walletSource) UnspentBoxes() ([]chain.Box, error) {
	return w.client.UnspentWalletBoxes(w.ctx)
}
