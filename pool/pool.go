// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool assembles the typed view of one oracle pool from the
// node's scan results.
package pool

import (
	"context"
	"errors"

	"github.com/luxfi/log"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/contracts"
	"github.com/luxfi/oracle/node"
	"github.com/luxfi/oracle/scan"
)

var (
	ErrPoolBoxNotFound    = errors.New("pool box not found")
	ErrRefreshBoxNotFound = errors.New("refresh box not found")
)

// OraclePool reads the pool's current boxes through the node scans.
type OraclePool struct {
	log    log.Logger
	client node.Client
	scans  *scan.Set
	tokens contracts.TokenIDs
}

func New(
	logger log.Logger,
	client node.Client,
	scans *scan.Set,
	tokens contracts.TokenIDs,
) *OraclePool {
	return &OraclePool{
		log:    logger,
		client: client,
		scans:  scans,
		tokens: tokens,
	}
}

// Snapshot is one consistent observation of the pool. Local is nil
// when the operator has not published a datapoint box.
type Snapshot struct {
	Height     uint64
	Pool       *boxkind.PoolBox
	Refresh    *boxkind.RefreshBox
	Datapoints []*boxkind.OracleBox
	Local      *boxkind.OracleBox
}

// Snapshot reads the pool, refresh and datapoint boxes at the node's
// current height. A malformed datapoint box only excludes itself; a
// missing or malformed pool or refresh box fails the snapshot.
func (p *OraclePool) Snapshot(ctx context.Context) (*Snapshot, error) {
	height, err := p.client.CurrentHeight(ctx)
	if err != nil {
		return nil, err
	}

	poolBox, err := p.poolBox(ctx)
	if err != nil {
		return nil, err
	}
	refreshBox, err := p.refreshBox(ctx)
	if err != nil {
		return nil, err
	}
	datapoints, err := p.datapoints(ctx)
	if err != nil {
		return nil, err
	}
	local, err := p.localDatapoint(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Height:     height,
		Pool:       poolBox,
		Refresh:    refreshBox,
		Datapoints: datapoints,
		Local:      local,
	}, nil
}

func (p *OraclePool) poolBox(ctx context.Context) (*boxkind.PoolBox, error) {
	boxes, err := p.client.UnspentScanBoxes(ctx, p.scans.PoolBox)
	if err != nil {
		return nil, err
	}
	for _, box := range boxes {
		wrapped, err := boxkind.WrapPoolBox(box, p.tokens.PoolNFT, p.tokens.RewardToken)
		if err == nil {
			return wrapped, nil
		}
		p.log.Warn("skipping malformed pool scan box",
			log.Stringer("boxID", box.ID),
			log.Err(err),
		)
	}
	return nil, ErrPoolBoxNotFound
}

func (p *OraclePool) refreshBox(ctx context.Context) (*boxkind.RefreshBox, error) {
	boxes, err := p.client.UnspentScanBoxes(ctx, p.scans.RefreshBox)
	if err != nil {
		return nil, err
	}
	for _, box := range boxes {
		wrapped, err := boxkind.WrapRefreshBox(box, p.tokens.RefreshNFT, p.tokens.RewardToken)
		if err == nil {
			return wrapped, nil
		}
		p.log.Warn("skipping malformed refresh scan box",
			log.Stringer("boxID", box.ID),
			log.Err(err),
		)
	}
	return nil, ErrRefreshBoxNotFound
}

func (p *OraclePool) datapoints(ctx context.Context) ([]*boxkind.OracleBox, error) {
	boxes, err := p.client.UnspentScanBoxes(ctx, p.scans.Datapoints)
	if err != nil {
		return nil, err
	}
	datapoints := make([]*boxkind.OracleBox, 0, len(boxes))
	for _, box := range boxes {
		wrapped, err := boxkind.WrapOracleBox(box, p.tokens.OracleToken, p.tokens.RewardToken)
		if err != nil {
			p.log.Warn("skipping malformed datapoint box",
				log.Stringer("boxID", box.ID),
				log.Err(err),
			)
			continue
		}
		datapoints = append(datapoints, wrapped)
	}
	return datapoints, nil
}

func (p *OraclePool) localDatapoint(ctx context.Context) (*boxkind.OracleBox, error) {
	boxes, err := p.client.UnspentScanBoxes(ctx, p.scans.LocalDatapoint)
	if err != nil {
		return nil, err
	}
	for _, box := range boxes {
		wrapped, err := boxkind.WrapOracleBox(box, p.tokens.OracleToken, p.tokens.RewardToken)
		if err == nil {
			return wrapped, nil
		}
		p.log.Warn("skipping malformed local datapoint box",
			log.Stringer("boxID", box.ID),
			log.Err(err),
		)
	}
	return nil, nil
}
