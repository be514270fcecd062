// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scan registers the UTXO tracking rules the oracle needs
// with the node and persists the returned scan ids so restarts reuse
// the existing registrations.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/log"

	"github.com/luxfi/oracle/contracts"
	"github.com/luxfi/oracle/node"
)

const (
	poolScanName           = "oracle-pool-box"
	refreshScanName        = "oracle-refresh-box"
	datapointScanName      = "oracle-datapoint-boxes"
	localDatapointScanName = "oracle-local-datapoint-box"
)

// Set holds the scan ids of one registered pool instance.
type Set struct {
	PoolBox        uint64
	RefreshBox     uint64
	Datapoints     uint64
	LocalDatapoint uint64
}

// Store persists scan ids by scan name.
type Store struct {
	db database.Database
}

func NewStore(db database.Database) *Store {
	return &Store{db: db}
}

// Get returns the stored scan id for name, or found=false.
func (s *Store) Get(name string) (uint64, bool, error) {
	raw, err := s.db.Get([]byte(name))
	switch {
	case errors.Is(err, database.ErrNotFound):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	id, err := database.ParseUInt64(raw)
	return id, err == nil, err
}

func (s *Store) Put(name string, scanID uint64) error {
	return s.db.Put([]byte(name), database.PackUInt64(scanID))
}

// Register ensures all four oracle scans exist, reusing persisted
// registrations where possible.
func Register(
	ctx context.Context,
	logger log.Logger,
	client node.Client,
	store *Store,
	tokens contracts.TokenIDs,
	oracleGuard []byte,
	operatorKey []byte,
) (*Set, error) {
	scans := []struct {
		name string
		rule node.Scan
		dst  *uint64
	}{
		{poolScanName, node.Scan{Name: poolScanName, TokenID: tokens.PoolNFT}, nil},
		{refreshScanName, node.Scan{Name: refreshScanName, TokenID: tokens.RefreshNFT}, nil},
		{datapointScanName, node.Scan{Name: datapointScanName, TokenID: tokens.OracleToken}, nil},
		{localDatapointScanName, node.Scan{
			Name:        localDatapointScanName,
			TokenID:     tokens.OracleToken,
			GuardScript: oracleGuard,
			Registers:   []string{fmt.Sprintf("R4:%x", operatorKey)},
		}, nil},
	}

	set := &Set{}
	dsts := []*uint64{&set.PoolBox, &set.RefreshBox, &set.Datapoints, &set.LocalDatapoint}
	for i, s := range scans {
		scanID, found, err := store.Get(s.name)
		if err != nil {
			return nil, err
		}
		if !found {
			if scanID, err = client.RegisterScan(ctx, s.rule); err != nil {
				return nil, err
			}
			if err := store.Put(s.name, scanID); err != nil {
				return nil, err
			}
			logger.Info("registered scan",
				log.String("name", s.name),
				log.Uint64("scanID", scanID),
			)
		}
		*dsts[i] = scanID
	}
	return set, nil
}
