// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state tracks the pool lifecycle and decides the next pool
// command on every tick.
package state

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/luxfi/log"

	"github.com/luxfi/oracle/commands"
	"github.com/luxfi/oracle/contracts"
	"github.com/luxfi/oracle/pool"
)

const (
	// StateNeedsBootstrap means no pool box is visible on chain.
	StateNeedsBootstrap = "needsBootstrap"
	// StateLiveEpoch means the pool and refresh boxes are tracked.
	StateLiveEpoch = "liveEpoch"

	eventPoolFound = "poolFound"
	eventPoolLost  = "poolLost"
)

// Machine re-derives the pool state from each snapshot and emits the
// command the snapshot calls for. Errors are results of command
// execution, never states.
type Machine struct {
	log    log.Logger
	params contracts.RefreshParameters
	fsm    *fsm.FSM
}

func NewMachine(logger log.Logger, params contracts.RefreshParameters) *Machine {
	return &Machine{
		log:    logger,
		params: params,
		fsm: fsm.NewFSM(
			StateNeedsBootstrap,
			fsm.Events{
				{
					Name: eventPoolFound,
					Src:  []string{StateNeedsBootstrap},
					Dst:  StateLiveEpoch,
				},
				{
					Name: eventPoolLost,
					Src:  []string{StateLiveEpoch},
					Dst:  StateNeedsBootstrap,
				},
			},
			fsm.Callbacks{},
		),
	}
}

func (m *Machine) Current() string {
	return m.fsm.Current()
}

// Observe folds one snapshot into the machine. A nil snapshot means
// the pool box is not visible; otherwise the machine decides whether
// the epoch is due for a refresh.
func (m *Machine) Observe(ctx context.Context, snap *pool.Snapshot) commands.Command {
	if snap == nil {
		if m.fsm.Current() == StateLiveEpoch {
			if err := m.fsm.Event(ctx, eventPoolLost); err != nil {
				m.log.Error("state transition failed", log.Err(err))
			}
			m.log.Warn("pool box lost, bootstrap required")
		}
		return commands.None
	}

	if m.fsm.Current() == StateNeedsBootstrap {
		if err := m.fsm.Event(ctx, eventPoolFound); err != nil {
			m.log.Error("state transition failed", log.Err(err))
		}
		m.log.Info("pool found",
			log.Uint64("height", snap.Height),
			log.Uint64("rate", uint64(snap.Pool.Rate())),
		)
	}

	if m.refreshDue(snap) {
		return commands.Refresh
	}
	return commands.None
}

// refreshDue holds when enough blocks have elapsed since the refresh
// box was created and enough live datapoints exist to reach
// consensus.
func (m *Machine) refreshDue(snap *pool.Snapshot) bool {
	refreshHeight := snap.Refresh.RawBox().CreationHeight
	if snap.Height < refreshHeight {
		return false
	}
	if snap.Height-refreshHeight < m.params.BufferLength {
		return false
	}

	live := uint32(0)
	for _, dp := range snap.Datapoints {
		if dp.EpochCounter() == snap.Pool.EpochCounter() {
			live++
		}
	}
	return live >= m.params.MinDataPoints
}
