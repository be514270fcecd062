// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/chain/chaintest"
	"github.com/luxfi/oracle/commands"
	"github.com/luxfi/oracle/contracts"
	"github.com/luxfi/oracle/pool"
)

type snapshotBuilder struct {
	t       *testing.T
	tokens  contracts.TokenIDs
	epoch   int32
	height  uint64
	refresh uint64
	rates   []int64
	stale   int
}

func (b *snapshotBuilder) build() *pool.Snapshot {
	require := require.New(b.t)

	poolRaw := chaintest.BoxWithRegisters(
		1_000_000, []byte{0x01}, b.refresh,
		chain.Registers{}.
			With(chain.R4, chain.Int64Value(455)).
			With(chain.R5, chain.Int32Value(b.epoch)),
		chain.Token{ID: b.tokens.PoolNFT, Amount: 1},
		chain.Token{ID: b.tokens.RewardToken, Amount: 10},
	)
	poolBox, err := boxkind.WrapPoolBox(poolRaw, b.tokens.PoolNFT, b.tokens.RewardToken)
	require.NoError(err)

	refreshRaw := chaintest.Box(
		1_000_000, []byte{0x02}, b.refresh,
		chain.Token{ID: b.tokens.RefreshNFT, Amount: 1},
		chain.Token{ID: b.tokens.RewardToken, Amount: 50},
	)
	refreshBox, err := boxkind.WrapRefreshBox(refreshRaw, b.tokens.RefreshNFT, b.tokens.RewardToken)
	require.NoError(err)

	var datapoints []*boxkind.OracleBox
	addDatapoint := func(epoch int32, rate int64) {
		raw := chaintest.BoxWithRegisters(
			10_000_000, []byte{0x03}, b.refresh,
			chain.Registers{}.
				With(chain.R4, chain.GroupElementValue([]byte{0x02, 0xaa})).
				With(chain.R5, chain.Int32Value(epoch)).
				With(chain.R6, chain.Int64Value(rate)),
			chain.Token{ID: b.tokens.OracleToken, Amount: 1},
			chain.Token{ID: b.tokens.RewardToken, Amount: 1},
		)
		dp, err := boxkind.WrapOracleBox(raw, b.tokens.OracleToken, b.tokens.RewardToken)
		require.NoError(err)
		datapoints = append(datapoints, dp)
	}
	for _, rate := range b.rates {
		addDatapoint(b.epoch, rate)
	}
	for i := 0; i < b.stale; i++ {
		addDatapoint(b.epoch-1, 400)
	}

	return &pool.Snapshot{
		Height:     b.height,
		Pool:       poolBox,
		Refresh:    refreshBox,
		Datapoints: datapoints,
	}
}

func newSnapshotBuilder(t *testing.T) *snapshotBuilder {
	return &snapshotBuilder{
		t: t,
		tokens: contracts.TokenIDs{
			PoolNFT:     ids.GenerateTestID(),
			RefreshNFT:  ids.GenerateTestID(),
			OracleToken: ids.GenerateTestID(),
			RewardToken: ids.GenerateTestID(),
		},
		epoch:   3,
		height:  110,
		refresh: 100,
	}
}

func testParams() contracts.RefreshParameters {
	return contracts.RefreshParameters{
		GuardScript:         []byte{0x02},
		MinDataPoints:       4,
		BufferLength:        4,
		MaxDeviationPercent: 5,
		EpochLength:         30,
	}
}

func TestMachineStartsNeedingBootstrap(t *testing.T) {
	require := require.New(t)

	m := NewMachine(log.NoLog{}, testParams())
	require.Equal(StateNeedsBootstrap, m.Current())
	require.Equal(commands.None, m.Observe(context.Background(), nil))
	require.Equal(StateNeedsBootstrap, m.Current())
}

func TestMachineEmitsRefresh(t *testing.T) {
	require := require.New(t)

	b := newSnapshotBuilder(t)
	b.rates = []int64{450, 455, 460, 465}
	snap := b.build()

	m := NewMachine(log.NoLog{}, testParams())
	cmd := m.Observe(context.Background(), snap)
	require.Equal(StateLiveEpoch, m.Current())
	require.Equal(commands.Refresh, cmd)
}

func TestMachineWaitsForBuffer(t *testing.T) {
	require := require.New(t)

	b := newSnapshotBuilder(t)
	b.rates = []int64{450, 455, 460, 465}
	b.height = 103 // only 3 blocks since the refresh box
	snap := b.build()

	m := NewMachine(log.NoLog{}, testParams())
	require.Equal(commands.None, m.Observe(context.Background(), snap))
	require.Equal(StateLiveEpoch, m.Current())
}

func TestMachineBufferBoundary(t *testing.T) {
	require := require.New(t)

	b := newSnapshotBuilder(t)
	b.rates = []int64{450, 455, 460, 465}
	b.height = 104 // exactly bufferLength blocks elapsed
	snap := b.build()

	m := NewMachine(log.NoLog{}, testParams())
	require.Equal(commands.Refresh, m.Observe(context.Background(), snap))
}

func TestMachineWaitsForDatapoints(t *testing.T) {
	require := require.New(t)

	b := newSnapshotBuilder(t)
	b.rates = []int64{450, 455, 460}
	b.stale = 3 // stale datapoints never count
	snap := b.build()

	m := NewMachine(log.NoLog{}, testParams())
	require.Equal(commands.None, m.Observe(context.Background(), snap))
}

func TestMachineReturnsToBootstrapWhenPoolLost(t *testing.T) {
	require := require.New(t)

	b := newSnapshotBuilder(t)
	b.rates = []int64{450, 455, 460, 465}
	snap := b.build()

	m := NewMachine(log.NoLog{}, testParams())
	m.Observe(context.Background(), snap)
	require.Equal(StateLiveEpoch, m.Current())

	require.Equal(commands.None, m.Observe(context.Background(), nil))
	require.Equal(StateNeedsBootstrap, m.Current())
}
