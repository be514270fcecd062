// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/chain/chaintest"
	"github.com/luxfi/oracle/contracts"
)

type refreshHarness struct {
	params   contracts.Parameters
	tokenIDs contracts.TokenIDs
	pool     *boxkind.PoolBox
	refresh  *boxkind.RefreshBox
}

func newRefreshHarness(t *testing.T, epoch int32, rewardPool uint64) *refreshHarness {
	require := require.New(t)

	h := &refreshHarness{
		params: contracts.DefaultParameters(
			[]byte{0x01}, []byte{0x02}, []byte{0x03}, []byte{0x04}, []byte{0x05},
		),
		tokenIDs: contracts.TokenIDs{
			PoolNFT:     ids.GenerateTestID(),
			RefreshNFT:  ids.GenerateTestID(),
			OracleToken: ids.GenerateTestID(),
			RewardToken: ids.GenerateTestID(),
		},
	}

	poolRaw := chaintest.BoxWithRegisters(
		1_000_000,
		h.params.Pool.GuardScript,
		50,
		chain.Registers{}.
			With(chain.R4, chain.Int64Value(455)).
			With(chain.R5, chain.Int32Value(epoch)),
		chain.Token{ID: h.tokenIDs.PoolNFT, Amount: 1},
		chain.Token{ID: h.tokenIDs.RewardToken, Amount: 90},
	)
	pool, err := boxkind.WrapPoolBox(poolRaw, h.tokenIDs.PoolNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	h.pool = pool

	refreshRaw := chaintest.Box(
		1_000_000,
		h.params.Refresh.GuardScript,
		60,
		chain.Token{ID: h.tokenIDs.RefreshNFT, Amount: 1},
		chain.Token{ID: h.tokenIDs.RewardToken, Amount: rewardPool},
	)
	refresh, err := boxkind.WrapRefreshBox(refreshRaw, h.tokenIDs.RefreshNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	h.refresh = refresh
	return h
}

func (h *refreshHarness) datapoint(t *testing.T, epoch int32, rate int64) *boxkind.OracleBox {
	require := require.New(t)

	raw := chaintest.BoxWithRegisters(
		10_000_000,
		[]byte{0x03},
		55,
		chain.Registers{}.
			With(chain.R4, chain.GroupElementValue([]byte{0x02, 0xaa})).
			With(chain.R5, chain.Int32Value(epoch)).
			With(chain.R6, chain.Int64Value(rate)),
		chain.Token{ID: h.tokenIDs.OracleToken, Amount: 1},
		chain.Token{ID: h.tokenIDs.RewardToken, Amount: 5},
	)
	dp, err := boxkind.WrapOracleBox(raw, h.tokenIDs.OracleToken, h.tokenIDs.RewardToken)
	require.NoError(err)
	return dp
}

func (h *refreshHarness) datapoints(t *testing.T, epoch int32, rates ...int64) []*boxkind.OracleBox {
	dps := make([]*boxkind.OracleBox, len(rates))
	for i, rate := range rates {
		dps[i] = h.datapoint(t, epoch, rate)
	}
	return dps
}

func TestBuildRefreshDropsOutlier(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 3, 100)
	dps := h.datapoints(t, 3, 100, 101, 102, 103, 200)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Equal(Refresh, action.Command)

	// pool + refresh + 4 survivors; the 200 outlier is gone
	require.Len(action.RequiredInputs, 6)
	require.Len(action.Candidates, 6)

	newPool, err := boxkind.WrapPoolBox(chain.Box{
		BoxCandidate: action.Candidates[0],
		ID:           ids.GenerateTestID(),
	}, h.tokenIDs.PoolNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	require.Equal(int64(101), newPool.Rate())
	require.Equal(int32(4), newPool.EpochCounter())
}

func TestBuildRefreshRewardAccounting(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 3, 100)
	dps := h.datapoints(t, 3, 100, 100, 100, 100)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)

	// refresh box pays out two tokens per survivor
	newRefresh, err := boxkind.WrapRefreshBox(chain.Box{
		BoxCandidate: action.Candidates[1],
		ID:           ids.GenerateTestID(),
	}, h.tokenIDs.RefreshNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	require.Equal(uint64(92), newRefresh.RewardToken().Amount)

	// every surviving datapoint box gains exactly one reward token
	for _, cand := range action.Candidates[2:] {
		require.Equal(uint64(6), cand.TokenAmount(h.tokenIDs.RewardToken))
		require.Equal(uint64(70), cand.CreationHeight)
	}
}

func TestBuildRefreshBoundaryEquality(t *testing.T) {
	require := require.New(t)

	// 95 == 100 - 100*5/100 sits exactly on the bound and is accepted
	h := newRefreshHarness(t, 1, 100)
	dps := h.datapoints(t, 1, 95, 97, 99, 100)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Len(action.RequiredInputs, 6)
}

func TestBuildRefreshZeroDeviationIdenticalRates(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 1, 100)
	h.params.Refresh.MinDataPoints = 2
	h.params.Refresh.MaxDeviationPercent = 0
	dps := h.datapoints(t, 1, 100, 100)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Len(action.RequiredInputs, 4)
}

func TestBuildRefreshStaleDatapointsExcluded(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 5, 100)
	dps := h.datapoints(t, 5, 100, 101, 102)
	dps = append(dps, h.datapoint(t, 4, 100), h.datapoint(t, 6, 100))

	_, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.ErrorIs(err, ErrInsufficientDataPoints)

	dps = append(dps, h.datapoint(t, 5, 103))
	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Len(action.RequiredInputs, 6)
}

func TestBuildRefreshIrreducibleSpread(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 1, 100)
	dps := h.datapoints(t, 1, 100, 150, 220, 300)

	_, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.ErrorIs(err, ErrFailedToReachConsensus)
}

func TestBuildRefreshTieDropsLargest(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 1, 100)
	h.params.Refresh.MinDataPoints = 3

	// both endpoint gaps are 50; the larger endpoint goes first
	dps := h.datapoints(t, 1, 100, 150, 200)
	dps = append(dps, h.datapoints(t, 1, 150, 150)...)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)

	// the 200 endpoint goes before the 100, leaving the three 150s
	require.Len(action.RequiredInputs, 5)
	newPool, err := boxkind.WrapPoolBox(chain.Box{
		BoxCandidate: action.Candidates[0],
		ID:           ids.GenerateTestID(),
	}, h.tokenIDs.PoolNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	require.Equal(int64(150), newPool.Rate())
}

func TestBuildRefreshRewardPoolDepleted(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 1, 7)
	dps := h.datapoints(t, 1, 100, 100, 100, 100)

	_, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.Error(err)
	require.NotErrorIs(err, ErrFailedToReachConsensus)
}

func TestBuildRefreshDeviationAboveHundredPercent(t *testing.T) {
	require := require.New(t)

	// an allowance of 100% or more admits any spread
	h := newRefreshHarness(t, 1, 100)
	h.params.Refresh.MaxDeviationPercent = 150
	dps := h.datapoints(t, 1, 1, 400, 5_000, 100_000)

	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Len(action.RequiredInputs, 6)

	newPool, err := boxkind.WrapPoolBox(chain.Box{
		BoxCandidate: action.Candidates[0],
		ID:           ids.GenerateTestID(),
	}, h.tokenIDs.PoolNFT, h.tokenIDs.RewardToken)
	require.NoError(err)
	require.Equal(int64(26_350), newPool.Rate())
}

func TestFilterDeviantTerminates(t *testing.T) {
	require := require.New(t)

	h := newRefreshHarness(t, 1, 100)
	h.params.Refresh.MinDataPoints = 1

	// wildly spread input still terminates, collapsing to one point
	dps := h.datapoints(t, 1, 1, 10, 100, 1_000, 10_000, 100_000)
	action, err := BuildRefresh(h.params, h.pool, h.refresh, dps, 70)
	require.NoError(err)
	require.Len(action.RequiredInputs, 3)
}
