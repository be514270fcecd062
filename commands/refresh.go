// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	safemath "github.com/luxfi/math"

	"github.com/luxfi/oracle/boxkind"
	"github.com/luxfi/oracle/chain"
	"github.com/luxfi/oracle/contracts"
)

const rewardsPerSurvivor = 2

var (
	ErrInsufficientDataPoints = errors.New("insufficient live datapoints")
	ErrFailedToReachConsensus = errors.New("failed to reach consensus")

	errRateOverflow       = errors.New("datapoint rate overflow")
	errRewardPoolDepleted = errors.New("reward pool depleted")
)

// Action is the input set and output candidates of one pool command,
// ready to hand to the transaction assembler.
type Action struct {
	Command        Command
	RequiredInputs []chain.Box
	Candidates     []chain.BoxCandidate
}

// BuildRefresh derives the epoch-refresh action from the current pool
// and refresh boxes and the published datapoint boxes. Datapoints
// whose epoch counter does not match the pool's are discarded; the
// survivors of the deviation filter determine the new pool rate and
// earn one reward token each. The function is pure.
func BuildRefresh(
	params contracts.Parameters,
	pool *boxkind.PoolBox,
	refresh *boxkind.RefreshBox,
	datapoints []*boxkind.OracleBox,
	height uint64,
) (*Action, error) {
	live := make([]*boxkind.OracleBox, 0, len(datapoints))
	for _, dp := range datapoints {
		if dp.EpochCounter() == pool.EpochCounter() {
			live = append(live, dp)
		}
	}
	if uint32(len(live)) < params.Refresh.MinDataPoints {
		return nil, fmt.Errorf("%w: %d live, need %d",
			ErrInsufficientDataPoints, len(live), params.Refresh.MinDataPoints)
	}

	slices.SortStableFunc(live, func(a, b *boxkind.OracleBox) int {
		return cmp.Compare(a.Rate(), b.Rate())
	})
	lo, hi, err := filterDeviant(live, params.Refresh.MinDataPoints, params.Refresh.MaxDeviationPercent)
	if err != nil {
		return nil, err
	}
	survivors := live[lo:hi]

	rate, err := meanRate(survivors)
	if err != nil {
		return nil, err
	}

	payout, err := safemath.Mul(uint64(len(survivors)), uint64(rewardsPerSurvivor))
	if err != nil {
		return nil, errRateOverflow
	}
	remaining, err := safemath.Sub(refresh.RewardToken().Amount, payout)
	if err != nil {
		return nil, fmt.Errorf("%w: have %d, need %d",
			errRewardPoolDepleted, refresh.RewardToken().Amount, payout)
	}

	poolIn := pool.RawBox()
	refreshIn := refresh.RawBox()

	candidates := []chain.BoxCandidate{
		boxkind.NewPoolBoxCandidate(
			params.Pool.GuardScript,
			rate,
			pool.EpochCounter()+1,
			pool.NFT(),
			pool.RewardToken(),
			poolIn.Value,
			height,
		),
		boxkind.NewRefreshBoxCandidate(
			params.Refresh.GuardScript,
			refresh.NFT(),
			chain.Token{ID: refresh.RewardToken().ID, Amount: remaining},
			refreshIn.Value,
			height,
		),
	}
	inputs := []chain.Box{poolIn, refreshIn}
	for _, dp := range survivors {
		inputs = append(inputs, dp.RawBox())
		candidates = append(candidates, dp.WithIncrementedReward(height))
	}

	return &Action{
		Command:        Refresh,
		RequiredInputs: inputs,
		Candidates:     candidates,
	}, nil
}

// filterDeviant narrows the sorted datapoint window until the spread
// satisfies min >= max - max*maxDeviationPercent/100, removing the
// endpoint with the larger gap to its neighbor at every step. Ties
// drop the largest datapoint. The window shrinks by one per
// iteration, so the loop always terminates.
func filterDeviant(
	sorted []*boxkind.OracleBox,
	minDataPoints uint32,
	maxDeviationPercent uint64,
) (int, int, error) {
	lo, hi := 0, len(sorted)
	for {
		ok, err := withinDeviation(sorted[lo].Rate(), sorted[hi-1].Rate(), maxDeviationPercent)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			return lo, hi, nil
		}
		if uint32(hi-lo-1) < minDataPoints {
			return 0, 0, fmt.Errorf("%w: spread exceeds %d%% with %d datapoints left",
				ErrFailedToReachConsensus, maxDeviationPercent, hi-lo)
		}
		topGap := sorted[hi-1].Rate() - sorted[hi-2].Rate()
		bottomGap := sorted[lo+1].Rate() - sorted[lo].Rate()
		if topGap >= bottomGap {
			hi--
		} else {
			lo++
		}
	}
}

func withinDeviation(minRate, maxRate, maxDeviationPercent uint64) (bool, error) {
	scaled, err := safemath.Mul(maxRate, maxDeviationPercent)
	if err != nil {
		return false, errRateOverflow
	}
	// A deviation allowance of 100% or more admits any spread.
	allowance := scaled / 100
	if allowance >= maxRate {
		return true, nil
	}
	return minRate >= maxRate-allowance, nil
}

// meanRate is the floored integer mean of the surviving rates.
func meanRate(survivors []*boxkind.OracleBox) (int64, error) {
	var sum uint64
	for _, dp := range survivors {
		var err error
		if sum, err = safemath.Add(sum, dp.Rate()); err != nil {
			return 0, errRateOverflow
		}
	}
	mean := sum / uint64(len(survivors))
	if mean > math.MaxInt64 {
		return 0, errRateOverflow
	}
	return int64(mean), nil
}
