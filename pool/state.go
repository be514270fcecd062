// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

// LiveEpochState summarizes one snapshot for operators and the
// status API.
type LiveEpochState struct {
	Height           uint64 `json:"height"`
	LatestRate       int64  `json:"latestRate"`
	EpochCounter     int32  `json:"epochCounter"`
	PoolBoxHeight    uint64 `json:"poolBoxHeight"`
	RefreshBoxHeight uint64 `json:"refreshBoxHeight"`
	LiveDatapoints   int    `json:"liveDatapoints"`
	LocalPublished   bool   `json:"localPublished"`
	RewardPool       uint64 `json:"rewardPool"`
}

// LiveEpoch reduces the snapshot to its epoch summary. A datapoint
// counts as live only when its epoch counter matches the pool's.
func (s *Snapshot) LiveEpoch() LiveEpochState {
	live := 0
	for _, dp := range s.Datapoints {
		if dp.EpochCounter() == s.Pool.EpochCounter() {
			live++
		}
	}
	return LiveEpochState{
		Height:           s.Height,
		LatestRate:       s.Pool.Rate(),
		EpochCounter:     s.Pool.EpochCounter(),
		PoolBoxHeight:    s.Pool.RawBox().CreationHeight,
		RefreshBoxHeight: s.Refresh.RawBox().CreationHeight,
		LiveDatapoints:   live,
		LocalPublished:   s.Local != nil,
		RewardPool:       s.Refresh.RewardToken().Amount,
	}
}
