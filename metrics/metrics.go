// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics counts the operator's tick outcomes.
package metrics

import (
	"github.com/luxfi/metric"

	"github.com/luxfi/oracle/utils/wrappers"
)

var _ Metrics = (*metricsImpl)(nil)

type Metrics interface {
	IncTicks()
	IncTickFailures()
	IncRefreshesSubmitted()
	IncConsensusFailures()
	ObserveRate(rate int64)
	ObserveLiveDatapoints(count int)
}

type metricsImpl struct {
	numTicks, numTickFailures          metric.Counter
	numRefreshes, numConsensusFailures metric.Counter
	poolRate, liveDatapoints           metric.Gauge
}

func (m *metricsImpl) IncTicks() {
	m.numTicks.Inc()
}

func (m *metricsImpl) IncTickFailures() {
	m.numTickFailures.Inc()
}

func (m *metricsImpl) IncRefreshesSubmitted() {
	m.numRefreshes.Inc()
}

func (m *metricsImpl) IncConsensusFailures() {
	m.numConsensusFailures.Inc()
}

func (m *metricsImpl) ObserveRate(rate int64) {
	m.poolRate.Set(float64(rate))
}

func (m *metricsImpl) ObserveLiveDatapoints(count int) {
	m.liveDatapoints.Set(float64(count))
}

func New(registerer metric.Registerer) (Metrics, error) {
	m := &metricsImpl{
		numTicks: metric.NewCounter(metric.CounterOpts{
			Name: "oracle_ticks",
			Help: "Number of completed tick cycles",
		}),
		numTickFailures: metric.NewCounter(metric.CounterOpts{
			Name: "oracle_tick_failures",
			Help: "Number of ticks that ended in an error",
		}),
		numRefreshes: metric.NewCounter(metric.CounterOpts{
			Name: "oracle_refreshes_submitted",
			Help: "Number of refresh transactions submitted",
		}),
		numConsensusFailures: metric.NewCounter(metric.CounterOpts{
			Name: "oracle_consensus_failures",
			Help: "Number of refresh attempts failing the deviation filter",
		}),
		poolRate: metric.NewGauge(metric.GaugeOpts{
			Name: "oracle_pool_rate",
			Help: "Rate committed in the current pool box",
		}),
		liveDatapoints: metric.NewGauge(metric.GaugeOpts{
			Name: "oracle_live_datapoints",
			Help: "Datapoint boxes matching the current epoch",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.numTicks)),
		registerer.Register(metric.AsCollector(m.numTickFailures)),
		registerer.Register(metric.AsCollector(m.numRefreshes)),
		registerer.Register(metric.AsCollector(m.numConsensusFailures)),
		registerer.Register(metric.AsCollector(m.poolRate)),
		registerer.Register(metric.AsCollector(m.liveDatapoints)),
	)
	return m, errs.Err
}
