// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegisterOnGatherer(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	m, err := New(registry)
	require.NoError(err)

	m.IncTicks()
	m.IncRefreshesSubmitted()
	m.ObserveRate(455_000_000)
	m.ObserveLiveDatapoints(4)

	families, err := registry.Gather()
	require.NoError(err)
	require.NotEmpty(families)

	names := make(map[string]struct{}, len(families))
	for _, family := range families {
		names[family.GetName()] = struct{}{}
	}
	for _, name := range []string{
		"oracle_ticks",
		"oracle_tick_failures",
		"oracle_refreshes_submitted",
		"oracle_consensus_failures",
		"oracle_pool_rate",
		"oracle_live_datapoints",
	} {
		require.Contains(names, name)
	}
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(err)

	_, err = New(registry)
	require.Error(err)
}
