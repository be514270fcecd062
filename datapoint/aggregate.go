// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datapoint

import (
	"context"
	"fmt"
	"slices"

	"github.com/luxfi/log"
)

var _ Source = (*AggregateSource)(nil)

// AggregateSource queries several sources for the same pair and
// reports the median of the answers. A failing source only excludes
// itself as long as minSources still answer.
type AggregateSource struct {
	log        log.Logger
	sources    []Source
	minSources int
}

func NewAggregateSource(logger log.Logger, minSources int, sources ...Source) *AggregateSource {
	return &AggregateSource{
		log:        logger,
		sources:    sources,
		minSources: minSources,
	}
}

func (a *AggregateSource) PairName() string {
	if len(a.sources) == 0 {
		return "aggregate"
	}
	return a.sources[0].PairName()
}

func (a *AggregateSource) Rate(ctx context.Context) (int64, error) {
	rates := make([]int64, 0, len(a.sources))
	for _, source := range a.sources {
		rate, err := source.Rate(ctx)
		if err != nil {
			a.log.Warn("datapoint source failed",
				log.String("pair", source.PairName()),
				log.Err(err),
			)
			continue
		}
		rates = append(rates, rate)
	}
	if len(rates) < a.minSources {
		return 0, fmt.Errorf("%w: %d of %d", ErrNotEnoughSources, len(rates), a.minSources)
	}

	slices.Sort(rates)
	mid := len(rates) / 2
	if len(rates)%2 == 0 {
		return (rates[mid-1] + rates[mid]) / 2, nil
	}
	return rates[mid], nil
}
