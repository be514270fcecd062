// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package datapoint fetches exchange rates for operators publishing
// datapoint boxes. The refresh consensus never consults these
// sources; it only reads rates already committed on chain.
package datapoint

import (
	"context"
	"errors"
)

// NanoUnitsPerUnit is the fixed-point scale of published rates.
const NanoUnitsPerUnit = 1_000_000_000

var (
	ErrNotEnoughSources = errors.New("not enough datapoint sources answered")

	errNonPositiveRate = errors.New("source returned a non-positive rate")
)

// Source produces the current rate of one trading pair in nano units
// of the base asset per unit of the quote asset.
type Source interface {
	PairName() string
	Rate(ctx context.Context) (int64, error)
}
