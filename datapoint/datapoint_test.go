// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datapoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/log"
)

type staticSource struct {
	rate int64
	err  error
}

func (s *staticSource) PairName() string { return "erg/usd" }

func (s *staticSource) Rate(context.Context) (int64, error) {
	return s.rate, s.err
}

func TestCoinGeckoSource(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/api/v3/simple/price", r.URL.Path)
		require.Equal("ergo", r.URL.Query().Get("ids"))
		require.Equal("usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"ergo":{"usd":2.0}}`)
	}))
	defer server.Close()

	source := NewCoinGeckoSourceAt(server.URL, "ergo", "usd")
	require.Equal("ergo/usd", source.PairName())

	rate, err := source.Rate(context.Background())
	require.NoError(err)
	require.Equal(int64(500_000_000), rate)
}

func TestCoinGeckoSourceBadStatus(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewCoinGeckoSourceAt(server.URL, "ergo", "usd").Rate(context.Background())
	require.Error(err)
}

func TestCoinGeckoSourceZeroPrice(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ergo":{}}`)
	}))
	defer server.Close()

	_, err := NewCoinGeckoSourceAt(server.URL, "ergo", "usd").Rate(context.Background())
	require.ErrorIs(err, errNonPositiveRate)
}

func TestAggregateSourceMedian(t *testing.T) {
	require := require.New(t)

	agg := NewAggregateSource(log.NoLog{}, 2,
		&staticSource{rate: 100},
		&staticSource{rate: 300},
		&staticSource{rate: 110},
	)
	rate, err := agg.Rate(context.Background())
	require.NoError(err)
	require.Equal(int64(110), rate)
}

func TestAggregateSourceSkipsFailures(t *testing.T) {
	require := require.New(t)

	agg := NewAggregateSource(log.NoLog{}, 2,
		&staticSource{rate: 100},
		&staticSource{err: errors.New("unreachable")},
		&staticSource{rate: 120},
	)
	rate, err := agg.Rate(context.Background())
	require.NoError(err)
	require.Equal(int64(110), rate)
}

func TestAggregateSourceTooFewAnswers(t *testing.T) {
	require := require.New(t)

	agg := NewAggregateSource(log.NoLog{}, 2,
		&staticSource{rate: 100},
		&staticSource{err: errors.New("unreachable")},
	)
	_, err := agg.Rate(context.Background())
	require.ErrorIs(err, ErrNotEnoughSources)
}
