// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/log"

	"github.com/luxfi/oracle/datapoint"
)

const (
	coinFlag       = "coin"
	currencyFlag   = "currency"
	apiURLFlag     = "api-url"
	minSourcesFlag = "min-sources"
)

var errNoCoin = errors.New("--coin is required")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "rate",
		Short: "Queries the datapoint sources and prints the current rate",
		RunE:  rateFunc,
	}
	c.Flags().String(coinFlag, "", "Asset id to quote (required)")
	c.Flags().String(currencyFlag, "usd", "Quote currency")
	c.Flags().StringSlice(apiURLFlag, nil, "Price API endpoints, one source per URL; empty uses the public API")
	c.Flags().Int(minSourcesFlag, 1, "Minimum number of sources that must answer")
	return c
}

func rateFunc(c *cobra.Command, _ []string) error {
	coin, err := c.Flags().GetString(coinFlag)
	if err != nil {
		return err
	}
	if coin == "" {
		return errNoCoin
	}
	currency, err := c.Flags().GetString(currencyFlag)
	if err != nil {
		return err
	}
	apiURLs, err := c.Flags().GetStringSlice(apiURLFlag)
	if err != nil {
		return err
	}
	minSources, err := c.Flags().GetInt(minSourcesFlag)
	if err != nil {
		return err
	}

	var sources []datapoint.Source
	if len(apiURLs) == 0 {
		sources = append(sources, datapoint.NewCoinGeckoSource(coin, currency))
	}
	for _, url := range apiURLs {
		sources = append(sources, datapoint.NewCoinGeckoSourceAt(url, coin, currency))
	}
	source := datapoint.NewAggregateSource(log.NewLogger("rate"), minSources, sources...)

	nanoRate, err := source.Rate(c.Context())
	if err != nil {
		return err
	}
	fmt.Printf("pair %s\n", source.PairName())
	fmt.Printf("rate %d nano units per %s\n", nanoRate, currency)
	return nil
}
