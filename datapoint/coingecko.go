// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datapoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	coinGeckoBaseURL = "https://api.coingecko.com"
	fetchTimeout     = 10 * time.Second
)

var _ Source = (*CoinGeckoSource)(nil)

// CoinGeckoSource reads a spot price from the CoinGecko simple-price
// API and converts it to nano base units per quote unit.
type CoinGeckoSource struct {
	baseURL  string
	assetID  string
	currency string
	client   *http.Client
}

func NewCoinGeckoSource(assetID, currency string) *CoinGeckoSource {
	return &CoinGeckoSource{
		baseURL:  coinGeckoBaseURL,
		assetID:  assetID,
		currency: currency,
		client:   &http.Client{Timeout: fetchTimeout},
	}
}

// NewCoinGeckoSourceAt targets a non-default API endpoint.
func NewCoinGeckoSourceAt(baseURL, assetID, currency string) *CoinGeckoSource {
	s := NewCoinGeckoSource(assetID, currency)
	s.baseURL = baseURL
	return s
}

func (s *CoinGeckoSource) PairName() string {
	return s.assetID + "/" + s.currency
}

// Rate returns how many nano units of the asset one quote unit buys.
// A price of p quote per asset inverts to 1e9/p nano units.
func (s *CoinGeckoSource) Rate(ctx context.Context) (int64, error) {
	url := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=%s",
		s.baseURL, s.assetID, s.currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: status %d", s.PairName(), resp.StatusCode)
	}

	var prices map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return 0, err
	}
	price := prices[s.assetID][s.currency]
	if price <= 0 {
		return 0, fmt.Errorf("%w: %s", errNonPositiveRate, s.PairName())
	}
	return int64(NanoUnitsPerUnit / price), nil
}
