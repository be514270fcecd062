// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/chain"
)

const defaultRequestTimeout = 15 * time.Second

var errUnexpectedStatus = errors.New("unexpected response status")

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks JSON over HTTP to a node's wallet API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

type infoResponse struct {
	FullHeight uint64 `json:"fullHeight"`
}

func (c *HTTPClient) CurrentHeight(ctx context.Context) (uint64, error) {
	var info infoResponse
	if err := c.do(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return 0, err
	}
	return info.FullHeight, nil
}

func (c *HTTPClient) UnspentWalletBoxes(ctx context.Context) ([]chain.Box, error) {
	var boxes []chain.Box
	if err := c.do(ctx, http.MethodGet, "/wallet/boxes/unspent", nil, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

type changeGuardResponse struct {
	GuardScript []byte `json:"guardScript"`
}

func (c *HTTPClient) WalletChangeGuard(ctx context.Context) ([]byte, error) {
	var resp changeGuardResponse
	if err := c.do(ctx, http.MethodGet, "/wallet/change-guard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.GuardScript, nil
}

func (c *HTTPClient) SignTransaction(ctx context.Context, unsigned *chain.UnsignedTx) (*chain.Tx, error) {
	var tx chain.Tx
	if err := c.do(ctx, http.MethodPost, "/wallet/transaction/sign", unsigned, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

type submitResponse struct {
	TxID ids.ID `json:"txId"`
}

func (c *HTTPClient) SubmitTransaction(ctx context.Context, tx *chain.Tx) (ids.ID, error) {
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", tx, &resp); err != nil {
		return ids.Empty, err
	}
	return resp.TxID, nil
}

type registerScanResponse struct {
	ScanID uint64 `json:"scanId"`
}

func (c *HTTPClient) RegisterScan(ctx context.Context, scan Scan) (uint64, error) {
	var resp registerScanResponse
	if err := c.do(ctx, http.MethodPost, "/scan/register", scan, &resp); err != nil {
		return 0, err
	}
	return resp.ScanID, nil
}

func (c *HTTPClient) UnspentScanBoxes(ctx context.Context, scanID uint64) ([]chain.Box, error) {
	var boxes []chain.Box
	path := fmt.Sprintf("/scan/unspent-boxes/%d", scanID)
	if err := c.do(ctx, http.MethodGet, path, nil, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: errUnexpectedStatus}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}
