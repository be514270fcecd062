// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads and persists the operator configuration. The
// loaded value is treated as immutable for the process lifetime.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/ids"
	"gopkg.in/yaml.v3"

	"github.com/luxfi/oracle/bootstrap"
	"github.com/luxfi/oracle/contracts"
)

const defaultPerms = 0o600

var (
	errNoNodeURL     = errors.New("node url is required")
	errNoTickRate    = errors.New("tick interval must be positive")
	errMissingToken  = errors.New("token id missing")
	errNoOperatorKey = errors.New("operator key is required")
	errBadOperator   = errors.New("operator key is not a valid compressed public key")
)

type Config struct {
	// NodeURL is the wallet node's API endpoint.
	NodeURL string `yaml:"node_url"`
	APIKey  string `yaml:"api_key,omitempty"`

	// ListenAddr serves the status API; empty disables it.
	ListenAddr string `yaml:"listen_addr,omitempty"`

	TickInterval    time.Duration `yaml:"tick_interval"`
	BackoffInterval time.Duration `yaml:"backoff_interval"`

	// BaseFee is paid by every submitted transaction.
	BaseFee uint64 `yaml:"base_fee"`

	// OperatorKey is the group element identifying this operator's
	// datapoint boxes.
	OperatorKey []byte `yaml:"operator_key"`

	// DataDir holds the scan-id store.
	DataDir string `yaml:"data_dir,omitempty"`

	Tokens    contracts.TokenIDs   `yaml:"tokens"`
	Contracts contracts.Parameters `yaml:"contracts"`

	Bootstrap bootstrap.Config `yaml:"bootstrap,omitempty"`
}

// Default returns a config with working scheduling values; network
// identity and token ids still have to be filled in.
func Default() Config {
	return Config{
		NodeURL:         "http://127.0.0.1:9053",
		ListenAddr:      ":9010",
		TickInterval:    30 * time.Second,
		BackoffInterval: 2 * time.Minute,
		BaseFee:         1_100_000,
		Bootstrap: bootstrap.Config{
			OracleTokenCount:  15,
			BallotTokenCount:  15,
			RewardTokenAmount: 100_000_000,
			BoxValue:          1_000_000,
			Fee:               1_100_000,
			InitialRate:       1,
		},
	}
}

func (c *Config) Verify() error {
	switch {
	case c.NodeURL == "":
		return errNoNodeURL
	case c.TickInterval <= 0 || c.BackoffInterval <= 0:
		return errNoTickRate
	case len(c.OperatorKey) == 0:
		return errNoOperatorKey
	}
	if x, y := secp256k1.DecompressPubkey(c.OperatorKey); x == nil || y == nil {
		return errBadOperator
	}
	for name, tokenID := range map[string]ids.ID{
		"pool_nft":     c.Tokens.PoolNFT,
		"refresh_nft":  c.Tokens.RefreshNFT,
		"oracle_token": c.Tokens.OracleToken,
		"reward_token": c.Tokens.RewardToken,
	} {
		if tokenID == ids.Empty {
			return fmt.Errorf("%w: %s", errMissingToken, name)
		}
	}
	return c.Contracts.Verify()
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, defaultPerms)
}
