// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/oracle/contracts"
)

// the secp256k1 generator point, compressed
var testOperatorKey, _ = hex.DecodeString(
	"0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")

func validConfig() Config {
	cfg := Default()
	cfg.OperatorKey = testOperatorKey
	cfg.Tokens = contracts.TokenIDs{
		PoolNFT:     ids.GenerateTestID(),
		RefreshNFT:  ids.GenerateTestID(),
		UpdateNFT:   ids.GenerateTestID(),
		OracleToken: ids.GenerateTestID(),
		RewardToken: ids.GenerateTestID(),
		BallotToken: ids.GenerateTestID(),
	}
	cfg.Contracts = contracts.DefaultParameters(
		[]byte{0x01}, []byte{0x02}, []byte{0x03}, []byte{0x04}, []byte{0x05},
	)
	return cfg
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	cfg := validConfig()
	require.NoError(cfg.Verify())

	cfg.NodeURL = ""
	require.ErrorIs(cfg.Verify(), errNoNodeURL)

	cfg = validConfig()
	cfg.OperatorKey = nil
	require.ErrorIs(cfg.Verify(), errNoOperatorKey)

	cfg = validConfig()
	cfg.OperatorKey = []byte{0x02, 0xaa}
	require.ErrorIs(cfg.Verify(), errBadOperator)

	cfg = validConfig()
	cfg.Tokens.RewardToken = ids.Empty
	require.ErrorIs(cfg.Verify(), errMissingToken)

	cfg = validConfig()
	cfg.TickInterval = 0
	require.ErrorIs(cfg.Verify(), errNoTickRate)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	require := require.New(t)

	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "oracle.yaml")
	require.NoError(cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(err)
	require.Equal(cfg, *loaded)
	require.NoError(loaded.Verify())
}

func TestLoadAppliesDefaults(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "oracle.yaml")
	require.NoError(os.WriteFile(path, []byte("node_url: http://node:9053\n"), 0o600))

	loaded, err := Load(path)
	require.NoError(err)
	require.Equal("http://node:9053", loaded.NodeURL)
	require.Equal(Default().TickInterval, loaded.TickInterval)
	require.Equal(Default().BaseFee, loaded.BaseFee)
}

func TestLoadMissingFile(t *testing.T) {
	require := require.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(err)
}
