// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"github.com/spf13/pflag"
)

const (
	ConfigKey     = "config"
	DataDirKey    = "data-dir"
	ListenAddrKey = "listen-addr"
	NodeURLKey    = "node-url"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, "oracle.yaml", "Path to the operator configuration")
	flags.String(DataDirKey, "", "Directory for the scan database, overrides the configured value")
	flags.String(ListenAddrKey, "", "Status server address, overrides the configured value")
	flags.String(NodeURLKey, "", "Node API URL, overrides the configured value")
}

type Flags struct {
	ConfigPath string
	DataDir    string
	ListenAddr string
	NodeURL    string
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Flags, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return nil, err
	}

	dataDir, err := flags.GetString(DataDirKey)
	if err != nil {
		return nil, err
	}

	listenAddr, err := flags.GetString(ListenAddrKey)
	if err != nil {
		return nil, err
	}

	nodeURL, err := flags.GetString(NodeURLKey)
	if err != nil {
		return nil, err
	}

	return &Flags{
		ConfigPath: configPath,
		DataDir:    dataDir,
		ListenAddr: listenAddr,
		NodeURL:    nodeURL,
	}, nil
}
