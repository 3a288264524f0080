package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	// Blockchain settings, resolved once at startup and constant for the
	// session.
	RPCURL          string `envconfig:"RPC_URL" required:"true"`
	ChainID         uint64 `envconfig:"CHAIN_ID" required:"true"`
	ContractAddress string `envconfig:"CONTRACT_ADDRESS" required:"true"`

	// SignerKey is an optional hex-encoded private key. When empty the
	// service runs in read-only mode: browsing works, writes are rejected.
	SignerKey string `envconfig:"SIGNER_PRIVATE_KEY"`

	// Content store settings
	IPFSAPIAddr    string `envconfig:"IPFS_API_ADDR" default:"/ip4/127.0.0.1/tcp/5001"`
	IPFSGatewayURL string `envconfig:"IPFS_GATEWAY_URL" default:"https://gateway.ipfs.io"`

	// ConfirmTimeoutSec bounds how long a write waits for inclusion before
	// the workflow reports a terminal failure.
	ConfirmTimeoutSec int `envconfig:"CONFIRM_TIMEOUT_SEC" default:"120"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("CONTRACT_ADDRESS %q is not a valid address", cfg.ContractAddress)
	}
	return &cfg, nil
}
