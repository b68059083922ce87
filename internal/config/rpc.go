package config

import (
	"errors"
	"fmt"

	"github.com/andrew-solarstorm/go-packages/common"
)

const maxRPCBatchSize = 100

type RPCConfig struct {
	RPCUrl string
	// RateLimit is the number of getMultipleAccounts calls per second; 0 disables pacing.
	RateLimit int
	// BatchSize is the number of accounts per call, at most 100.
	BatchSize int
	// PoolCacheSize bounds the decoded pool cache of the fetcher.
	PoolCacheSize int
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = common.GetEnvOrDefault("RPC_URL", "")
	r.RateLimit = common.GetEnvOrDefaultInt("RPC_RATE_LIMIT", 10)
	r.BatchSize = common.GetEnvOrDefaultInt("RPC_BATCH_SIZE", maxRPCBatchSize)
	r.PoolCacheSize = common.GetEnvOrDefaultInt("RPC_POOL_CACHE_SIZE", 10000)
	return nil
}

func (r *RPCConfig) Validate() error {
	if r.RPCUrl == "" {
		return errors.New("invalid rpc config: RPC_URL is required")
	}
	if r.BatchSize < 1 || r.BatchSize > maxRPCBatchSize {
		return fmt.Errorf("invalid rpc config: RPC_BATCH_SIZE must be within 1..%d", maxRPCBatchSize)
	}
	if r.RateLimit < 0 {
		return errors.New("invalid rpc config: RPC_RATE_LIMIT must not be negative")
	}
	return nil
}
