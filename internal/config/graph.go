package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrew-solarstorm/go-packages/common"
	"github.com/gagliardetto/solana-go"

	routecommon "github.com/hxuan190/routegraph/internal/common"
)

type GraphConfig struct {
	// DBPath is the bolt file holding the pool snapshot.
	DBPath string

	// PersistenceEnabled controls whether fetched pools are written to DBPath
	// and used to warm-start the graph.
	PersistenceEnabled bool

	// PoolAddresses are the pools the graph is built from.
	PoolAddresses []solana.PublicKey

	// IntermediateTokens is the default allow-list for 2-hop routes. Nil means
	// every token may be an intermediate, an empty slice allows none.
	IntermediateTokens []solana.PublicKey

	// RefreshInterval rebuilds the graph periodically; zero disables it.
	RefreshInterval time.Duration
}

func (c *GraphConfig) Key() string {
	return GRAPH_CONFIG_KEY
}

func (c *GraphConfig) Load() error {
	var err error

	c.DBPath = common.GetEnvOrDefault("GRAPH_DB_PATH", "./data/routegraph.db")
	c.PersistenceEnabled = common.GetEnvOrDefault("GRAPH_PERSISTENCE_ENABLED", "true") == "true"

	c.PoolAddresses, err = ParsePublicKeyList(common.GetEnvOrDefault("GRAPH_POOL_ADDRESSES", ""))
	if err != nil {
		return fmt.Errorf("GRAPH_POOL_ADDRESSES: %w", err)
	}

	c.IntermediateTokens, err = ParseIntermediateTokens(common.GetEnvOrDefault("GRAPH_INTERMEDIATE_TOKENS", ""))
	if err != nil {
		return fmt.Errorf("GRAPH_INTERMEDIATE_TOKENS: %w", err)
	}

	c.RefreshInterval, err = time.ParseDuration(common.GetEnvOrDefault("GRAPH_REFRESH_INTERVAL", "0s"))
	if err != nil {
		return fmt.Errorf("GRAPH_REFRESH_INTERVAL: %w", err)
	}
	return nil
}

func (c *GraphConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return fmt.Errorf("invalid graph config: negative refresh interval")
	}
	if c.PersistenceEnabled && c.DBPath == "" {
		return fmt.Errorf("invalid graph config: GRAPH_DB_PATH is required with persistence")
	}
	return nil
}

// ParsePublicKeyList parses a comma separated base58 list, ignoring blanks.
func ParsePublicKeyList(raw string) ([]solana.PublicKey, error) {
	var keys []solana.PublicKey
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(p)
		if err != nil {
			return nil, fmt.Errorf("invalid public key %q: %w", p, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ParseIntermediateTokens reads an intermediate allow-list setting.
// "" means unrestricted (nil), "none" allows no intermediates and "majors"
// expands to the common quote tokens.
func ParseIntermediateTokens(raw string) ([]solana.PublicKey, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return nil, nil
	case "none":
		return []solana.PublicKey{}, nil
	case routecommon.MajorIntermediateTokensKeyword:
		out := make([]solana.PublicKey, len(routecommon.MajorIntermediateTokens))
		copy(out, routecommon.MajorIntermediateTokens)
		return out, nil
	}

	keys, err := ParsePublicKeyList(raw)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []solana.PublicKey{}
	}
	return keys, nil
}
