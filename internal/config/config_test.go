package config

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routecommon "github.com/hxuan190/routegraph/internal/common"
)

func TestParsePublicKeyList(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	keys, err := ParsePublicKeyList(" " + a.String() + ",," + b.String() + " ,")
	require.NoError(t, err)
	assert.Equal(t, []solana.PublicKey{a, b}, keys)

	keys, err = ParsePublicKeyList("")
	require.NoError(t, err)
	assert.Nil(t, keys)

	_, err = ParsePublicKeyList("nope")
	assert.Error(t, err)
}

func TestParseIntermediateTokens(t *testing.T) {
	got, err := ParseIntermediateTokens("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseIntermediateTokens("none")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got, err = ParseIntermediateTokens("MAJORS")
	require.NoError(t, err)
	assert.Equal(t, routecommon.MajorIntermediateTokens, got)

	got, err = ParseIntermediateTokens(routecommon.USDCMint.String())
	require.NoError(t, err)
	assert.Equal(t, []solana.PublicKey{routecommon.USDCMint}, got)
}

func TestGraphConfigLoad(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	t.Setenv("GRAPH_DB_PATH", "/tmp/graph.db")
	t.Setenv("GRAPH_POOL_ADDRESSES", pool.String())
	t.Setenv("GRAPH_INTERMEDIATE_TOKENS", "none")
	t.Setenv("GRAPH_REFRESH_INTERVAL", "5m")
	t.Setenv("GRAPH_PERSISTENCE_ENABLED", "false")

	var c GraphConfig
	require.NoError(t, c.Load())
	require.NoError(t, c.Validate())

	assert.Equal(t, "/tmp/graph.db", c.DBPath)
	assert.False(t, c.PersistenceEnabled)
	assert.Equal(t, []solana.PublicKey{pool}, c.PoolAddresses)
	assert.NotNil(t, c.IntermediateTokens)
	assert.Empty(t, c.IntermediateTokens)
	assert.Equal(t, 5*time.Minute, c.RefreshInterval)
}

func TestGraphConfigLoadRejectsBadAddress(t *testing.T) {
	t.Setenv("GRAPH_POOL_ADDRESSES", "bogus")

	var c GraphConfig
	assert.ErrorContains(t, c.Load(), "GRAPH_POOL_ADDRESSES")
}

func TestRPCConfigValidate(t *testing.T) {
	c := RPCConfig{RPCUrl: "http://localhost:8899", BatchSize: 100, RateLimit: 5}
	assert.NoError(t, c.Validate())

	c.BatchSize = 101
	assert.Error(t, c.Validate())

	c = RPCConfig{BatchSize: 10}
	assert.Error(t, c.Validate())
}

func TestGeneralConfigAddr(t *testing.T) {
	c := GeneralConfig{HTTPHost: "0.0.0.0", HTTPPort: "9000"}
	assert.Equal(t, "0.0.0.0:9000", c.Addr())
}
