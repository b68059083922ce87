package persistence

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/routegraph/internal/domain"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func testPool() *domain.Pool {
	return &domain.Pool{
		Address:          newKey(),
		Type:             domain.PoolTypeWhirlpool,
		ProgramID:        newKey(),
		WhirlpoolsConfig: newKey(),
		TokenMintA:       newKey(),
		TokenMintB:       newKey(),
		TokenVaultA:      newKey(),
		TokenVaultB:      newKey(),
		TickSpacing:      8,
		FeeRate:          500,
		Liquidity:        new(big.Int).Lsh(big.NewInt(1), 100),
		SqrtPriceX64:     big.NewInt(18446744073709551),
		TickCurrentIndex: -42,
		LastUpdatedSlot:  300_000_000,
	}
}

func TestStoredPoolConversion(t *testing.T) {
	pool := testPool()

	data, err := sonic.Marshal(poolToStored(pool))
	require.NoError(t, err)

	var stored StoredPool
	require.NoError(t, sonic.Unmarshal(data, &stored))

	got, err := storedToPool(&stored)
	require.NoError(t, err)

	assert.Equal(t, 0, pool.Liquidity.Cmp(got.Liquidity))
	assert.Equal(t, 0, pool.SqrtPriceX64.Cmp(got.SqrtPriceX64))

	pool.Liquidity, got.Liquidity = nil, nil
	pool.SqrtPriceX64, got.SqrtPriceX64 = nil, nil
	assert.Equal(t, pool, got)
}

func TestStoredPoolNilBigInts(t *testing.T) {
	pool := testPool()
	pool.Liquidity = nil
	pool.SqrtPriceX64 = nil
	pool.TokenVaultA = solana.PublicKey{}

	stored := poolToStored(pool)
	assert.Equal(t, "0", stored.Liquidity)
	assert.Empty(t, stored.TokenVaultA)

	got, err := storedToPool(stored)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Liquidity.Sign())
	assert.True(t, got.TokenVaultA.IsZero())
	assert.False(t, got.HasLiquidity())
}

func TestStoredToPoolRejectsBadKeys(t *testing.T) {
	stored := poolToStored(testPool())
	stored.TokenMintB = "not-a-key"

	_, err := storedToPool(stored)
	assert.ErrorContains(t, err, "tokenMintB")
}

func TestStorageSaveAndLoad(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "nested", "pools.db"))
	require.NoError(t, err)
	defer s.Close()

	single := testPool()
	require.NoError(t, s.SavePools([]*domain.Pool{single}))

	batch := []*domain.Pool{testPool(), nil, testPool()}
	require.NoError(t, s.SavePools(batch))
	require.NoError(t, s.SavePools(nil))

	count, err := s.GetPoolCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	loaded, err := s.LoadAllPools()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	byAddr := make(map[solana.PublicKey]*domain.Pool, len(loaded))
	for _, p := range loaded {
		byAddr[p.Address] = p
	}
	for _, want := range []*domain.Pool{single, batch[0], batch[2]} {
		got := byAddr[want.Address]
		require.NotNil(t, got)
		assert.Equal(t, want.TokenMintA, got.TokenMintA)
		assert.Equal(t, want.TokenMintB, got.TokenMintB)
		assert.Equal(t, 0, want.Liquidity.Cmp(got.Liquidity))
	}
}

func TestStorageOverwritesPool(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "pools.db"))
	require.NoError(t, err)
	defer s.Close()

	pool := testPool()
	require.NoError(t, s.SavePools([]*domain.Pool{pool}))

	pool.LastUpdatedSlot++
	require.NoError(t, s.SavePools([]*domain.Pool{pool}))

	loaded, err := s.LoadAllPools()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, pool.LastUpdatedSlot, loaded[0].LastUpdatedSlot)
}

func TestStorageReplaceDropsStalePools(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "pools.db"))
	require.NoError(t, err)
	defer s.Close()

	kept, stale := testPool(), testPool()
	require.NoError(t, s.ReplacePools([]*domain.Pool{kept, stale}))

	count, err := s.GetPoolCount()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	kept.LastUpdatedSlot++
	require.NoError(t, s.ReplacePools([]*domain.Pool{kept, nil}))

	loaded, err := s.LoadAllPools()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, kept.Address, loaded[0].Address)
	assert.Equal(t, kept.LastUpdatedSlot, loaded[0].LastUpdatedSlot)
}

func TestStorageReplaceWithEmptySetClearsSnapshot(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "pools.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SavePools([]*domain.Pool{testPool(), testPool()}))
	require.NoError(t, s.ReplacePools(nil))

	count, err := s.GetPoolCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	// nothing stored, nothing to write
	require.NoError(t, s.ReplacePools(nil))
}
