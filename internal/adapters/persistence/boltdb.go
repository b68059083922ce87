package persistence

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	boltdb "github.com/andrew-solarstorm/bolt-db"
	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/routegraph/internal/domain"
)

const (
	PoolsBucket = "pools"

	DefaultDBPath = "./data/routegraph.db"
)

// StoredPool is the on-disk form of a pool. Keys and big integers are kept as
// strings so snapshots stay readable.
type StoredPool struct {
	Address          string `json:"address"`
	Type             uint8  `json:"type"`
	ProgramID        string `json:"programId"`
	WhirlpoolsConfig string `json:"whirlpoolsConfig,omitempty"`
	TokenMintA       string `json:"tokenMintA"`
	TokenMintB       string `json:"tokenMintB"`
	TokenVaultA      string `json:"tokenVaultA,omitempty"`
	TokenVaultB      string `json:"tokenVaultB,omitempty"`
	TickSpacing      uint16 `json:"tickSpacing"`
	FeeRate          uint16 `json:"feeRate"`
	Liquidity        string `json:"liquidity"`
	SqrtPriceX64     string `json:"sqrtPriceX64"`
	TickCurrentIndex int32  `json:"tickCurrentIndex"`
	LastUpdatedSlot  uint64 `json:"lastUpdatedSlot"`
}

// Storage keeps the last fetched pool snapshot so a restart can rebuild the
// graph without touching RPC.
type Storage struct {
	db *boltdb.BoltDatabase
}

func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db := boltdb.NewBoltDatabase(dbPath)
	if db == nil {
		return nil, fmt.Errorf("failed to open database at %s", dbPath)
	}

	log.Info().Str("path", dbPath).Msg("[PoolStorage] opened database")

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePools upserts pools in a single batch. Nil entries are skipped.
func (s *Storage) SavePools(pools []*domain.Pool) error {
	batch := s.db.NewBatch()
	count, err := addPoolWrites(batch, pools)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("count", count).Msg("[PoolStorage] failed to execute batch")
		return err
	}

	log.Info().Int("count", count).Msg("[PoolStorage] saved pool batch")
	return nil
}

// ReplacePools makes the stored snapshot exactly the given set: rows for
// pools not in the set are deleted in the same batch that writes the new ones.
func (s *Storage) ReplacePools(pools []*domain.Pool) error {
	existing, err := s.db.List(PoolsBucket)
	if err != nil {
		return fmt.Errorf("failed to list pools: %w", err)
	}

	keep := make(map[string]struct{}, len(pools))
	for _, pool := range pools {
		if pool != nil {
			keep[pool.Address.String()] = struct{}{}
		}
	}

	batch := s.db.NewBatch()
	removed := 0
	for key := range existing {
		if _, ok := keep[key]; ok {
			continue
		}
		op := &boltdb.WriteOperation{
			Bucket: []byte(PoolsBucket),
			Key:    []byte(key),
			Op:     boltdb.OpDelete,
		}
		if err := batch.Add(op); err != nil {
			return fmt.Errorf("failed to add delete of %s to batch: %w", key, err)
		}
		removed++
	}

	written, err := addPoolWrites(batch, pools)
	if err != nil {
		return err
	}
	if removed == 0 && written == 0 {
		return nil
	}

	if err := batch.Execute(); err != nil {
		log.Error().Err(err).Int("written", written).Int("removed", removed).Msg("[PoolStorage] failed to replace snapshot")
		return err
	}

	log.Info().Int("written", written).Int("removed", removed).Msg("[PoolStorage] replaced pool snapshot")
	return nil
}

func addPoolWrites(batch *boltdb.BoltBatch, pools []*domain.Pool) (int, error) {
	count := 0
	for _, pool := range pools {
		if pool == nil {
			continue
		}
		data, err := sonic.Marshal(poolToStored(pool))
		if err != nil {
			return count, fmt.Errorf("failed to marshal pool %s: %w", pool.Address.String(), err)
		}

		value := data
		op := &boltdb.WriteOperation{
			Bucket: []byte(PoolsBucket),
			Key:    []byte(pool.Address.String()),
			Value:  &value,
			Op:     boltdb.OpSet,
		}
		if err := batch.Add(op); err != nil {
			return count, fmt.Errorf("failed to add pool %s to batch: %w", pool.Address.String(), err)
		}
		count++
	}
	return count, nil
}

// LoadAllPools returns every stored pool. Records that no longer decode are
// logged and skipped.
func (s *Storage) LoadAllPools() ([]*domain.Pool, error) {
	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	pools := make([]*domain.Pool, 0, len(data))
	failed := 0

	for address, value := range data {
		var stored StoredPool
		if err := sonic.Unmarshal(value, &stored); err != nil {
			log.Warn().Str("address", address).Err(err).Msg("[PoolStorage] failed to unmarshal pool, skipping")
			failed++
			continue
		}

		pool, err := storedToPool(&stored)
		if err != nil {
			log.Warn().Str("address", address).Err(err).Msg("[PoolStorage] failed to convert stored pool, skipping")
			failed++
			continue
		}

		pools = append(pools, pool)
	}

	log.Info().
		Int("total_in_db", len(data)).
		Int("loaded", len(pools)).
		Int("failed", failed).
		Msg("[PoolStorage] pool loading completed")

	return pools, nil
}

func (s *Storage) GetPoolCount() (int, error) {
	data, err := s.db.List(PoolsBucket)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func poolToStored(pool *domain.Pool) *StoredPool {
	stored := &StoredPool{
		Address:          pool.Address.String(),
		Type:             uint8(pool.Type),
		ProgramID:        pool.ProgramID.String(),
		TokenMintA:       pool.TokenMintA.String(),
		TokenMintB:       pool.TokenMintB.String(),
		TickSpacing:      pool.TickSpacing,
		FeeRate:          pool.FeeRate,
		Liquidity:        bigIntString(pool.Liquidity),
		SqrtPriceX64:     bigIntString(pool.SqrtPriceX64),
		TickCurrentIndex: pool.TickCurrentIndex,
		LastUpdatedSlot:  pool.LastUpdatedSlot,
	}
	if !pool.WhirlpoolsConfig.IsZero() {
		stored.WhirlpoolsConfig = pool.WhirlpoolsConfig.String()
	}
	if !pool.TokenVaultA.IsZero() {
		stored.TokenVaultA = pool.TokenVaultA.String()
	}
	if !pool.TokenVaultB.IsZero() {
		stored.TokenVaultB = pool.TokenVaultB.String()
	}
	return stored
}

func storedToPool(stored *StoredPool) (*domain.Pool, error) {
	address, err := solana.PublicKeyFromBase58(stored.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	programID, err := solana.PublicKeyFromBase58(stored.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid programId: %w", err)
	}

	tokenMintA, err := solana.PublicKeyFromBase58(stored.TokenMintA)
	if err != nil {
		return nil, fmt.Errorf("invalid tokenMintA: %w", err)
	}

	tokenMintB, err := solana.PublicKeyFromBase58(stored.TokenMintB)
	if err != nil {
		return nil, fmt.Errorf("invalid tokenMintB: %w", err)
	}

	pool := &domain.Pool{
		Address:          address,
		Type:             domain.PoolType(stored.Type),
		ProgramID:        programID,
		TokenMintA:       tokenMintA,
		TokenMintB:       tokenMintB,
		TickSpacing:      stored.TickSpacing,
		FeeRate:          stored.FeeRate,
		Liquidity:        parseBigInt(stored.Liquidity),
		SqrtPriceX64:     parseBigInt(stored.SqrtPriceX64),
		TickCurrentIndex: stored.TickCurrentIndex,
		LastUpdatedSlot:  stored.LastUpdatedSlot,
	}

	// optional accounts, not needed for routing
	if stored.WhirlpoolsConfig != "" {
		pool.WhirlpoolsConfig, _ = solana.PublicKeyFromBase58(stored.WhirlpoolsConfig)
	}
	if stored.TokenVaultA != "" {
		pool.TokenVaultA, _ = solana.PublicKeyFromBase58(stored.TokenVaultA)
	}
	if stored.TokenVaultB != "" {
		pool.TokenVaultB, _ = solana.PublicKeyFromBase58(stored.TokenVaultB)
	}

	return pool, nil
}

func bigIntString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}
